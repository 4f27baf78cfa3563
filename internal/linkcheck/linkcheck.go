// Package linkcheck finds references that do not resolve and reports them
// according to the configured tolerance.
package linkcheck

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/rs/zerolog"

	"github.com/evolute-studio/mage-duel-docs/internal/model"
	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
	"github.com/evolute-studio/mage-duel-docs/internal/site"
)

// Kind names the place a broken reference was found.
type Kind string

const (
	KindSidebarDoc   Kind = "sidebar-doc"
	KindCategoryLink Kind = "category-link"
	KindNavbar       Kind = "navbar"
	KindMarkdown     Kind = "markdown-link"
	KindPage         Kind = "page-link"
)

// Broken is a reference whose target does not exist.
type Broken struct {
	Kind   Kind
	Source string // where the reference was declared
	Target string // what it points at
}

func (b Broken) String() string {
	return fmt.Sprintf("%s: %s -> %s", b.Kind, b.Source, b.Target)
}

// Resolver answers whether a doc id exists.
type Resolver interface {
	Has(id string) bool
}

// PathResolver answers whether a content file exists at a source path.
type PathResolver interface {
	HasPath(p string) bool
}

// Sidebars checks that every doc reference in the sidebars resolves. Each
// broken occurrence yields exactly one entry.
func Sidebars(sb sidebar.Sidebars, docs Resolver) []Broken {
	var broken []Broken
	for _, ref := range sb.Refs() {
		if docs.Has(ref.DocID) {
			continue
		}
		kind := KindSidebarDoc
		if ref.CategoryLink {
			kind = KindCategoryLink
		}
		broken = append(broken, Broken{Kind: kind, Source: ref.Location(), Target: ref.DocID})
	}
	return broken
}

// Navbar checks that navbar items pointing into the docs resolve.
func Navbar(cfg *site.Config, sb sidebar.Sidebars, docs Resolver) []Broken {
	var broken []Broken
	for i, item := range cfg.Theme.Navbar.Items {
		source := fmt.Sprintf("navbar[%d]", i)
		if item.Label != "" {
			source = fmt.Sprintf("navbar %q", item.Label)
		}
		switch item.Kind() {
		case site.NavbarDocSidebar:
			if _, ok := sb.Lookup(item.SidebarID); !ok {
				broken = append(broken, Broken{Kind: KindNavbar, Source: source, Target: "sidebar " + item.SidebarID})
			}
		case site.NavbarDoc:
			if !docs.Has(item.DocID) {
				broken = append(broken, Broken{Kind: KindNavbar, Source: source, Target: item.DocID})
			}
		}
	}
	return broken
}

// MarkdownLink is an outgoing link of one source file.
type MarkdownLink struct {
	Source string // slash-separated source path of the linking file
	Dest   string // raw destination
}

// LinksOf collects the outgoing links of docs in the given order.
func LinksOf(docs []*model.Doc) []MarkdownLink {
	var links []MarkdownLink
	for _, d := range docs {
		for _, dest := range d.Links {
			links = append(links, MarkdownLink{Source: d.SourcePath, Dest: dest})
		}
	}
	return links
}

// Markdown checks relative links to Markdown files. Other links are left to
// the page check after rendering.
func Markdown(links []MarkdownLink, files PathResolver) []Broken {
	var broken []Broken
	for _, l := range links {
		target, ok := MarkdownTarget(l.Source, l.Dest)
		if !ok {
			continue
		}
		if !files.HasPath(target) {
			broken = append(broken, Broken{Kind: KindMarkdown, Source: l.Source, Target: l.Dest})
		}
	}
	return broken
}

// MarkdownTarget resolves dest relative to the linking file when dest is a
// relative link to a Markdown file. It returns false for anything else.
func MarkdownTarget(source, dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "" {
		return "", false
	}
	ext := strings.ToLower(path.Ext(u.Path))
	if ext != ".md" && ext != ".mdx" {
		return "", false
	}
	if strings.HasPrefix(u.Path, "/") {
		return path.Clean(strings.TrimPrefix(u.Path, "/")), true
	}
	return path.Join(path.Dir(source), u.Path), true
}

// BrokenLinksError is returned when the policy makes broken references fatal.
type BrokenLinksError struct {
	Broken []Broken
}

func (e *BrokenLinksError) Error() string {
	if len(e.Broken) == 1 {
		return "broken link: " + e.Broken[0].String()
	}
	return fmt.Sprintf("%d broken links, first: %s", len(e.Broken), e.Broken[0].String())
}

// Report logs broken references according to policy. Only PolicyThrow turns
// them into an error.
func Report(logger zerolog.Logger, policy site.Policy, broken []Broken) error {
	if len(broken) == 0 || policy == site.PolicyIgnore {
		return nil
	}
	for _, b := range broken {
		var ev *zerolog.Event
		switch policy {
		case site.PolicyLog:
			ev = logger.Info()
		case site.PolicyThrow:
			ev = logger.Error()
		default:
			ev = logger.Warn()
		}
		ev.Str("kind", string(b.Kind)).
			Str("source", b.Source).
			Str("target", b.Target).
			Msg("broken link")
	}
	if policy.Fatal() {
		return &BrokenLinksError{Broken: broken}
	}
	return nil
}
