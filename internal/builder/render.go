package builder

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/sync/errgroup"

	"github.com/evolute-studio/mage-duel-docs/internal/content"
	"github.com/evolute-studio/mage-duel-docs/internal/model"
)

//go:embed layouts
var defaultLayouts embed.FS

const (
	baseLayout = "base.html"
	docLayout  = "doc.html"
	homeLayout = "home.html"
)

var partialLayouts = []string{"partials/navbar.html", "partials/sidebar.html"}

// layoutSet holds one complete template per page layout.
type layoutSet map[string]*template.Template

// loadLayouts parses the embedded layouts. Files in customDir with the same
// relative name replace the embedded ones.
func loadLayouts(customDir string) (layoutSet, error) {
	read := func(name string) ([]byte, error) {
		if customDir != "" {
			data, err := os.ReadFile(filepath.Join(customDir, filepath.FromSlash(name)))
			if err == nil {
				return data, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read layout %s: %w", name, err)
			}
		}
		return fs.ReadFile(defaultLayouts, path.Join("layouts", name))
	}

	data, err := read(baseLayout)
	if err != nil {
		return nil, fmt.Errorf("failed to load layout %s: %w", baseLayout, err)
	}
	base, err := template.New(baseLayout).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout %s: %w", baseLayout, err)
	}
	for _, name := range partialLayouts {
		data, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load layout %s: %w", name, err)
		}
		if _, err := base.New(name).Parse(string(data)); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
		}
	}

	set := make(layoutSet)
	for _, name := range []string{docLayout, homeLayout} {
		data, err := read(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load layout %s: %w", name, err)
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.New(name).Parse(string(data)); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
		}
		set[name] = t
	}
	return set, nil
}

type renderer struct {
	site    *model.SiteData
	index   *content.Index
	layouts layoutSet
	outDir  string
	logger  zerolog.Logger
}

// renderDocs converts and writes every doc concurrently.
func (r *renderer) renderDocs(ctx context.Context) (int, error) {
	docs := r.index.Docs()
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for _, d := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return r.renderDoc(d)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (r *renderer) renderDoc(d *model.Doc) error {
	var htmlBuffer bytes.Buffer
	md := newMarkdown()
	if err := md.Convert(d.Body, &htmlBuffer, parser.WithContext(newContext(d.SourcePath, r.index))); err != nil {
		return fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", d.SourcePath, err)
	}
	d.ContentHTML = template.HTML(htmlBuffer.String())

	page := model.PageData{
		Site:      r.site.Config,
		Lang:      r.site.Config.I18n.DefaultLocale,
		PageTitle: d.Title + " | " + r.site.Config.Title,
		Doc:       d,
	}
	if sb, ok := r.site.Sidebars.Containing(d.ID); ok {
		page.SidebarID = sb.ID
		page.Sidebar = sidebarNodes(r.site, sb.Items, d.ID)
		prev, ok := sb.Prev(d.ID)
		page.Prev = pageLink(r.site, prev, ok)
		next, ok := sb.Next(d.ID)
		page.Next = pageLink(r.site, next, ok)
	}
	page.Navbar = navbarLinks(r.site, page.SidebarID)

	return r.write(docLayout, outputPath(r.site.Config, d.Permalink), page)
}

func (r *renderer) renderHome() error {
	page := model.PageData{
		Site:      r.site.Config,
		Lang:      r.site.Config.I18n.DefaultLocale,
		PageTitle: r.site.Config.Title,
		Navbar:    navbarLinks(r.site, ""),
		Sections:  sections(r.site),
	}
	if page.Site.Tagline != "" {
		page.PageTitle += " | " + page.Site.Tagline
	}
	return r.write(homeLayout, "index.html", page)
}

// write executes a layout and atomically replaces the output file.
func (r *renderer) write(layout, rel string, page model.PageData) error {
	t, ok := r.layouts[layout]
	if !ok {
		return fmt.Errorf("layout '%s' not found", layout)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, baseLayout, page); err != nil {
		return fmt.Errorf("failed to execute template '%s' for '%s': %w", layout, rel, err)
	}

	outputPath := filepath.Join(r.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(outputPath), err)
	}
	if err := renameio.WriteFile(outputPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", outputPath, err)
	}
	r.logger.Debug().Str("path", rel).Str("layout", layout).Msg("page written")
	return nil
}
