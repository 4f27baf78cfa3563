package builder

import (
	"net/url"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/evolute-studio/mage-duel-docs/internal/content"
	"github.com/evolute-studio/mage-duel-docs/internal/linkcheck"
)

var (
	sourceKey = parser.NewContextKey()
	indexKey  = parser.NewContextKey()
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(linkRewriter{}, 100)),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
}

// newContext carries the source path of the doc being converted and the
// index used to resolve its links.
func newContext(source string, idx *content.Index) parser.Context {
	pc := parser.NewContext()
	pc.Set(sourceKey, source)
	pc.Set(indexKey, idx)
	return pc
}

// linkRewriter points relative links to Markdown files at the permalink of
// the target doc. Unresolvable links are left untouched.
type linkRewriter struct{}

func (linkRewriter) Transform(node *ast.Document, _ text.Reader, pc parser.Context) {
	source, _ := pc.Get(sourceKey).(string)
	idx, _ := pc.Get(indexKey).(*content.Index)
	if idx == nil {
		return
	}
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		link, ok := n.(*ast.Link)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		if href, ok := resolveLink(idx, source, string(link.Destination)); ok {
			link.Destination = []byte(href)
		}
		return ast.WalkContinue, nil
	})
}

func resolveLink(idx *content.Index, source, dest string) (string, bool) {
	target, ok := linkcheck.MarkdownTarget(source, dest)
	if !ok {
		return "", false
	}
	doc, ok := idx.ByPath(target)
	if !ok || doc.Permalink == "" {
		return "", false
	}
	href := doc.Permalink
	if u, err := url.Parse(dest); err == nil && u.Fragment != "" {
		href += "#" + u.Fragment
	}
	return href, true
}
