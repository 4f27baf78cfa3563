// Package content indexes the Markdown documents of the docs tree.
package content

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/evolute-studio/mage-duel-docs/internal/model"
)

var extensions = []string{".md", ".mdx"}

// Index maps doc ids and source paths to documents.
type Index struct {
	docs   map[string]*model.Doc
	byPath map[string]*model.Doc
}

// Load walks fsys and indexes every Markdown document. Files and directories
// whose name starts with "_" or "." are skipped.
func Load(fsys fs.FS) (*Index, error) {
	idx := &Index{
		docs:   make(map[string]*model.Doc),
		byPath: make(map[string]*model.Doc),
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s': %w", p, walkErr)
		}
		if p != "." && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", p, err)
		}
		doc, err := parseDoc(md, p, data)
		if err != nil {
			return err
		}
		if prev, ok := idx.docs[doc.ID]; ok {
			return fmt.Errorf("duplicate doc id %q declared by %s and %s", doc.ID, prev.SourcePath, doc.SourcePath)
		}
		idx.docs[doc.ID] = doc
		idx.byPath[doc.SourcePath] = doc
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error indexing content: %w", err)
	}
	return idx, nil
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func parseDoc(md goldmark.Markdown, p string, data []byte) (*model.Doc, error) {
	fm := make(map[string]interface{})
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter in %s: %w", p, err)
	}

	doc := &model.Doc{
		ID:           strings.TrimSuffix(p, path.Ext(p)),
		SourcePath:   p,
		Body:         body,
		Frontmatter:  fm,
		Title:        stringField(fm, "title"),
		SidebarLabel: stringField(fm, "sidebar_label"),
		Description:  stringField(fm, "description"),
		Slug:         stringField(fm, "slug"),
	}
	if id := stringField(fm, "id"); id != "" {
		if strings.Contains(id, "/") {
			return nil, fmt.Errorf("frontmatter id %q in %s must not contain '/'", id, p)
		}
		dir := path.Dir(p)
		if dir == "." {
			doc.ID = id
		} else {
			doc.ID = dir + "/" + id
		}
	}

	root := md.Parser().Parse(text.NewReader(body))
	heading := ""
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && heading == "" {
				heading = nodeText(node, body)
			}
		case *ast.Link:
			doc.Links = append(doc.Links, string(node.Destination))
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", p, err)
	}

	doc.TitleInBody = heading != ""
	if doc.Title == "" {
		doc.Title = heading
	}
	if doc.Title == "" {
		base := strings.TrimSuffix(path.Base(p), path.Ext(p))
		base = strings.ReplaceAll(strings.ReplaceAll(base, "-", " "), "_", " ")
		doc.Title = cases.Title(language.English).String(base)
	}
	return doc, nil
}

func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

func stringField(fm map[string]interface{}, key string) string {
	if v, ok := fm[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Has reports whether a doc with the given id exists.
func (x *Index) Has(id string) bool {
	_, ok := x.docs[id]
	return ok
}

// Get returns the doc with the given id.
func (x *Index) Get(id string) (*model.Doc, bool) {
	d, ok := x.docs[id]
	return d, ok
}

// ByPath returns the doc stored at the slash-separated source path.
func (x *Index) ByPath(p string) (*model.Doc, bool) {
	d, ok := x.byPath[path.Clean(p)]
	return d, ok
}

// HasPath reports whether a doc is stored at the source path.
func (x *Index) HasPath(p string) bool {
	_, ok := x.ByPath(p)
	return ok
}

// Docs returns all docs ordered by id.
func (x *Index) Docs() []*model.Doc {
	docs := make([]*model.Doc, 0, len(x.docs))
	for _, d := range x.docs {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs
}

// Map returns the docs keyed by id. The map is shared with the index.
func (x *Index) Map() map[string]*model.Doc {
	return x.docs
}

// Len returns the number of indexed docs.
func (x *Index) Len() int {
	return len(x.docs)
}
