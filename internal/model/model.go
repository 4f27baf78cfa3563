package model

import (
	"html/template"

	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
	"github.com/evolute-studio/mage-duel-docs/internal/site"
)

// Doc is a single content unit addressable by its id.
type Doc struct {
	ID           string
	Title        string
	SidebarLabel string
	Description  string
	Slug         string
	SourcePath   string // slash-separated, relative to the content root
	Permalink    string
	Body         []byte // Markdown without frontmatter
	TitleInBody  bool   // the body has its own level 1 heading
	ContentHTML  template.HTML
	Frontmatter  map[string]interface{}
	Links        []string // raw Markdown link destinations, in document order
}

// Label is the text used for the doc in navigation.
func (d *Doc) Label() string {
	if d.SidebarLabel != "" {
		return d.SidebarLabel
	}
	return d.Title
}

// SiteData holds the declarations and content for one build.
type SiteData struct {
	Config   *site.Config
	Sidebars sidebar.Sidebars
	Docs     map[string]*Doc
}

// Doc returns the doc with the given id.
func (s *SiteData) Doc(id string) (*Doc, bool) {
	d, ok := s.Docs[id]
	return d, ok
}

// Has reports whether a doc with the given id exists.
func (s *SiteData) Has(id string) bool {
	_, ok := s.Docs[id]
	return ok
}

// FirstPage returns the first page of sb that has content.
func (s *SiteData) FirstPage(sb sidebar.Sidebar) (*Doc, bool) {
	id, ok := sb.First(s.Has)
	if !ok {
		return nil, false
	}
	return s.Doc(id)
}
