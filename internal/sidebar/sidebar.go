// Package sidebar models the navigation trees of the documentation sections.
//
// A sidebar is an ordered list of items. An item is either a reference to a
// document or a labelled category holding further items. Authored order is
// significant: it drives both the rendered sidebar and prev/next navigation.
package sidebar

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// ItemType discriminates sidebar items.
type ItemType string

const (
	TypeDoc      ItemType = "doc"
	TypeCategory ItemType = "category"
)

// Item is a node of a sidebar tree.
type Item struct {
	Type  ItemType
	ID    string // doc id, set for TypeDoc
	Label string // optional for docs, required for categories

	// Category fields.
	Link        *Link
	Collapsible *bool
	Collapsed   *bool
	Items       []Item
}

// Link attaches a document to a category.
type Link struct {
	Type string `yaml:"type"`
	ID   string `yaml:"id"`
}

// Doc returns a doc reference item.
func Doc(id string) Item {
	return Item{Type: TypeDoc, ID: id}
}

// Category returns a category item.
func Category(label string, items ...Item) Item {
	return Item{Type: TypeCategory, Label: label, Items: items}
}

type rawItem struct {
	Type        ItemType `yaml:"type,omitempty"`
	ID          string   `yaml:"id,omitempty"`
	Label       string   `yaml:"label,omitempty"`
	Link        *Link    `yaml:"link,omitempty"`
	Collapsible *bool    `yaml:"collapsible,omitempty"`
	Collapsed   *bool    `yaml:"collapsed,omitempty"`
	Items       []Item   `yaml:"items,omitempty"`
}

// UnmarshalYAML accepts either a bare doc id or a mapping.
func (it *Item) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var id string
	if err := unmarshal(&id); err == nil {
		*it = Doc(id)
		return nil
	}

	var raw rawItem
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*it = Item{
		Type:        raw.Type,
		ID:          raw.ID,
		Label:       raw.Label,
		Link:        raw.Link,
		Collapsible: raw.Collapsible,
		Collapsed:   raw.Collapsed,
		Items:       raw.Items,
	}
	return nil
}

// MarshalYAML writes doc references without a label in the short form.
func (it Item) MarshalYAML() (interface{}, error) {
	if it.Type == TypeDoc && it.Label == "" {
		return it.ID, nil
	}
	return rawItem{
		Type:        it.Type,
		ID:          it.ID,
		Label:       it.Label,
		Link:        it.Link,
		Collapsible: it.Collapsible,
		Collapsed:   it.Collapsed,
		Items:       it.Items,
	}, nil
}

// Sidebar is one named navigation tree.
type Sidebar struct {
	ID    string
	Items []Item
}

// Sidebars are all declared trees, in declaration order.
type Sidebars []Sidebar

// Load reads a sidebars file.
func Load(filename string) (Sidebars, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading sidebars file %s: %w", filename, err)
	}
	sb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing sidebars file %s: %w", filename, err)
	}
	return sb, nil
}

// Parse decodes a YAML mapping of sidebar id to items, keeping key order.
// Repeated ids are kept for Validate to report.
func Parse(data []byte) (Sidebars, error) {
	var order yaml.MapSlice
	if err := yaml.Unmarshal(data, &order); err != nil {
		return nil, err
	}

	sidebars := make(Sidebars, 0, len(order))
	for _, entry := range order {
		id, ok := entry.Key.(string)
		if !ok {
			return nil, fmt.Errorf("sidebar id %v is not a string", entry.Key)
		}

		// Round-trip the value through YAML to decode it into typed items.
		raw, err := yaml.Marshal(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("sidebar %s: %w", id, err)
		}
		var items []Item
		if err := yaml.UnmarshalStrict(raw, &items); err != nil {
			return nil, fmt.Errorf("sidebar %s: %w", id, err)
		}
		sidebars = append(sidebars, Sidebar{ID: id, Items: items})
	}
	return sidebars, nil
}

// Marshal encodes sidebars back to YAML in declaration order.
func (s Sidebars) Marshal() ([]byte, error) {
	out := make(yaml.MapSlice, 0, len(s))
	for _, sb := range s {
		out = append(out, yaml.MapItem{Key: sb.ID, Value: sb.Items})
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Lookup returns the sidebar with the given id.
func (s Sidebars) Lookup(id string) (Sidebar, bool) {
	for _, sb := range s {
		if sb.ID == id {
			return sb, true
		}
	}
	return Sidebar{}, false
}

// IDs returns the sidebar ids in declaration order.
func (s Sidebars) IDs() []string {
	ids := make([]string, len(s))
	for i, sb := range s {
		ids[i] = sb.ID
	}
	return ids
}

// Containing returns the first sidebar that references docID.
func (s Sidebars) Containing(docID string) (Sidebar, bool) {
	for _, sb := range s {
		for _, id := range sb.Pages() {
			if id == docID {
				return sb, true
			}
		}
	}
	return Sidebar{}, false
}

// WalkFunc is called for every item. path holds the labels of the enclosing
// categories, outermost first.
type WalkFunc func(path []string, item Item) error

// Walk visits items depth first, in authored order.
func (sb Sidebar) Walk(fn WalkFunc) error {
	return walk(nil, sb.Items, fn)
}

func walk(path []string, items []Item, fn WalkFunc) error {
	for _, it := range items {
		if err := fn(path, it); err != nil {
			return err
		}
		if it.Type == TypeCategory {
			child := append(append([]string(nil), path...), it.Label)
			if err := walk(child, it.Items, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Ref is one occurrence of a doc id inside a sidebar.
type Ref struct {
	Sidebar string
	Path    []string // enclosing category labels
	DocID   string
	// CategoryLink is set when the reference is a category's linked doc.
	CategoryLink bool
}

// Location renders the position of the reference for diagnostics.
func (r Ref) Location() string {
	if len(r.Path) == 0 {
		return r.Sidebar
	}
	return r.Sidebar + " > " + strings.Join(r.Path, " > ")
}

// Refs lists every doc reference in authored order. A doc referenced twice is
// listed twice.
func (sb Sidebar) Refs() []Ref {
	var refs []Ref
	_ = sb.Walk(func(path []string, it Item) error {
		switch it.Type {
		case TypeDoc:
			refs = append(refs, Ref{Sidebar: sb.ID, Path: path, DocID: it.ID})
		case TypeCategory:
			if it.Link != nil && it.Link.ID != "" {
				inner := append(append([]string(nil), path...), it.Label)
				refs = append(refs, Ref{Sidebar: sb.ID, Path: inner, DocID: it.Link.ID, CategoryLink: true})
			}
		}
		return nil
	})
	return refs
}

// Refs lists the references of all sidebars.
func (s Sidebars) Refs() []Ref {
	var refs []Ref
	for _, sb := range s {
		refs = append(refs, sb.Refs()...)
	}
	return refs
}

// DocIDs returns the distinct doc ids across all sidebars, in first-seen order.
func (s Sidebars) DocIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range s.Refs() {
		if !seen[r.DocID] {
			seen[r.DocID] = true
			ids = append(ids, r.DocID)
		}
	}
	return ids
}

// Pages returns the reading order of the sidebar: a category's linked doc
// comes before its children. Repeated ids keep their first position.
func (sb Sidebar) Pages() []string {
	seen := make(map[string]bool)
	var pages []string
	for _, r := range sb.Refs() {
		if !seen[r.DocID] {
			seen[r.DocID] = true
			pages = append(pages, r.DocID)
		}
	}
	return pages
}

// First returns the first page of the sidebar accepted by has. A nil has
// accepts every page.
func (sb Sidebar) First(has func(id string) bool) (string, bool) {
	for _, id := range sb.Pages() {
		if has == nil || has(id) {
			return id, true
		}
	}
	return "", false
}

// Prev returns the page before docID in reading order.
func (sb Sidebar) Prev(docID string) (string, bool) {
	pages := sb.Pages()
	for i, id := range pages {
		if id == docID {
			if i == 0 {
				return "", false
			}
			return pages[i-1], true
		}
	}
	return "", false
}

// Next returns the page after docID in reading order.
func (sb Sidebar) Next(docID string) (string, bool) {
	pages := sb.Pages()
	for i, id := range pages {
		if id == docID {
			if i == len(pages)-1 {
				return "", false
			}
			return pages[i+1], true
		}
	}
	return "", false
}
