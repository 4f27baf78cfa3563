package model

import "github.com/evolute-studio/mage-duel-docs/internal/site"

// PageData is the template context for every rendered page.
type PageData struct {
	Site      *site.Config
	Lang      string
	PageTitle string
	Doc       *Doc // nil on the home page

	SidebarID string
	Sidebar   []NavNode
	Navbar    []NavLink
	Prev      *NavLink
	Next      *NavLink

	// Home page only.
	Sections []NavLink
}

// NavLink is a resolved link in the navbar or pagination.
type NavLink struct {
	Label     string
	Href      string
	Position  string
	ClassName string
	AriaLabel string
	External  bool
	Active    bool
}

// NavNode is a rendered sidebar entry. Categories have children.
type NavNode struct {
	Label       string
	Href        string
	Active      bool
	Category    bool
	Collapsible bool
	Collapsed   bool
	Children    []NavNode
}

// LeftNavbar returns the navbar links on the left.
func (p PageData) LeftNavbar() []NavLink {
	return p.navbarAt("left")
}

// RightNavbar returns the navbar links on the right.
func (p PageData) RightNavbar() []NavLink {
	return p.navbarAt("right")
}

func (p PageData) navbarAt(position string) []NavLink {
	var out []NavLink
	for _, l := range p.Navbar {
		if l.Position == position {
			out = append(out, l)
		}
	}
	return out
}
