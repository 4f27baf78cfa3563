package builder

import (
	"path"
	"strings"

	"github.com/evolute-studio/mage-duel-docs/internal/model"
	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
	"github.com/evolute-studio/mage-duel-docs/internal/site"
)

// Permalink returns the URL path of a doc. A frontmatter slug starting with
// "/" is taken from the route base; a relative slug replaces the file name.
func Permalink(cfg *site.Config, d *model.Doc) string {
	route := path.Join(cfg.BaseURL, cfg.Docs.RouteBasePath)
	var p string
	switch {
	case strings.HasPrefix(d.Slug, "/"):
		p = path.Join(route, d.Slug)
	case d.Slug != "":
		p = path.Join(route, path.Dir(d.ID), d.Slug)
	default:
		p = path.Join(route, d.ID)
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// outputPath maps a permalink to the file that serves it, relative to the
// output directory.
func outputPath(cfg *site.Config, permalink string) string {
	rel := strings.TrimPrefix(permalink, cfg.BaseURL)
	return path.Join(rel, "index.html")
}

// sidebarNodes renders a sidebar with current marked active. Categories on
// the path to the active doc are never collapsed.
func sidebarNodes(data *model.SiteData, items []sidebar.Item, current string) []model.NavNode {
	nodes := make([]model.NavNode, 0, len(items))
	for _, it := range items {
		switch it.Type {
		case sidebar.TypeDoc:
			node := model.NavNode{Label: it.Label, Active: it.ID == current}
			if d, ok := data.Doc(it.ID); ok {
				node.Href = d.Permalink
				if node.Label == "" {
					node.Label = d.Label()
				}
			}
			if node.Label == "" {
				node.Label = it.ID
			}
			nodes = append(nodes, node)

		case sidebar.TypeCategory:
			opts := data.Config.Docs
			node := model.NavNode{
				Label:       it.Label,
				Category:    true,
				Collapsible: opts.SidebarCollapsible,
				Collapsed:   opts.SidebarCollapsed,
				Children:    sidebarNodes(data, it.Items, current),
			}
			if it.Collapsible != nil {
				node.Collapsible = *it.Collapsible
			}
			if it.Collapsed != nil {
				node.Collapsed = *it.Collapsed
			}
			if it.Link != nil {
				if d, ok := data.Doc(it.Link.ID); ok {
					node.Href = d.Permalink
				}
				node.Active = it.Link.ID == current
			}
			if !node.Collapsible || node.Active || containsActive(node.Children) {
				node.Collapsed = false
			}
			nodes = append(nodes, node)
		}
	}
	return nodes
}

func containsActive(nodes []model.NavNode) bool {
	for _, n := range nodes {
		if n.Active || containsActive(n.Children) {
			return true
		}
	}
	return false
}

// navbarLinks resolves the navbar items. activeSidebar marks the docSidebar
// item of the page being rendered. A docSidebar item links to the first page
// of its sidebar that has content and has no href when there is none.
func navbarLinks(data *model.SiteData, activeSidebar string) []model.NavLink {
	cfg := data.Config
	links := make([]model.NavLink, 0, len(cfg.Theme.Navbar.Items))
	for _, item := range cfg.Theme.Navbar.Items {
		link := model.NavLink{
			Label:     item.Label,
			Position:  item.Position,
			ClassName: item.ClassName,
			AriaLabel: item.AriaLabel,
		}
		switch item.Kind() {
		case site.NavbarDocSidebar:
			link.Active = item.SidebarID == activeSidebar
			if sb, ok := data.Sidebars.Lookup(item.SidebarID); ok {
				if d, ok := data.FirstPage(sb); ok {
					link.Href = d.Permalink
				}
			}
		case site.NavbarDoc:
			if d, ok := data.Doc(item.DocID); ok {
				link.Href = d.Permalink
				if link.Label == "" {
					link.Label = d.Label()
				}
			}
		default:
			switch {
			case item.IsExternal():
				link.Href = item.Href
				link.External = true
			case item.To != "":
				link.Href = sitePath(cfg, item.To)
			}
		}
		links = append(links, link)
	}
	return links
}

// sitePath prefixes an absolute site path with the base URL.
func sitePath(cfg *site.Config, to string) string {
	if cfg.BaseURL == "/" || strings.HasPrefix(to, cfg.BaseURL) {
		return to
	}
	return strings.TrimSuffix(cfg.BaseURL, "/") + to
}

// pageLink builds a pagination link to a doc.
func pageLink(data *model.SiteData, id string, ok bool) *model.NavLink {
	if !ok {
		return nil
	}
	d, found := data.Doc(id)
	if !found {
		return nil
	}
	return &model.NavLink{Label: d.Label(), Href: d.Permalink}
}

// sections lists the entry points of the sidebars for the home page, labelled
// after the navbar item pointing at them when there is one.
func sections(data *model.SiteData) []model.NavLink {
	labels := make(map[string]model.NavLink)
	for _, item := range data.Config.Theme.Navbar.Items {
		if item.Kind() == site.NavbarDocSidebar {
			labels[item.SidebarID] = model.NavLink{Label: item.Label, ClassName: item.ClassName}
		}
	}
	var out []model.NavLink
	for _, sb := range data.Sidebars {
		d, ok := data.FirstPage(sb)
		if !ok {
			continue
		}
		link := labels[sb.ID]
		if link.Label == "" {
			link.Label = sb.ID
		}
		link.Href = d.Permalink
		out = append(out, link)
	}
	return out
}
