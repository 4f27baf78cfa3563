// Package site holds the site metadata: title, URLs, locales, theme and navbar.
package site

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/evolute-studio/mage-duel-docs/internal/validate"
)

// Config is the site metadata declared in site.yaml.
type Config struct {
	Title   string `yaml:"title"`
	Tagline string `yaml:"tagline"`
	Favicon string `yaml:"favicon"`
	URL     string `yaml:"url"`
	BaseURL string `yaml:"baseUrl"`

	OnBrokenLinks         Policy `yaml:"onBrokenLinks"`
	OnBrokenMarkdownLinks Policy `yaml:"onBrokenMarkdownLinks"`

	I18n  I18n        `yaml:"i18n"`
	Docs  DocsOptions `yaml:"docs"`
	Theme Theme       `yaml:"theme"`
}

type I18n struct {
	DefaultLocale string   `yaml:"defaultLocale"`
	Locales       []string `yaml:"locales"`
}

// DocsOptions configures the docs section.
type DocsOptions struct {
	RouteBasePath      string `yaml:"routeBasePath"`
	SidebarCollapsible bool   `yaml:"sidebarCollapsible"`
	SidebarCollapsed   bool   `yaml:"sidebarCollapsed"`
	EditURL            string `yaml:"editUrl"`
}

type Theme struct {
	CustomCSS string    `yaml:"customCss"`
	ColorMode ColorMode `yaml:"colorMode"`
	Navbar    Navbar    `yaml:"navbar"`
	Prism     Prism     `yaml:"prism"`
}

type ColorMode struct {
	DefaultMode               string `yaml:"defaultMode"`
	DisableSwitch             bool   `yaml:"disableSwitch"`
	RespectPrefersColorScheme bool   `yaml:"respectPrefersColorScheme"`
}

type Navbar struct {
	Title string       `yaml:"title"`
	Logo  Logo         `yaml:"logo"`
	Items []NavbarItem `yaml:"items"`
}

type Logo struct {
	Alt string `yaml:"alt"`
	Src string `yaml:"src"`
}

// Prism settings are passed through to the rendered pages untouched.
type Prism struct {
	Theme               string   `yaml:"theme"`
	DarkTheme           string   `yaml:"darkTheme"`
	AdditionalLanguages []string `yaml:"additionalLanguages"`
}

// Navbar item types.
const (
	NavbarDocSidebar = "docSidebar"
	NavbarDoc        = "doc"
	NavbarLink       = "link"
)

// NavbarItem is a single header link.
type NavbarItem struct {
	Type      string `yaml:"type"`
	SidebarID string `yaml:"sidebarId"`
	DocID     string `yaml:"docId"`
	To        string `yaml:"to"`
	Href      string `yaml:"href"`
	Label     string `yaml:"label"`
	Position  string `yaml:"position"`
	ClassName string `yaml:"className"`
	AriaLabel string `yaml:"aria-label"`
}

// Kind returns the item type, defaulting to a plain link.
func (n NavbarItem) Kind() string {
	if n.Type == "" {
		return NavbarLink
	}
	return n.Type
}

// IsExternal reports whether the item points off-site.
func (n NavbarItem) IsExternal() bool {
	return n.Kind() == NavbarLink && n.Href != ""
}

// Load reads and decodes the site metadata file. Unknown keys are rejected.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading site file %s: %w", filename, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("error unmarshalling site file %s: %w", filename, err)
	}
	return cfg, nil
}

// Parse decodes site metadata and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(bytes.TrimSpace(data), &cfg); err != nil {
		return nil, err
	}
	cfg.Default()
	return &cfg, nil
}

// Default fills unset fields.
func (c *Config) Default() {
	if c.BaseURL == "" {
		c.BaseURL = "/"
	}
	if c.OnBrokenLinks == "" {
		c.OnBrokenLinks = PolicyWarn
	}
	if c.OnBrokenMarkdownLinks == "" {
		c.OnBrokenMarkdownLinks = PolicyWarn
	}
	if c.I18n.DefaultLocale == "" {
		c.I18n.DefaultLocale = "en"
	}
	if len(c.I18n.Locales) == 0 {
		c.I18n.Locales = []string{c.I18n.DefaultLocale}
	}
	if c.Docs.RouteBasePath == "" {
		c.Docs.RouteBasePath = "docs"
	}
	if c.Theme.ColorMode.DefaultMode == "" {
		c.Theme.ColorMode.DefaultMode = "light"
	}
	for i := range c.Theme.Navbar.Items {
		if c.Theme.Navbar.Items[i].Position == "" {
			c.Theme.Navbar.Items[i].Position = "left"
		}
	}
}

// Validate checks the metadata schema. Sidebar and doc existence for navbar
// items is a link concern and is left to the link checker.
func (c *Config) Validate() error {
	v := validate.New()

	v.Required("title", c.Title)
	v.URL("url", c.URL, []string{"http", "https"})
	v.PathPrefix("baseUrl", c.BaseURL)
	v.OneOf("onBrokenLinks", string(c.OnBrokenLinks), policyNames())
	v.OneOf("onBrokenMarkdownLinks", string(c.OnBrokenMarkdownLinks), policyNames())

	v.Locale("i18n.defaultLocale", c.I18n.DefaultLocale)
	seen := make(map[string]bool, len(c.I18n.Locales))
	for i, loc := range c.I18n.Locales {
		field := fmt.Sprintf("i18n.locales[%d]", i)
		v.Locale(field, loc)
		if seen[loc] {
			v.AddError(field, "duplicate locale", loc)
		}
		seen[loc] = true
	}
	if c.I18n.DefaultLocale != "" && !c.HasLocale(c.I18n.DefaultLocale) {
		v.AddError("i18n.defaultLocale", fmt.Sprintf("must be one of the declared locales %v", c.I18n.Locales), c.I18n.DefaultLocale)
	}

	if strings.Trim(c.Docs.RouteBasePath, "/") != c.Docs.RouteBasePath {
		v.AddError("docs.routeBasePath", "must not start or end with '/'", c.Docs.RouteBasePath)
	}
	if c.Docs.EditURL != "" {
		v.URL("docs.editUrl", c.Docs.EditURL, []string{"http", "https"})
	}

	v.OneOf("theme.colorMode.defaultMode", c.Theme.ColorMode.DefaultMode, []string{"light", "dark"})

	for i, item := range c.Theme.Navbar.Items {
		validateNavbarItem(v, fmt.Sprintf("theme.navbar.items[%d]", i), item)
	}

	return v.Err()
}

func validateNavbarItem(v *validate.Validator, field string, item NavbarItem) {
	v.OneOf(field+".position", item.Position, []string{"left", "right"})
	if item.Label == "" && item.AriaLabel == "" {
		v.AddError(field, "needs a label or an aria-label", item)
	}

	switch item.Kind() {
	case NavbarDocSidebar:
		v.Required(field+".sidebarId", item.SidebarID)
	case NavbarDoc:
		v.Required(field+".docId", item.DocID)
	case NavbarLink:
		switch {
		case item.Href != "":
			v.URL(field+".href", item.Href, []string{"http", "https"})
		case item.To != "":
			if !strings.HasPrefix(item.To, "/") {
				v.AddError(field+".to", "must be an absolute site path", item.To)
			}
		default:
			v.AddError(field, "link needs an href or a to", item)
		}
	default:
		v.AddError(field+".type", fmt.Sprintf("unknown navbar item type %q", item.Type), item.Type)
	}
}

// SiteURL returns the absolute URL of the site root, including the base path.
func (c *Config) SiteURL() string {
	return strings.TrimSuffix(c.URL, "/") + c.BaseURL
}

// HasLocale reports whether loc is declared.
func (c *Config) HasLocale(loc string) bool {
	for _, l := range c.I18n.Locales {
		if l == loc {
			return true
		}
	}
	return false
}
