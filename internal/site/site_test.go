package site

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolute-studio/mage-duel-docs/internal/validate"
)

func TestLoad_DeclaredSite(t *testing.T) {
	cfg, err := Load("../../site.yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Mage Duel", cfg.Title)
	assert.Equal(t, "A game about dueling mages", cfg.Tagline)
	assert.Equal(t, PolicyWarn, cfg.OnBrokenLinks)
	assert.Equal(t, PolicyWarn, cfg.OnBrokenMarkdownLinks)
	assert.Equal(t, "en", cfg.I18n.DefaultLocale)
	assert.True(t, cfg.HasLocale(cfg.I18n.DefaultLocale))
	assert.Equal(t, "dark", cfg.Theme.ColorMode.DefaultMode)
	assert.True(t, cfg.Theme.ColorMode.DisableSwitch)
	assert.Equal(t, []string{"csharp"}, cfg.Theme.Prism.AdditionalLanguages)
	assert.Equal(t, "https://docs.mageduel.evolute.network/", cfg.SiteURL())

	items := cfg.Theme.Navbar.Items
	require.Len(t, items, 5)
	assert.Equal(t, NavbarDocSidebar, items[0].Kind())
	assert.Equal(t, "unityClientSidebar", items[0].SidebarID)
	assert.Equal(t, "dojoServerSidebar", items[1].SidebarID)
	assert.True(t, items[2].IsExternal())
	assert.Equal(t, "right", items[2].Position)
	assert.Equal(t, "GitHub repository", items[2].AriaLabel)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(`
title: Docs
url: https://example.com
theme:
  navbar:
    items:
      - href: https://github.com/example
        label: GitHub
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/", cfg.BaseURL)
	assert.Equal(t, PolicyWarn, cfg.OnBrokenLinks)
	assert.Equal(t, []string{"en"}, cfg.I18n.Locales)
	assert.Equal(t, "docs", cfg.Docs.RouteBasePath)
	assert.Equal(t, "left", cfg.Theme.Navbar.Items[0].Position)
	assert.Equal(t, NavbarLink, cfg.Theme.Navbar.Items[0].Kind())
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte("title: Docs\nurl: https://example.com\nonBrokenLnks: warn\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "onBrokenLnks")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		fields []string
	}{
		{
			name: "default locale outside locale set",
			yaml: `
title: Docs
url: https://example.com
i18n:
  defaultLocale: fr
  locales: [en]
`,
			fields: []string{"i18n.defaultLocale"},
		},
		{
			name: "malformed locale and duplicate",
			yaml: `
title: Docs
url: https://example.com
i18n:
  defaultLocale: en
  locales: [en, en, "not a tag"]
`,
			fields: []string{"i18n.locales[1]", "i18n.locales[2]"},
		},
		{
			name: "bad policy and base url",
			yaml: `
title: Docs
url: https://example.com
baseUrl: docs
onBrokenLinks: explode
`,
			fields: []string{"baseUrl", "onBrokenLinks"},
		},
		{
			name: "missing title and relative url",
			yaml: `
url: /docs
`,
			fields: []string{"title", "url"},
		},
		{
			name: "navbar items",
			yaml: `
title: Docs
url: https://example.com
theme:
  navbar:
    items:
      - type: docSidebar
        label: Guide
      - type: doc
        docId: intro
        position: middle
        label: Intro
      - href: mailto:team@example.com
        label: Mail
      - aria-label: nothing
      - type: dropdown
        label: More
`,
			fields: []string{
				"theme.navbar.items[0].sidebarId",
				"theme.navbar.items[1].position",
				"theme.navbar.items[2].href",
				"theme.navbar.items[3]",
				"theme.navbar.items[4].type",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)

			var verr validate.ValidationError
			require.True(t, errors.As(err, &verr))
			var got []string
			for _, e := range verr.Errors() {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for _, name := range []string{"ignore", "log", "warn", "throw"} {
		p, err := ParsePolicy(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(p))
	}
	assert.True(t, PolicyThrow.Fatal())
	assert.False(t, PolicyWarn.Fatal())

	_, err := ParsePolicy("fail")
	assert.Error(t, err)
}
