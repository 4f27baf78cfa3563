package content

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"intro.md": {Data: []byte("---\ntitle: Welcome\nsidebar_label: Start here\ndescription: First page\n---\n\n# Ignored heading\n\nSee [setup](./guide/setup.md) and [site](https://example.com).\n")},
		"guide/setup.md": {Data: []byte("# Setting *things* up\n\nBody.\n")},
		"guide/server-functions.mdx": {Data: []byte("No heading here.\n")},
		"guide/renamed.md": {Data: []byte("---\nid: custom\nslug: /custom-page\n---\nText\n")},
		"guide/_partial.md": {Data: []byte("# Partial\n")},
		"_drafts/wip.md":    {Data: []byte("# WIP\n")},
		"img/logo.png":      {Data: []byte{0x89, 'P', 'N', 'G'}},
	}

	idx, err := Load(fsys)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	intro, ok := idx.Get("intro")
	require.True(t, ok)
	assert.Equal(t, "Welcome", intro.Title)
	assert.Equal(t, "Start here", intro.Label())
	assert.Equal(t, "First page", intro.Description)
	assert.Equal(t, []string{"./guide/setup.md", "https://example.com"}, intro.Links)
	assert.NotContains(t, string(intro.Body), "sidebar_label")

	setup, ok := idx.Get("guide/setup")
	require.True(t, ok)
	assert.Equal(t, "Setting things up", setup.Title)
	assert.Equal(t, "Setting things up", setup.Label())
	assert.True(t, setup.TitleInBody)

	fallback, ok := idx.Get("guide/server-functions")
	require.True(t, ok)
	assert.Equal(t, "Server Functions", fallback.Title)
	assert.False(t, fallback.TitleInBody)

	renamed, ok := idx.Get("guide/custom")
	require.True(t, ok)
	assert.Equal(t, "guide/renamed.md", renamed.SourcePath)
	assert.Equal(t, "/custom-page", renamed.Slug)
	assert.False(t, idx.Has("guide/renamed"))

	byPath, ok := idx.ByPath("guide/./renamed.md")
	require.True(t, ok)
	assert.Same(t, renamed, byPath)

	assert.False(t, idx.Has("guide/_partial"))
	assert.False(t, idx.Has("_drafts/wip"))

	var ids []string
	for _, d := range idx.Docs() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"guide/custom", "guide/server-functions", "guide/setup", "intro"}, ids)
}

func TestLoad_DuplicateID(t *testing.T) {
	fsys := fstest.MapFS{
		"a/intro.md": {Data: []byte("Intro\n")},
		"a/other.md": {Data: []byte("---\nid: intro\n---\nOther\n")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate doc id "a/intro"`)
}

func TestLoad_InvalidFrontmatterID(t *testing.T) {
	fsys := fstest.MapFS{
		"a/intro.md": {Data: []byte("---\nid: x/y\n---\nIntro\n")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not contain '/'")
}

// Every doc referenced by the declared sidebars exists in the shipped docs tree.
func TestDeclaredSidebarsResolve(t *testing.T) {
	idx, err := Load(os.DirFS("../../docs"))
	require.NoError(t, err)
	sb, err := sidebar.Load("../../sidebars.yaml")
	require.NoError(t, err)

	for _, id := range sb.DocIDs() {
		assert.True(t, idx.Has(id), "missing content for %s", id)
	}
}
