package cmd

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolute-studio/mage-duel-docs/internal/log"
	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
)

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	log.Reset()
	t.Cleanup(log.Reset)
	cfgFile = ""
	strictCheck = false
	checkPolicy = ""
	listYAML = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheck_DeclaredSite(t *testing.T) {
	_, logs, err := executeCommand(t, "check", "--strict", "--config", "../config.yaml", "--log-format", "json")
	require.NoError(t, err, logs)
	assert.Contains(t, logs, `"message":"check completed"`)
	assert.Contains(t, logs, `"broken_links":0`)
	assert.Contains(t, logs, `"docs":25`)
}

func TestCheck_Policy(t *testing.T) {
	_, _, err := executeCommand(t, "check", "--policy", "throw", "--config", "../config.yaml")
	require.NoError(t, err)

	_, _, err = executeCommand(t, "check", "--policy", "fail", "--config", "../config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown broken link policy "fail"`)
}

// A missing doc is fatal under --policy throw and only logged under ignore.
func TestCheck_PolicyAppliesToBrokenReferences(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	write("config.yaml", "contentDir: docs\n")
	write("site.yaml", "title: T\nurl: https://example.com\n")
	write("sidebars.yaml", "main:\n  - intro\n  - missing\n")
	write("docs/intro.md", "# Intro\n")
	cfg := filepath.Join(dir, "config.yaml")

	_, _, err := executeCommand(t, "check", "--policy", "ignore", "--config", cfg)
	require.NoError(t, err)

	_, logs, err := executeCommand(t, "check", "--policy", "throw", "--config", cfg, "--log-format", "json")
	require.Error(t, err)
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Contains(t, logs, `"target":"missing"`)
}

func TestSidebarsList_YAML(t *testing.T) {
	out, _, err := executeCommand(t, "sidebars", "list", "--yaml", "dojoServerSidebar", "--config", "../config.yaml")
	require.NoError(t, err)

	got, err := sidebar.Parse([]byte(out))
	require.NoError(t, err)
	declared, err := sidebar.Load("../sidebars.yaml")
	require.NoError(t, err)
	want, _ := declared.Lookup("dojoServerSidebar")
	assert.Empty(t, sidebar.Diff(sidebar.Sidebars{want}, got))
}

func TestWatchTargets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "guide"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.yaml"), []byte("title: T\n"), 0o644))

	targets := newWatchTargets([]string{
		filepath.Join(dir, "site.yaml"),
		filepath.Join(dir, "docs"),
		filepath.Join(dir, "static"),
	})
	assert.Equal(t, []string{filepath.Join(dir, "docs")}, targets.trees)
	assert.Equal(t, []string{dir}, targets.parents())

	tests := []struct {
		name string
		want bool
	}{
		{filepath.Join(dir, "site.yaml"), true},
		{filepath.Join(dir, "docs", "guide", "intro.md"), true},
		{filepath.Join(dir, "docs"), true},
		{filepath.Join(dir, "static"), true},
		{filepath.Join(dir, "site.yaml~"), false},
		{filepath.Join(dir, "build", "index.html"), false},
		{filepath.Join(dir, "docs-old", "a.md"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, targets.relevant(tt.name), tt.name)
	}

	relative := newWatchTargets([]string{"sidebars.yaml"})
	assert.Equal(t, []string{"."}, relative.parents())
	assert.True(t, relative.relevant("./sidebars.yaml"))
}

func TestSidebarsList(t *testing.T) {
	out, _, err := executeCommand(t, "sidebars", "list", "dojoServerSidebar", "--config", "../config.yaml")
	require.NoError(t, err)

	assert.Contains(t, out, "dojoServerSidebar\n  Introduction/\n    dojo-server/introduction/quick-start\n")
	assert.Contains(t, out, "  API Reference/\n    dojo-server/api-reference/overview\n    Libs/\n      dojo-server/api-reference/libs/achievements\n")
	assert.NotContains(t, out, "unityClientSidebar")
}

func TestSidebarsList_UnknownID(t *testing.T) {
	_, _, err := executeCommand(t, "sidebars", "list", "nope", "--config", "../config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `sidebar "nope" not found`)
}

func TestSidebarsDiff(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	c := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(a, []byte("main:\n  - intro\n  - guide\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("main:\n  - intro\n  - guide\n"), 0o644))
	require.NoError(t, os.WriteFile(c, []byte("main:\n  - guide\n  - intro\n"), 0o644))

	out, _, err := executeCommand(t, "sidebars", "diff", a, b)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = executeCommand(t, "sidebars", "diff", a, c)
	require.Error(t, err)
	var exit *exitError
	require.True(t, errors.As(err, &exit))
	assert.Equal(t, 1, exit.code)
	assert.Contains(t, out, "differ")
}

func TestNewRouter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>home</p>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.css"), []byte("body{}"), 0o644))

	srv := httptest.NewServer(newRouter(dir))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/assets/app.css", http.StatusOK},
		{"/assets/", http.StatusNotFound},
		{"/missing.html", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusOK {
				assert.Contains(t, resp.Header.Get("Cache-Control"), "no-cache")
			}
		})
	}
}
