package config

import "path/filepath"

// Config is the tool configuration: where the declarations live and where
// output goes.
type Config struct {
	SiteFile     string `mapstructure:"siteFile"`
	SidebarsFile string `mapstructure:"sidebarsFile"`
	ContentDir   string `mapstructure:"contentDir"`
	StaticDir    string `mapstructure:"staticDir"`
	LayoutsDir   string `mapstructure:"layoutsDir"`
	OutputDir    string `mapstructure:"outputDir"`
	BaseURL      string `mapstructure:"baseURL"` // overrides the site baseUrl when set
	LogLevel     string `mapstructure:"logLevel"`
	LogFormat    string `mapstructure:"logFormat"`
}

// Defaults are registered with viper before reading the config file.
var Defaults = map[string]interface{}{
	"siteFile":     "site.yaml",
	"sidebarsFile": "sidebars.yaml",
	"contentDir":   "docs",
	"staticDir":    "static",
	"layoutsDir":   "",
	"outputDir":    "build",
	"baseURL":      "",
	"logLevel":     "info",
	"logFormat":    "console",
}

// Resolve makes relative paths relative to dir, normally the directory of the
// config file.
func (c Config) Resolve(dir string) Config {
	if dir == "" {
		return c
	}
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.SiteFile = join(c.SiteFile)
	c.SidebarsFile = join(c.SidebarsFile)
	c.ContentDir = join(c.ContentDir)
	c.StaticDir = join(c.StaticDir)
	c.LayoutsDir = join(c.LayoutsDir)
	c.OutputDir = join(c.OutputDir)
	return c
}

// WatchPaths lists the sources whose change requires a rebuild.
func (c Config) WatchPaths() []string {
	paths := []string{c.SiteFile, c.SidebarsFile, c.ContentDir, c.StaticDir}
	if c.LayoutsDir != "" {
		paths = append(paths, c.LayoutsDir)
	}
	return paths
}
