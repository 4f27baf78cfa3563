// Package builder renders the documentation site from the declarations and
// the Markdown content tree.
package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/evolute-studio/mage-duel-docs/internal/config"
	"github.com/evolute-studio/mage-duel-docs/internal/content"
	"github.com/evolute-studio/mage-duel-docs/internal/linkcheck"
	"github.com/evolute-studio/mage-duel-docs/internal/model"
	"github.com/evolute-studio/mage-duel-docs/internal/sidebar"
	"github.com/evolute-studio/mage-duel-docs/internal/site"
)

// Builder renders one site.
type Builder struct {
	cfg      config.Config
	site     *site.Config
	sidebars sidebar.Sidebars
	logger   zerolog.Logger
}

// Result summarises a build.
type Result struct {
	Pages    int
	Broken   []linkcheck.Broken
	Duration time.Duration
}

// New returns a builder for the given declarations.
func New(cfg config.Config, siteCfg *site.Config, sb sidebar.Sidebars, logger zerolog.Logger) *Builder {
	return &Builder{
		cfg:      cfg,
		site:     siteCfg,
		sidebars: sb,
		logger:   logger,
	}
}

// Run loads the content, checks references, and writes the site to the
// output directory.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	b.logger.Info().
		Str("output_dir", b.cfg.OutputDir).
		Str("url", b.site.SiteURL()).
		Str("site", b.site.Title).
		Msg("starting build")

	if _, err := os.Stat(b.cfg.ContentDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("content directory '%s' not found", b.cfg.ContentDir)
	}
	idx, err := content.Load(os.DirFS(b.cfg.ContentDir))
	if err != nil {
		return nil, err
	}
	b.logger.Debug().Int("docs", idx.Len()).Msg("content indexed")

	data := &model.SiteData{Config: b.site, Sidebars: b.sidebars, Docs: idx.Map()}
	for _, d := range idx.Docs() {
		d.Permalink = Permalink(b.site, d)
	}

	broken, err := Verify(b.logger, data, idx)
	result := &Result{Broken: broken}
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if err := b.prepareOutput(); err != nil {
		return result, err
	}

	layouts, err := loadLayouts(b.cfg.LayoutsDir)
	if err != nil {
		return result, err
	}

	r := &renderer{
		site:    data,
		index:   idx,
		layouts: layouts,
		outDir:  b.cfg.OutputDir,
		logger:  b.logger,
	}
	pages, err := r.renderDocs(ctx)
	if err != nil {
		return result, err
	}
	if err := r.renderHome(); err != nil {
		return result, err
	}
	result.Pages = pages + 1

	pageBroken, err := linkcheck.Pages(os.DirFS(b.cfg.OutputDir), b.site.BaseURL)
	if err != nil {
		return result, err
	}
	result.Broken = append(result.Broken, pageBroken...)
	if err := linkcheck.Report(b.logger, b.site.OnBrokenLinks, pageBroken); err != nil {
		return result, err
	}

	result.Duration = time.Since(start)
	b.logger.Info().
		Int("pages", result.Pages).
		Int("broken_links", len(result.Broken)).
		Dur("duration", result.Duration).
		Msg("build completed")
	return result, nil
}

// Verify runs the reference checks that need no rendering and reports them
// under the site's policies. The returned error is non-nil only when a
// policy is fatal.
func Verify(logger zerolog.Logger, data *model.SiteData, idx *content.Index) ([]linkcheck.Broken, error) {
	links := linkcheck.Sidebars(data.Sidebars, idx)
	links = append(links, linkcheck.Navbar(data.Config, data.Sidebars, idx)...)
	markdown := linkcheck.Markdown(linkcheck.LinksOf(idx.Docs()), idx)

	linkErr := linkcheck.Report(logger, data.Config.OnBrokenLinks, links)
	mdErr := linkcheck.Report(logger, data.Config.OnBrokenMarkdownLinks, markdown)

	return append(links, markdown...), errors.Join(linkErr, mdErr)
}

func (b *Builder) prepareOutput() error {
	out := filepath.Clean(b.cfg.OutputDir)
	if out == "." || out == string(filepath.Separator) || b.cfg.OutputDir == "" {
		return fmt.Errorf("refusing to clean output directory '%s'", b.cfg.OutputDir)
	}
	if filepath.Clean(b.cfg.ContentDir) == out || filepath.Clean(b.cfg.StaticDir) == out {
		return fmt.Errorf("output directory '%s' overlaps a source directory", b.cfg.OutputDir)
	}

	b.logger.Debug().Str("output_dir", out).Msg("cleaning output directory")
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", out, err)
	}
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", out, err)
	}

	if b.cfg.StaticDir == "" {
		return nil
	}
	if _, err := os.Stat(b.cfg.StaticDir); os.IsNotExist(err) {
		b.logger.Debug().Str("static_dir", b.cfg.StaticDir).Msg("static assets directory not found, skipping copy")
		return nil
	}
	if err := copyDirContents(b.cfg.StaticDir, out); err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}
	return nil
}
