package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/evolute-studio/mage-duel-docs/internal/log"
)

const debounceDuration = 500 * time.Millisecond

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and rebuilds it on changes",
	Long: `The serve command performs an initial build, then serves the output
directory over HTTP. It watches the declarations, the content tree, static
assets and custom layouts, and rebuilds the site after changes settle.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.WithComponent("serve")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := runBuildProcess(ctx); err != nil {
			return fmt.Errorf("initial build failed: %w", err)
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer watcher.Close()

		targets := newWatchTargets(appConfig.WatchPaths())
		for _, tree := range targets.trees {
			addWatch(watcher, tree, logger)
		}
		for _, dir := range targets.parents() {
			if err := watcher.Add(dir); err != nil {
				logger.Warn().Err(err).Str("path", dir).Msg("failed to watch")
			}
		}
		go watchLoop(ctx, watcher, targets, logger)

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", serverPort),
			Handler:           newRouter(appConfig.OutputDir),
			ReadHeaderTimeout: 5 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			logger.Info().
				Str("addr", "http://localhost"+srv.Addr).
				Str("output_dir", appConfig.OutputDir).
				Msg("serving site, press Ctrl+C to stop")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to start HTTP server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// newRouter serves dir with caching disabled. Directories without an
// index.html are not listed.
func newRouter(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)

	fileServer := http.FileServer(http.Dir(dir))
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") && r.URL.Path != "/" {
			if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(r.URL.Path), "index.html")); os.IsNotExist(err) {
				http.NotFound(w, r)
				return
			}
		}
		fileServer.ServeHTTP(w, r)
	})
	return r
}

// watchTargets are the sources a rebuild depends on. Directories are watched
// recursively. Single files are watched through their parent directory so
// that editors replacing a file by rename keep triggering rebuilds.
type watchTargets struct {
	trees []string
	files map[string]bool
}

// newWatchTargets classifies paths. A path that does not exist yet is treated
// as a file, so its creation is noticed in the parent directory.
func newWatchTargets(paths []string) watchTargets {
	t := watchTargets{files: make(map[string]bool)}
	for _, p := range paths {
		p = filepath.Clean(p)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			t.trees = append(t.trees, p)
			continue
		}
		t.files[p] = true
	}
	return t
}

// parents returns the directories holding the watched files.
func (t watchTargets) parents() []string {
	seen := make(map[string]bool)
	var dirs []string
	for f := range t.files {
		dir := filepath.Dir(f)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}

// relevant reports whether an event on name concerns a watched source.
func (t watchTargets) relevant(name string) bool {
	name = filepath.Clean(name)
	if t.files[name] {
		return true
	}
	for _, tree := range t.trees {
		if name == tree || strings.HasPrefix(name, tree+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// addWatch watches the directory p and every directory below it.
func addWatch(watcher *fsnotify.Watcher, p string, logger zerolog.Logger) {
	err := filepath.WalkDir(p, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("error walking watch path")
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("failed to watch")
			}
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("path", p).Msg("error during initial directory walk")
	}
}

// watchLoop rebuilds the site once changes have been quiet for
// debounceDuration. Rebuilds never overlap.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, targets watchTargets, logger zerolog.Logger) {
	var (
		buildTimer *time.Timer
		buildMu    sync.Mutex
	)
	rebuild := func() {
		buildMu.Lock()
		defer buildMu.Unlock()
		if ctx.Err() != nil {
			return
		}
		logger.Info().Msg("rebuilding site")
		if _, err := runBuildProcess(ctx); err != nil {
			logger.Error().Err(err).Msg("rebuild failed")
		}
	}

	for {
		select {
		case <-ctx.Done():
			if buildTimer != nil {
				buildTimer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !targets.relevant(event.Name) {
				continue
			}
			logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				addWatch(watcher, event.Name, logger)
			}
			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(debounceDuration, rebuild)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func isDir(path string) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fileInfo.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 3000, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
