package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/heightpath/internal/config"
	"github.com/Faultbox/heightpath/internal/logger"
)

// debounce drops repeat events for the same file; editors and exporters
// usually write a heightmap in several chunks.
const debounce = 200 * time.Millisecond

// fileWatcher reports changes to a fixed set of files. fsnotify watches
// their directories so that files replaced by rename are still seen.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func newFileWatcher(paths ...string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = w.Close()
			return nil, err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		dirs[dir] = true
	}

	fw := &fileWatcher{
		watcher: w,
		files:   files,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go fw.run()
	return fw, nil
}

func (w *fileWatcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *fileWatcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func cmdWatch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	from, to := pointFlags(fs)
	fs.Parse(args)

	start, target, err := parseEndpoints(*from, *to)
	if err != nil {
		return err
	}

	configPath := config.Path()
	w, err := newFileWatcher(cfg.Terrain.Heightmap, configPath)
	if err != nil {
		return fmt.Errorf("watching: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	search := func() {
		terrain, err := loadTerrain(cfg)
		if err != nil {
			logger.Warn("reload failed", zap.Error(err))
			return
		}
		path, searchErr := searchWithTimeout(ctx, newFinder(cfg), terrain.grid, start, target, cfg.Search.Timeout)
		if err := printPath(os.Stdout, terrain.grid, path, searchErr); err != nil {
			logger.Warn("search failed", zap.Error(err))
		}
	}

	search()
	logger.Info("watching for changes",
		zap.String("heightmap", cfg.Terrain.Heightmap),
		zap.String("config", configPath))

	for {
		select {
		case name := <-w.Events:
			logger.Info("file changed", zap.String("path", name))
			if configPath != "" && filepath.Clean(name) == absPath(configPath) {
				reloaded, err := config.Load()
				if err != nil {
					logger.Warn("config reload failed", zap.Error(err))
					continue
				}
				cfg = reloaded
			}
			search()
		case err := <-w.Errors:
			logger.Warn("watch error", zap.Error(err))
		case <-ctx.Done():
			return nil
		}
	}
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
