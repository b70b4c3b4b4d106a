package daemon

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/roadtodev/siteconf/internal/config"
)

// ConfigWatcher monitors the configuration file (and optionally the content
// tree) and triggers reloads and rebuilds.
type ConfigWatcher struct {
	configPath   string
	contentPath  string // empty when content watching is disabled
	daemon       *Daemon
	watcher      *fsnotify.Watcher
	mu           sync.RWMutex
	stopChan     chan struct{}
	reloadChan   chan struct{}
	rebuildChan  chan struct{}
	debounceTime time.Duration
}

// NewConfigWatcher creates a watcher for the daemon's config file.
// contentPath may be empty to watch the configuration only.
func NewConfigWatcher(configPath, contentPath string, daemon *Daemon) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	return &ConfigWatcher{
		configPath:   absPath,
		contentPath:  contentPath,
		daemon:       daemon,
		watcher:      watcher,
		stopChan:     make(chan struct{}),
		reloadChan:   make(chan struct{}, 1),
		rebuildChan:  make(chan struct{}, 1),
		debounceTime: 2 * time.Second,
	}, nil
}

// Start begins monitoring.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	// Watching the directory is more reliable than watching the file:
	// editors replace files on save.
	configDir := filepath.Dir(cw.configPath)
	if err := cw.watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory %s: %w", configDir, err)
	}
	watched := 1

	if cw.contentPath != "" {
		added, err := cw.addContentTree()
		if err != nil {
			slog.Warn("Failed to watch content path", "path", cw.contentPath, "error", err)
		}
		watched += added
	}
	cw.daemon.recorder.SetWatchedPaths(watched)

	slog.Info("Starting configuration watcher", "config_path", cw.configPath, "content_path", cw.contentPath)

	go cw.watchLoop(ctx)
	go cw.debounceLoop(ctx)

	return nil
}

// addContentTree registers the content directory and every directory below
// it: the platform watchers are not recursive, so each subdirectory needs its
// own watch. Returns the number of directories registered.
func (cw *ConfigWatcher) addContentTree() (int, error) {
	added := 0
	err := filepath.WalkDir(cw.contentPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := cw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		added++
		return nil
	})
	return added, err
}

// Stop stops the watcher.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	slog.Info("Stopping configuration watcher")
	close(cw.stopChan)
	if cw.watcher != nil {
		if err := cw.watcher.Close(); err != nil {
			slog.Error("Error closing file watcher", "error", err)
		}
	}
	return nil
}

func (cw *ConfigWatcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(cw.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-cw.stopChan:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			isConfig := filepath.Base(event.Name) == configFile &&
				filepath.Dir(event.Name) == filepath.Dir(cw.configPath)

			switch {
			case isConfig && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				slog.Debug("Config file change detected", "file", event.Name, "op", event.Op.String())
				cw.trigger(cw.reloadChan)
			case isConfig && event.Op&fsnotify.Remove != 0:
				slog.Warn("Config file removed", "file", event.Name)
			case !isConfig && cw.contentPath != "" && event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0:
				slog.Debug("Content change detected", "file", event.Name, "op", event.Op.String())
				if event.Op&fsnotify.Create != 0 {
					// A new directory needs its own watch.
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := cw.watcher.Add(event.Name); err != nil {
							slog.Warn("Failed to watch new content directory", "path", event.Name, "error", err)
						}
					}
				}
				cw.trigger(cw.rebuildChan)
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Config watcher error", "error", err)
		}
	}
}

// debounceLoop coalesces bursts of file events into single reloads/rebuilds.
func (cw *ConfigWatcher) debounceLoop(ctx context.Context) {
	var reloadTimer, rebuildTimer *time.Timer
	stopTimers := func() {
		if reloadTimer != nil {
			reloadTimer.Stop()
		}
		if rebuildTimer != nil {
			rebuildTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimers()
			return
		case <-cw.stopChan:
			stopTimers()
			return
		case <-cw.reloadChan:
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(cw.debounceTime, func() {
				if err := cw.performReload(ctx); err != nil {
					slog.Error("Failed to reload configuration", "error", err)
				}
			})
		case <-cw.rebuildChan:
			if rebuildTimer != nil {
				rebuildTimer.Stop()
			}
			rebuildTimer = time.AfterFunc(cw.debounceTime, func() {
				cw.daemon.ExecuteRun(ctx, TriggerWatch)
			})
		}
	}
}

func (cw *ConfigWatcher) trigger(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default: // already pending
	}
}

// performReload loads, validates, and applies the new configuration, then
// rebuilds with the fresh settings.
func (cw *ConfigWatcher) performReload(ctx context.Context) error {
	slog.Info("Reloading configuration", "config_path", cw.configPath)

	newConfig, err := config.Load(cw.configPath)
	if err != nil {
		cw.daemon.recorder.IncConfigReload(false)
		return fmt.Errorf("failed to load new configuration: %w", err)
	}

	if err := cw.daemon.ReloadConfig(newConfig); err != nil {
		cw.daemon.recorder.IncConfigReload(false)
		return fmt.Errorf("failed to apply new configuration: %w", err)
	}

	cw.daemon.recorder.IncConfigReload(true)
	slog.Info("Configuration reloaded successfully")

	cw.daemon.ExecuteRun(ctx, TriggerWatch)
	return nil
}
