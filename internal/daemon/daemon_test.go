package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roadtodev/siteconf/internal/config"
	"github.com/roadtodev/siteconf/internal/metrics"
)

func daemonConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Site:    config.SiteConfig{Name: "Road to Dev"},
		Content: config.ContentConfig{Path: "content"},
		Daemon: &config.DaemonConfig{
			HistoryPath: filepath.Join(t.TempDir(), "history.db"),
		},
	}
	if err := config.ApplyDefaults(cfg); err != nil {
		t.Fatalf("ApplyDefaults error: %v", err)
	}
	return cfg
}

func TestNewRequiresDaemonSection(t *testing.T) {
	cfg := &config.Config{}
	if err := config.ApplyDefaults(cfg); err != nil {
		t.Fatalf("ApplyDefaults error: %v", err)
	}
	if _, err := New("siteconf.yaml", cfg); err == nil {
		t.Fatal("expected error without a daemon section")
	}
}

func TestWatcherTriggerCoalesces(t *testing.T) {
	cw, err := NewConfigWatcher("siteconf.yaml", "", nil)
	if err != nil {
		t.Fatalf("NewConfigWatcher error: %v", err)
	}
	t.Cleanup(func() { _ = cw.watcher.Close() })

	cw.trigger(cw.reloadChan)
	cw.trigger(cw.reloadChan)
	cw.trigger(cw.reloadChan)
	if len(cw.reloadChan) != 1 {
		t.Fatalf("rapid triggers should coalesce to one pending reload, got %d", len(cw.reloadChan))
	}
}

func TestWatcherCoversContentSubdirectories(t *testing.T) {
	root := t.TempDir()
	content := filepath.Join(root, "content")
	nested := filepath.Join(content, "posts", "2026")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	d := &Daemon{recorder: metrics.NoopRecorder{}}
	cw, err := NewConfigWatcher(filepath.Join(root, "siteconf.yaml"), content, d)
	if err != nil {
		t.Fatalf("NewConfigWatcher error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := cw.Start(ctx); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	t.Cleanup(func() { _ = cw.Stop() })

	watchlist := cw.watcher.WatchList()
	watching := make(map[string]bool, len(watchlist))
	for _, p := range watchlist {
		watching[p] = true
	}
	for _, dir := range []string{content, filepath.Join(content, "posts"), nested} {
		if !watching[dir] {
			t.Fatalf("content directory %s not watched; watchlist: %v", dir, watchlist)
		}
	}
}

func TestReloadConfigRejectsDaemonChanges(t *testing.T) {
	cfg := daemonConfig(t)
	d, err := New("siteconf.yaml", cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { _ = d.store.Close() })

	// Content-level changes are fine.
	updated := *cfg
	updated.Site.Name = "Renamed"
	if err := d.ReloadConfig(&updated); err != nil {
		t.Fatalf("content-level reload rejected: %v", err)
	}
	if d.GetConfig().Site.Name != "Renamed" {
		t.Fatal("reload did not apply")
	}

	// Daemon endpoint changes require a restart.
	moved := updated
	movedDaemon := *updated.Daemon
	movedDaemon.AdminAddr = ":9999"
	moved.Daemon = &movedDaemon
	if err := d.ReloadConfig(&moved); err == nil {
		t.Fatal("admin address change should be rejected")
	}

	// Dropping the daemon section entirely is also a restart.
	gone := updated
	gone.Daemon = nil
	if err := d.ReloadConfig(&gone); err == nil {
		t.Fatal("removed daemon section should be rejected")
	}
}
