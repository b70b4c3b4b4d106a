package fetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roadtodev/siteconf/internal/config"
)

func TestFetchAllNoReposIsNoop(t *testing.T) {
	cfg := &config.Config{}
	if err := NewFetcher(cfg).FetchAll(); err != nil {
		t.Fatalf("FetchAll with nothing configured should be a no-op: %v", err)
	}
}

func TestFetchAllRequiresPluginPath(t *testing.T) {
	cfg := &config.Config{
		Plugins: config.PluginsConfig{
			Repos: map[string]config.RepoRef{
				"pelican-toc": {URL: "https://example.com/pelican-toc.git"},
			},
		},
	}
	if err := NewFetcher(cfg).FetchAll(); err == nil {
		t.Fatal("expected error when plugins.repos is set without plugins.paths")
	}
}

func TestFetchOneEmptyURL(t *testing.T) {
	f := NewFetcher(&config.Config{})
	if err := f.fetchOne("theme", config.RepoRef{}, t.TempDir()); err == nil {
		t.Fatal("expected error for empty repo url")
	}
}

func TestFetchOneSkipsExistingTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "themes", "Papyrus")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	// Target exists and Force is off: the (bogus) remote must never be hit.
	f := NewFetcher(&config.Config{})
	repo := config.RepoRef{URL: "https://invalid.invalid/theme.git"}
	if err := f.fetchOne("theme", repo, target); err != nil {
		t.Fatalf("existing target should be skipped: %v", err)
	}
}
