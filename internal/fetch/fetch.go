// Package fetch installs the configured theme and plugins from their git
// remotes into the directories the site configuration declares.
package fetch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/roadtodev/siteconf/internal/config"
)

// Fetcher clones theme and plugin repositories.
type Fetcher struct {
	cfg *config.Config
	// Force removes an existing checkout before cloning.
	Force bool
}

// NewFetcher creates a fetcher for the loaded configuration.
func NewFetcher(cfg *config.Config) *Fetcher { return &Fetcher{cfg: cfg} }

// FetchAll installs the theme and every plugin that declares a repo.
// Targets that already exist are skipped unless Force is set.
func (f *Fetcher) FetchAll() error {
	if f.cfg.Theme.Repo != nil {
		if err := f.fetchOne("theme", *f.cfg.Theme.Repo, f.cfg.Theme.Path); err != nil {
			return err
		}
	}
	if len(f.cfg.Plugins.Repos) > 0 {
		if len(f.cfg.Plugins.Paths) == 0 {
			return fmt.Errorf("plugins.repos configured but plugins.paths is empty")
		}
		base := f.cfg.Plugins.Paths[0]
		for name, repo := range f.cfg.Plugins.Repos {
			if err := f.fetchOne(name, repo, filepath.Join(base, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *Fetcher) fetchOne(name string, repo config.RepoRef, target string) error {
	if repo.URL == "" {
		return fmt.Errorf("%s: repo url cannot be empty", name)
	}

	if _, err := os.Stat(target); err == nil {
		if !f.Force {
			slog.Info("Target already present, skipping", "name", name, "path", target)
			return nil
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("failed to remove existing directory: %w", err)
		}
	}

	slog.Debug("Cloning repository", "name", name, "url", repo.URL, "branch", repo.Branch, "path", target)

	cloneOptions := &git.CloneOptions{URL: repo.URL, Depth: 1}
	if repo.Branch != "" {
		cloneOptions.ReferenceName = plumbing.ReferenceName("refs/heads/" + repo.Branch)
		cloneOptions.SingleBranch = true
	}

	repository, err := git.PlainClone(target, false, cloneOptions)
	if err != nil {
		return classifyCloneError(name, repo.URL, err)
	}

	if ref, herr := repository.Head(); herr == nil {
		slog.Info("Repository cloned", "name", name, "url", repo.URL, "commit", ref.Hash().String()[:8], "path", target)
	} else {
		slog.Info("Repository cloned", "name", name, "url", repo.URL, "path", target)
	}
	return nil
}

// classifyCloneError wraps common go-git failures into actionable messages.
func classifyCloneError(name, url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail"):
		return fmt.Errorf("%s: authentication failed for %s: %w", name, url, err)
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return fmt.Errorf("%s: repository %s not found: %w", name, url, err)
	case strings.Contains(l, "timeout") || strings.Contains(l, "i/o timeout"):
		return fmt.Errorf("%s: network timeout cloning %s: %w", name, url, err)
	default:
		return fmt.Errorf("%s: failed to clone %s: %w", name, url, err)
	}
}
