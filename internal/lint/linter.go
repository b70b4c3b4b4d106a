// Package lint checks a site configuration against the content tree it
// describes: asset paths that must exist, plugins that must resolve, and
// plugin options that must be consistent with the actual content.
package lint

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roadtodev/siteconf/internal/config"
	"github.com/roadtodev/siteconf/internal/plugins"
)

// Linter runs all rules against a loaded configuration.
type Linter struct {
	cfg *config.Config
	// root is prepended to all relative paths; empty means current directory.
	root string
}

// NewLinter creates a linter for cfg with paths resolved against root.
func NewLinter(cfg *config.Config, root string) *Linter {
	return &Linter{cfg: cfg, root: root}
}

// Run executes every rule and aggregates the findings.
func (l *Linter) Run() (*Result, error) {
	result := &Result{}

	l.checkThemePath(result)
	l.checkStaticPaths(result)
	l.checkPlugins(result)
	if err := l.checkTOCSelector(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Linter) resolve(rel string) string {
	if l.root == "" {
		return rel
	}
	return filepath.Join(l.root, rel)
}

// checkThemePath verifies the selected theme directory exists.
func (l *Linter) checkThemePath(result *Result) {
	if l.cfg.Theme.Path == "" {
		return
	}
	if _, err := os.Stat(l.resolve(l.cfg.Theme.Path)); err != nil {
		result.add(SeverityError, "theme-missing", l.cfg.Theme.Path,
			"theme directory not found (run `siteconf fetch` if a theme repo is configured)")
	}
}

// checkStaticPaths verifies static sources exist under the content path.
func (l *Linter) checkStaticPaths(result *Result) {
	for _, p := range l.cfg.Content.StaticPaths {
		full := l.resolve(filepath.Join(l.cfg.Content.Path, p))
		if _, err := os.Stat(full); err != nil {
			result.add(SeverityWarning, "static-path-missing", p,
				fmt.Sprintf("static path not found under %s", l.cfg.Content.Path))
		}
	}
	for src := range l.cfg.Content.ExtraPaths {
		full := l.resolve(filepath.Join(l.cfg.Content.Path, src))
		if _, err := os.Stat(full); err != nil {
			result.add(SeverityWarning, "extra-path-missing", src,
				fmt.Sprintf("extra path source not found under %s", l.cfg.Content.Path))
		}
	}
}

// checkPlugins verifies every enabled plugin resolves in the search paths.
func (l *Linter) checkPlugins(result *Result) {
	searchCfg := *l.cfg
	if l.root != "" {
		resolved := make([]string, len(l.cfg.Plugins.Paths))
		for i, p := range l.cfg.Plugins.Paths {
			resolved[i] = l.resolve(p)
		}
		searchCfg.Plugins.Paths = resolved
	}
	for _, res := range plugins.Resolve(&searchCfg) {
		if !res.Found() {
			result.add(SeverityError, "plugin-missing", res.Name,
				fmt.Sprintf("plugin not found in plugin paths %v", l.cfg.Plugins.Paths))
		}
	}
}

// checkTOCSelector parses all Markdown content and warns when the TOC header
// selector matches none of the heading levels actually present.
func (l *Linter) checkTOCSelector(result *Result) error {
	toc, ok := l.cfg.Plugins.TOC()
	if !ok || !toc.Enabled() {
		return nil
	}
	if err := toc.Validate(); err != nil {
		result.add(SeverityError, "toc-selector-invalid", config.TOCPluginName, err.Error())
		return nil
	}
	pattern := toc.HeaderPattern()

	contentRoot := l.resolve(l.cfg.Content.Path)
	if _, err := os.Stat(contentRoot); err != nil {
		result.add(SeverityWarning, "content-path-missing", l.cfg.Content.Path, "content path not found")
		return nil
	}

	found := make(map[int]bool)
	err := filepath.WalkDir(contentRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		for level := range extractHeadingLevels(body) {
			found[level] = true
		}
		result.FilesTotal++
		return nil
	})
	if err != nil {
		return fmt.Errorf("content walk failed: %w", err)
	}

	if result.FilesTotal == 0 {
		return nil
	}

	matched := false
	for level := range found {
		if pattern.MatchString(fmt.Sprintf("h%d", level)) {
			matched = true
			break
		}
	}
	if !matched {
		result.add(SeverityWarning, "toc-selector-unmatched", config.TOCPluginName,
			fmt.Sprintf("header selector %q matches no heading level present in content", toc.Headers))
	}
	return nil
}
