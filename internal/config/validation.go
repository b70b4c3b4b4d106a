package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Recognized engine settings handover formats.
const (
	SettingsFormatJSON = "json"
	SettingsFormatYAML = "yaml"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

// validate performs validation in order of dependencies.
func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateContent(); err != nil {
		return err
	}
	if err := cv.validatePlugins(); err != nil {
		return err
	}
	if err := cv.validateNavigation(); err != nil {
		return err
	}
	if err := cv.validateFeeds(); err != nil {
		return err
	}
	if err := cv.validateShare(); err != nil {
		return err
	}
	if err := cv.validateEngine(); err != nil {
		return err
	}
	return cv.validateDaemon()
}

// validateSite checks identity fields that the engine interprets rather than
// passes through verbatim.
func (cv *configurationValidator) validateSite() error {
	site := cv.config.Site

	if site.Timezone != "" {
		if _, err := time.LoadLocation(site.Timezone); err != nil {
			return fmt.Errorf("invalid site.timezone %q: %w", site.Timezone, err)
		}
	}
	if site.DefaultLang != "" {
		if _, err := language.Parse(site.DefaultLang); err != nil {
			return fmt.Errorf("invalid site.default_lang %q: %w", site.DefaultLang, err)
		}
	}
	if site.URL != "" {
		u, err := url.Parse(site.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("site.url must be an absolute URL, got %q", site.URL)
		}
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	if cv.config.Content.Path == "" {
		return errors.New("content.path cannot be empty")
	}

	// Extra path metadata must refer to a declared static source.
	declared := make(map[string]bool, len(cv.config.Content.StaticPaths))
	for _, p := range cv.config.Content.StaticPaths {
		declared[filepath.Clean(p)] = true
	}
	for src, meta := range cv.config.Content.ExtraPaths {
		if meta.Path == "" {
			return fmt.Errorf("content.extra_paths[%s]: target path cannot be empty", src)
		}
		if !cv.coveredByStaticPath(declared, src) {
			return fmt.Errorf("content.extra_paths[%s]: source is not covered by content.static_paths", src)
		}
	}
	return nil
}

// coveredByStaticPath reports whether src equals a declared static path or
// lives under one of the declared directories.
func (cv *configurationValidator) coveredByStaticPath(declared map[string]bool, src string) bool {
	clean := filepath.Clean(src)
	if declared[clean] {
		return true
	}
	for dir := filepath.Dir(clean); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if declared[dir] {
			return true
		}
	}
	return false
}

func (cv *configurationValidator) validatePlugins() error {
	seen := make(map[string]bool, len(cv.config.Plugins.Enabled))
	for _, name := range cv.config.Plugins.Enabled {
		if name == "" {
			return errors.New("plugins.enabled contains an empty plugin name")
		}
		if seen[name] {
			return fmt.Errorf("duplicate plugin enabled: %s", name)
		}
		seen[name] = true
	}

	// Option maps are opaque, but options for plugins that are not enabled
	// are almost always a typo.
	for name := range cv.config.Plugins.Options {
		if !seen[name] {
			return fmt.Errorf("plugins.options configured for %s, which is not enabled", name)
		}
	}

	// The TOC plugin's header selector must be a valid regular expression.
	if toc, ok := cv.config.Plugins.TOC(); ok {
		if err := toc.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validateNavigation() error {
	nav := cv.config.Nav

	for _, tpl := range nav.DirectTemplates {
		if tpl == "" {
			return errors.New("navigation.direct_templates contains an empty template name")
		}
	}
	for tpl, size := range nav.PaginatedTemplates {
		if tpl == "" {
			return errors.New("navigation.paginated_templates contains an empty template name")
		}
		if size != nil && *size <= 0 {
			return fmt.Errorf("navigation.paginated_templates[%s]: page size must be positive or null, got %d", tpl, *size)
		}
	}
	if nav.DefaultPageSize <= 0 {
		return fmt.Errorf("navigation.default_page_size must be positive, got %d", nav.DefaultPageSize)
	}
	return nil
}

// validateFeeds checks that configured feed paths are relative: the engine
// joins them onto the output directory.
func (cv *configurationValidator) validateFeeds() error {
	feeds := map[string]*string{
		"feeds.all_atom":         cv.config.Feeds.AllAtom,
		"feeds.category_atom":    cv.config.Feeds.CategoryAtom,
		"feeds.translation_atom": cv.config.Feeds.TranslationAtom,
		"feeds.author_atom":      cv.config.Feeds.AuthorAtom,
		"feeds.author_rss":       cv.config.Feeds.AuthorRSS,
	}
	for key, path := range feeds {
		if path == nil || *path == "" {
			continue // feed disabled
		}
		if filepath.IsAbs(*path) {
			return fmt.Errorf("%s: feed path must be relative to the output directory, got %s", key, *path)
		}
	}
	return nil
}

func (cv *configurationValidator) validateShare() error {
	seen := make(map[string]bool, len(cv.config.Share))
	for i, link := range cv.config.Share {
		if link.Platform == "" {
			return fmt.Errorf("share[%d]: platform cannot be empty", i)
		}
		if seen[link.Platform] {
			return fmt.Errorf("duplicate share platform: %s", link.Platform)
		}
		seen[link.Platform] = true

		if err := validateShareTemplate(link.URLTemplate); err != nil {
			return fmt.Errorf("share[%s]: %w", link.Platform, err)
		}
	}
	return nil
}

// validateShareTemplate checks a share URL template. Templates commonly end
// mid-query (e.g. "...?url=") because the theme appends the article URL, so a
// sentinel value is appended before parsing.
func validateShareTemplate(tmpl string) error {
	if tmpl == "" {
		return errors.New("url template cannot be empty")
	}
	probe := tmpl
	if strings.HasSuffix(tmpl, "=") || strings.HasSuffix(tmpl, "- ") {
		probe = tmpl + "x"
	}
	u, err := url.Parse(strings.TrimSpace(probe))
	if err != nil {
		return fmt.Errorf("malformed url template %q: %w", tmpl, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url template must use http or https, got %q", tmpl)
	}
	if u.Host == "" {
		return fmt.Errorf("url template missing host: %q", tmpl)
	}
	return nil
}

func (cv *configurationValidator) validateEngine() error {
	switch cv.config.Engine.SettingsFormat {
	case SettingsFormatJSON, SettingsFormatYAML:
		return nil
	default:
		return fmt.Errorf("invalid engine.settings_format: %s (allowed: json|yaml)", cv.config.Engine.SettingsFormat)
	}
}

func (cv *configurationValidator) validateDaemon() error {
	d := cv.config.Daemon
	if d == nil {
		return nil
	}
	if d.RebuildInterval != "" {
		dur, err := time.ParseDuration(d.RebuildInterval)
		if err != nil {
			return fmt.Errorf("invalid daemon.rebuild_interval: %s: %w", d.RebuildInterval, err)
		}
		if dur <= 0 {
			return fmt.Errorf("daemon.rebuild_interval must be positive: %s", d.RebuildInterval)
		}
	}
	return nil
}
