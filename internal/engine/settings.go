// Package engine maps the typed site configuration onto the flat settings
// schema the external static-site generator consumes, and invokes the
// generator binary. The generator's own rendering pipeline is out of scope;
// siteconf only parameterizes and launches it.
package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roadtodev/siteconf/internal/config"
)

// Settings is the flat key-value record handed to the engine. Values are
// primitives, sequences, or string-keyed maps; nothing else survives the
// handover formats.
type Settings map[string]any

// FromConfig transcribes the typed configuration into engine settings.
// Pagination null values and share-pair order are preserved.
func FromConfig(cfg *config.Config) Settings {
	s := Settings{
		"AUTHOR":       cfg.Site.Author,
		"SITENAME":     cfg.Site.Name,
		"SITEURL":      cfg.Site.URL,
		"TIMEZONE":     cfg.Site.Timezone,
		"DEFAULT_LANG": cfg.Site.DefaultLang,
		"SUBTITLE":     cfg.Site.Subtitle,
		"SUBTEXT":      cfg.Site.Subtext,
		"COPYRIGHT":    cfg.Site.Copyright,

		"PATH":               cfg.Content.Path,
		"OUTPUT_PATH":        cfg.Content.OutputPath,
		"THEME":              cfg.Theme.Path,
		"THEME_STATIC_PATHS": cfg.Theme.StaticPaths,
		"STATIC_PATHS":       cfg.Content.StaticPaths,

		"PLUGIN_PATHS": cfg.Plugins.Paths,
		"PLUGINS":      cfg.Plugins.Enabled,

		"DISPLAY_PAGES_ON_MENU": cfg.Nav.DisplayPagesOnMenuValue(),
		"DIRECT_TEMPLATES":      cfg.Nav.DirectTemplates,
		"DEFAULT_PAGINATION":    cfg.Nav.DefaultPageSize,

		"RSS_FEED_SUMMARY_ONLY": cfg.Feeds.SummaryOnly,
	}

	if len(cfg.Content.ExtraPaths) > 0 {
		extra := make(map[string]any, len(cfg.Content.ExtraPaths))
		for src, meta := range cfg.Content.ExtraPaths {
			extra[src] = map[string]any{"path": meta.Path}
		}
		s["EXTRA_PATH_METADATA"] = extra
	}

	if len(cfg.Nav.PaginatedTemplates) > 0 {
		paginated := make(map[string]any, len(cfg.Nav.PaginatedTemplates))
		for tpl, size := range cfg.Nav.PaginatedTemplates {
			if size == nil {
				paginated[tpl] = nil
			} else {
				paginated[tpl] = *size
			}
		}
		s["PAGINATED_TEMPLATES"] = paginated
	}

	s["FEED_ALL_ATOM"] = feedValue(cfg.Feeds.AllAtom)
	s["CATEGORY_FEED_ATOM"] = feedValue(cfg.Feeds.CategoryAtom)
	s["TRANSLATION_FEED_ATOM"] = feedValue(cfg.Feeds.TranslationAtom)
	s["AUTHOR_FEED_ATOM"] = feedValue(cfg.Feeds.AuthorAtom)
	s["AUTHOR_FEED_RSS"] = feedValue(cfg.Feeds.AuthorRSS)

	if len(cfg.Share) > 0 {
		share := make([][2]string, 0, len(cfg.Share))
		for _, link := range cfg.Share {
			share = append(share, [2]string{link.Platform, link.URLTemplate})
		}
		s["SHARE"] = share
	}

	// Per-plugin option maps are hoisted to their settings key unmodified.
	for name, opts := range cfg.Plugins.Options {
		s[pluginSettingsKey(name)] = opts
	}

	return s
}

// feedValue maps a disabled feed (nil or empty path) to an explicit null so
// the engine sees the feed switched off rather than left at its own default.
func feedValue(path *string) any {
	if path == nil || *path == "" {
		return nil
	}
	return *path
}

// pluginSettingsKey derives the settings key a plugin reads its options from:
// the engine prefix is dropped and the remainder is uppercased
// (pelican-toc reads "TOC").
func pluginSettingsKey(plugin string) string {
	key := strings.TrimPrefix(plugin, "pelican-")
	key = strings.ReplaceAll(key, "-", "_")
	return strings.ToUpper(key)
}

// Encode serializes the settings in the requested handover format.
func Encode(s Settings, format string) ([]byte, error) {
	switch format {
	case config.SettingsFormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}
		return append(data, '\n'), nil
	case config.SettingsFormatYAML:
		data, err := yaml.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal settings: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported settings format: %s", format)
	}
}

// WriteSettings emits the settings file at the path the engine expects.
func WriteSettings(cfg *config.Config) error {
	data, err := Encode(FromConfig(cfg), cfg.Engine.SettingsFormat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Engine.SettingsPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
