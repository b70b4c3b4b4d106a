package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	archivesSize := 24
	allAtom := "feeds/all.atom.xml"

	example := Config{
		Site: SiteConfig{
			Author:      "Jane Blogger",
			Name:        "My Blog",
			URL:         "http://127.0.0.1:8000",
			Subtitle:    "Hey, my name is Jane.",
			Subtext:     "Notes and discoveries from a personal blog.",
			Copyright:   "©2026",
			Timezone:    "Europe/Berlin",
			DefaultLang: "en",
		},
		Content: ContentConfig{
			Path:        "content",
			OutputPath:  "output",
			StaticPaths: []string{"images", "images/favicon.ico", "extra/robots.txt"},
			ExtraPaths: map[string]PathMetadata{
				"extra/robots.txt":   {Path: "robots.txt"},
				"images/favicon.ico": {Path: "favicon.ico"},
			},
		},
		Theme: ThemeConfig{
			Path:        "themes/Papyrus",
			StaticPaths: []string{"static"},
			Repo: &RepoRef{
				URL:    "https://github.com/aleylara/Papyrus.git",
				Branch: "main",
			},
		},
		Plugins: PluginsConfig{
			Paths:   []string{"pelican-plugins"},
			Enabled: []string{TOCPluginName},
			Options: map[string]map[string]any{
				TOCPluginName: {
					tocKeyHeaders:      "^h[1-3]",
					tocKeyRun:          "true",
					tocKeyIncludeTitle: "false",
				},
			},
		},
		Nav: NavigationConfig{
			DirectTemplates: []string{"index", "tags", "categories", "archives"},
			PaginatedTemplates: map[string]*int{
				"index":    nil,
				"tag":      nil,
				"category": nil,
				"author":   nil,
				"archives": &archivesSize,
			},
			DefaultPageSize: 8,
		},
		Feeds: FeedsConfig{
			AllAtom:     &allAtom,
			SummaryOnly: true,
		},
		Share: []ShareLink{
			{Platform: "twitter", URLTemplate: "https://twitter.com/intent/tweet/?text=Features&url="},
			{Platform: "linkedin", URLTemplate: "https://www.linkedin.com/sharing/share-offsite/?url="},
			{Platform: "reddit", URLTemplate: "https://reddit.com/submit?url="},
			{Platform: "facebook", URLTemplate: "https://facebook.com/sharer/sharer.php?u="},
			{Platform: "whatsapp", URLTemplate: "https://api.whatsapp.com/send?text=Features - "},
			{Platform: "telegram", URLTemplate: "https://telegram.me/share/url?text=Features&url="},
		},
		Engine: EngineConfig{
			Command:        "pelican",
			SettingsPath:   "settings.json",
			SettingsFormat: SettingsFormatJSON,
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
