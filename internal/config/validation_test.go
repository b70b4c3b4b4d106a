package config

import (
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return cfg
}

func TestValidateSampleConfig(t *testing.T) {
	if err := ValidateConfig(validConfig(t)); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	size := -3
	zero := 0

	cases := []struct {
		name    string
		mutate  func(cfg *Config)
		wantSub string
	}{
		{
			name:    "bad timezone",
			mutate:  func(cfg *Config) { cfg.Site.Timezone = "Mars/Olympus" },
			wantSub: "site.timezone",
		},
		{
			name:    "bad language",
			mutate:  func(cfg *Config) { cfg.Site.DefaultLang = "no-such-lang-tag!!" },
			wantSub: "site.default_lang",
		},
		{
			name:    "relative site url",
			mutate:  func(cfg *Config) { cfg.Site.URL = "/blog" },
			wantSub: "site.url",
		},
		{
			name:    "empty content path",
			mutate:  func(cfg *Config) { cfg.Content.Path = "" },
			wantSub: "content.path",
		},
		{
			name:    "negative page size",
			mutate:  func(cfg *Config) { cfg.Nav.PaginatedTemplates["index"] = &size },
			wantSub: "page size must be positive",
		},
		{
			name:    "zero page size",
			mutate:  func(cfg *Config) { cfg.Nav.PaginatedTemplates["tag"] = &zero },
			wantSub: "page size must be positive",
		},
		{
			name:    "empty share platform",
			mutate:  func(cfg *Config) { cfg.Share[0].Platform = "" },
			wantSub: "platform cannot be empty",
		},
		{
			name:    "duplicate share platform",
			mutate:  func(cfg *Config) { cfg.Share[1].Platform = cfg.Share[0].Platform },
			wantSub: "duplicate share platform",
		},
		{
			name:    "share template bad scheme",
			mutate:  func(cfg *Config) { cfg.Share[0].URLTemplate = "ftp://example.com/?url=" },
			wantSub: "http or https",
		},
		{
			name:    "share template empty",
			mutate:  func(cfg *Config) { cfg.Share[0].URLTemplate = "" },
			wantSub: "url template cannot be empty",
		},
		{
			name:    "absolute feed path",
			mutate:  func(cfg *Config) { abs := "/feeds/all.atom.xml"; cfg.Feeds.AllAtom = &abs },
			wantSub: "must be relative",
		},
		{
			name:    "duplicate plugin",
			mutate:  func(cfg *Config) { cfg.Plugins.Enabled = append(cfg.Plugins.Enabled, "pelican-toc") },
			wantSub: "duplicate plugin",
		},
		{
			name: "options for disabled plugin",
			mutate: func(cfg *Config) {
				cfg.Plugins.Options["pelican-search"] = map[string]any{"SEARCH_MODE": "output"}
			},
			wantSub: "not enabled",
		},
		{
			name: "invalid toc selector",
			mutate: func(cfg *Config) {
				cfg.Plugins.Options[TOCPluginName][tocKeyHeaders] = "^h[1-"
			},
			wantSub: "invalid header selector",
		},
		{
			name:    "extra path not covered by static paths",
			mutate:  func(cfg *Config) { cfg.Content.ExtraPaths["secret/keys.txt"] = PathMetadata{Path: "keys.txt"} },
			wantSub: "not covered by content.static_paths",
		},
		{
			name:    "bad settings format",
			mutate:  func(cfg *Config) { cfg.Engine.SettingsFormat = "toml" },
			wantSub: "settings_format",
		},
		{
			name: "bad rebuild interval",
			mutate: func(cfg *Config) {
				cfg.Daemon = &DaemonConfig{RebuildInterval: "whenever"}
			},
			wantSub: "rebuild_interval",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(cfg)
			err := ValidateConfig(cfg)
			if err == nil {
				t.Fatalf("expected validation error containing %q", tc.wantSub)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not contain %q", err.Error(), tc.wantSub)
			}
		})
	}
}

func TestExtraPathCoveredByParentDirectory(t *testing.T) {
	cfg := validConfig(t)
	// images/social/banner.png lives under the declared "images" directory.
	cfg.Content.ExtraPaths["images/social/banner.png"] = PathMetadata{Path: "banner.png"}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("nested extra path should be covered by parent static path: %v", err)
	}
}

func TestShareTemplateTrailingEquals(t *testing.T) {
	// Share templates commonly end mid-query; a trailing '=' must be accepted.
	if err := validateShareTemplate("https://reddit.com/submit?url="); err != nil {
		t.Fatalf("trailing '=' template rejected: %v", err)
	}
	if err := validateShareTemplate("https://api.whatsapp.com/send?text=Features - "); err != nil {
		t.Fatalf("trailing '- ' template rejected: %v", err)
	}
}
