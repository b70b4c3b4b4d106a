package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultsMinimalConfig(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  author: A\n  name: B\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.Content.Path != "content" {
		t.Fatalf("content.path default wrong: %q", cfg.Content.Path)
	}
	if cfg.Content.OutputPath != "output" {
		t.Fatalf("content.output_path default wrong: %q", cfg.Content.OutputPath)
	}
	if cfg.Site.Timezone != "UTC" {
		t.Fatalf("site.timezone default wrong: %q", cfg.Site.Timezone)
	}
	if cfg.Site.DefaultLang != "en" {
		t.Fatalf("site.default_lang default wrong: %q", cfg.Site.DefaultLang)
	}
	if cfg.Nav.DefaultPageSize != 10 {
		t.Fatalf("navigation.default_page_size default wrong: %d", cfg.Nav.DefaultPageSize)
	}
	if len(cfg.Nav.DirectTemplates) != 4 {
		t.Fatalf("navigation.direct_templates default wrong: %v", cfg.Nav.DirectTemplates)
	}
	if cfg.Feeds.AllAtom == nil || *cfg.Feeds.AllAtom != "feeds/all.atom.xml" {
		t.Fatalf("feeds.all_atom default wrong: %v", cfg.Feeds.AllAtom)
	}
	if cfg.Engine.Command != "pelican" {
		t.Fatalf("engine.command default wrong: %q", cfg.Engine.Command)
	}
	if cfg.Engine.SettingsFormat != SettingsFormatJSON {
		t.Fatalf("engine.settings_format default wrong: %q", cfg.Engine.SettingsFormat)
	}
}

func TestAllAtomExplicitEmptyDisables(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  name: B\nfeeds:\n  all_atom: \"\"\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Feeds.AllAtom == nil || *cfg.Feeds.AllAtom != "" {
		t.Fatalf("empty all_atom should stay a disabled (empty) path, got %v", cfg.Feeds.AllAtom)
	}
}

func TestAllAtomExplicitNullDisables(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  name: B\nfeeds:\n  all_atom: null\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.Feeds.AllAtom == nil || *cfg.Feeds.AllAtom != "" {
		t.Fatalf("explicit null all_atom must not fall back to the default, got %v", cfg.Feeds.AllAtom)
	}
}

func TestDisabledAllAtomSurvivesReserialization(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  name: B\nfeeds:\n  all_atom: null\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	again, err := Parse(data)
	if err != nil {
		t.Fatalf("re-Parse error: %v", err)
	}
	if again.Feeds.AllAtom == nil || *again.Feeds.AllAtom != "" {
		t.Fatalf("disabled all_atom came back as %v after a save/load cycle", again.Feeds.AllAtom)
	}
}

func TestThemeStaticPathsDefault(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  name: B\ntheme:\n  path: themes/Papyrus\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(cfg.Theme.StaticPaths) != 1 || cfg.Theme.StaticPaths[0] != "static" {
		t.Fatalf("theme.static_paths default wrong: %v", cfg.Theme.StaticPaths)
	}
}

func TestDaemonDefaults(t *testing.T) {
	cfg, err := Parse([]byte("site:\n  name: B\ndaemon:\n  events: {}\n"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	d := cfg.Daemon
	if d == nil {
		t.Fatal("daemon section missing")
	}
	if d.RebuildInterval != "4h" {
		t.Fatalf("rebuild_interval default wrong: %q", d.RebuildInterval)
	}
	if d.AdminAddr != ":8082" {
		t.Fatalf("admin_addr default wrong: %q", d.AdminAddr)
	}
	if d.HistoryPath == "" {
		t.Fatal("history_path default missing")
	}
	if d.Events.URL != "nats://localhost:4222" {
		t.Fatalf("events.url default wrong: %q", d.Events.URL)
	}
	if d.Events.Subject != "siteconf.runs" {
		t.Fatalf("events.subject default wrong: %q", d.Events.Subject)
	}
}
