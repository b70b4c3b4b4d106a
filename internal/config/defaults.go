package config

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// ApplyDefaults runs every domain applier in dependency order.
func ApplyDefaults(cfg *Config) error {
	appliers := []DefaultApplier{
		&SiteDefaultApplier{},
		&ContentDefaultApplier{},
		&NavigationDefaultApplier{},
		&FeedsDefaultApplier{},
		&EngineDefaultApplier{},
		&DaemonDefaultApplier{},
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}

// SiteDefaultApplier handles identity defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.Name == "" {
		cfg.Site.Name = "A Personal Blog"
	}
	if cfg.Site.Timezone == "" {
		cfg.Site.Timezone = "UTC"
	}
	if cfg.Site.DefaultLang == "" {
		cfg.Site.DefaultLang = "en"
	}
	return nil
}

// ContentDefaultApplier handles content and asset path defaults.
type ContentDefaultApplier struct{}

func (c *ContentDefaultApplier) Domain() string { return "content" }

func (c *ContentDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Content.Path == "" {
		cfg.Content.Path = "content"
	}
	if cfg.Content.OutputPath == "" {
		cfg.Content.OutputPath = "output"
	}
	if cfg.Theme.Path != "" && len(cfg.Theme.StaticPaths) == 0 {
		cfg.Theme.StaticPaths = []string{"static"}
	}
	return nil
}

// NavigationDefaultApplier handles menu and pagination defaults.
type NavigationDefaultApplier struct{}

func (n *NavigationDefaultApplier) Domain() string { return "navigation" }

func (n *NavigationDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Nav.DirectTemplates == nil {
		cfg.Nav.DirectTemplates = []string{"index", "tags", "categories", "archives"}
	}
	if cfg.Nav.DefaultPageSize <= 0 {
		cfg.Nav.DefaultPageSize = 10
	}
	return nil
}

// FeedsDefaultApplier handles syndication defaults.
type FeedsDefaultApplier struct{}

func (f *FeedsDefaultApplier) Domain() string { return "feeds" }

func (f *FeedsDefaultApplier) ApplyDefaults(cfg *Config) error {
	// Per-category/author/translation feeds stay disabled unless configured.
	switch {
	case cfg.Feeds.AllAtom == nil && !cfg.Feeds.allAtomSpecified:
		path := "feeds/all.atom.xml"
		cfg.Feeds.AllAtom = &path
	case cfg.Feeds.AllAtom == nil:
		// Explicit null disables the feed. Normalize to an empty path so the
		// disabled state survives Save (a nil pointer would be omitted and
		// come back enabled on the next Load).
		disabled := ""
		cfg.Feeds.AllAtom = &disabled
	}
	return nil
}

// EngineDefaultApplier handles external generator defaults.
type EngineDefaultApplier struct{}

func (e *EngineDefaultApplier) Domain() string { return "engine" }

func (e *EngineDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Engine.Command == "" {
		cfg.Engine.Command = "pelican"
	}
	if cfg.Engine.SettingsPath == "" {
		cfg.Engine.SettingsPath = "settings.json"
	}
	if cfg.Engine.SettingsFormat == "" {
		cfg.Engine.SettingsFormat = SettingsFormatJSON
	}
	return nil
}

// DaemonDefaultApplier handles watch-mode defaults.
type DaemonDefaultApplier struct{}

func (d *DaemonDefaultApplier) Domain() string { return "daemon" }

func (d *DaemonDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Daemon == nil {
		return nil
	}
	if cfg.Daemon.RebuildInterval == "" {
		cfg.Daemon.RebuildInterval = "4h"
	}
	if cfg.Daemon.AdminAddr == "" {
		cfg.Daemon.AdminAddr = ":8082"
	}
	if cfg.Daemon.HistoryPath == "" {
		cfg.Daemon.HistoryPath = "./siteconf-history.db"
	}
	if cfg.Daemon.Events != nil {
		if cfg.Daemon.Events.URL == "" {
			cfg.Daemon.Events.URL = "nats://localhost:4222"
		}
		if cfg.Daemon.Events.Subject == "" {
			cfg.Daemon.Events.Subject = "siteconf.runs"
		}
	}
	return nil
}
