package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete site configuration consumed by the external
// static-site engine and by siteconf's own tooling.
type Config struct {
	Site    SiteConfig       `yaml:"site"`
	Content ContentConfig    `yaml:"content"`
	Theme   ThemeConfig      `yaml:"theme"`
	Plugins PluginsConfig    `yaml:"plugins"`
	Nav     NavigationConfig `yaml:"navigation"`
	Feeds   FeedsConfig      `yaml:"feeds"`
	Share   []ShareLink      `yaml:"share,omitempty"`
	Engine  EngineConfig     `yaml:"engine"`
	Daemon  *DaemonConfig    `yaml:"daemon,omitempty"`
}

// SiteConfig carries the site identity rendered into page metadata.
type SiteConfig struct {
	Author      string `yaml:"author"`
	Name        string `yaml:"name"`
	URL         string `yaml:"url,omitempty"`
	Subtitle    string `yaml:"subtitle,omitempty"`
	Subtext     string `yaml:"subtext,omitempty"`
	Copyright   string `yaml:"copyright,omitempty"`
	Timezone    string `yaml:"timezone,omitempty"`
	DefaultLang string `yaml:"default_lang,omitempty"`
}

// ContentConfig locates content and static assets on disk.
type ContentConfig struct {
	Path        string                  `yaml:"path"`
	OutputPath  string                  `yaml:"output_path,omitempty"`
	StaticPaths []string                `yaml:"static_paths,omitempty"`
	ExtraPaths  map[string]PathMetadata `yaml:"extra_paths,omitempty"`
}

// PathMetadata overrides where a static source file lands in the output tree.
type PathMetadata struct {
	Path string `yaml:"path"`
}

// ThemeConfig selects the theme and its static asset directories.
type ThemeConfig struct {
	Path        string   `yaml:"path"`
	StaticPaths []string `yaml:"static_paths,omitempty"`
	Repo        *RepoRef `yaml:"repo,omitempty"`
}

// RepoRef points at a git remote used by `siteconf fetch`.
type RepoRef struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
}

// PluginsConfig declares engine plugins. Option maps are opaque: they are
// handed to the named plugin unmodified.
type PluginsConfig struct {
	Paths   []string                  `yaml:"paths,omitempty"`
	Enabled []string                  `yaml:"enabled,omitempty"`
	Options map[string]map[string]any `yaml:"options,omitempty"`
	Repos   map[string]RepoRef        `yaml:"repos,omitempty"`
}

// NavigationConfig controls menu visibility and pagination.
// PaginatedTemplates maps a template name to its page size; a null value
// means the engine's default page size applies.
type NavigationConfig struct {
	DisplayPagesOnMenu *bool           `yaml:"display_pages_on_menu,omitempty"`
	DirectTemplates    []string        `yaml:"direct_templates,omitempty"`
	PaginatedTemplates map[string]*int `yaml:"paginated_templates,omitempty"`
	DefaultPageSize    int             `yaml:"default_page_size,omitempty"`
}

// FeedsConfig controls syndication output. A nil or empty path disables that
// feed. The all-Atom feed is the only one enabled by default; disabling it is
// persisted as an empty path so the state survives a Save/Load cycle.
type FeedsConfig struct {
	AllAtom         *string `yaml:"all_atom,omitempty"`
	CategoryAtom    *string `yaml:"category_atom,omitempty"`
	TranslationAtom *string `yaml:"translation_atom,omitempty"`
	AuthorAtom      *string `yaml:"author_atom,omitempty"`
	AuthorRSS       *string `yaml:"author_rss,omitempty"`
	SummaryOnly     bool    `yaml:"summary_only,omitempty"`

	// allAtomSpecified records whether the document carried the all_atom
	// key at all (even as an explicit null), so defaulting can tell
	// "absent" from "explicitly disabled".
	allAtomSpecified bool
}

// UnmarshalYAML decodes the feeds section while recording all_atom key
// presence: an explicit null must not be re-enabled by the default.
func (f *FeedsConfig) UnmarshalYAML(value *yaml.Node) error {
	type plain FeedsConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*f = FeedsConfig(p)
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "all_atom" {
			f.allAtomSpecified = true
			break
		}
	}
	return nil
}

// ShareLink is one (platform, URL template) pair consumed by theme templates
// to render share widgets. Order is preserved.
type ShareLink struct {
	Platform    string `yaml:"platform"`
	URLTemplate string `yaml:"url"`
}

// EngineConfig names the external generator binary and how its settings are
// handed over.
type EngineConfig struct {
	Command        string   `yaml:"command,omitempty"`
	Args           []string `yaml:"args,omitempty"`
	SettingsPath   string   `yaml:"settings_path,omitempty"`
	SettingsFormat string   `yaml:"settings_format,omitempty"` // "json" or "yaml"
}

// DaemonConfig configures watch mode.
type DaemonConfig struct {
	RebuildInterval string      `yaml:"rebuild_interval,omitempty"`
	WatchContent    bool        `yaml:"watch_content,omitempty"`
	AdminAddr       string      `yaml:"admin_addr,omitempty"`
	HistoryPath     string      `yaml:"history_path,omitempty"`
	Events          *NATSConfig `yaml:"events,omitempty"`
}

// NATSConfig configures the optional run-event publisher.
type NATSConfig struct {
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// Load reads, defaults, and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	// .env values may be referenced from the YAML via ${VAR}.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env not loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw YAML into a defaulted (but not validated) Config.
// Environment variable references in the document are expanded first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the configuration back to disk. Load after Save yields an
// equivalent record; byte-identity with the original file is not guaranteed.
func Save(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DisplayPagesOnMenuValue resolves the pointer with its default (true).
func (n NavigationConfig) DisplayPagesOnMenuValue() bool {
	if n.DisplayPagesOnMenu == nil {
		return true
	}
	return *n.DisplayPagesOnMenu
}
