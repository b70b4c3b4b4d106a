// Package plugins resolves enabled engine plugins against the configured
// plugin search paths. Plugin code itself belongs to the engine ecosystem and
// is never loaded here.
package plugins

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roadtodev/siteconf/internal/config"
)

// Resolution describes where an enabled plugin was found.
type Resolution struct {
	Name string
	// Path is the directory or module file backing the plugin, empty when
	// the plugin is missing from every search path.
	Path string
}

// Found reports whether the plugin was located.
func (r Resolution) Found() bool { return r.Path != "" }

// Resolve locates every enabled plugin. The returned slice preserves the
// enabled order; missing plugins are included with an empty Path.
func Resolve(cfg *config.Config) []Resolution {
	resolutions := make([]Resolution, 0, len(cfg.Plugins.Enabled))
	for _, name := range cfg.Plugins.Enabled {
		resolutions = append(resolutions, Resolution{
			Name: name,
			Path: locate(name, cfg.Plugins.Paths),
		})
	}
	return resolutions
}

// CheckAll resolves every enabled plugin and fails on the first one absent
// from the declared search paths.
func CheckAll(cfg *config.Config) error {
	for _, res := range Resolve(cfg) {
		if !res.Found() {
			return fmt.Errorf("plugin %s not found in plugin paths %v", res.Name, cfg.Plugins.Paths)
		}
	}
	return nil
}

// locate probes each search path for a plugin directory or module file.
func locate(name string, searchPaths []string) string {
	for _, base := range searchPaths {
		candidates := []string{
			filepath.Join(base, name),
			filepath.Join(base, name+".py"),
		}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}
