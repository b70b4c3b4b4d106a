package config

import (
	"fmt"
	"regexp"
	"strings"
)

// TOCPluginName is the table-of-contents plugin identifier.
const TOCPluginName = "pelican-toc"

// Option keys recognized by the TOC plugin. The engine hands the whole option
// map through unmodified; these names belong to the plugin, not to siteconf.
const (
	tocKeyHeaders      = "TOC_HEADERS"
	tocKeyRun          = "TOC_RUN"
	tocKeyIncludeTitle = "TOC_INCLUDE_TITLE"
)

// TOCOptions is a typed view over the TOC plugin's opaque option map.
type TOCOptions struct {
	// Headers is a regular expression selecting which heading tags
	// (h1..h6) are included in the generated table of contents.
	Headers string
	// Run enables TOC generation when it evaluates to "true".
	Run string
	// IncludeTitle includes the article title when it evaluates to "true".
	IncludeTitle string
}

// TOC returns the typed TOC plugin options, if the plugin is enabled.
func (p PluginsConfig) TOC() (TOCOptions, bool) {
	enabled := false
	for _, name := range p.Enabled {
		if name == TOCPluginName {
			enabled = true
			break
		}
	}
	if !enabled {
		return TOCOptions{}, false
	}

	opts := TOCOptions{Headers: "^h[1-6]", Run: "true", IncludeTitle: "false"}
	raw, ok := p.Options[TOCPluginName]
	if !ok {
		return opts, true
	}
	if v, ok := raw[tocKeyHeaders].(string); ok {
		opts.Headers = v
	}
	if v, ok := raw[tocKeyRun].(string); ok {
		opts.Run = v
	}
	if v, ok := raw[tocKeyIncludeTitle].(string); ok {
		opts.IncludeTitle = v
	}
	return opts, true
}

// Validate checks that the option values are interpretable by the plugin.
func (o TOCOptions) Validate() error {
	if _, err := regexp.Compile(o.Headers); err != nil {
		return fmt.Errorf("plugins.options.%s.%s: invalid header selector %q: %w", TOCPluginName, tocKeyHeaders, o.Headers, err)
	}
	return nil
}

// Enabled reports whether TOC generation runs by default.
func (o TOCOptions) Enabled() bool { return strings.EqualFold(o.Run, "true") }

// TitleIncluded reports whether the article title is part of the TOC.
func (o TOCOptions) TitleIncluded() bool { return strings.EqualFold(o.IncludeTitle, "true") }

// HeaderPattern compiles the header selector. Validate must have passed.
func (o TOCOptions) HeaderPattern() *regexp.Regexp { return regexp.MustCompile(o.Headers) }
