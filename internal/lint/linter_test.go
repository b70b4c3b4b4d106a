package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roadtodev/siteconf/internal/config"
)

// scaffoldSite lays out a minimal site tree and returns its root.
func scaffoldSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "content", "images"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "content", "extra"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "themes", "Papyrus"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pelican-plugins", "pelican-toc"), 0o755))

	post := "Title\n=====\n\n## Section\n\nBody text.\n\n### Subsection\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "content", "post.md"), []byte(post), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "content", "extra", "robots.txt"), []byte("User-agent: *\n"), 0o644))

	return root
}

func siteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Site:    config.SiteConfig{Name: "Road to Dev"},
		Content: config.ContentConfig{Path: "content", StaticPaths: []string{"images", "extra/robots.txt"}},
		Theme:   config.ThemeConfig{Path: "themes/Papyrus"},
		Plugins: config.PluginsConfig{
			Paths:   []string{"pelican-plugins"},
			Enabled: []string{config.TOCPluginName},
			Options: map[string]map[string]any{
				config.TOCPluginName: {"TOC_HEADERS": "^h[1-3]", "TOC_RUN": "true"},
			},
		},
	}
	require.NoError(t, config.ApplyDefaults(cfg))
	return cfg
}

func TestLintCleanSite(t *testing.T) {
	root := scaffoldSite(t)
	result, err := NewLinter(siteConfig(t), root).Run()
	require.NoError(t, err)
	require.Empty(t, result.Issues)
	require.Equal(t, 1, result.FilesTotal)
}

func TestLintMissingTheme(t *testing.T) {
	root := scaffoldSite(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "themes")))

	result, err := NewLinter(siteConfig(t), root).Run()
	require.NoError(t, err)
	require.True(t, result.HasErrors())

	found := false
	for _, issue := range result.Issues {
		if issue.Rule == "theme-missing" {
			found = true
		}
	}
	require.True(t, found, "expected theme-missing issue, got %v", result.Issues)
}

func TestLintMissingStaticPath(t *testing.T) {
	root := scaffoldSite(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "content", "images")))

	result, err := NewLinter(siteConfig(t), root).Run()
	require.NoError(t, err)
	require.True(t, result.HasWarnings())
}

func TestLintMissingPlugin(t *testing.T) {
	root := scaffoldSite(t)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "pelican-plugins", "pelican-toc")))

	result, err := NewLinter(siteConfig(t), root).Run()
	require.NoError(t, err)
	require.True(t, result.HasErrors())
}

func TestLintTOCSelectorUnmatched(t *testing.T) {
	root := scaffoldSite(t)
	cfg := siteConfig(t)
	// Content only has h1..h3 headings; selecting h5/h6 matches nothing.
	cfg.Plugins.Options[config.TOCPluginName]["TOC_HEADERS"] = "^h[5-6]"

	result, err := NewLinter(cfg, root).Run()
	require.NoError(t, err)

	found := false
	for _, issue := range result.Issues {
		if issue.Rule == "toc-selector-unmatched" {
			found = true
		}
	}
	require.True(t, found, "expected toc-selector-unmatched, got %v", result.Issues)
}

func TestLintTOCDisabledSkipsContentScan(t *testing.T) {
	root := scaffoldSite(t)
	cfg := siteConfig(t)
	cfg.Plugins.Options[config.TOCPluginName]["TOC_RUN"] = "false"

	result, err := NewLinter(cfg, root).Run()
	require.NoError(t, err)
	require.Equal(t, 0, result.FilesTotal, "content should not be scanned when TOC is off")
}

func TestExtractHeadingLevels(t *testing.T) {
	levels := extractHeadingLevels([]byte("# One\n\n### Three\n\ntext\n"))
	require.True(t, levels[1])
	require.True(t, levels[3])
	require.False(t, levels[2])
}
