package lint

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// extractHeadingLevels parses a Markdown body and returns the set of heading
// levels (1..6) it contains.
func extractHeadingLevels(body []byte) map[int]bool {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	levels := make(map[int]bool)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			levels[h.Level] = true
		}
		return gmast.WalkContinue, nil
	})
	return levels
}
