package bullets

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownList pulls list items out of markdown-formatted analysis/summary
// text. Models frequently answer with a markdown bullet list inside a prose
// field; parsing the AST is far more reliable than splitting on bullet
// characters, so this strategy runs before plain sentence splitting.
func markdownList(_ string, raw map[string]any) []string {
	for _, field := range []string{"analysis", "summary"} {
		src, ok := raw[field].(string)
		if !ok || !strings.ContainsAny(src, "-*+") {
			continue
		}
		if items := listItems(src); len(items) > 0 {
			return items
		}
	}
	return nil
}

func listItems(src string) []string {
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var out []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		item, ok := n.(*ast.ListItem)
		if !ok {
			return ast.WalkContinue, nil
		}
		if s := strings.TrimSpace(nodeText(item, source)); s != "" {
			out = append(out, s)
		}
		// Children were consumed by nodeText; no need to descend further.
		return ast.WalkSkipChildren, nil
	})
	return out
}

// nodeText collects the plain text under a node.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
