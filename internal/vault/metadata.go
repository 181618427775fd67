package vault

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"cardview/internal/tagdex"
)

// InlineTags walks the markdown AST of a note body and reports tag-shaped
// tokens found in prose, in document order. Code blocks and code spans never
// contribute tags.
func InlineTags(body []byte) []string {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(body)
	document := parser.Parse(reader)

	var tags []string
	seen := make(map[string]struct{})

	ast.Walk(
		document,
		func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}

			switch node := n.(type) {
			case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.CodeSpan:
				return ast.WalkSkipChildren, nil
			case *ast.Text:
				chunk := node.Segment.Value(body)
				for _, tag := range tagdex.ScanBody(string(chunk)) {
					if _, ok := seen[tag]; ok {
						continue
					}
					seen[tag] = struct{}{}
					tags = append(tags, tag)
				}
			}
			return ast.WalkContinue, nil
		},
	)

	return tags
}
