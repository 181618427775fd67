package card

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FirstHeader returns the text of the first markdown heading in the body, or
// an empty string when the body has none.
func FirstHeader(body []byte) string {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(body)
	document := parser.Parse(reader)

	var header string
	ast.Walk(
		document,
		func(n ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			if heading, ok := n.(*ast.Heading); ok {
				header = strings.TrimSpace(string(heading.Text(body)))
				return ast.WalkStop, nil
			}
			return ast.WalkContinue, nil
		},
	)

	return header
}

// ResolveTitle picks a display title for a note: the front matter title when
// present, otherwise the first markdown header, otherwise the file name stem.
func ResolveTitle(fm map[string]any, body []byte, path string) string {
	if raw, ok := fm["title"]; ok {
		if values := StringValues(raw); len(values) > 0 {
			if title := strings.TrimSpace(values[0]); title != "" {
				return title
			}
		}
	}

	if header := FirstHeader(body); header != "" {
		return header
	}

	return Stem(path)
}
