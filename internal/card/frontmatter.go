package card

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var frontMatterRe = regexp.MustCompile(`(?ms)^---\s*\n(.*?)\n---\s*\n?`)

// SplitFrontMatter separates a note's YAML front matter from its body. When
// no front matter block is present the full input is returned as the body.
func SplitFrontMatter(data []byte) ([]byte, []byte) {
	loc := frontMatterRe.FindSubmatchIndex(data)
	if len(loc) < 4 {
		return nil, data
	}
	fm := data[loc[2]:loc[3]]
	body := data[loc[1]:]
	return fm, body
}

// ParseFrontMatter decodes a front matter block into a key/value map. Values
// keep their YAML shape: scalars decode to strings or numbers, sequences to
// slices. A malformed block yields an error so callers can degrade to an
// empty map rather than dropping the note.
func ParseFrontMatter(fm []byte) (map[string]any, error) {
	result := make(map[string]any)
	if len(fm) == 0 {
		return result, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(fm, &doc); err != nil {
		return nil, err
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return result, nil
	}

	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return result, nil
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valueNode := mapping.Content[i+1]

		var value any
		if err := valueNode.Decode(&value); err != nil {
			// A single undecodable value should not poison the rest of
			// the mapping.
			continue
		}
		result[keyNode.Value] = value
	}

	return result, nil
}

// StringValues flattens a front matter value into its string forms. Strings
// pass through, sequences contribute each element, and everything else is
// rendered through YAML so numeric and boolean values still compare.
func StringValues(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, StringValues(item)...)
		}
		return out
	default:
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil
		}
		return []string{strings.TrimSpace(string(data))}
	}
}
