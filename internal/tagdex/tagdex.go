// Package tagdex extracts and normalizes the tag set of a note from front
// matter, inline markup, and raw-content scanning. Every tag converges to a
// single representation carrying a leading "#" before de-duplication.
package tagdex

import (
	"bufio"
	"regexp"
	"strings"

	"cardview/internal/card"
)

var tagPattern = regexp.MustCompile(`#[A-Za-z0-9_][A-Za-z0-9_/-]*`)

// Normalize trims a tag expression and prepends the "#" marker when absent.
// Normalizing an already-normalized tag yields the same tag.
func Normalize(tag string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	if strings.HasPrefix(tag, "#") {
		return tag
	}
	return "#" + tag
}

// Strip removes the leading marker for comparison purposes.
func Strip(tag string) string {
	return strings.TrimPrefix(strings.TrimSpace(tag), "#")
}

// Extract merges the three tag sources of a note in order: front matter
// (`tags` plus the singular `tag` alias), inline tags reported by the
// metadata scan, and a raw-content fallback scan that skips fenced code
// blocks. The result preserves first-seen order with duplicates removed.
func Extract(fm map[string]any, inline []string, body string) []string {
	var merged []string

	for _, key := range []string{"tags", "tag"} {
		raw, ok := fm[key]
		if !ok {
			continue
		}
		for _, value := range card.StringValues(raw) {
			for _, part := range strings.Split(value, ",") {
				if tag := Normalize(part); tag != "" && tag != "#" {
					merged = appendIfNotExists(merged, tag)
				}
			}
		}
	}

	for _, tag := range inline {
		if normalized := Normalize(tag); normalized != "" {
			merged = appendIfNotExists(merged, normalized)
		}
	}

	for _, tag := range ScanBody(body) {
		merged = appendIfNotExists(merged, tag)
	}

	return merged
}

// ScanBody finds tag-shaped tokens in raw note content, excluding anything
// inside fenced code blocks.
func ScanBody(body string) []string {
	var (
		tags    []string
		inFence bool
	)

	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, match := range tagPattern.FindAllString(line, -1) {
			tags = appendIfNotExists(tags, match)
		}
	}

	return tags
}

// Matches evaluates a comma-separated tag expression against a card's tag
// set. A card matches when ANY of its tags equals ANY requested tag after
// normalization; list-vs-list OR, not AND.
func Matches(cardTags []string, expression string, caseSensitive bool) bool {
	for _, part := range strings.Split(expression, ",") {
		want := Strip(part)
		if want == "" {
			continue
		}
		for _, have := range cardTags {
			if equalTag(Strip(have), want, caseSensitive) {
				return true
			}
		}
	}
	return false
}

// ContainsQuery reports whether any card tag contains the query as a
// substring, with the leading marker optional on the query.
func ContainsQuery(cardTags []string, query string, caseSensitive bool) bool {
	want := Strip(query)
	if want == "" {
		return false
	}
	if !caseSensitive {
		want = strings.ToLower(want)
	}
	for _, have := range cardTags {
		candidate := Strip(have)
		if !caseSensitive {
			candidate = strings.ToLower(candidate)
		}
		if strings.Contains(candidate, want) {
			return true
		}
	}
	return false
}

func equalTag(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func appendIfNotExists(slice []string, value string) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	return append(slice, value)
}
