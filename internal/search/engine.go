// Package search evaluates card-set queries against individual cards. Matches
// are boolean; there is no relevance scoring.
package search

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"cardview/internal/card"
	"cardview/internal/pathutil"
	"cardview/internal/tagdex"
)

// FieldType names one of the supported search dimensions.
type FieldType string

const (
	FieldFilename    FieldType = "filename"
	FieldTitle       FieldType = "title"
	FieldContent     FieldType = "content"
	FieldPath        FieldType = "path"
	FieldFolder      FieldType = "folder"
	FieldTag         FieldType = "tag"
	FieldFrontMatter FieldType = "frontmatter"
	FieldCreate      FieldType = "create"
	FieldModify      FieldType = "modify"
	FieldDate        FieldType = "date"
	FieldRegex       FieldType = "regex"
	FieldFile        FieldType = "file"
	FieldComplex     FieldType = "complex"
)

// FieldTypes lists every supported field type.
func FieldTypes() []FieldType {
	return []FieldType{
		FieldFilename, FieldTitle, FieldContent, FieldPath, FieldFolder,
		FieldTag, FieldFrontMatter, FieldCreate, FieldModify, FieldDate,
		FieldRegex, FieldFile, FieldComplex,
	}
}

// ParseFieldType validates a user-supplied field type name.
func ParseFieldType(name string) (FieldType, bool) {
	candidate := FieldType(strings.ToLower(strings.TrimSpace(name)))
	for _, ft := range FieldTypes() {
		if ft == candidate {
			return ft, true
		}
	}
	return "", false
}

// Field is one row of a multi-field search.
type Field struct {
	Type           FieldType
	Query          string
	FrontMatterKey string
}

// Engine evaluates fields against cards with a fixed case-sensitivity mode.
type Engine struct {
	caseSensitive bool
}

// NewEngine constructs an engine. When caseSensitive is false both sides of
// every comparison are lowercased before matching.
func NewEngine(caseSensitive bool) *Engine {
	return &Engine{caseSensitive: caseSensitive}
}

// MatchAny reports whether any field matches the card, short-circuiting on
// the first hit. Fields combine with OR semantics.
func (e *Engine) MatchAny(c card.Card, fields []Field) bool {
	for _, field := range fields {
		if e.Match(c, field) {
			return true
		}
	}
	return false
}

// Match evaluates a single field against a card.
func (e *Engine) Match(c card.Card, field Field) bool {
	query := strings.TrimSpace(field.Query)
	if query == "" {
		return false
	}

	switch field.Type {
	case FieldFilename:
		return e.contains(c.Stem(), query)
	case FieldTitle:
		return e.contains(c.Title, query)
	case FieldContent:
		return e.contains(c.Content, query)
	case FieldPath:
		return e.contains(c.Path, query)
	case FieldFolder:
		return e.matchFolder(c, query)
	case FieldTag:
		return tagdex.ContainsQuery(c.Tags, query, e.caseSensitive)
	case FieldFrontMatter:
		return e.matchFrontMatter(c, field.FrontMatterKey, query)
	case FieldCreate:
		return matchDay(c.CreatedAt, query)
	case FieldModify:
		return matchDay(c.ModifiedAt, query)
	case FieldDate:
		return matchDay(c.CreatedAt, query) || matchDay(c.ModifiedAt, query)
	case FieldRegex:
		return e.matchRegex(c, query)
	case FieldFile:
		return e.contains(c.Stem(), query) ||
			e.contains(c.Content, query) ||
			e.contains(c.Path, query) ||
			tagdex.ContainsQuery(c.Tags, query, e.caseSensitive)
	case FieldComplex:
		return e.contains(c.Stem(), query) ||
			e.contains(c.Content, query) ||
			e.contains(c.Path, query) ||
			tagdex.ContainsQuery(c.Tags, query, e.caseSensitive) ||
			e.contains(c.Title, query) ||
			e.matchFolder(c, query)
	default:
		return false
	}
}

func (e *Engine) contains(haystack, needle string) bool {
	if !e.caseSensitive {
		haystack = strings.ToLower(haystack)
		needle = strings.ToLower(needle)
	}
	return strings.Contains(haystack, needle)
}

func (e *Engine) matchFolder(c card.Card, query string) bool {
	folder := c.Folder()
	if !e.caseSensitive {
		folder = strings.ToLower(folder)
		query = strings.ToLower(query)
	}
	return pathutil.WithinFolder(folder, query)
}

func (e *Engine) matchFrontMatter(c card.Card, key, query string) bool {
	if key == "" {
		return false
	}
	raw, ok := c.FrontMatter[key]
	if !ok {
		return false
	}
	for _, value := range card.StringValues(raw) {
		if e.contains(value, query) {
			return true
		}
	}
	return false
}

func (e *Engine) matchRegex(c card.Card, pattern string) bool {
	if !e.caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		log.Printf("search: invalid regex pattern %q: %v", pattern, err)
		return false
	}
	return re.MatchString(c.Title) ||
		re.MatchString(c.Content) ||
		re.MatchString(c.Path)
}

const dayLayout = "2006-01-02"

// matchDay compares the calendar day of a timestamp to the query. Equality
// is exact, not a range. Date queries tolerate common formats via dateparse.
func matchDay(ts time.Time, query string) bool {
	if ts.IsZero() {
		return false
	}

	day := ts.Format(dayLayout)
	query = strings.TrimSpace(query)
	if query == day {
		return true
	}

	parsed, err := dateparse.ParseAny(query)
	if err != nil {
		return false
	}
	return parsed.Format(dayLayout) == day
}
