package search

import (
	"testing"
	"time"

	"cardview/internal/card"
)

func sampleCard() card.Card {
	return card.Card{
		Path:    "projects/go/cardview-notes.md",
		Title:   "Cardview Notes",
		Content: "Working through the source state machine.\n#design",
		Tags:    []string{"#design", "#Foo"},
		FrontMatter: map[string]any{
			"status": "active",
			"people": []any{"sam", "alex"},
		},
		CreatedAt:  time.Date(2024, 1, 5, 23, 0, 0, 0, time.UTC),
		ModifiedAt: time.Date(2024, 2, 10, 8, 30, 0, 0, time.UTC),
	}
}

func TestMatchPerField(t *testing.T) {
	c := sampleCard()
	e := NewEngine(false)

	tests := []struct {
		name  string
		field Field
		want  bool
	}{
		{"filename hit", Field{Type: FieldFilename, Query: "cardview"}, true},
		{"filename miss", Field{Type: FieldFilename, Query: "journal"}, false},
		{"title hit", Field{Type: FieldTitle, Query: "notes"}, true},
		{"content hit", Field{Type: FieldContent, Query: "state machine"}, true},
		{"path hit", Field{Type: FieldPath, Query: "projects/go"}, true},
		{"folder exact", Field{Type: FieldFolder, Query: "projects/go"}, true},
		{"folder prefix boundary", Field{Type: FieldFolder, Query: "projects"}, true},
		{"folder partial segment", Field{Type: FieldFolder, Query: "proj"}, false},
		{"tag hit", Field{Type: FieldTag, Query: "#design"}, true},
		{"tag without marker", Field{Type: FieldTag, Query: "design"}, true},
		{"frontmatter hit", Field{Type: FieldFrontMatter, Query: "alex", FrontMatterKey: "people"}, true},
		{"frontmatter absent key", Field{Type: FieldFrontMatter, Query: "alex", FrontMatterKey: "missing"}, false},
		{"frontmatter no key", Field{Type: FieldFrontMatter, Query: "alex"}, false},
		{"create day hit", Field{Type: FieldCreate, Query: "2024-01-05"}, true},
		{"create day miss", Field{Type: FieldCreate, Query: "2024-01-06"}, false},
		{"modify day hit", Field{Type: FieldModify, Query: "2024-02-10"}, true},
		{"date either hit", Field{Type: FieldDate, Query: "2024-01-05"}, true},
		{"regex hit", Field{Type: FieldRegex, Query: "state\\s+machine"}, true},
		{"regex invalid", Field{Type: FieldRegex, Query: "("}, false},
		{"file union via tag", Field{Type: FieldFile, Query: "foo"}, true},
		{"complex union via folder", Field{Type: FieldComplex, Query: "projects"}, true},
		{"empty query", Field{Type: FieldContent, Query: "  "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Match(c, tt.field); got != tt.want {
				t.Fatalf("Match(%v) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestMatchCaseSensitivity(t *testing.T) {
	c := sampleCard()

	insensitive := NewEngine(false)
	if !insensitive.Match(c, Field{Type: FieldTag, Query: "foo"}) {
		t.Fatalf("case-insensitive engine should match #Foo for foo")
	}

	sensitive := NewEngine(true)
	if sensitive.Match(c, Field{Type: FieldTag, Query: "foo"}) {
		t.Fatalf("case-sensitive engine should reject #Foo for foo")
	}
	if !sensitive.Match(c, Field{Type: FieldTag, Query: "Foo"}) {
		t.Fatalf("case-sensitive engine should accept exact-case Foo")
	}
}

func TestMatchAnyShortCircuitsOnFirstHit(t *testing.T) {
	c := sampleCard()
	e := NewEngine(false)

	fields := []Field{
		{Type: FieldFilename, Query: "cardview"},
		{Type: FieldContent, Query: "definitely absent"},
	}
	if !e.MatchAny(c, fields) {
		t.Fatalf("expected OR across fields to match on the first field")
	}

	if e.MatchAny(c, []Field{{Type: FieldContent, Query: "absent"}}) {
		t.Fatalf("unexpected match for absent content")
	}

	if e.MatchAny(c, nil) {
		t.Fatalf("no fields should never match")
	}
}

func TestParseFieldType(t *testing.T) {
	if ft, ok := ParseFieldType("  Regex "); !ok || ft != FieldRegex {
		t.Fatalf("ParseFieldType(Regex) = %v, %v", ft, ok)
	}
	if _, ok := ParseFieldType("ranked"); ok {
		t.Fatalf("expected unknown field type to be rejected")
	}
}
