package vault

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeNote(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
	return path
}

func TestListMarkdownFilesSkipsHiddenAndExcluded(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "a.md", "alpha")
	writeNote(t, dir, "projects/b.md", "beta")
	writeNote(t, dir, ".obsidian/workspace.md", "hidden")
	writeNote(t, dir, "trash/c.md", "trashed")
	writeNote(t, dir, "readme.txt", "not markdown")

	v := New(dir, []string{"trash"})
	files, err := v.ListMarkdownFiles()
	if err != nil {
		t.Fatalf("ListMarkdownFiles returned error: %v", err)
	}

	want := []string{"a.md", "projects/b.md"}
	if !reflect.DeepEqual(files, want) {
		t.Fatalf("ListMarkdownFiles = %v, want %v", files, want)
	}
}

func TestSubfoldersIncludesRootFirst(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "projects/go/a.md", "alpha")
	writeNote(t, dir, "daily/b.md", "beta")

	v := New(dir, nil)
	folders, err := v.Subfolders()
	if err != nil {
		t.Fatalf("Subfolders returned error: %v", err)
	}

	want := []string{"", "daily", "projects", "projects/go"}
	if !reflect.DeepEqual(folders, want) {
		t.Fatalf("Subfolders = %v, want %v", folders, want)
	}
}

func TestReadCardBuildsSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "projects/note.md", "---\ntitle: My Note\ntags: [alpha]\ncreated: 2024-01-05\n---\nbody with #inline tag\n```\n#fenced\n```\n")

	v := New(dir, nil)
	c, err := v.ReadCard("projects/note.md")
	if err != nil {
		t.Fatalf("ReadCard returned error: %v", err)
	}

	if c.Path != "projects/note.md" {
		t.Fatalf("unexpected path %q", c.Path)
	}
	if c.Title != "My Note" {
		t.Fatalf("unexpected title %q", c.Title)
	}
	if c.CreatedAt.Format("2006-01-02") != "2024-01-05" {
		t.Fatalf("unexpected created time %v", c.CreatedAt)
	}

	wantTags := []string{"#alpha", "#inline"}
	if !reflect.DeepEqual(c.Tags, wantTags) {
		t.Fatalf("Tags = %v, want %v", c.Tags, wantTags)
	}
}

func TestReadCardSurvivesBrokenFrontMatter(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "broken.md", "---\ntitle: [unclosed\n---\n# Recovered Title\nbody")

	v := New(dir, nil)
	c, err := v.ReadCard("broken.md")
	if err != nil {
		t.Fatalf("ReadCard returned error: %v", err)
	}
	if c.Title != "Recovered Title" {
		t.Fatalf("expected header fallback title, got %q", c.Title)
	}
}

func TestReadCardsSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	writeNote(t, dir, "ok.md", "fine")

	v := New(dir, nil)
	cards := v.ReadCards([]string{"ok.md", "missing.md"})
	if len(cards) != 1 || cards[0].Path != "ok.md" {
		t.Fatalf("expected only the readable card, got %+v", cards)
	}
}

func TestInlineTagsSkipsCode(t *testing.T) {
	body := []byte("prose #keep\n\n```\n#skip\n```\n\nand `#alsoskip` inline\n")

	got := InlineTags(body)
	want := []string{"#keep"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InlineTags = %v, want %v", got, want)
	}
}
