package card

import (
	"path/filepath"
	"strings"
	"time"
)

// Card is an immutable snapshot of one note file. Cards are produced by the
// vault reader and are re-created, never mutated, on refresh.
type Card struct {
	Path        string
	Title       string
	Content     string
	Tags        []string
	FrontMatter map[string]any
	CreatedAt   time.Time
	ModifiedAt  time.Time
}

// Stem returns the card's file name without directory or extension.
func (c Card) Stem() string {
	return Stem(c.Path)
}

// Folder returns the directory portion of the card's path.
func (c Card) Folder() string {
	dir := filepath.ToSlash(filepath.Dir(c.Path))
	if dir == "." {
		return ""
	}
	return dir
}

// Stem strips the directory and extension from a note path.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
