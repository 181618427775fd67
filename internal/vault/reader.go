package vault

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/araddon/dateparse"

	"cardview/internal/card"
	"cardview/internal/tagdex"
)

// ReadFile returns the raw contents of a vault-relative note path. Contents
// are cached keyed by path and modification time, so unchanged files are not
// reread across resolutions.
func (v *Vault) ReadFile(rel string) (string, error) {
	abs := v.Abs(rel)

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("vault: stat %s: %w", rel, err)
	}

	key := fmt.Sprintf("%s@%d", rel, info.ModTime().UnixNano())
	if cached, ok := v.cache.Get(key); ok {
		return cached, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", fmt.Errorf("vault: read %s: %w", rel, err)
	}

	content := string(data)
	v.cache.Put(key, content)
	return content, nil
}

// ReadCard builds a card snapshot for a vault-relative note path.
func (v *Vault) ReadCard(rel string) (card.Card, error) {
	raw, err := v.ReadFile(rel)
	if err != nil {
		return card.Card{}, err
	}

	info, err := os.Stat(v.Abs(rel))
	if err != nil {
		return card.Card{}, fmt.Errorf("vault: stat %s: %w", rel, err)
	}

	fmBlock, body := card.SplitFrontMatter([]byte(raw))
	fm, err := card.ParseFrontMatter(fmBlock)
	if err != nil {
		// A broken front matter block demotes the note to body-only
		// rather than dropping it from the card set.
		log.Printf("vault: parsing front matter of %s: %v", rel, err)
		fm = make(map[string]any)
	}

	modified := info.ModTime().UTC()

	return card.Card{
		Path:        rel,
		Title:       card.ResolveTitle(fm, body, rel),
		Content:     string(body),
		Tags:        tagdex.Extract(fm, InlineTags(body), string(body)),
		FrontMatter: fm,
		CreatedAt:   createdAt(fm, modified),
		ModifiedAt:  modified,
	}, nil
}

// ReadCards resolves a list of note paths into cards. A file that cannot be
// read is skipped with a log entry; the remaining files still resolve.
func (v *Vault) ReadCards(paths []string) []card.Card {
	cards := make([]card.Card, 0, len(paths))
	for _, rel := range paths {
		c, err := v.ReadCard(rel)
		if err != nil {
			log.Printf("vault: skipping %s: %v", rel, err)
			continue
		}
		cards = append(cards, c)
	}
	return cards
}

// FrontMatterOf returns only the parsed front matter of a note.
func (v *Vault) FrontMatterOf(rel string) (map[string]any, error) {
	raw, err := v.ReadFile(rel)
	if err != nil {
		return nil, err
	}

	fmBlock, _ := card.SplitFrontMatter([]byte(raw))
	return card.ParseFrontMatter(fmBlock)
}

// TagsOf returns the merged, normalized tag set of a note.
func (v *Vault) TagsOf(rel string) ([]string, error) {
	c, err := v.ReadCard(rel)
	if err != nil {
		return nil, err
	}
	return c.Tags, nil
}

// Front matter keys consulted for a note's creation timestamp. The file
// system's modification time is the fallback; most file systems do not
// expose a portable birth time.
var createdKeys = []string{"created", "created_at", "date created", "date"}

func createdAt(fm map[string]any, fallback time.Time) time.Time {
	for _, key := range createdKeys {
		raw, ok := fm[key]
		if !ok {
			continue
		}
		for _, value := range card.StringValues(raw) {
			if parsed, err := dateparse.ParseAny(value); err == nil {
				return parsed.UTC()
			}
		}
	}
	return fallback
}
