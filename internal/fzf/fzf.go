// Package fzf provides interactive fuzzy selection of card sets and cards.
package fzf

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"cardview/internal/card"
	"cardview/internal/source"
	"cardview/internal/vault"
)

// Picker runs fuzzy-finder sessions over the vault's selectable sets.
type Picker struct {
	vault  *vault.Vault
	Header string
}

// NewPicker constructs a picker for the provided vault.
func NewPicker(v *vault.Vault, header string) *Picker {
	return &Picker{vault: v, Header: header}
}

// PickFolder lets the user choose a folder card set. The vault root appears
// as "/".
func (p *Picker) PickFolder() (string, error) {
	folders, err := source.Folders(p.vault)
	if err != nil {
		return "", fmt.Errorf("listing folders: %w", err)
	}

	display := make([]string, len(folders))
	for i, folder := range folders {
		if folder == "" {
			display[i] = "/"
		} else {
			display[i] = folder
		}
	}

	idx, err := fuzzyfinder.Find(
		display,
		func(i int) string { return display[i] },
		fuzzyfinder.WithHeader(p.Header),
	)
	if err != nil {
		return "", err
	}
	return folders[idx], nil
}

// PickTag lets the user choose a tag card set, showing usage counts.
func (p *Picker) PickTag() (string, error) {
	tags, counts, err := source.Tags(p.vault)
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("no tags found in vault")
	}

	idx, err := fuzzyfinder.Find(
		tags,
		func(i int) string {
			return fmt.Sprintf("%s (%d)", tags[i], counts[tags[i]])
		},
		fuzzyfinder.WithHeader(p.Header),
	)
	if err != nil {
		return "", err
	}
	return tags[idx], nil
}

// PickCard lets the user choose one card from the current set, previewing
// the rendered note.
func (p *Picker) PickCard(cards []card.Card) (card.Card, error) {
	if len(cards) == 0 {
		return card.Card{}, fmt.Errorf("no cards to pick from")
	}

	idx, err := fuzzyfinder.Find(
		cards,
		func(i int) string { return cards[i].Title },
		fuzzyfinder.WithHeader(p.Header),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return renderMarkdownPreview(p.vault, cards[i].Path)
		}),
	)
	if err != nil {
		return card.Card{}, err
	}
	return cards[idx], nil
}

func renderMarkdownPreview(v *vault.Vault, rel string) string {
	content, err := v.ReadFile(rel)
	if err != nil {
		return "Error reading file"
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(100),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(content)
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}
