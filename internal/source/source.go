// Package source defines the three card-set selection strategies and resolves
// a selected strategy into the note paths it covers.
package source

import (
	"fmt"
	"sort"
	"strings"

	"cardview/internal/pathutil"
	"cardview/internal/search"
	"cardview/internal/tagdex"
	"cardview/internal/vault"
)

// Kind tags the active selection strategy.
type Kind int

const (
	KindFolder Kind = iota
	KindTag
	KindSearch
)

func (k Kind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindTag:
		return "tag"
	case KindSearch:
		return "search"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind resolves a user-facing source name.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "folder":
		return KindFolder, nil
	case "tag":
		return KindTag, nil
	case "search":
		return KindSearch, nil
	default:
		return 0, fmt.Errorf("unknown source type %q (folder, tag, or search)", name)
	}
}

// Folder selects the notes of one vault folder, optionally including its
// subfolders.
type Folder struct {
	Path              string
	IncludeSubfolders bool
}

// Tag selects notes carrying any tag of a comma-separated expression.
type Tag struct {
	Expression    string
	CaseSensitive bool
}

// Search selects notes matching a multi-field query. Scope limits candidates
// to an explicit set of paths; an empty scope searches the whole vault.
type Search struct {
	Fields        []search.Field
	CaseSensitive bool
	Scope         []string
}

// Source is a tagged union: exactly the payload named by Kind is meaningful.
type Source struct {
	Kind   Kind
	Folder Folder
	Tag    Tag
	Search Search
}

// Selector returns the identifier the source is currently bound to.
func (s Source) Selector() string {
	switch s.Kind {
	case KindFolder:
		return s.Folder.Path
	case KindTag:
		return s.Tag.Expression
	case KindSearch:
		queries := make([]string, 0, len(s.Search.Fields))
		for _, field := range s.Search.Fields {
			queries = append(queries, field.Query)
		}
		return strings.Join(queries, " | ")
	default:
		return ""
	}
}

// Resolve enumerates the vault-relative note paths selected by the source.
func Resolve(v *vault.Vault, s Source) ([]string, error) {
	switch s.Kind {
	case KindFolder:
		return resolveFolder(v, s.Folder)
	case KindTag:
		return resolveTag(v, s.Tag)
	case KindSearch:
		return resolveSearch(v, s.Search)
	default:
		return nil, fmt.Errorf("source: unknown kind %v", s.Kind)
	}
}

func resolveFolder(v *vault.Vault, f Folder) ([]string, error) {
	files, err := v.ListMarkdownFiles()
	if err != nil {
		return nil, err
	}

	want := strings.Trim(strings.ReplaceAll(f.Path, "\\", "/"), "/")
	matched := make([]string, 0, len(files))
	for _, rel := range files {
		folder := pathutil.FolderOf(v.Dir(), v.Abs(rel))
		if f.IncludeSubfolders {
			if pathutil.WithinFolder(folder, want) {
				matched = append(matched, rel)
			}
			continue
		}
		if folder == want {
			matched = append(matched, rel)
		}
	}
	return matched, nil
}

func resolveTag(v *vault.Vault, t Tag) ([]string, error) {
	files, err := v.ListMarkdownFiles()
	if err != nil {
		return nil, err
	}

	var matched []string
	for _, c := range v.ReadCards(files) {
		if tagdex.Matches(c.Tags, t.Expression, t.CaseSensitive) {
			matched = append(matched, c.Path)
		}
	}
	return matched, nil
}

func resolveSearch(v *vault.Vault, s Search) ([]string, error) {
	candidates := s.Scope
	if len(candidates) == 0 {
		files, err := v.ListMarkdownFiles()
		if err != nil {
			return nil, err
		}
		candidates = files
	}

	engine := search.NewEngine(s.CaseSensitive)
	var matched []string
	// Every candidate is evaluated; matching is a full O(N x M) pass with
	// no early exit across cards.
	for _, c := range v.ReadCards(candidates) {
		if engine.MatchAny(c, s.Fields) {
			matched = append(matched, c.Path)
		}
	}
	return matched, nil
}

// Folders enumerates the selectable folder card-set identifiers.
func Folders(v *vault.Vault) ([]string, error) {
	return v.Subfolders()
}

// Tags enumerates the distinct normalized tags of the vault with usage
// counts, sorted by tag.
func Tags(v *vault.Vault) ([]string, map[string]int, error) {
	files, err := v.ListMarkdownFiles()
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[string]int)
	for _, c := range v.ReadCards(files) {
		for _, tag := range c.Tags {
			counts[tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, counts, nil
}
