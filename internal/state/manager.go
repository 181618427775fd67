// Package state owns the card-set source state machine: which selection
// strategy is current, whether it follows the open note or stays pinned, and
// the one-level snapshot used to return from search mode.
package state

import (
	"fmt"
	"log"
	"sync"

	"cardview/internal/card"
	"cardview/internal/config"
	"cardview/internal/search"
	"cardview/internal/source"
	"cardview/internal/tagdex"
	"cardview/internal/vault"
)

// Binding determines how a selection reacts to active-file changes.
type Binding int

const (
	// BindingActive selections follow the note currently open.
	BindingActive Binding = iota
	// BindingFixed selections are pinned until the user changes them.
	BindingFixed
)

func (b Binding) String() string {
	if b == BindingFixed {
		return "fixed"
	}
	return "active"
}

// Snapshot captures the state replaced by entering search mode. It is
// single-depth: entering search while already searching does not push a
// second level.
type Snapshot struct {
	Source         source.Source
	Binding        Binding
	PreSearchCards []card.Card
}

// SettingsStore persists state transitions. *config.Config satisfies it.
type SettingsStore interface {
	Settings() *config.Settings
	Save() error
}

// Manager is the single authoritative owner of the current source, binding,
// and snapshot. All mutations go through its methods; each transition is
// applied atomically under the mutex before any resolution I/O begins.
type Manager struct {
	vault *vault.Vault
	store SettingsStore

	mu         sync.Mutex
	current    source.Source
	binding    Binding
	prev       *Snapshot
	cards      []card.Card
	resolved   bool
	generation uint64

	observers observers
}

// NewManager builds a manager bound to the vault, starting from the default
// source recorded in settings. No resolution happens until the first
// GetCards or Select call.
func NewManager(v *vault.Vault, store SettingsStore) *Manager {
	m := &Manager{vault: v, store: store}

	s := store.Settings()
	switch s.DefaultSourceType {
	case "tag":
		m.current = source.Source{
			Kind: source.KindTag,
			Tag: source.Tag{
				Expression:    s.DefaultTagCardSet,
				CaseSensitive: s.TagCaseSensitive,
			},
		}
	default:
		m.current = source.Source{
			Kind: source.KindFolder,
			Folder: source.Folder{
				Path:              s.DefaultFolderCardSet,
				IncludeSubfolders: s.IncludeSubfolders,
			},
		}
	}

	if s.IsCardSetFixed {
		m.binding = BindingFixed
	}
	return m
}

// Source returns the current source.
func (m *Manager) Source() source.Source {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Binding returns the current binding.
func (m *Manager) Binding() Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.binding
}

// InSearch reports whether search mode is current.
func (m *Manager) InSearch() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Kind == source.KindSearch
}

// SelectCardSet sets the current selector. An identifier outside the
// enumerable set is accepted as a direct selection rather than rejected.
// When fixed is non-nil the binding is updated alongside the selector.
func (m *Manager) SelectCardSet(id string, fixed *bool) error {
	m.mu.Lock()
	switch m.current.Kind {
	case source.KindFolder:
		m.current.Folder.Path = id
		m.store.Settings().DefaultFolderCardSet = id
	case source.KindTag:
		m.current.Tag.Expression = id
		m.store.Settings().DefaultTagCardSet = id
	case source.KindSearch:
		if len(m.current.Search.Fields) > 0 {
			m.current.Search.Fields[0].Query = id
		} else {
			m.current.Search.Fields = []search.Field{{Type: search.FieldFile, Query: id}}
		}
	}
	if fixed != nil {
		m.setBindingLocked(*fixed)
	}
	gen, src := m.beginResolveLocked()
	m.mu.Unlock()

	m.persist()
	_, err := m.resolveAndCommit(gen, src)
	return err
}

// ChangeSource switches the active variant, clearing the current selector.
// Switching into search captures a snapshot exactly like EnterSearch with an
// empty query; switching away from search discards the snapshot without
// restoring it.
func (m *Manager) ChangeSource(kind source.Kind) error {
	if kind == source.KindSearch {
		return m.EnterSearch("", search.FieldFile, m.store.Settings().SearchCaseSensitive, "")
	}

	m.mu.Lock()
	s := m.store.Settings()
	switch kind {
	case source.KindFolder:
		m.current = source.Source{
			Kind:   source.KindFolder,
			Folder: source.Folder{IncludeSubfolders: s.IncludeSubfolders},
		}
	case source.KindTag:
		m.current = source.Source{
			Kind: source.KindTag,
			Tag:  source.Tag{CaseSensitive: s.TagCaseSensitive},
		}
	default:
		m.mu.Unlock()
		return fmt.Errorf("state: unknown source kind %v", kind)
	}
	// Leaving search consumes the snapshot; it only exists while search is
	// current.
	m.prev = nil
	s.DefaultSourceType = kind.String()
	gen, src := m.beginResolveLocked()
	binding := m.binding
	m.mu.Unlock()

	m.observers.emitSourceChanged(src, binding)
	m.persist()
	_, err := m.resolveAndCommit(gen, src)
	return err
}

// EnterSearch captures a snapshot of the current non-search state and
// switches to the search variant. While already in search the snapshot is
// left untouched and only the query changes.
func (m *Manager) EnterSearch(query string, fieldType search.FieldType, caseSensitive bool, frontmatterKey string) error {
	fields := []search.Field{{
		Type:           fieldType,
		Query:          query,
		FrontMatterKey: frontmatterKey,
	}}
	return m.EnterSearchFields(fields, caseSensitive)
}

// EnterSearchFields is the multi-field form of EnterSearch. Fields combine
// with OR semantics.
func (m *Manager) EnterSearchFields(fields []search.Field, caseSensitive bool) error {
	m.mu.Lock()
	if m.current.Kind != source.KindSearch && !m.resolved {
		// Resolve the live set first so the snapshot and the search scope
		// carry real cards instead of a never-resolved empty list.
		gen, src := m.beginResolveLocked()
		m.mu.Unlock()
		if _, err := m.resolveAndCommit(gen, src); err != nil {
			return err
		}
		m.mu.Lock()
	}
	if m.current.Kind != source.KindSearch {
		m.prev = &Snapshot{
			Source:         m.current,
			Binding:        m.binding,
			PreSearchCards: m.cards,
		}
	}

	base := m.cardsForScopeLocked()
	scope := make([]string, 0, len(base))
	for _, c := range base {
		scope = append(scope, c.Path)
	}

	m.current = source.Source{
		Kind: source.KindSearch,
		Search: source.Search{
			Fields:        fields,
			CaseSensitive: caseSensitive,
			Scope:         scope,
		},
	}
	gen, src := m.beginResolveLocked()
	binding := m.binding
	m.mu.Unlock()

	m.observers.emitSourceChanged(src, binding)
	m.persist()
	_, err := m.resolveAndCommit(gen, src)
	return err
}

func (m *Manager) cardsForScopeLocked() []card.Card {
	if m.prev != nil {
		return m.prev.PreSearchCards
	}
	return m.cards
}

// ExitSearch restores the source, selector, and binding captured when search
// was entered, and clears the snapshot. Outside search it is a no-op.
func (m *Manager) ExitSearch() error {
	m.mu.Lock()
	if m.current.Kind != source.KindSearch || m.prev == nil {
		m.mu.Unlock()
		return nil
	}

	snapshot := *m.prev
	m.prev = nil
	m.current = snapshot.Source
	m.binding = snapshot.Binding
	m.cards = snapshot.PreSearchCards
	m.resolved = true
	m.generation++
	s := m.store.Settings()
	s.DefaultSourceType = m.current.Kind.String()
	src := m.current
	binding := m.binding
	cards := m.cards
	m.mu.Unlock()

	m.observers.emitSourceChanged(src, binding)
	m.observers.emitCardSetChanged(cards)
	m.persist()
	return nil
}

// OnActiveFileChanged reacts to the open note changing. It reports whether
// the card set actually changed. Fixed bindings ignore the notification
// entirely, as does search mode.
func (m *Manager) OnActiveFileChanged(path string) bool {
	if path == "" {
		return false
	}

	m.mu.Lock()
	if m.binding == BindingFixed || m.current.Kind == source.KindSearch {
		m.mu.Unlock()
		return false
	}
	kind := m.current.Kind
	currentSelector := m.current.Selector()
	m.mu.Unlock()

	switch kind {
	case source.KindFolder:
		folder := folderOfRelPath(path)
		if folder == currentSelector {
			// Same folder: skip the redundant reload.
			return false
		}
		if err := m.SelectCardSet(folder, nil); err != nil {
			log.Printf("state: reselecting folder %q: %v", folder, err)
			return false
		}
		return true
	case source.KindTag:
		tags, err := m.vault.TagsOf(path)
		if err != nil || len(tags) == 0 {
			return false
		}
		first := tagdex.Strip(tags[0])
		if first == tagdex.Strip(currentSelector) {
			return false
		}
		if err := m.SelectCardSet(first, nil); err != nil {
			log.Printf("state: reselecting tag %q: %v", first, err)
			return false
		}
		return true
	default:
		return false
	}
}

// SetBinding pins or unpins the current selection.
func (m *Manager) SetBinding(fixed bool) {
	m.mu.Lock()
	m.setBindingLocked(fixed)
	m.mu.Unlock()
	m.persist()
}

func (m *Manager) setBindingLocked(fixed bool) {
	if fixed {
		m.binding = BindingFixed
	} else {
		m.binding = BindingActive
	}
	m.store.Settings().IsCardSetFixed = fixed
}

// SetIncludeSubfolders toggles subfolder inclusion for folder sources and
// re-resolves when the folder variant is current.
func (m *Manager) SetIncludeSubfolders(include bool) error {
	m.mu.Lock()
	m.store.Settings().IncludeSubfolders = include
	refresh := m.current.Kind == source.KindFolder
	if refresh {
		m.current.Folder.IncludeSubfolders = include
	}
	var (
		gen uint64
		src source.Source
	)
	if refresh {
		gen, src = m.beginResolveLocked()
	}
	m.mu.Unlock()

	m.observers.emitIncludeSubfoldersChanged(include)
	m.persist()
	if !refresh {
		return nil
	}
	_, err := m.resolveAndCommit(gen, src)
	return err
}

// SetTagCaseSensitive toggles tag comparison case sensitivity and re-resolves
// when the tag variant is current.
func (m *Manager) SetTagCaseSensitive(sensitive bool) error {
	m.mu.Lock()
	m.store.Settings().TagCaseSensitive = sensitive
	refresh := m.current.Kind == source.KindTag
	if refresh {
		m.current.Tag.CaseSensitive = sensitive
	}
	var (
		gen uint64
		src source.Source
	)
	if refresh {
		gen, src = m.beginResolveLocked()
	}
	m.mu.Unlock()

	m.observers.emitTagCaseSensitiveChanged(sensitive)
	m.persist()
	if !refresh {
		return nil
	}
	_, err := m.resolveAndCommit(gen, src)
	return err
}

// GetCards returns the current card set, resolving it on first use.
func (m *Manager) GetCards() ([]card.Card, error) {
	m.mu.Lock()
	if m.resolved {
		cards := append([]card.Card(nil), m.cards...)
		m.mu.Unlock()
		return cards, nil
	}
	gen, src := m.beginResolveLocked()
	m.mu.Unlock()

	return m.resolveAndCommit(gen, src)
}

// Refresh re-resolves the current source, typically after the vault changed
// on disk. It reports whether the card set changed.
func (m *Manager) Refresh() (bool, error) {
	m.mu.Lock()
	before := pathsOf(m.cards)
	gen, src := m.beginResolveLocked()
	m.mu.Unlock()

	cards, err := m.resolveAndCommit(gen, src)
	if err != nil {
		return false, err
	}
	return !equalPaths(before, pathsOf(cards)), nil
}

// beginResolveLocked bumps the generation counter and captures the source to
// resolve. Only the resolution carrying the latest generation may commit its
// result; a slow in-flight pass can no longer overwrite a newer selection.
func (m *Manager) beginResolveLocked() (uint64, source.Source) {
	m.generation++
	return m.generation, m.current
}

func (m *Manager) resolveAndCommit(gen uint64, src source.Source) ([]card.Card, error) {
	paths, err := source.Resolve(m.vault, src)
	if err != nil {
		return nil, err
	}
	cards := m.vault.ReadCards(paths)

	m.mu.Lock()
	if gen != m.generation {
		// A newer transition superseded this resolution; drop it.
		m.mu.Unlock()
		return cards, nil
	}
	m.cards = cards
	m.resolved = true
	m.mu.Unlock()

	m.observers.emitCardSetChanged(cards)
	return cards, nil
}

// persist writes settings after a transition. A persistence failure is
// logged; the in-memory transition stands so the UI stays responsive.
func (m *Manager) persist() {
	if err := m.store.Save(); err != nil {
		log.Printf("state: persisting settings: %v", err)
	}
}

func folderOfRelPath(rel string) string {
	idx := -1
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ""
	}
	return rel[:idx]
}

func pathsOf(cards []card.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Path)
	}
	return out
}

func equalPaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
