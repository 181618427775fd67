package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"cardview/internal/card"
	"cardview/internal/config"
	"cardview/internal/search"
	"cardview/internal/source"
	"cardview/internal/vault"
)

type memStore struct {
	settings config.Settings
	saves    int
	failSave bool
}

func (s *memStore) Settings() *config.Settings { return &s.settings }

func (s *memStore) Save() error {
	s.saves++
	if s.failSave {
		return errors.New("disk full")
	}
	return nil
}

func writeNote(t testing.TB, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file %s: %v", path, err)
	}
}

func testVault(t testing.TB) *vault.Vault {
	t.Helper()
	dir := t.TempDir()
	writeNote(t, dir, "inbox.md", "---\ntags: [inbox]\n---\nloose note")
	writeNote(t, dir, "projects/alpha.md", "alpha note #projects")
	writeNote(t, dir, "projects/beta.md", "beta note")
	writeNote(t, dir, "projects/deep/gamma.md", "nested note")
	writeNote(t, dir, "daily/log.md", "---\ntags: [inbox]\n---\ndaily log")
	return vault.New(dir, nil)
}

func newTestManager(t testing.TB) (*Manager, *memStore) {
	t.Helper()
	store := &memStore{}
	store.settings.DefaultSourceType = "folder"
	return NewManager(testVault(t), store), store
}

func cardPaths(t testing.TB, m *Manager) []string {
	t.Helper()
	cards, err := m.GetCards()
	if err != nil {
		t.Fatalf("GetCards returned error: %v", err)
	}
	paths := make([]string, 0, len(cards))
	for _, c := range cards {
		paths = append(paths, c.Path)
	}
	return paths
}

func TestChangeSourceKeepsExactlyOneVariantCurrent(t *testing.T) {
	m, _ := newTestManager(t)

	sequence := []source.Kind{
		source.KindTag, source.KindFolder, source.KindSearch,
		source.KindFolder, source.KindTag,
	}
	for _, kind := range sequence {
		if err := m.ChangeSource(kind); err != nil {
			t.Fatalf("ChangeSource(%v) returned error: %v", kind, err)
		}
		if got := m.Source().Kind; got != kind {
			t.Fatalf("expected current kind %v, got %v", kind, got)
		}
	}
}

func TestChangeSourceClearsSelector(t *testing.T) {
	m, _ := newTestManager(t)

	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet returned error: %v", err)
	}
	if err := m.ChangeSource(source.KindTag); err != nil {
		t.Fatalf("ChangeSource returned error: %v", err)
	}
	if err := m.ChangeSource(source.KindFolder); err != nil {
		t.Fatalf("ChangeSource returned error: %v", err)
	}

	if got := m.Source().Selector(); got != "" {
		t.Fatalf("expected cleared selector after source change, got %q", got)
	}
}

func TestSelectCardSetResolvesFolder(t *testing.T) {
	m, store := newTestManager(t)

	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet returned error: %v", err)
	}

	want := []string{"projects/alpha.md", "projects/beta.md"}
	if got := cardPaths(t, m); !reflect.DeepEqual(got, want) {
		t.Fatalf("cards = %v, want %v", got, want)
	}

	if store.settings.DefaultFolderCardSet != "projects" {
		t.Fatalf("expected selection persisted to settings, got %q", store.settings.DefaultFolderCardSet)
	}
	if store.saves == 0 {
		t.Fatalf("expected settings save after transition")
	}
}

func TestSelectCardSetAcceptsUnknownIdentifier(t *testing.T) {
	m, _ := newTestManager(t)

	// "nowhere" is not an enumerable folder; the selection is still
	// accepted and resolves to an empty card set.
	if err := m.SelectCardSet("nowhere", nil); err != nil {
		t.Fatalf("SelectCardSet returned error: %v", err)
	}
	if got := cardPaths(t, m); len(got) != 0 {
		t.Fatalf("expected empty card set, got %v", got)
	}
	if got := m.Source().Selector(); got != "nowhere" {
		t.Fatalf("expected ad-hoc selector to stick, got %q", got)
	}
}

func TestEnterThenExitSearchRestoresPriorState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, m *Manager)
		kind  source.Kind
		sel   string
		fixed bool
	}{
		{
			name: "folder active",
			setup: func(t *testing.T, m *Manager) {
				if err := m.SelectCardSet("projects", nil); err != nil {
					t.Fatalf("SelectCardSet: %v", err)
				}
			},
			kind: source.KindFolder,
			sel:  "projects",
		},
		{
			name: "folder fixed",
			setup: func(t *testing.T, m *Manager) {
				fixed := true
				if err := m.SelectCardSet("projects", &fixed); err != nil {
					t.Fatalf("SelectCardSet: %v", err)
				}
			},
			kind:  source.KindFolder,
			sel:   "projects",
			fixed: true,
		},
		{
			name: "tag active",
			setup: func(t *testing.T, m *Manager) {
				if err := m.ChangeSource(source.KindTag); err != nil {
					t.Fatalf("ChangeSource: %v", err)
				}
				if err := m.SelectCardSet("inbox", nil); err != nil {
					t.Fatalf("SelectCardSet: %v", err)
				}
			},
			kind: source.KindTag,
			sel:  "inbox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t)
			tt.setup(t, m)
			before := cardPaths(t, m)

			if err := m.EnterSearch("alpha", search.FieldContent, false, ""); err != nil {
				t.Fatalf("EnterSearch returned error: %v", err)
			}
			if !m.InSearch() {
				t.Fatalf("expected search to be current")
			}

			if err := m.ExitSearch(); err != nil {
				t.Fatalf("ExitSearch returned error: %v", err)
			}

			src := m.Source()
			if src.Kind != tt.kind {
				t.Fatalf("restored kind = %v, want %v", src.Kind, tt.kind)
			}
			if src.Selector() != tt.sel {
				t.Fatalf("restored selector = %q, want %q", src.Selector(), tt.sel)
			}
			wantBinding := BindingActive
			if tt.fixed {
				wantBinding = BindingFixed
			}
			if m.Binding() != wantBinding {
				t.Fatalf("restored binding = %v, want %v", m.Binding(), wantBinding)
			}
			if got := cardPaths(t, m); !reflect.DeepEqual(got, before) {
				t.Fatalf("restored cards = %v, want %v", got, before)
			}
		})
	}
}

func TestExitSearchOutsideSearchIsNoOp(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet: %v", err)
	}

	if err := m.ExitSearch(); err != nil {
		t.Fatalf("ExitSearch returned error: %v", err)
	}
	if got := m.Source().Selector(); got != "projects" {
		t.Fatalf("selector disturbed by no-op exit: %q", got)
	}
}

func TestSearchSnapshotIsSingleDepth(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet: %v", err)
	}

	if err := m.EnterSearch("alpha", search.FieldContent, false, ""); err != nil {
		t.Fatalf("first EnterSearch: %v", err)
	}
	// Entering search again does not push a second level.
	if err := m.EnterSearch("beta", search.FieldContent, false, ""); err != nil {
		t.Fatalf("second EnterSearch: %v", err)
	}

	if err := m.ExitSearch(); err != nil {
		t.Fatalf("ExitSearch: %v", err)
	}

	src := m.Source()
	if src.Kind != source.KindFolder || src.Selector() != "projects" {
		t.Fatalf("expected single exit to restore folder/projects, got %v/%q", src.Kind, src.Selector())
	}

	// The snapshot was consumed: a second exit changes nothing.
	if err := m.ExitSearch(); err != nil {
		t.Fatalf("second ExitSearch: %v", err)
	}
	if got := m.Source().Selector(); got != "projects" {
		t.Fatalf("second exit disturbed state: %q", got)
	}
}

func TestSearchScopeIsPreSearchCardSet(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet: %v", err)
	}
	if _, err := m.GetCards(); err != nil {
		t.Fatalf("GetCards: %v", err)
	}

	// "loose" only appears in inbox.md, which is outside the projects
	// folder and therefore outside the search scope.
	if err := m.EnterSearch("loose", search.FieldContent, false, ""); err != nil {
		t.Fatalf("EnterSearch: %v", err)
	}
	if got := cardPaths(t, m); len(got) != 0 {
		t.Fatalf("expected scope-restricted search to be empty, got %v", got)
	}

	if err := m.EnterSearch("alpha", search.FieldContent, false, ""); err != nil {
		t.Fatalf("EnterSearch: %v", err)
	}
	if got := cardPaths(t, m); !reflect.DeepEqual(got, []string{"projects/alpha.md"}) {
		t.Fatalf("expected in-scope match, got %v", got)
	}
}

func TestFixedBindingIgnoresActiveFileChanges(t *testing.T) {
	m, _ := newTestManager(t)
	fixed := true
	if err := m.SelectCardSet("projects", &fixed); err != nil {
		t.Fatalf("SelectCardSet: %v", err)
	}

	if changed := m.OnActiveFileChanged("daily/log.md"); changed {
		t.Fatalf("fixed binding should ignore active-file changes")
	}
	if got := m.Source().Selector(); got != "projects" {
		t.Fatalf("selector changed under fixed binding: %q", got)
	}
}

func TestActiveFolderBindingFollowsFileFolder(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet: %v", err)
	}

	// Same folder: no reload.
	if changed := m.OnActiveFileChanged("projects/beta.md"); changed {
		t.Fatalf("same-folder notification should not change the card set")
	}

	// Different folder: reselect.
	if changed := m.OnActiveFileChanged("daily/log.md"); !changed {
		t.Fatalf("different-folder notification should change the card set")
	}
	if got := m.Source().Selector(); got != "daily" {
		t.Fatalf("expected selector daily, got %q", got)
	}
	if got := cardPaths(t, m); !reflect.DeepEqual(got, []string{"daily/log.md"}) {
		t.Fatalf("cards = %v", got)
	}
}

func TestActiveTagBindingFollowsFirstTag(t *testing.T) {
	store := &memStore{}
	store.settings.DefaultSourceType = "tag"
	store.settings.DefaultTagCardSet = "inbox"
	m := NewManager(testVault(t), store)

	if changed := m.OnActiveFileChanged("projects/alpha.md"); !changed {
		t.Fatalf("expected reselect on file with a different first tag")
	}
	if got := m.Source().Selector(); got != "projects" {
		t.Fatalf("expected selector projects, got %q", got)
	}

	// A file without tags leaves the selection alone.
	if changed := m.OnActiveFileChanged("projects/beta.md"); changed {
		t.Fatalf("untagged file should not change the selection")
	}
}

func TestNilActiveFileIsIgnored(t *testing.T) {
	m, _ := newTestManager(t)
	if changed := m.OnActiveFileChanged(""); changed {
		t.Fatalf("empty active file should be ignored")
	}
}

func TestPersistenceFailureDoesNotRollBackTransition(t *testing.T) {
	store := &memStore{failSave: true}
	store.settings.DefaultSourceType = "folder"
	m := NewManager(testVault(t), store)

	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet returned error: %v", err)
	}
	if got := m.Source().Selector(); got != "projects" {
		t.Fatalf("in-memory transition rolled back: %q", got)
	}
	if store.saves == 0 {
		t.Fatalf("expected a save attempt")
	}
}

func TestListenersRunSynchronouslyBeforeReturn(t *testing.T) {
	m, _ := newTestManager(t)

	var events []string
	m.OnSourceChanged(func(src source.Source, _ Binding) {
		events = append(events, "source:"+src.Kind.String())
	})
	m.OnCardSetChanged(func(cards []card.Card) {
		events = append(events, fmt.Sprintf("cards:%d", len(cards)))
	})

	if err := m.ChangeSource(source.KindTag); err != nil {
		t.Fatalf("ChangeSource returned error: %v", err)
	}

	// Both listeners already ran, source first.
	want := []string{"source:tag", "cards:0"}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
}

func TestSetIncludeSubfoldersReResolvesAndNotifies(t *testing.T) {
	m, store := newTestManager(t)
	if err := m.SelectCardSet("projects", nil); err != nil {
		t.Fatalf("SelectCardSet: %v", err)
	}

	var notified []bool
	m.OnIncludeSubfoldersChanged(func(include bool) {
		notified = append(notified, include)
	})

	if err := m.SetIncludeSubfolders(true); err != nil {
		t.Fatalf("SetIncludeSubfolders returned error: %v", err)
	}

	if !reflect.DeepEqual(notified, []bool{true}) {
		t.Fatalf("notifications = %v", notified)
	}
	if !store.settings.IncludeSubfolders {
		t.Fatalf("expected toggle persisted in settings")
	}

	want := []string{"projects/alpha.md", "projects/beta.md", "projects/deep/gamma.md"}
	if got := cardPaths(t, m); !reflect.DeepEqual(got, want) {
		t.Fatalf("cards = %v, want %v", got, want)
	}
}

func TestSetTagCaseSensitiveReResolvesAndNotifies(t *testing.T) {
	store := &memStore{}
	store.settings.DefaultSourceType = "tag"
	store.settings.DefaultTagCardSet = "INBOX"
	m := NewManager(testVault(t), store)

	var notified []bool
	m.OnTagCaseSensitiveChanged(func(sensitive bool) {
		notified = append(notified, sensitive)
	})

	if got := cardPaths(t, m); len(got) != 2 {
		t.Fatalf("expected case-insensitive match of two notes, got %v", got)
	}

	if err := m.SetTagCaseSensitive(true); err != nil {
		t.Fatalf("SetTagCaseSensitive returned error: %v", err)
	}
	if !reflect.DeepEqual(notified, []bool{true}) {
		t.Fatalf("notifications = %v", notified)
	}
	if got := cardPaths(t, m); len(got) != 0 {
		t.Fatalf("expected no case-sensitive matches for INBOX, got %v", got)
	}
}

func TestMultipleListenersFanOutInRegistrationOrder(t *testing.T) {
	m, _ := newTestManager(t)

	var order []string
	m.OnCardSetChanged(func([]card.Card) { order = append(order, "first") })
	m.OnCardSetChanged(func([]card.Card) { order = append(order, "second") })

	if err := m.ChangeSource(source.KindTag); err != nil {
		t.Fatalf("ChangeSource returned error: %v", err)
	}

	if !reflect.DeepEqual(order, []string{"first", "second"}) {
		t.Fatalf("listener order = %v, want [first second]", order)
	}
}

func TestEnterSearchBeforeFirstResolveSnapshotsLiveSet(t *testing.T) {
	m, _ := newTestManager(t)

	// No GetCards call yet: the folder set has never been resolved.
	if err := m.EnterSearch("note", search.FieldContent, false, ""); err != nil {
		t.Fatalf("EnterSearch returned error: %v", err)
	}

	// The scope carries the resolved live set, not a pre-resolution empty list.
	if got := m.Source().Search.Scope; !reflect.DeepEqual(got, []string{"inbox.md"}) {
		t.Fatalf("search scope = %v, want [inbox.md]", got)
	}
	if got := cardPaths(t, m); !reflect.DeepEqual(got, []string{"inbox.md"}) {
		t.Fatalf("search results = %v, want [inbox.md]", got)
	}

	if err := m.ExitSearch(); err != nil {
		t.Fatalf("ExitSearch returned error: %v", err)
	}
	if got := cardPaths(t, m); !reflect.DeepEqual(got, []string{"inbox.md"}) {
		t.Fatalf("restored cards = %v, want [inbox.md]", got)
	}
}
