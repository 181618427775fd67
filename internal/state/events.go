package state

import (
	"slices"
	"sync"

	"cardview/internal/card"
	"cardview/internal/source"
)

// observers holds one explicit listener list per event kind. Listeners run
// synchronously, in registration order, before the triggering call returns.
type observers struct {
	mu                sync.Mutex
	cardSet           []func([]card.Card)
	sourceChanged     []func(source.Source, Binding)
	includeSubfolders []func(bool)
	tagCaseSensitive  []func(bool)
}

// OnCardSetChanged registers a listener for card-set changes.
func (m *Manager) OnCardSetChanged(fn func(cards []card.Card)) {
	m.observers.mu.Lock()
	defer m.observers.mu.Unlock()
	m.observers.cardSet = append(m.observers.cardSet, fn)
}

// OnSourceChanged registers a listener for source transitions.
func (m *Manager) OnSourceChanged(fn func(src source.Source, binding Binding)) {
	m.observers.mu.Lock()
	defer m.observers.mu.Unlock()
	m.observers.sourceChanged = append(m.observers.sourceChanged, fn)
}

// OnIncludeSubfoldersChanged registers a listener for the subfolder toggle.
func (m *Manager) OnIncludeSubfoldersChanged(fn func(include bool)) {
	m.observers.mu.Lock()
	defer m.observers.mu.Unlock()
	m.observers.includeSubfolders = append(m.observers.includeSubfolders, fn)
}

// OnTagCaseSensitiveChanged registers a listener for the tag case toggle.
func (m *Manager) OnTagCaseSensitiveChanged(fn func(sensitive bool)) {
	m.observers.mu.Lock()
	defer m.observers.mu.Unlock()
	m.observers.tagCaseSensitive = append(m.observers.tagCaseSensitive, fn)
}

func (o *observers) emitCardSetChanged(cards []card.Card) {
	o.mu.Lock()
	listeners := slices.Clone(o.cardSet)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn(cards)
	}
}

func (o *observers) emitSourceChanged(src source.Source, binding Binding) {
	o.mu.Lock()
	listeners := slices.Clone(o.sourceChanged)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn(src, binding)
	}
}

func (o *observers) emitIncludeSubfoldersChanged(include bool) {
	o.mu.Lock()
	listeners := slices.Clone(o.includeSubfolders)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn(include)
	}
}

func (o *observers) emitTagCaseSensitiveChanged(sensitive bool) {
	o.mu.Lock()
	listeners := slices.Clone(o.tagCaseSensitive)
	o.mu.Unlock()
	for _, fn := range listeners {
		fn(sensitive)
	}
}
