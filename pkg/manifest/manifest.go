// Package manifest tracks which puzzles have been published, under which slug and on
// which date. The manifest is append-only: entries are never removed, a slug is never
// reused and a puzzle id is published at most once.
package manifest

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrAlreadyPublished is returned by Append for an id that already has an entry.
	ErrAlreadyPublished = errors.New("puzzle already published")
	// ErrDuplicateSlug is returned by Append for a slug that is already taken.
	ErrDuplicateSlug = errors.New("slug already in use")
)

// Entry is one publish event.
type Entry struct {
	Slug  string `json:"slug"`
	Date  string `json:"date"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Manifest is the ordered list of publish events with id and slug indexes.
type Manifest struct {
	entries []Entry
	ids     map[string]int
	slugs   map[string]int
}

// New builds a manifest from stored entries. Stored data that already violates the
// uniqueness rules is kept as is; the indexes point at the first occurrence.
func New(entries []Entry) *Manifest {
	m := &Manifest{
		entries: make([]Entry, 0, len(entries)),
		ids:     make(map[string]int, len(entries)),
		slugs:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		m.index(e)
	}
	return m
}

func (m *Manifest) index(e Entry) {
	pos := len(m.entries)
	m.entries = append(m.entries, e)
	if _, ok := m.ids[e.ID]; !ok {
		m.ids[e.ID] = pos
	}
	if _, ok := m.slugs[e.Slug]; !ok {
		m.slugs[e.Slug] = pos
	}
}

// Append records a new publish event.
func (m *Manifest) Append(e Entry) error {
	if strings.TrimSpace(e.Slug) == "" || e.ID == "" {
		return fmt.Errorf("manifest entry needs a slug and an id: %+v", e)
	}
	if prev, ok := m.ids[e.ID]; ok {
		return fmt.Errorf("%w: %s on %s as %s", ErrAlreadyPublished, e.ID, m.entries[prev].Date, m.entries[prev].Slug)
	}
	if _, ok := m.slugs[e.Slug]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, e.Slug)
	}
	m.index(e)
	return nil
}

// HasID reports whether any entry references id.
func (m *Manifest) HasID(id string) bool {
	_, ok := m.ids[id]
	return ok
}

// HasSlug reports whether slug is taken.
func (m *Manifest) HasSlug(slug string) bool {
	_, ok := m.slugs[slug]
	return ok
}

// Lookup returns the entry recorded for id.
func (m *Manifest) Lookup(id string) (Entry, bool) {
	pos, ok := m.ids[id]
	if !ok {
		return Entry{}, false
	}
	return m.entries[pos], true
}

// Entries returns a copy of the entries in publish order.
func (m *Manifest) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Sorted returns the entries newest first, by date then slug, both descending.
func (m *Manifest) Sorted() []Entry {
	return SortNewestFirst(m.entries)
}

// SortNewestFirst returns a copy of entries ordered by (date, slug) descending.
func SortNewestFirst(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := strings.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return strings.Compare(b.Slug, a.Slug)
	})
	return out
}
