package ief

import (
	"fmt"
	"regexp"
	"strings"
)

// eventDataFlag is the canonical case for the one flag that may legally
// appear multiple times in a document.
const eventDataFlag = "EventData"

// disambiguator matches the numeric suffix the store appends to keep
// duplicate titles unique. It is stripped again on write.
var disambiguator = regexp.MustCompile(`<\d+>$`)

// EventStore is the ordered repeated-key store: a mapping from a unique
// title to the raw value of one EventData occurrence. Titles come from the
// comment preceding each occurrence, or from the value's filename stem,
// and are disambiguated with a "<n>" suffix so no occurrence is lost when
// two share a title.
type EventStore struct {
	entries []EventEntry
}

// EventEntry is one stored occurrence.
type EventEntry struct {
	Title string
	Value string
}

// NewEventStore builds a store from entries in order, applying the same
// title deduplication as parsing does.
func NewEventStore(entries ...EventEntry) *EventStore {
	s := &EventStore{}
	for _, e := range entries {
		s.Add(e.Title, e.Value)
	}
	return s
}

// Add inserts a value under title, disambiguating the title if it is
// already taken (or empty), and returns the key actually used. An empty
// title becomes the literal placeholder "<0>"; a taken title gains the
// smallest unused "<n>" suffix.
func (s *EventStore) Add(title, value string) string {
	key := title
	if key == "" {
		key = "<0>"
	}
	if !s.has(key) {
		s.entries = append(s.entries, EventEntry{Title: key, Value: value})
		return key
	}
	for n := 0; ; n++ {
		key = fmt.Sprintf("%s<%d>", title, n)
		if !s.has(key) {
			s.entries = append(s.entries, EventEntry{Title: key, Value: value})
			return key
		}
	}
}

// Set replaces the value stored under an existing title, or inserts a new
// entry (with deduplication) when the title is absent.
func (s *EventStore) Set(title, value string) {
	for i, e := range s.entries {
		if e.Title == title {
			s.entries[i].Value = value
			return
		}
	}
	s.Add(title, value)
}

// Get returns the value stored under the exact (disambiguated) title.
func (s *EventStore) Get(title string) (string, bool) {
	for _, e := range s.entries {
		if e.Title == title {
			return e.Value, true
		}
	}
	return "", false
}

// Remove deletes the entry stored under the exact title.
func (s *EventStore) Remove(title string) bool {
	for i, e := range s.entries {
		if e.Title == title {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Len is the number of stored occurrences.
func (s *EventStore) Len() int {
	return len(s.entries)
}

// At returns the i-th entry in store order.
func (s *EventStore) At(i int) EventEntry {
	return s.entries[i]
}

// Entries returns a copy of the store in order.
func (s *EventStore) Entries() []EventEntry {
	out := make([]EventEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Titles returns the disambiguated titles in order.
func (s *EventStore) Titles() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Title
	}
	return out
}

// AsMap exposes the store as a plain mapping for validation. Order is not
// preserved; only shape matters to the rule table.
func (s *EventStore) AsMap() map[string]any {
	out := make(map[string]any, len(s.entries))
	for _, e := range s.entries {
		out[e.Title] = e.Value
	}
	return out
}

func (s *EventStore) has(title string) bool {
	_, ok := s.Get(title)
	return ok
}

// stripDisambiguator removes the trailing "<n>" suffix from a title for
// writing. The bare "<0>" placeholder strips to the empty string. A title
// that happened to end in such a suffix before it entered the store is
// stripped too; seeding is deliberately not distinguished from user input.
func stripDisambiguator(title string) string {
	return disambiguator.ReplaceAllString(title, "")
}

// eventTitle derives the title for an occurrence parsed without a
// preceding comment: the filename stem of the value, or the raw value
// when no stem can be extracted.
func eventTitle(value string) string {
	stem := value
	if i := strings.LastIndexAny(stem, `/\`); i >= 0 {
		stem = stem[i+1:]
	}
	if i := strings.LastIndex(stem, "."); i > 0 {
		stem = stem[:i]
	}
	if stem == "" {
		return value
	}
	return stem
}
