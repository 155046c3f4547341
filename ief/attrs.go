package ief

import (
	"strings"

	"github.com/People-Places-Solutions/floodmodeller-api-go/scalar"
)

// attrEntry is one attribute slot. name keeps the case the attribute was
// first created with; raw keeps the original source token (if any) so an
// untouched attribute re-renders byte-for-byte even when its coerced value
// would format differently (e.g. "2.50" coercing to 2.5).
type attrEntry struct {
	name  string
	value any
	raw   string
}

// attrMap is an ordered mapping from case-insensitive attribute name to
// value. Assigning via any case variant updates the existing slot in
// place; the slot keeps its original-case name and its position.
type attrMap struct {
	entries []attrEntry
	index   map[string]int // lowercase name -> position in entries
}

func newAttrMap() *attrMap {
	return &attrMap{index: map[string]int{}}
}

func (m *attrMap) len() int {
	return len(m.entries)
}

func (m *attrMap) has(name string) bool {
	_, ok := m.index[strings.ToLower(name)]
	return ok
}

func (m *attrMap) get(name string) (any, bool) {
	idx, ok := m.index[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return m.entries[idx].value, true
}

// lookup also exposes the preserved raw token. raw is "" when the slot
// never had a source token, or when the current value no longer coerces
// back to it; reassigning the original value brings the token back, so a
// mutate-then-revert still round-trips exactly.
func (m *attrMap) lookup(name string) (value any, raw string, ok bool) {
	idx, found := m.index[strings.ToLower(name)]
	if !found {
		return nil, "", false
	}
	e := m.entries[idx]
	raw = e.raw
	if raw != "" && !sameScalar(e.value, scalar.Coerce(raw)) {
		raw = ""
	}
	return e.value, raw, true
}

// set assigns value under name. The slot's source token is kept; lookup
// decides per call whether it still represents the value.
func (m *attrMap) set(name string, value any) {
	value = scalar.Normalize(value)
	key := strings.ToLower(name)
	if idx, ok := m.index[key]; ok {
		m.entries[idx].value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, attrEntry{name: name, value: value})
}

// sameScalar reports value equality for the scalar kinds that can carry a
// preserved raw token. Non-scalar values (stores, maps) always count as
// changed; comparing them with == could panic on uncomparable types.
func sameScalar(a, b any) bool {
	switch a.(type) {
	case string, int64, float64, bool:
		return a == b
	}
	return false
}

// setParsed records an attribute straight from source text, keeping the
// raw token for exact re-rendering.
func (m *attrMap) setParsed(name, raw string) {
	m.set(name, scalar.Coerce(raw))
	idx := m.index[strings.ToLower(name)]
	m.entries[idx].raw = raw
}

func (m *attrMap) delete(name string) bool {
	key := strings.ToLower(name)
	idx, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	delete(m.index, key)
	for k, i := range m.index {
		if i > idx {
			m.index[k] = i - 1
		}
	}
	return true
}

// rename moves a slot to a new canonical name, keeping its position and
// value. Used to normalise case variants of reserved names.
func (m *attrMap) rename(from, to string) {
	fromKey := strings.ToLower(from)
	idx, ok := m.index[fromKey]
	if !ok {
		return
	}
	m.entries[idx].name = to
	toKey := strings.ToLower(to)
	if toKey != fromKey {
		delete(m.index, fromKey)
		m.index[toKey] = idx
	}
}

// names returns attribute names in insertion order.
func (m *attrMap) names() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.name
	}
	return out
}
