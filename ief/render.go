package ief

import (
	"fmt"

	"github.com/People-Places-Solutions/floodmodeller-api-go/fmfile"
	"github.com/People-Places-Solutions/floodmodeller-api-go/scalar"
)

// render walks the token list and produces the document text using the
// layout learned at parse time. It assumes reconcile has already run, so
// placeholder and sub-record counts line up; a mismatch here is a broken
// internal invariant, not a user error.
func (d *Document) render() (string, error) {
	store := d.eventStore()

	var lines []string
	eventIdx, profileIdx := 0, 0
	for i, tok := range d.tokens {
		switch tok.kind {
		case tokenGroupHeader:
			if d.blankLineBetweenGroups && len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, tok.text)

		case tokenComment:
			// Comments in front of placeholders are regenerated from the
			// store titles; emitting both would duplicate them.
			if i+1 < len(d.tokens) && d.tokens[i+1].kind == tokenEventData {
				continue
			}
			lines = append(lines, tok.text)

		case tokenEventData:
			if store == nil || eventIdx >= store.Len() {
				return "", newError(KindInternal,
					"event data placeholders out of step with the store after resync")
			}
			e := store.At(eventIdx)
			eventIdx++
			lines = append(lines, ";"+stripDisambiguator(e.Title))
			lines = append(lines, eventDataFlag+d.assignment()+e.Value)

		case tokenProperty:
			if isFlowTimeProfile(tok.text) {
				if profileIdx >= len(d.profiles) {
					return "", newError(KindInternal,
						"flow time profile tokens out of step with the profile list after resync")
				}
				p := d.profiles[profileIdx]
				profileIdx++
				lines = append(lines, tok.text+d.assignment()+p.String())
				continue
			}
			value, raw, ok := d.attrs.lookup(tok.text)
			if !ok {
				return "", newError(KindInternal,
					fmt.Sprintf("property token %q has no attribute after resync", tok.text))
			}
			text := raw
			if text == "" {
				text = scalar.Format(value)
			}
			lines = append(lines, tok.text+d.assignment()+text)
		}
	}
	return fmfile.JoinLines(lines, d.layout), nil
}

// assignment is the separator between flag and value, matching the style
// the source file used.
func (d *Document) assignment() string {
	if d.spacedAssignment {
		return " = "
	}
	return "="
}

// eventStore returns the repeated-key store, or nil when the document has
// no EventData attribute (or it holds something else).
func (d *Document) eventStore() *EventStore {
	v, ok := d.attrs.get(eventDataFlag)
	if !ok {
		return nil
	}
	store, ok := v.(*EventStore)
	if !ok {
		return nil
	}
	return store
}
