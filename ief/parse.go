package ief

import (
	"fmt"
	"strings"

	"github.com/People-Places-Solutions/floodmodeller-api-go/fmfile"
)

// Parse decodes the full text of an event file into a Document. The
// returned document re-renders byte-for-byte until it is mutated. On any
// format error no partial document is returned.
func Parse(data []byte) (*Document, error) {
	return parseBytes(data, "")
}

func parseBytes(data []byte, path string) (*Document, error) {
	lines, layout := fmfile.SplitLines(data)

	d := &Document{
		path:   path,
		attrs:  newAttrMap(),
		layout: layout,
	}

	var prevComment *string
	var pending []EventEntry

	for i, line := range lines {
		// Blank lines are not structural tokens; they fold into the
		// blank-line-between-groups flag and are re-derived at render time.
		if strings.TrimSpace(line) == "" {
			if line == "" && i != len(lines)-1 {
				d.blankLineBetweenGroups = true
			}
			continue
		}

		stripped := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(stripped, ";") {
			d.tokens = append(d.tokens, token{kind: tokenComment, text: line})
			c := strings.TrimPrefix(stripped, ";")
			prevComment = &c
			continue
		}

		if strings.Contains(line, "=") {
			name, value, _ := strings.Cut(line, "=")
			name = strings.TrimSpace(name)
			value = strings.TrimSpace(value)
			if name == "" {
				return nil, newError(KindFormat,
					fmt.Sprintf("line %d: assignment with no flag name: %q", i+1, line))
			}

			switch {
			case strings.EqualFold(name, eventDataFlag):
				title := eventTitle(value)
				if prevComment != nil {
					title = *prevComment
				}
				pending = append(pending, EventEntry{Title: title, Value: value})
				d.tokens = append(d.tokens, token{kind: tokenEventData, text: name})
			case isFlowTimeProfile(name):
				p, err := ParseFlowTimeProfile(value, path)
				if err != nil {
					return nil, err
				}
				d.profiles = append(d.profiles, p)
				d.tokens = append(d.tokens, token{kind: tokenProperty, text: name})
			default:
				d.attrs.setParsed(name, value)
				d.tokens = append(d.tokens, token{kind: tokenProperty, text: name})
			}
			prevComment = nil
			continue
		}

		// Anything else is a group header, passed through verbatim.
		d.tokens = append(d.tokens, token{kind: tokenGroupHeader, text: line})
		prevComment = nil
	}

	for _, line := range lines {
		if strings.Contains(line, " = ") {
			d.spacedAssignment = true
			break
		}
	}

	if len(pending) > 0 {
		store := NewEventStore(pending...)
		d.attrs.set(eventDataFlag, store)
	}

	// Normalise the token list against the populated attributes once, so a
	// document whose repeated-key counts need correction is fixed on load.
	if err := d.reconcile(); err != nil {
		return nil, err
	}
	return d, nil
}
