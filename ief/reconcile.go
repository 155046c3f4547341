package ief

import (
	"log/slog"
	"strconv"
	"strings"
)

// reconcile brings the token list back in step with the attribute map and
// the sub-record list. It runs on load and again before every write, so
// attributes added or deleted through the map surface in the output and
// derived counts are never stale.
func (d *Document) reconcile() error {
	if v, ok := d.attrs.get(eventDataFlag); ok {
		if _, ok := v.(*EventStore); !ok {
			return newError(KindConfiguration,
				"the EventData attribute must hold an event store keyed by title; "+
					"use EventData() or NewEventStore to build one")
		}
	}
	d.discoverAttrs()
	d.pruneTokens()
	if err := d.resyncFlowTimeProfiles(); err != nil {
		return err
	}
	return d.resyncEventData()
}

// discoverAttrs inserts property tokens for attributes that have no token
// yet. Placement follows the flag registry: the token goes at the end of
// the flag's home group, or into a freshly appended group when the header
// is absent. Unknown names are logged and left out of the output.
func (d *Document) discoverAttrs() {
	for _, name := range d.attrs.names() {
		if d.hasPropertyToken(name) {
			continue
		}
		if strings.EqualFold(name, eventDataFlag) {
			// The repeated-key store renders through its placeholders,
			// never through a property token. Canonicalise the case the
			// attribute was stored under.
			if name != eventDataFlag {
				d.attrs.rename(name, eventDataFlag)
			}
			continue
		}
		if isFlowTimeProfile(name) {
			slog.Warn("flow time profiles are managed as sub-records, flag skipped",
				"flag", name)
			continue
		}
		group, ok := flagGroup(name)
		if !ok {
			slog.Warn("not a recognised IEF flag, omitted from output",
				"flag", name)
			continue
		}
		d.insertPropertyToken(name, group)
	}
}

// pruneTokens drops property tokens whose attribute has been deleted.
// Sub-record index tokens are exempt; the block rebuild owns those.
func (d *Document) pruneTokens() {
	kept := d.tokens[:0]
	for _, tok := range d.tokens {
		if tok.kind == tokenProperty && !isFlowTimeProfile(tok.text) && !d.attrs.has(tok.text) {
			continue
		}
		kept = append(kept, tok)
	}
	d.tokens = kept
}

// resyncFlowTimeProfiles rebuilds the "[Flow Time Profiles]" block from
// the sub-record list: the two count flags followed by one indexed token
// per profile. With no profiles the whole block, counts included, is
// removed.
func (d *Document) resyncFlowTimeProfiles() error {
	header := groupHeaderToken(groupFlowTimeProfiles).text

	if len(d.profiles) == 0 {
		d.attrs.delete(noOfProfilesFlag)
		d.attrs.delete(noOfSeriesFlag)
		kept := d.tokens[:0]
		for _, tok := range d.tokens {
			switch {
			case tok.kind == tokenGroupHeader && tok.text == header:
			case tok.kind == tokenProperty && isFlowTimeProfile(tok.text):
			case tok.kind == tokenProperty && (strings.EqualFold(tok.text, noOfProfilesFlag) ||
				strings.EqualFold(tok.text, noOfSeriesFlag)):
			default:
				kept = append(kept, tok)
			}
		}
		d.tokens = kept
		return nil
	}

	d.attrs.set(noOfProfilesFlag, int64(len(d.profiles)))
	total := 0
	for i := range d.profiles {
		d.profiles[i].resolveAgainst(d.path)
		n, err := d.profiles[i].CountSeries()
		if err != nil {
			slog.Warn("cannot count flow time series, CSV unreadable",
				"csv", d.profiles[i].CSVFilepath, "error", err)
			continue
		}
		total += n
	}
	d.attrs.set(noOfSeriesFlag, int64(total))

	block := []token{
		{kind: tokenGroupHeader, text: header},
		{kind: tokenProperty, text: noOfProfilesFlag},
		{kind: tokenProperty, text: noOfSeriesFlag},
	}
	for i := range d.profiles {
		block = append(block, token{
			kind: tokenProperty,
			text: flowTimeProfilePrefix + strconv.Itoa(i+1),
		})
	}

	start := -1
	for i, tok := range d.tokens {
		if tok.kind == tokenGroupHeader && tok.text == header {
			start = i
			break
		}
	}
	if start == -1 {
		// Stray count or index tokens outside the block confuse the
		// rebuild; drop them before appending the fresh block.
		kept := d.tokens[:0]
		for _, tok := range d.tokens {
			if tok.kind == tokenProperty && (isFlowTimeProfile(tok.text) ||
				strings.EqualFold(tok.text, noOfProfilesFlag) ||
				strings.EqualFold(tok.text, noOfSeriesFlag)) {
				continue
			}
			kept = append(kept, tok)
		}
		d.tokens = append(kept, block...)
		return nil
	}
	end := len(d.tokens)
	for i := start + 1; i < len(d.tokens); i++ {
		if d.tokens[i].kind == tokenGroupHeader {
			end = i
			break
		}
	}
	rebuilt := make([]token, 0, len(d.tokens)-(end-start)+len(block))
	rebuilt = append(rebuilt, d.tokens[:start]...)
	rebuilt = append(rebuilt, block...)
	rebuilt = append(rebuilt, d.tokens[end:]...)
	d.tokens = rebuilt
	return nil
}

// resyncEventData makes the placeholder count match the store size.
// Missing placeholders are appended after the last existing one, or at
// the end of "[ISIS Event Details]" when none exist yet. Surplus
// placeholders are removed from the end, each taking its preceding
// comment token with it.
func (d *Document) resyncEventData() error {
	v, ok := d.attrs.get(eventDataFlag)
	if !ok {
		d.removeEventTokens(d.countEventTokens())
		return nil
	}
	store := v.(*EventStore) // type vetted before any mutation

	present := d.countEventTokens()
	switch {
	case present < store.Len():
		at := d.eventInsertionPoint()
		fill := make([]token, store.Len()-present)
		for i := range fill {
			fill[i] = token{kind: tokenEventData, text: eventDataFlag}
		}
		grown := make([]token, 0, len(d.tokens)+len(fill))
		grown = append(grown, d.tokens[:at]...)
		grown = append(grown, fill...)
		grown = append(grown, d.tokens[at:]...)
		d.tokens = grown
	case present > store.Len():
		d.removeEventTokens(present - store.Len())
	}
	return nil
}

func (d *Document) countEventTokens() int {
	n := 0
	for _, tok := range d.tokens {
		if tok.kind == tokenEventData {
			n++
		}
	}
	return n
}

// removeEventTokens strips n placeholders from the end of the token list,
// along with any comment token immediately preceding each.
func (d *Document) removeEventTokens(n int) {
	for i := len(d.tokens) - 1; i >= 0 && n > 0; i-- {
		if d.tokens[i].kind != tokenEventData {
			continue
		}
		lo := i
		if i > 0 && d.tokens[i-1].kind == tokenComment {
			lo = i - 1
		}
		d.tokens = append(d.tokens[:lo], d.tokens[i+1:]...)
		i = lo
		n--
	}
}

// eventInsertionPoint is the index just after the last placeholder, or
// just after the "[ISIS Event Details]" header, or the end of the list.
func (d *Document) eventInsertionPoint() int {
	header := groupHeaderToken(groupEventDetails).text
	for i := len(d.tokens) - 1; i >= 0; i-- {
		if d.tokens[i].kind == tokenEventData {
			return i + 1
		}
	}
	for i, tok := range d.tokens {
		if tok.kind == tokenGroupHeader && tok.text == header {
			end := len(d.tokens)
			for j := i + 1; j < len(d.tokens); j++ {
				if d.tokens[j].kind == tokenGroupHeader {
					end = j
					break
				}
			}
			return end
		}
	}
	return len(d.tokens)
}

func (d *Document) hasPropertyToken(name string) bool {
	for _, tok := range d.tokens {
		if tok.kind == tokenProperty && strings.EqualFold(tok.text, name) {
			return true
		}
	}
	return false
}

// insertPropertyToken adds a token for name at the end of its home group,
// appending the group header first when the document lacks it.
func (d *Document) insertPropertyToken(name, group string) {
	header := string(groupHeaderToken(group).text)
	groupIdx := -1
	for i, tok := range d.tokens {
		if tok.kind == tokenGroupHeader && tok.text == header {
			groupIdx = i
			break
		}
	}
	if groupIdx == -1 {
		d.tokens = append(d.tokens,
			token{kind: tokenGroupHeader, text: header},
			token{kind: tokenProperty, text: name})
		return
	}
	at := len(d.tokens)
	for i := groupIdx + 1; i < len(d.tokens); i++ {
		if d.tokens[i].kind == tokenGroupHeader {
			at = i
			break
		}
	}
	grown := make([]token, 0, len(d.tokens)+1)
	grown = append(grown, d.tokens[:at]...)
	grown = append(grown, token{kind: tokenProperty, text: name})
	grown = append(grown, d.tokens[at:]...)
	d.tokens = grown
}
