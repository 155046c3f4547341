package ief

import "strings"

// tokenKind distinguishes the four structural elements of a document's
// layout record. The token list is the published serialization order and
// stays consistent across mutation.
type tokenKind uint8

const (
	// tokenProperty is a plain flag line; text holds the flag name in its
	// original case. The value lives on the attribute map.
	tokenProperty tokenKind = iota + 1
	// tokenGroupHeader is a bracketed section title, passed through
	// verbatim; text holds the full line.
	tokenGroupHeader
	// tokenComment is a ";" line, passed through verbatim; text holds the
	// full line including any leading whitespace.
	tokenComment
	// tokenEventData is a repeated-key placeholder. It carries no value of
	// its own; each placeholder is paired positionally with one entry of
	// the document's EventData store.
	tokenEventData
)

type token struct {
	kind tokenKind
	text string
}

func propertyToken(name string) token {
	return token{kind: tokenProperty, text: name}
}

func groupHeaderToken(group string) token {
	return token{kind: tokenGroupHeader, text: "[" + group + "]"}
}

// isFlowTimeProfile reports whether a property token names a flow/time
// profile line. Matching is case-insensitive and must not catch the two
// derived count flags, whose names do not start with the prefix.
func isFlowTimeProfile(name string) bool {
	return len(name) >= len(flowTimeProfilePrefix) &&
		strings.EqualFold(name[:len(flowTimeProfilePrefix)], flowTimeProfilePrefix)
}
