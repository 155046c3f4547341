// Package validation declares the constraint rules applied to document
// attributes before every write, and the evaluator that checks a document
// against the rule table.
//
// Rules are plain data evaluated by pure functions. Evaluation never stops
// at the first failure: every violated attribute is collected and reported
// in a single error so the user sees the complete list in one pass.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Type names the coerced value kinds a rule can require.
type Type uint8

const (
	String Type = iota + 1
	Int
	Float
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	}
	return "unknown"
}

func typeOf(v any) Type {
	switch v.(type) {
	case string:
		return String
	case int64:
		return Int
	case float64:
		return Float
	}
	return 0
}

// Rule is one declarative constraint. Check must be deterministic and
// side-effect free; on failure it returns a human-readable detail of the
// expected constraint.
type Rule interface {
	Check(value any) (ok bool, detail string)
}

// TypeMatch requires the value to be one of the listed types.
type TypeMatch struct {
	Types []Type
}

func (r TypeMatch) Check(v any) (bool, string) {
	got := typeOf(v)
	for _, t := range r.Types {
		if got == t {
			return true, ""
		}
	}
	return false, fmt.Sprintf("-> expected type: %s", joinTypes(r.Types))
}

// ValueMatch requires the value to equal one of the listed options.
// String comparison is case-insensitive.
type ValueMatch struct {
	Options []any
}

func (r ValueMatch) Check(v any) (bool, string) {
	for _, opt := range r.Options {
		if s, ok := v.(string); ok {
			if o, ok := opt.(string); ok && strings.EqualFold(s, o) {
				return true, ""
			}
			continue
		}
		if v == opt {
			return true, ""
		}
	}
	return false, fmt.Sprintf("-> expected value: %v", r.Options)
}

// ValueRange requires a numeric value within [Min, Max].
type ValueRange struct {
	Min, Max float64
}

func (r ValueRange) Check(v any) (bool, string) {
	detail := fmt.Sprintf("-> out of valid range: %v - %v", r.Min, r.Max)
	var f float64
	switch n := v.(type) {
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return false, detail
	}
	if f < r.Min || f > r.Max {
		return false, detail
	}
	return true, ""
}

// StringLength caps the length of a string value.
type StringLength struct {
	Max int
}

func (r StringLength) Check(v any) (bool, string) {
	s, ok := v.(string)
	detail := fmt.Sprintf("-> exceeds %d characters", r.Max)
	if !ok {
		return false, "-> expected type: string"
	}
	if len(s) > r.Max {
		return false, detail
	}
	return true, ""
}

// StringListLength caps the length of every string in a list.
type StringListLength struct {
	Max int
}

func (r StringListLength) Check(v any) (bool, string) {
	items, ok := toList(v)
	if !ok {
		return false, "-> expected type: list of strings"
	}
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return false, "-> expected type: list of strings"
		}
		if len(s) > r.Max {
			return false, fmt.Sprintf("-> exceeds %d characters: %q", r.Max, s)
		}
	}
	return true, ""
}

// SuffixMatch requires a string value ending with one of the listed
// suffixes, compared case-insensitively after trimming whitespace.
type SuffixMatch struct {
	Options []string
}

func (r SuffixMatch) Check(v any) (bool, string) {
	s, ok := v.(string)
	if !ok {
		return false, "-> expected type: string"
	}
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, suffix := range r.Options {
		if strings.HasSuffix(up, strings.ToUpper(suffix)) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("-> expected suffix: %v", r.Options)
}

// TypeOrValueMatch passes when either the type or the value constraint
// holds. Used for flags that accept a number or an enumerated keyword.
type TypeOrValueMatch struct {
	Types   []Type
	Options []any
}

func (r TypeOrValueMatch) Check(v any) (bool, string) {
	if ok, _ := (TypeMatch{Types: r.Types}).Check(v); ok {
		return true, ""
	}
	if ok, _ := (ValueMatch{Options: r.Options}).Check(v); ok {
		return true, ""
	}
	return false, fmt.Sprintf("-> expected type %s or value %v", joinTypes(r.Types), r.Options)
}

// DictMatch constrains a map-shaped value: every key in Required must be
// present and satisfy its rule, and, when Each is set, every value in the
// map must satisfy it. Composite failures report the first inner detail.
type DictMatch struct {
	Required map[string]Rule
	Each     Rule
}

func (r DictMatch) Check(v any) (bool, string) {
	m, ok := v.(map[string]any)
	if !ok {
		return false, "-> expected a mapping"
	}
	for _, key := range sortedKeys(r.Required) {
		rule := r.Required[key]
		inner, ok := m[key]
		if !ok {
			return false, fmt.Sprintf("-> missing required key: %s", key)
		}
		if ok, detail := rule.Check(inner); !ok {
			return false, detail
		}
	}
	if r.Each != nil {
		for _, key := range sortedAnyKeys(m) {
			if ok, detail := r.Each.Check(m[key]); !ok {
				return false, detail
			}
		}
	}
	return true, ""
}

// ListDictMatch applies a DictMatch to every element of a list.
type ListDictMatch struct {
	Required map[string]Rule
	Each     Rule
}

func (r ListDictMatch) Check(v any) (bool, string) {
	items, ok := toList(v)
	if !ok {
		return false, "-> expected a list of mappings"
	}
	inner := DictMatch{Required: r.Required, Each: r.Each}
	for _, item := range items {
		if ok, detail := inner.Check(item); !ok {
			return false, detail
		}
	}
	return true, ""
}

func toList(v any) ([]any, bool) {
	switch items := v.(type) {
	case []any:
		return items, true
	case []string:
		out := make([]any, len(items))
		for i, s := range items {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(items))
		for i, m := range items {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func joinTypes(types []Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " or ")
}

func sortedKeys(m map[string]Rule) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedAnyKeys keeps composite rule evaluation deterministic; Go map
// iteration order would otherwise leak into failure details.
func sortedAnyKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
