package validation

import (
	"fmt"
	"strings"
)

// Attr is one named attribute snapshot taken from a document. Attrs are
// evaluated in slice order so error output is deterministic.
type Attr struct {
	Name  string
	Value any
}

// Violation records a single failed attribute and the constraint detail.
type Violation struct {
	Name   string
	Detail string
}

// Error aggregates every violation found in one validation pass.
type Error struct {
	Context    string
	Violations []Violation
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = fmt.Sprintf("  %s %s", v.Name, v.Detail)
	}
	return fmt.Sprintf("one or more parameters in %s are invalid:\n%s",
		e.Context, strings.Join(lines, "\n"))
}

// Validate checks every attribute that has an entry in table (keyed by
// uppercase attribute name) and returns a single *Error naming all failing
// attributes, or nil when everything passes. Attributes absent from the
// table are unchecked.
func Validate(context string, attrs []Attr, table map[string]Rule) error {
	var violations []Violation
	for _, attr := range attrs {
		rule, ok := table[strings.ToUpper(attr.Name)]
		if !ok {
			continue
		}
		if ok, detail := rule.Check(attr.Value); !ok {
			violations = append(violations, Violation{Name: attr.Name, Detail: detail})
		}
	}
	if len(violations) > 0 {
		return &Error{Context: context, Violations: violations}
	}
	return nil
}
