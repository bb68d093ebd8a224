package entity

import (
	"errors"
	"fmt"
)

// Violation describes a single self-validation failure.
type Violation struct {
	Field  string // Field name
	Reason string // Human-readable reason for failure
}

func (v Violation) String() string {
	return fmt.Sprintf("field %q: %s", v.Field, v.Reason)
}

// Violations aggregates every validation failure found on one entity.
type Violations struct {
	Items []Violation
}

func (e *Violations) Error() string {
	if len(e.Items) == 1 {
		return e.Items[0].String()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Items))
	for i, v := range e.Items {
		msg += fmt.Sprintf("  %d. %s\n", i+1, v.String())
	}
	return msg
}

// Invalid builds a Violations error from field/reason pairs.
func Invalid(items ...Violation) *Violations {
	return &Violations{Items: items}
}

// AsViolations returns the violation list if err carries one, nil
// otherwise. Callers use it to distinguish validation failures from
// storage failures without string matching.
func AsViolations(err error) []Violation {
	var v *Violations
	if errors.As(err, &v) {
		return v.Items
	}
	return nil
}
