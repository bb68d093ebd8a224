// Package capability defines the minimal behavioral contracts a concrete
// type must satisfy before it can participate in the generic machinery
// (repositories, pipelines, dispatch). Each contract is independent;
// types opt into exactly the set a component requires.
package capability

import "fmt"

// Displayable renders a value for humans. Components that surface values
// to callers (event payloads, pipeline results) require it.
type Displayable interface {
	Display() string
}

// Debuggable renders a value for diagnostics. The rendering may expose
// internal state that Display would hide.
type Debuggable interface {
	Debug() string
}

// Cloneable produces an independent copy of the receiver. Mutating the
// copy must never be observable through the original.
type Cloneable[T any] interface {
	Clone() T
}

// Identifier constrains identity types: value equality, duplication by
// value, and a readable rendering via fmt.Stringer.
type Identifier interface {
	comparable
	fmt.Stringer
}

// DebugString renders v through its Debuggable implementation when it has
// one, falling back to the fmt verb otherwise.
func DebugString(v any) string {
	if d, ok := v.(Debuggable); ok {
		return d.Debug()
	}
	return fmt.Sprintf("%+v", v)
}
