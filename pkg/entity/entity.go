// Package entity defines the contract a record type satisfies to be
// managed by the generic repository: an owned identity plus a
// self-validation rule. It builds directly on the capability contracts
// and stays free of I/O concerns.
package entity

import "github.com/latticekit/lattice/pkg/capability"

// Entity is a record with a unique identity and a self-validation rule.
// EntityID must be stable for the lifetime of the value; Validate returns
// nil or a *Violations describing every failed check.
type Entity[ID capability.Identifier] interface {
	EntityID() ID
	Validate() error
}

// Storable is the full capability set the generic repository requires of
// stored types: identity, self-validation, cloning for isolation, and a
// diagnostic rendering.
type Storable[ID capability.Identifier, E any] interface {
	Entity[ID]
	capability.Cloneable[E]
	capability.Debuggable
}
