package repository

import "errors"

// ErrNotFound is returned when a referenced identity is absent from the
// store.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicateIdentity is returned when a create targets an identity that
// is already present.
var ErrDuplicateIdentity = errors.New("duplicate identity")
