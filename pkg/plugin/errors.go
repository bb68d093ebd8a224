package plugin

import "errors"

// ErrServiceUnavailable is returned when no service is registered under
// the requested name.
var ErrServiceUnavailable = errors.New("service unavailable")

// ErrAlreadyRegistered is returned when a name is registered twice. The
// registry owns each instance for its lifetime; replacing one would
// orphan an active service.
var ErrAlreadyRegistered = errors.New("service already registered")

// ErrNotActive is returned when an invoked service has been shut down or
// never initialized.
var ErrNotActive = errors.New("service not active")
