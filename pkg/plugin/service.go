// Package plugin is a name-keyed registry of interchangeable
// implementations of one shared Service contract, resolved at runtime.
// Unlike the statically-typed repository and pipeline, the registry
// deliberately uses interface dispatch: the set of implementations is
// unknown until registration.
package plugin

import "context"

// Request is the uniform input every registered service accepts.
type Request struct {
	Amount   float64
	Currency string
	Metadata map[string]string
}

// Response is the uniform output every registered service produces.
type Response struct {
	Reference string
	Fee       float64
	Details   map[string]string
}

// Service is the shared contract plugin implementations satisfy. Each
// implementation independently decides how to validate and execute; the
// registry performs no business logic beyond dispatch and transaction
// recording.
type Service interface {
	Name() string

	// Init transitions the service to its active state. Called once by
	// the registry at registration time.
	Init(ctx context.Context) error

	// Validate checks the request without side effects.
	Validate(req Request) error

	// Execute performs the service's work for a validated request.
	Execute(ctx context.Context, req Request) (Response, error)

	// Fee computes the service's charge for the request.
	Fee(req Request) float64

	// Shutdown releases the service's resources. Irreversible.
	Shutdown(ctx context.Context) error
}

// State is a plugin's lifecycle position within the registry.
type State int

const (
	StateUninitialized State = iota
	StateActive
	StateShutDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateActive:
		return "active"
	case StateShutDown:
		return "shut_down"
	default:
		return "unknown"
	}
}
