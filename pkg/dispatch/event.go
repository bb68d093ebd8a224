// Package dispatch routes immutable events to priority-ordered handlers.
// Handlers are independent observers: each eligible handler runs exactly
// once per dispatch and one handler's failure never suppresses another.
package dispatch

import (
	"time"

	"github.com/latticekit/lattice/pkg/capability"
)

// Event is a single immutable occurrence. Handlers receive a read-only
// view: accessor results must not be used to mutate the event.
type Event interface {
	// Kind is the event's type tag, e.g. "order.placed".
	Kind() string
	// OccurredAt is the construction timestamp.
	OccurredAt() time.Time
	// Payload is the primary data, renderable for humans.
	Payload() capability.Displayable
	// Metadata is the auxiliary key/value bundle. Implementations return
	// a copy so handlers cannot mutate the original.
	Metadata() map[string]string
}

// BaseEvent is the canonical Event implementation. Construct it with
// NewEvent; the zero value carries no payload.
type BaseEvent struct {
	kind     string
	at       time.Time
	payload  capability.Displayable
	metadata map[string]string
}

// NewEvent builds an immutable event. The metadata map is copied so later
// caller mutations do not leak into the event.
func NewEvent(kind string, payload capability.Displayable, metadata map[string]string) BaseEvent {
	md := make(map[string]string, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	return BaseEvent{
		kind:     kind,
		at:       time.Now(),
		payload:  payload,
		metadata: md,
	}
}

func (e BaseEvent) Kind() string                    { return e.kind }
func (e BaseEvent) OccurredAt() time.Time           { return e.at }
func (e BaseEvent) Payload() capability.Displayable { return e.payload }

// Metadata returns a copy of the metadata bundle.
func (e BaseEvent) Metadata() map[string]string {
	md := make(map[string]string, len(e.metadata))
	for k, v := range e.metadata {
		md[k] = v
	}
	return md
}
