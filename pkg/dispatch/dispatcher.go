package dispatch

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/latticekit/lattice/internal/logging"
)

// Result is what a handler produces on success.
type Result struct {
	Output string
}

// Display renders the result for humans.
func (r Result) Display() string { return r.Output }

// Handler observes events. CanHandle decides eligibility per event;
// eligible handlers run in descending Priority order, registration order
// on ties.
type Handler interface {
	Name() string
	Priority() int
	CanHandle(Event) bool
	Handle(Event) (Result, error)
}

// Outcome pairs a handler with what its invocation produced. Exactly one
// of Result and Err is meaningful, selected by Err == nil.
type Outcome struct {
	Handler string
	Result  Result
	Err     error
}

// Hooks receives a notification after each handler invocation.
type Hooks struct {
	OnHandler func(handler string, failed bool)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithHooks registers invocation hooks.
func WithHooks(h Hooks) Option {
	return func(d *Dispatcher) {
		d.hooks = h
	}
}

// Dispatcher holds an append-only registration list and fans events out
// to eligible handlers. Safe for concurrent use; dispatch itself is
// synchronous.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers []Handler
	log      *slog.Logger
	hooks    Hooks
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{log: logging.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddHandler appends a handler to the registration list.
func (d *Dispatcher) AddHandler(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Dispatch invokes every eligible handler synchronously, highest priority
// first, and collects one Outcome per invoked handler in execution order.
// A handler failure is recorded in its Outcome and the remaining handlers
// still run.
func (d *Dispatcher) Dispatch(evt Event) []Outcome {
	d.mu.RLock()
	eligible := make([]Handler, 0, len(d.handlers))
	for _, h := range d.handlers {
		if h.CanHandle(evt) {
			eligible = append(eligible, h)
		}
	}
	d.mu.RUnlock()

	// Stable: equal priorities keep registration order.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Priority() > eligible[j].Priority()
	})

	outcomes := make([]Outcome, 0, len(eligible))
	for _, h := range eligible {
		res, err := h.Handle(evt)
		if err != nil {
			d.log.Warn("handler failed", "handler", h.Name(), "kind", evt.Kind(), "err", err)
		} else {
			d.log.Debug("handler done", "handler", h.Name(), "kind", evt.Kind())
		}
		if d.hooks.OnHandler != nil {
			d.hooks.OnHandler(h.Name(), err != nil)
		}
		outcomes = append(outcomes, Outcome{Handler: h.Name(), Result: res, Err: err})
	}
	return outcomes
}

// HandlerFunc builds a Handler from plain functions. A nil canHandle
// means always eligible.
func HandlerFunc(name string, priority int, canHandle func(Event) bool, handle func(Event) (Result, error)) Handler {
	return &funcHandler{name: name, priority: priority, canHandle: canHandle, handle: handle}
}

type funcHandler struct {
	name      string
	priority  int
	canHandle func(Event) bool
	handle    func(Event) (Result, error)
}

func (h *funcHandler) Name() string  { return h.name }
func (h *funcHandler) Priority() int { return h.priority }

func (h *funcHandler) CanHandle(evt Event) bool {
	if h.canHandle == nil {
		return true
	}
	return h.canHandle(evt)
}

func (h *funcHandler) Handle(evt Event) (Result, error) { return h.handle(evt) }
