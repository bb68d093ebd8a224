// Package pipeline composes type-transforming stages over a single owned
// payload. Each stage consumes the current value and produces a value of
// its own output type; the type parameters make stage compatibility a
// compile-time property. A stage failure short-circuits the chain.
//
// Go methods cannot introduce type parameters, so advancing a pipeline to
// a new payload type is a free function:
//
//	p := pipeline.New("42")
//	q, err := pipeline.ThenFunc(p, strconv.Atoi)
package pipeline

import (
	"errors"
	"fmt"
)

// ErrConsumed is returned when a pipeline that was already advanced or
// finalized is used again. Ownership of the payload moves forward; the
// spent pipeline retains nothing.
var ErrConsumed = errors.New("pipeline already consumed")

// Processor transforms one owned value into another. Implementations
// receive ownership of the input and must not retain it; they are
// expected to be stateless or configuration-only between runs.
type Processor[In, Out any] interface {
	Process(In) (Out, error)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc[In, Out any] func(In) (Out, error)

func (f ProcessorFunc[In, Out]) Process(in In) (Out, error) { return f(in) }

// Named is implemented by processors that identify themselves in stage
// errors.
type Named interface {
	ProcessorName() string
}

// StageError reports a failed stage. Stage is the processor's name when
// it implements Named, empty otherwise.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("pipeline stage failed: %v", e.Err)
	}
	return fmt.Sprintf("pipeline stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Pipeline carries one in-flight payload of type T.
type Pipeline[T any] struct {
	value T
	spent bool
}

// New starts a pipeline holding initial.
func New[T any](initial T) *Pipeline[T] {
	return &Pipeline[T]{value: initial}
}

// Then consumes p and advances it through proc, rebinding the carried
// type to proc's output type. On processor failure the error is returned
// immediately and no further stage can run. A nil or already-consumed
// pipeline yields ErrConsumed.
func Then[In, Out any](p *Pipeline[In], proc Processor[In, Out]) (*Pipeline[Out], error) {
	if p == nil || p.spent {
		return nil, ErrConsumed
	}
	p.spent = true
	in := p.value
	var zero In
	p.value = zero

	out, err := proc.Process(in)
	if err != nil {
		stage := ""
		if n, ok := proc.(Named); ok {
			stage = n.ProcessorName()
		}
		return nil, &StageError{Stage: stage, Err: err}
	}
	return &Pipeline[Out]{value: out}, nil
}

// ThenFunc is Then for a bare function stage.
func ThenFunc[In, Out any](p *Pipeline[In], fn func(In) (Out, error)) (*Pipeline[Out], error) {
	return Then(p, ProcessorFunc[In, Out](fn))
}

// Finalize consumes the pipeline and yields its payload. It reports false
// when the pipeline was nil or already consumed.
func (p *Pipeline[T]) Finalize() (T, bool) {
	if p == nil || p.spent {
		var zero T
		return zero, false
	}
	p.spent = true
	return p.value, true
}

// Compose fuses two processors into a single stage. Running the fused
// stage is equivalent in value and error to running first then second.
func Compose[A, B, C any](first Processor[A, B], second Processor[B, C]) Processor[A, C] {
	return ProcessorFunc[A, C](func(a A) (C, error) {
		b, err := first.Process(a)
		if err != nil {
			var zero C
			return zero, err
		}
		return second.Process(b)
	})
}
