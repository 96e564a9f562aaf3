package stage

import (
	"github.com/google/uuid"

	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/core"
)

// Sink is the terminal stage: it consumes its input and produces nothing.
type Sink[T any] struct {
	in     flow.Producer[T]
	worker *core.Worker
}

func NewSink[T any](in flow.Producer[T], f flow.SinkFunc[T], opts ...core.Option) (*Sink[T], error) {
	if flow.IsNil(in) {
		return nil, flow.ErrNilInput
	}
	if f == nil {
		return nil, flow.ErrNilFunc
	}

	s := &Sink[T]{in: in}
	s.worker = core.Start(flow.RoleSink, core.NewSettings(opts...), core.SinkLoop[T](in, f), in.Close)

	return s, nil
}

// Closed reports whether the input is closed. The sink may still be
// consuming values queued before that.
func (s *Sink[T]) Closed() bool {
	return s.in.Closed()
}

// Close closes the input and waits for the worker. Values still queued in
// the input when Close is called are consumed first.
func (s *Sink[T]) Close() {
	s.in.Close()
	s.worker.Wait()
}

// CloseInput closes the head of the chain feeding the sink without waiting.
func (s *Sink[T]) CloseInput() {
	flow.CloseInput(s.in)
}

// Wait blocks until the input is drained and every value was consumed.
func (s *Sink[T]) Wait() {
	s.worker.Wait()
}

// Done is closed once the worker returned.
func (s *Sink[T]) Done() <-chan struct{} {
	return s.worker.Done()
}

func (s *Sink[T]) Err() error {
	return upstreamErr(s.in, s.worker.Err())
}

func (s *Sink[T]) Report() flow.Report {
	return s.worker.Report()
}

func (s *Sink[T]) ID() uuid.UUID {
	return s.worker.ID()
}

func (s *Sink[T]) Role() flow.Role {
	return s.worker.Role()
}
