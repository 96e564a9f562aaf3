package stage

import (
	"context"

	"github.com/google/uuid"

	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/channel"
	"github.com/ib-77/chanflow/pkg/flow/core"
)

// Source fills a channel with the results of a generator until the channel
// is closed.
type Source[T any] struct {
	out    *channel.Channel[T]
	worker *core.Worker
}

// NewSource allocates the output channel from the core.WithChannel options
// and starts the generator.
func NewSource[T any](gen flow.SourceFunc[T], opts ...core.Option) (*Source[T], error) {
	if gen == nil {
		return nil, flow.ErrNilFunc
	}

	settings := core.NewSettings(opts...)
	out, err := channel.New[T](settings.Channel...)
	if err != nil {
		return nil, err
	}

	s := &Source[T]{out: out}
	s.worker = core.Start(flow.RoleSource, settings, core.SourceLoop[T](gen, out), out.Close)

	return s, nil
}

// Add puts v into the output next to the generated values.
func (s *Source[T]) Add(v T) bool {
	return s.out.Add(v)
}

func (s *Source[T]) Push(values ...T) *Source[T] {
	s.out.Push(values...)
	return s
}

func (s *Source[T]) Take() (T, bool) {
	return s.out.Take()
}

func (s *Source[T]) TakeContext(ctx context.Context) (T, error) {
	return s.out.TakeContext(ctx)
}

func (s *Source[T]) Closed() bool {
	return s.out.Closed()
}

// Close stops the generator and waits for it. Generated values already in
// the output stay available to Take.
func (s *Source[T]) Close() {
	s.out.Close()
	s.worker.Wait()
}

func (s *Source[T]) Size() int {
	return s.out.Size()
}

func (s *Source[T]) Capacity() int {
	return s.out.Capacity()
}

func (s *Source[T]) Policy() channel.Policy {
	return s.out.Policy()
}

func (s *Source[T]) Options() channel.Options {
	return s.out.Options()
}

// Wait blocks until the generator goroutine returns.
func (s *Source[T]) Wait() {
	s.worker.Wait()
}

func (s *Source[T]) Err() error {
	return s.worker.Err()
}

func (s *Source[T]) Report() flow.Report {
	return s.worker.Report()
}

func (s *Source[T]) ID() uuid.UUID {
	return s.worker.ID()
}

func (s *Source[T]) Role() flow.Role {
	return s.worker.Role()
}
