package stage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/channel"
	"github.com/ib-77/chanflow/pkg/flow/core"
)

// Filter applies a function to every value of its input and offers the
// results through its own channel. Values added to a Filter go to the head
// of the chain it was built on.
type Filter[H, Out any] struct {
	in        flow.Consumer[H]
	out       *channel.Channel[Out]
	worker    *core.Worker
	closeOnce sync.Once
}

// NewFilter allocates an output channel with the options of in and starts
// the worker.
func NewFilter[H, In, Out any](in Duplex[H, In], f flow.FilterFunc[In, Out], opts ...core.Option) (*Filter[H, Out], error) {
	if flow.IsNil(in) {
		return nil, flow.ErrNilInput
	}
	if f == nil {
		return nil, flow.ErrNilFunc
	}

	out, err := channel.New[Out](channel.WithOptions(in.Options()))
	if err != nil {
		return nil, err
	}

	s := &Filter[H, Out]{in: in, out: out}
	s.worker = core.Start(flow.RoleFilter, core.NewSettings(opts...),
		core.FilterLoop[In, Out](in, f, out), s.closeChannels)

	return s, nil
}

// closeChannels closes the input first: for a Filter input that tears the
// upstream stages down before this one.
func (s *Filter[H, Out]) closeChannels() {
	s.closeOnce.Do(func() {
		s.in.Close()
		s.out.Close()
	})
}

func (s *Filter[H, Out]) Add(v H) bool {
	return s.in.Add(v)
}

func (s *Filter[H, Out]) Push(values ...H) *Filter[H, Out] {
	for _, v := range values {
		s.in.Add(v)
	}
	return s
}

func (s *Filter[H, Out]) Take() (Out, bool) {
	return s.out.Take()
}

func (s *Filter[H, Out]) TakeContext(ctx context.Context) (Out, error) {
	return s.out.TakeContext(ctx)
}

// Closed reports whether the output is closed.
func (s *Filter[H, Out]) Closed() bool {
	return s.out.Closed()
}

// Close tears the chain down: every channel from the head to this output is
// closed and every worker up to this one is joined. Values already in the
// output stay available to Take.
func (s *Filter[H, Out]) Close() {
	s.closeChannels()
	s.worker.Wait()
}

// CloseInput closes only the head of the chain. Queued values keep flowing;
// once they reach the output it is closed and Take reports the end.
func (s *Filter[H, Out]) CloseInput() {
	flow.CloseInput(s.in)
}

func (s *Filter[H, Out]) Size() int {
	return s.out.Size()
}

func (s *Filter[H, Out]) Capacity() int {
	return s.out.Capacity()
}

func (s *Filter[H, Out]) Policy() channel.Policy {
	return s.out.Policy()
}

func (s *Filter[H, Out]) Options() channel.Options {
	return s.out.Options()
}

// Wait blocks until the worker returns without closing anything.
func (s *Filter[H, Out]) Wait() {
	s.worker.Wait()
}

// Err reports recovered panics of this stage and of the stages before it.
func (s *Filter[H, Out]) Err() error {
	return upstreamErr(s.in, s.worker.Err())
}

func (s *Filter[H, Out]) Report() flow.Report {
	return s.worker.Report()
}

func (s *Filter[H, Out]) ID() uuid.UUID {
	return s.worker.ID()
}

func (s *Filter[H, Out]) Role() flow.Role {
	return s.worker.Role()
}
