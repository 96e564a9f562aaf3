package stage

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/core"
)

// Pipeline connects a producer to a consumer with no transformation in
// between. It owns neither end's values, only the goroutine moving them.
type Pipeline[T any] struct {
	in        flow.Producer[T]
	out       flow.Consumer[T]
	worker    *core.Worker
	closeOnce sync.Once
}

func NewPipeline[T any](in flow.Producer[T], out flow.Consumer[T], opts ...core.Option) (*Pipeline[T], error) {
	if flow.IsNil(in) || flow.IsNil(out) {
		return nil, flow.ErrNilInput
	}

	p := &Pipeline[T]{in: in, out: out}
	p.worker = core.Start(flow.RolePipeline, core.NewSettings(opts...), core.PumpLoop[T](in, out), p.closeChannels)

	return p, nil
}

func (p *Pipeline[T]) closeChannels() {
	p.closeOnce.Do(func() {
		p.in.Close()
		p.out.Close()
	})
}

// Closed reports whether the producer side is closed.
func (p *Pipeline[T]) Closed() bool {
	return p.in.Closed()
}

// Close closes the producer, then the consumer, then waits for the worker.
func (p *Pipeline[T]) Close() {
	p.closeChannels()
	p.worker.Wait()
}

// CloseInput closes the producer gracefully; the consumer is closed by the
// worker once everything queued was moved.
func (p *Pipeline[T]) CloseInput() {
	flow.CloseInput(p.in)
}

func (p *Pipeline[T]) Wait() {
	p.worker.Wait()
}

func (p *Pipeline[T]) Done() <-chan struct{} {
	return p.worker.Done()
}

func (p *Pipeline[T]) Err() error {
	return upstreamErr(p.in, p.worker.Err())
}

func (p *Pipeline[T]) Report() flow.Report {
	return p.worker.Report()
}

func (p *Pipeline[T]) ID() uuid.UUID {
	return p.worker.ID()
}

func (p *Pipeline[T]) Role() flow.Role {
	return p.worker.Role()
}
