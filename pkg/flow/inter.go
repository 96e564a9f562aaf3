package flow

import "context"

// Producer is the taking side of a channel-like value.
type Producer[T any] interface {
	// Take blocks until a value is available. It returns false once the
	// producer is closed and drained.
	Take() (T, bool)
	// Closed reports whether the producer has been closed
	Closed() bool
	// Close closes the producer and wakes every waiter
	Close()
}

// ContextProducer is a Producer whose Take can be abandoned through a context.
type ContextProducer[T any] interface {
	Producer[T]
	// TakeContext returns ErrClosed once drained, or ctx.Err() when ctx is
	// done first
	TakeContext(ctx context.Context) (T, error)
}

// Consumer is the adding side of a channel-like value.
type Consumer[T any] interface {
	// Add inserts a value. It returns false if the value was dropped because
	// the consumer is closed.
	Add(v T) bool
	// Closed reports whether the consumer has been closed
	Closed() bool
	// Close closes the consumer and wakes every waiter
	Close()
}

// Role tags what a stage does with values.
type Role string

const (
	RoleSource   Role = "source"
	RoleFilter   Role = "filter"
	RoleSink     Role = "sink"
	RolePipeline Role = "pipeline"
)

func (r Role) String() string {
	return string(r)
}

// SourceFunc produces a value each time it is called.
type SourceFunc[T any] func() T

// FilterFunc transforms one value into another.
type FilterFunc[In, Out any] func(In) Out

// SinkFunc consumes a value.
type SinkFunc[T any] func(T)

// InputCloser is implemented by composites whose Close tears the whole chain
// down. CloseInput only closes the entry point, so values already inside
// keep flowing to the end before the chain reports that it is drained.
type InputCloser interface {
	CloseInput()
}

// CloseInput closes c gracefully: through CloseInput when c supports it,
// through Close otherwise.
func CloseInput(c interface{ Close() }) {
	if ic, ok := c.(InputCloser); ok {
		ic.CloseInput()
		return
	}
	c.Close()
}
