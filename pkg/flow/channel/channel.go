package channel

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ib-77/chanflow/pkg/flow"
)

// Channel is a bounded FIFO queue guarded by one mutex. A *Channel is a
// handle: copies of the pointer share the same queue.
type Channel[T any] struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond

	buf   []T
	head  int
	count int

	policy Policy
	closed atomic.Bool
}

// New creates an empty, open channel.
func New[T any](opts ...Option) (*Channel[T], error) {
	o, err := Resolve(opts...)
	if err != nil {
		return nil, err
	}

	c := &Channel[T]{
		buf:    make([]T, o.Capacity),
		policy: o.Policy,
	}
	c.notEmpty.L = &c.mu
	c.notFull.L = &c.mu
	return c, nil
}

// MustNew is New for options known to be valid. It panics otherwise.
func MustNew[T any](opts ...Option) *Channel[T] {
	c, err := New[T](opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Add inserts v and reports whether it was accepted. Under WaitForSpace it
// blocks while the channel is full; a value whose writer is still waiting
// when the channel closes is dropped and Add returns false.
func (c *Channel[T]) Add(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.add(nil, v) == nil
}

// AddContext is Add that also gives up when ctx is done. It returns
// flow.ErrClosed if the value was dropped because of Close.
func (c *Channel[T]) AddContext(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, c.wakeAll)
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.add(ctx, v)
}

// Push adds every value in order and returns the channel for chaining.
func (c *Channel[T]) Push(values ...T) *Channel[T] {
	for _, v := range values {
		c.Add(v)
	}
	return c
}

// Take removes and returns the oldest value. It blocks while the channel
// is empty and open, and returns false once it is closed and drained.
func (c *Channel[T]) Take() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, err := c.take(nil)
	return v, err == nil
}

// TakeContext is Take that also gives up when ctx is done. It returns
// flow.ErrClosed once the channel is closed and drained.
func (c *Channel[T]) TakeContext(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	stop := context.AfterFunc(ctx, c.wakeAll)
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.take(ctx)
}

// Closed may be stale by the time the caller looks at it.
func (c *Channel[T]) Closed() bool {
	return c.closed.Load()
}

// Close is idempotent. Every blocked Add and Take wakes up.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return
	}
	c.closed.Store(true)
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

// Size is advisory under concurrent use.
func (c *Channel[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.count
}

func (c *Channel[T]) Capacity() int {
	return len(c.buf)
}

func (c *Channel[T]) Policy() Policy {
	return c.policy
}

// Options returns the parameters the channel was built with.
func (c *Channel[T]) Options() Options {
	return Options{Capacity: len(c.buf), Policy: c.policy}
}

// add and take expect c.mu to be held. A nil ctx never expires.

func (c *Channel[T]) add(ctx context.Context, v T) error {
	if c.closed.Load() {
		return flow.ErrClosed
	}

	if c.full() {
		switch c.policy {
		case OverwriteLast:
			c.popBack()
		default:
			for c.full() && !c.closed.Load() {
				if ctx != nil && ctx.Err() != nil {
					// hand the wakeup we may have consumed to the next writer
					c.notFull.Signal()
					return ctx.Err()
				}
				c.notFull.Wait()
			}
			if c.closed.Load() {
				return flow.ErrClosed
			}
		}
	}

	c.pushBack(v)
	c.notEmpty.Signal()
	return nil
}

func (c *Channel[T]) take(ctx context.Context) (T, error) {
	for c.count == 0 && !c.closed.Load() {
		if ctx != nil && ctx.Err() != nil {
			c.notEmpty.Signal()
			var zero T
			return zero, ctx.Err()
		}
		c.notEmpty.Wait()
	}

	if c.count == 0 {
		var zero T
		return zero, flow.ErrClosed
	}

	v := c.popFront()
	c.notFull.Signal()
	return v, nil
}

func (c *Channel[T]) wakeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

func (c *Channel[T]) full() bool {
	return c.count == len(c.buf)
}

func (c *Channel[T]) pushBack(v T) {
	c.buf[(c.head+c.count)%len(c.buf)] = v
	c.count++
}

func (c *Channel[T]) popBack() {
	var zero T
	c.count--
	c.buf[(c.head+c.count)%len(c.buf)] = zero
}

func (c *Channel[T]) popFront() T {
	var zero T
	v := c.buf[c.head]
	c.buf[c.head] = zero
	c.head = (c.head + 1) % len(c.buf)
	c.count--
	return v
}
