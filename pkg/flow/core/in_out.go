package core

import (
	"context"

	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/channel"
)

// FromValues returns a channel that a background goroutine fills with
// values and then closes. Closing the channel early stops the goroutine.
func FromValues[T any](values []T, opts ...channel.Option) (*channel.Channel[T], error) {
	in, err := channel.New[T](opts...)
	if err != nil {
		return nil, err
	}

	go func() {
		defer in.Close()

		for _, v := range values {
			if !in.Add(v) {
				return
			}
		}
	}()

	return in, nil
}

// Collect takes from p until it is closed and drained.
func Collect[T any](p flow.Producer[T]) []T {
	res := make([]T, 0)
	for {
		v, ok := p.Take()
		if !ok {
			return res
		}
		res = append(res, v)
	}
}

// CollectN takes at most n values from p. It returns fewer if p drains first.
func CollectN[T any](p flow.Producer[T], n int) []T {
	res := make([]T, 0, n)
	for len(res) < n {
		v, ok := p.Take()
		if !ok {
			break
		}
		res = append(res, v)
	}
	return res
}

// FirstOrDefault takes one value from p, or returns defaultV if p is drained
// or ctx is done first. p stays open either way.
func FirstOrDefault[T any](ctx context.Context, p flow.ContextProducer[T], defaultV T) T {
	v, err := p.TakeContext(ctx)
	if err != nil {
		return defaultV
	}
	return v
}
