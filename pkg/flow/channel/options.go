package channel

import (
	"fmt"

	"github.com/ib-77/chanflow/pkg/flow"
)

// DefaultCapacity is used when no capacity option is given.
const DefaultCapacity = 4

// Options are the construction parameters of a Channel.
type Options struct {
	Capacity int
	Policy   Policy
}

type Option func(*Options)

func WithCapacity(capacity int) Option {
	return func(o *Options) { o.Capacity = capacity }
}

func WithPolicy(policy Policy) Option {
	return func(o *Options) { o.Policy = policy }
}

// WithOptions copies a whole option set, e.g. one taken from another channel.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func defaultOptions() Options {
	return Options{
		Capacity: DefaultCapacity,
		Policy:   WaitForSpace,
	}
}

func (o Options) Validate() error {
	if o.Capacity < 1 {
		return fmt.Errorf("%w: got %d", flow.ErrInvalidCapacity, o.Capacity)
	}
	if !o.Policy.valid() {
		return fmt.Errorf("%w: %s", flow.ErrUnknownPolicy, o.Policy)
	}
	return nil
}

// Resolve applies opts over the defaults and validates the result.
func Resolve(opts ...Option) (Options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o, o.Validate()
}
