package stage

import (
	"errors"

	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/channel"
)

// Duplex is anything that can feed a stage: a bare channel, a Source or a
// Filter. H is what Add accepts at the head, Out what Take returns.
type Duplex[H, Out any] interface {
	flow.Consumer[H]
	flow.Producer[Out]
	// Size is the number of values waiting to be taken
	Size() int
	Capacity() int
	Policy() channel.Policy
	// Options are inherited by the channel of the next stage
	Options() channel.Options
}

var (
	_ Duplex[int, int]    = (*channel.Channel[int])(nil)
	_ Duplex[int, int]    = (*Source[int])(nil)
	_ Duplex[int, string] = (*Filter[int, string])(nil)

	_ flow.ContextProducer[int]    = (*channel.Channel[int])(nil)
	_ flow.ContextProducer[int]    = (*Source[int])(nil)
	_ flow.ContextProducer[string] = (*Filter[int, string])(nil)
)

type errorer interface {
	Err() error
}

// upstreamErr joins the error of v, when it reports one, with own.
func upstreamErr(v any, own error) error {
	if up, ok := v.(errorer); ok {
		return errors.Join(up.Err(), own)
	}
	return own
}
