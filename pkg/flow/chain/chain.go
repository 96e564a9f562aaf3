package chain

import (
	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/core"
	"github.com/ib-77/chanflow/pkg/flow/stage"
)

// Then starts a filter stage reading from in.
func Then[H, In, Out any](in stage.Duplex[H, In], f flow.FilterFunc[In, Out],
	opts ...core.Option) (*stage.Filter[H, Out], error) {
	return stage.NewFilter[H, In, Out](in, f, opts...)
}

// Compose returns a generator that calls src and passes its result to f.
// It starts nothing; hand the result to Generate.
func Compose[T, U any](src flow.SourceFunc[T], f flow.FilterFunc[T, U]) flow.SourceFunc[U] {
	if src == nil || f == nil {
		return nil
	}
	return func() U {
		return f(src())
	}
}

// Generate starts a source stage. Its channel is built from the
// core.WithChannel options, with the channel package defaults otherwise.
func Generate[T any](src flow.SourceFunc[T], opts ...core.Option) (*stage.Source[T], error) {
	return stage.NewSource[T](src, opts...)
}

// To ends a chain with a sink function. The result has no output.
func To[T any](in flow.Producer[T], f flow.SinkFunc[T], opts ...core.Option) (*stage.Sink[T], error) {
	return stage.NewSink[T](in, f, opts...)
}

// Connect moves every value from src to dst unchanged.
func Connect[T any](src flow.Producer[T], dst flow.Consumer[T], opts ...core.Option) (*stage.Pipeline[T], error) {
	return stage.NewPipeline[T](src, dst, opts...)
}

// GenerateTo is Generate followed by To: a complete source -> sink pipeline
// with a single channel in between. Closing the returned sink stops both.
func GenerateTo[T any](src flow.SourceFunc[T], f flow.SinkFunc[T], opts ...core.Option) (*stage.Sink[T], error) {
	if f == nil {
		return nil, flow.ErrNilFunc
	}

	source, err := Generate(src, opts...)
	if err != nil {
		return nil, err
	}

	sink, err := To[T](source, f, opts...)
	if err != nil {
		source.Close()
		return nil, err
	}
	return sink, nil
}
