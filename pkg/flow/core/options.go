package core

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/ib-77/chanflow/pkg/flow/channel"
	"github.com/ib-77/chanflow/pkg/flow/metrics"
)

// Settings configure a single stage.
type Settings struct {
	// Name labels the stage in logs and metrics
	Name     string
	Logger   zerolog.Logger
	Recorder *metrics.Recorder
	// Channel options for stages that allocate a channel without an upstream
	// to inherit from (sources). Filters always inherit from their input.
	Channel []channel.Option
}

type Option func(*Settings)

func WithName(name string) Option {
	return func(s *Settings) { s.Name = name }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Settings) { s.Logger = logger }
}

// WithRecorder replaces the global recorder. A nil recorder disables metrics.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(s *Settings) { s.Recorder = rec }
}

func WithChannel(opts ...channel.Option) Option {
	return func(s *Settings) { s.Channel = append(s.Channel, opts...) }
}

var globalRecorder = sync.OnceValue(metrics.Global)

func NewSettings(opts ...Option) Settings {
	s := Settings{
		Logger:   zerolog.Nop(),
		Recorder: globalRecorder(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
