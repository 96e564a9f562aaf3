package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"

	"github.com/ib-77/chanflow/pkg/flow/channel"
	"github.com/ib-77/chanflow/pkg/flow/core"
	"github.com/ib-77/chanflow/pkg/flow/metrics"
)

// Config is the settings tree read by Load.
type Config struct {
	Channel Channel `yaml:"channel" mapstructure:"channel"`
	Logging Logging `yaml:"logging" mapstructure:"logging"`
	Metrics Metrics `yaml:"metrics" mapstructure:"metrics"`
}

// Channel holds the defaults for channels built by sources and plain
// channel.New calls.
type Channel struct {
	Capacity int    `yaml:"capacity" mapstructure:"capacity" validate:"gte=1"`
	Policy   string `yaml:"policy" mapstructure:"policy" validate:"omitempty,oneof=wait_for_space overwrite_last wait overwrite"`
}

type Logging struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
	Format    string `yaml:"format" mapstructure:"format" validate:"oneof=console json"`
	Output    string `yaml:"output" mapstructure:"output" validate:"oneof=stdout stderr"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
}

type Metrics struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Name is the instrumentation scope of the meter
	Name string `yaml:"name" mapstructure:"name" validate:"required_if=Enabled true"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	c.Logging.Timestamp = true
	return c
}

// ApplyDefaults fills zero values. Booleans are left alone.
func (c *Config) ApplyDefaults() {
	if c.Channel.Capacity == 0 {
		c.Channel.Capacity = channel.DefaultCapacity
	}
	if c.Channel.Policy == "" {
		c.Channel.Policy = channel.WaitForSpace.String()
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Metrics.Name == "" {
		c.Metrics.Name = metrics.MeterName
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Normalize lower-cases and trims the enumerated fields so that values such
// as "WARN" or " Overwrite_Last" pass Validate.
func (c *Config) Normalize() {
	c.Channel.Policy = normalize(c.Channel.Policy)
	c.Logging.Level = normalize(c.Logging.Level)
	c.Logging.Format = normalize(c.Logging.Format)
	c.Logging.Output = normalize(c.Logging.Output)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks c as it is; it does not modify it.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid chanflow config: %w", err)
	}
	return nil
}

// ChannelOptions converts the channel section. The config must be valid.
func (c Config) ChannelOptions() []channel.Option {
	policy, err := channel.ParsePolicy(c.Channel.Policy)
	if err != nil {
		policy = channel.WaitForSpace
	}
	return []channel.Option{
		channel.WithCapacity(c.Channel.Capacity),
		channel.WithPolicy(policy),
	}
}

// StageOptions returns the logger, recorder and channel options for stages
// named name.
func (c Config) StageOptions(name string) ([]core.Option, error) {
	rec, err := c.Metrics.Recorder()
	if err != nil {
		return nil, err
	}
	return []core.Option{
		core.WithName(name),
		core.WithLogger(c.Logging.Build()),
		core.WithRecorder(rec),
		core.WithChannel(c.ChannelOptions()...),
	}, nil
}

// Build creates the logger described by l.
func (l Logging) Build() zerolog.Logger {
	var w io.Writer = os.Stdout
	if l.Output == "stderr" {
		w = os.Stderr
	}
	return l.BuildTo(w)
}

// BuildTo is Build with an explicit destination.
func (l Logging) BuildTo(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}

	if strings.ToLower(l.Format) == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: l.NoColor}
	}

	zl := zerolog.New(w).Level(level)
	if l.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	return zl
}

// Recorder returns nil when metrics are disabled, which stages treat as
// "record nothing".
func (m Metrics) Recorder() (*metrics.Recorder, error) {
	if !m.Enabled {
		return nil, nil
	}
	return metrics.NewRecorder(otel.Meter(m.Name))
}
