package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope used by Global.
const MeterName = "github.com/ib-77/chanflow"

const (
	AttrStageRole = "stage.role"
	AttrStageName = "stage.name"
)

// Recorder holds the instruments shared by every stage.
type Recorder struct {
	values   metric.Int64Counter
	active   metric.Int64UpDownCounter
	panics   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRecorder creates the stage instruments on meter.
func NewRecorder(meter metric.Meter) (*Recorder, error) {
	values, err := meter.Int64Counter("chanflow.stage.values",
		metric.WithDescription("Values moved through a stage function"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chanflow.stage.values counter: %w", err)
	}

	active, err := meter.Int64UpDownCounter("chanflow.stage.active",
		metric.WithDescription("Stage workers currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chanflow.stage.active counter: %w", err)
	}

	panics, err := meter.Int64Counter("chanflow.stage.panics",
		metric.WithDescription("Panics recovered from stage functions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chanflow.stage.panics counter: %w", err)
	}

	duration, err := meter.Float64Histogram("chanflow.stage.duration",
		metric.WithDescription("Lifetime of a stage worker in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chanflow.stage.duration histogram: %w", err)
	}

	return &Recorder{
		values:   values,
		active:   active,
		panics:   panics,
		duration: duration,
	}, nil
}

// Global builds a Recorder on the global meter provider. Until the host
// application installs a provider the instruments are no-ops.
func Global() *Recorder {
	rec, err := NewRecorder(otel.Meter(MeterName))
	if err != nil {
		return nil
	}
	return rec
}

func stageAttrs(role, name string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String(AttrStageRole, role),
		attribute.String(AttrStageName, name),
	)
}

func (r *Recorder) Started(ctx context.Context, role, name string) {
	if r == nil {
		return
	}
	r.active.Add(ctx, 1, stageAttrs(role, name))
}

func (r *Recorder) Value(ctx context.Context, role, name string) {
	if r == nil {
		return
	}
	r.values.Add(ctx, 1, stageAttrs(role, name))
}

func (r *Recorder) Panic(ctx context.Context, role, name string) {
	if r == nil {
		return
	}
	r.panics.Add(ctx, 1, stageAttrs(role, name))
}

func (r *Recorder) Stopped(ctx context.Context, role, name string, lifetime time.Duration) {
	if r == nil {
		return
	}
	attrs := stageAttrs(role, name)
	r.active.Add(ctx, -1, attrs)
	r.duration.Record(ctx, lifetime.Seconds(), attrs)
}
