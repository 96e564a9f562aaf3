// Package metrics records stage activity on OpenTelemetry instruments.
//
// A Recorder is created on a metric.Meter. Stages report when they start,
// every value they move, recovered panics and their total run time:
//
//	rec, err := metrics.NewRecorder(otel.Meter("my-service"))
//	f, err := chain.Then(ch, double, core.WithRecorder(rec))
//
// A nil *Recorder is valid and records nothing.
package metrics
