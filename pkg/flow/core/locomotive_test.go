package core

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/ib-77/chanflow/pkg/flow"
	"github.com/ib-77/chanflow/pkg/flow/channel"
	"github.com/ib-77/chanflow/pkg/flow/metrics"
)

func waitDone(t *testing.T, w *Worker) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("worker %s did not stop", w.Role())
	}
}

func TestFilterLoop_ForwardsAndClosesOutput(t *testing.T) {
	t.Parallel()

	in := channel.MustNew[int](channel.WithCapacity(5))
	out := channel.MustNew[int](channel.WithCapacity(5))

	w := Start(flow.RoleFilter, NewSettings(WithName("times10")),
		FilterLoop[int, int](in, func(v int) int { return v * 10 }, out), nil)

	in.Push(1, 2, 3)
	in.Close()
	waitDone(t, w)

	assert.True(t, out.Closed())
	assert.Equal(t, []int{10, 20, 30}, Collect[int](out))
	assert.NoError(t, w.Err())

	report := w.Report()
	assert.False(t, report.IsRunning())
	assert.True(t, report.IsSuccess())
	assert.Equal(t, int64(3), report.Processed())
	assert.Equal(t, w.ID(), report.Id())
	assert.Equal(t, "times10", report.Name())
}

func TestFilterLoop_StopsWhenOutputClosed(t *testing.T) {
	t.Parallel()

	in := channel.MustNew[int](channel.WithCapacity(1))
	out := channel.MustNew[int](channel.WithCapacity(1))

	w := Start(flow.RoleFilter, NewSettings(),
		FilterLoop[int, int](in, func(v int) int { return v }, out), nil)

	// fill out, then block the worker on the full output
	in.Push(1, 2)
	out.Close()
	in.Close()
	waitDone(t, w)
}

func TestSourceLoop_StopsWhenOutputClosed(t *testing.T) {
	t.Parallel()

	out := channel.MustNew[int](channel.WithCapacity(2))
	next := 0
	w := Start(flow.RoleSource, NewSettings(),
		SourceLoop[int](func() int { next++; return next }, out), nil)

	assert.Equal(t, []int{1, 2, 3}, CollectN[int](out, 3))

	out.Close()
	waitDone(t, w)
	assert.GreaterOrEqual(t, w.Report().Processed(), int64(3))
}

func TestSinkLoop_ConsumesUntilDrained(t *testing.T) {
	t.Parallel()

	in := channel.MustNew[string](channel.WithCapacity(3))
	var got []string
	w := Start(flow.RoleSink, NewSettings(),
		SinkLoop[string](in, func(s string) { got = append(got, s) }), nil)

	in.Push("a", "b", "c")
	in.Close()
	waitDone(t, w)

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestPumpLoop_ClosesConsumerWhenDrained(t *testing.T) {
	t.Parallel()

	in, err := FromValues([]int{4, 5, 6})
	require.NoError(t, err)
	out := channel.MustNew[int](channel.WithCapacity(8))

	w := Start(flow.RolePipeline, NewSettings(), PumpLoop[int](in, out), nil)
	waitDone(t, w)

	assert.True(t, out.Closed())
	assert.Equal(t, []int{4, 5, 6}, Collect[int](out))
}

func TestWorker_RecoversPanic(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var mu sync.Mutex
	logger := zerolog.New(zerolog.SyncWriter(&lockedWriter{w: &buf, mu: &mu})).Level(zerolog.DebugLevel)

	in := channel.MustNew[int]()
	out := channel.MustNew[int]()
	closed := make(chan struct{})

	w := Start(flow.RoleFilter, NewSettings(WithName("boom"), WithLogger(logger)),
		FilterLoop[int, int](in, func(v int) int {
			if v == 2 {
				panic("two is not allowed")
			}
			return v
		}, out),
		func() {
			in.Close()
			close(closed)
		})

	in.Push(1, 2, 3)
	waitDone(t, w)
	<-closed

	err := w.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, flow.ErrStagePanic)

	var stageErr *flow.StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, w.ID(), stageErr.StageID)
	assert.Equal(t, flow.RoleFilter, stageErr.Role)
	assert.Contains(t, stageErr.Error(), "two is not allowed")

	assert.True(t, in.Closed())
	assert.True(t, out.Closed())
	assert.Equal(t, []int{1}, Collect[int](out))

	mu.Lock()
	logged := buf.String()
	mu.Unlock()
	assert.Contains(t, logged, "stage started")
	assert.Contains(t, logged, "stage function panicked")
	assert.Contains(t, logged, "stage stopped")
	assert.Contains(t, logged, `"stage":"boom"`)
}

func TestWorker_RecordsMetrics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	rec, err := metrics.NewRecorder(provider.Meter("core-test"))
	require.NoError(t, err)

	in, err := FromValues([]int{1, 2, 3, 4})
	require.NoError(t, err)

	var sum int
	w := Start(flow.RoleSink, NewSettings(WithRecorder(rec)),
		SinkLoop[int](in, func(v int) { sum += v }), nil)
	waitDone(t, w)
	assert.Equal(t, 10, sum)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(4), metrics.SumInt64(rm, "chanflow.stage.values"))
	assert.Equal(t, int64(0), metrics.SumInt64(rm, "chanflow.stage.active"))
	assert.Equal(t, uint64(1), metrics.HistogramCount(rm, "chanflow.stage.duration"))
}

func TestWorker_ReportWhileRunning(t *testing.T) {
	t.Parallel()

	in := channel.MustNew[int]()
	w := Start(flow.RoleSink, NewSettings(WithRecorder(nil)), SinkLoop[int](in, func(int) {}), nil)

	report := w.Report()
	assert.True(t, report.IsRunning())
	assert.NoError(t, w.Err())
	assert.True(t, report.StoppedAt().IsZero())

	in.Close()
	w.Wait()
	assert.False(t, w.Report().IsRunning())
	assert.False(t, w.Report().StoppedAt().IsZero())
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
