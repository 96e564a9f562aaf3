package core

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ib-77/chanflow/pkg/flow"
)

// Loop is the body a Worker runs on its goroutine. It returns when the stage
// has to stop.
type Loop func(w *Worker)

// Worker owns exactly one goroutine, started by Start. The goroutine is
// running until the loop returns, then stopped for good.
type Worker struct {
	id        uuid.UUID
	role      flow.Role
	settings  Settings
	log       zerolog.Logger
	onPanic   func()
	startedAt time.Time
	processed atomic.Int64
	done      chan struct{}

	// written once before done is closed
	report flow.Report
}

// Start launches loop on a new goroutine. onPanic, when set, runs on that
// goroutine after a panic in the loop was recovered; stages use it to close
// their channels so neighbours see the stage is gone.
func Start(role flow.Role, settings Settings, loop Loop, onPanic func()) *Worker {
	id := uuid.New()
	w := &Worker{
		id:       id,
		role:     role,
		settings: settings,
		log: settings.Logger.With().
			Str("stage_id", id.String()).
			Str("role", role.String()).
			Str("stage", settings.Name).
			Logger(),
		onPanic:   onPanic,
		startedAt: time.Now().UTC(),
		done:      make(chan struct{}),
	}

	w.settings.Recorder.Started(context.Background(), role.String(), settings.Name)
	go w.run(loop)

	return w
}

func (w *Worker) run(loop Loop) {
	ctx := context.Background()
	w.log.Debug().Msg("stage started")

	defer func() {
		var err error
		if r := recover(); r != nil {
			err = &flow.StageError{
				StageID: w.id,
				Role:    w.role,
				Name:    w.settings.Name,
				Cause:   flow.PanicError(r),
			}
			w.settings.Recorder.Panic(ctx, w.role.String(), w.settings.Name)
			w.log.Error().Err(err).Msg("stage function panicked")
			if w.onPanic != nil {
				w.onPanic()
			}
		}

		stoppedAt := time.Now().UTC()
		processed := w.processed.Load()
		w.report = flow.Stopped(w.id, w.role, w.settings.Name, w.startedAt, stoppedAt, processed, err)
		w.settings.Recorder.Stopped(ctx, w.role.String(), w.settings.Name, stoppedAt.Sub(w.startedAt))
		w.log.Debug().
			Int64("processed", processed).
			Dur("duration", stoppedAt.Sub(w.startedAt)).
			Msg("stage stopped")

		close(w.done)
	}()

	loop(w)
}

func (w *Worker) count() {
	w.processed.Add(1)
	w.settings.Recorder.Value(context.Background(), w.role.String(), w.settings.Name)
}

func (w *Worker) ID() uuid.UUID {
	return w.id
}

func (w *Worker) Role() flow.Role {
	return w.role
}

func (w *Worker) Name() string {
	return w.settings.Name
}

// Done is closed once the goroutine has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Wait joins the goroutine. It does not stop it.
func (w *Worker) Wait() {
	<-w.done
}

// Err returns the recovered panic, if any. It is nil while the worker runs.
func (w *Worker) Err() error {
	select {
	case <-w.done:
		return w.report.Err()
	default:
		return nil
	}
}

func (w *Worker) Report() flow.Report {
	select {
	case <-w.done:
		return w.report
	default:
		return flow.Running(w.id, w.role, w.settings.Name, w.startedAt, w.processed.Load())
	}
}

// SourceLoop calls gen and adds every result to out until out is closed.
func SourceLoop[T any](gen flow.SourceFunc[T], out flow.Consumer[T]) Loop {
	return func(w *Worker) {
		for !out.Closed() {
			v := gen()
			if out.Closed() || !out.Add(v) {
				return
			}
			w.count()
		}
	}
}

// FilterLoop forwards f(v) for every v taken from in. It stops when in is
// drained or out is closed, and closes out on the way out.
func FilterLoop[In, Out any](in flow.Producer[In], f flow.FilterFunc[In, Out], out flow.Consumer[Out]) Loop {
	return func(w *Worker) {
		defer out.Close()

		for !out.Closed() {
			v, ok := in.Take()
			if !ok {
				return
			}
			if !out.Add(f(v)) {
				return
			}
			w.count()
		}
	}
}

// SinkLoop hands every value taken from in to f until in is drained.
func SinkLoop[T any](in flow.Producer[T], f flow.SinkFunc[T]) Loop {
	return func(w *Worker) {
		for {
			v, ok := in.Take()
			if !ok {
				return
			}
			f(v)
			w.count()
		}
	}
}

// PumpLoop moves values unchanged from in to out. When in is drained, out
// is closed gracefully with flow.CloseInput.
func PumpLoop[T any](in flow.Producer[T], out flow.Consumer[T]) Loop {
	return func(w *Worker) {
		for !out.Closed() {
			v, ok := in.Take()
			if !ok {
				flow.CloseInput(out)
				return
			}
			if !out.Add(v) {
				return
			}
			w.count()
		}
	}
}
