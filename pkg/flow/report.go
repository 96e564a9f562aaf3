package flow

import (
	"time"

	"github.com/google/uuid"
)

// Report is a snapshot of a stage's lifecycle.
type Report struct {
	id        uuid.UUID
	role      Role
	name      string
	startedAt time.Time
	stoppedAt time.Time
	processed int64
	err       error
	running   bool
}

func Running(id uuid.UUID, role Role, name string, startedAt time.Time, processed int64) Report {
	return Report{
		id:        id,
		role:      role,
		name:      name,
		startedAt: startedAt,
		processed: processed,
		running:   true,
	}
}

func Stopped(id uuid.UUID, role Role, name string, startedAt, stoppedAt time.Time,
	processed int64, err error) Report {
	return Report{
		id:        id,
		role:      role,
		name:      name,
		startedAt: startedAt,
		stoppedAt: stoppedAt,
		processed: processed,
		err:       err,
		running:   false,
	}
}

func (r Report) Id() uuid.UUID {
	return r.id
}

func (r Report) Role() Role {
	return r.role
}

func (r Report) Name() string {
	return r.name
}

// StartedAt time the worker started (UTC)
func (r Report) StartedAt() time.Time {
	return r.startedAt
}

// StoppedAt is zero while the worker is running
func (r Report) StoppedAt() time.Time {
	return r.stoppedAt
}

// Processed number of values the worker moved through its function
func (r Report) Processed() int64 {
	return r.processed
}

func (r Report) Err() error {
	return r.err
}

func (r Report) IsRunning() bool {
	return r.running
}

func (r Report) IsSuccess() bool {
	return !r.running && r.err == nil
}

// Duration is measured up to now for a running worker.
func (r Report) Duration() time.Duration {
	if r.running {
		return time.Since(r.startedAt)
	}
	return r.stoppedAt.Sub(r.startedAt)
}
