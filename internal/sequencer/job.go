package sequencer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tab-sender/internal/models"
)

// Outcome is the final result of a job.
type Outcome struct {
	Phase models.Phase
	Sent  int
	Err   error
}

// Job is the handle of one countdown-then-dispatch run. All of its state is
// written by the worker goroutine; callers may only cancel and observe.
type Job struct {
	id        uuid.UUID
	seq       models.NumericSequence
	ctx       context.Context
	cancel    context.CancelFunc
	sent      atomic.Int64
	startedAt time.Time
	done      chan struct{}
	outcome   Outcome
}

func newJob(seq models.NumericSequence) *Job {
	ctx, cancel := context.WithCancel(context.Background())
	return &Job{
		id:        uuid.New(),
		seq:       seq,
		ctx:       ctx,
		cancel:    cancel,
		startedAt: time.Now(),
		done:      make(chan struct{}),
	}
}

// ID identifies the job in logs and status messages.
func (j *Job) ID() uuid.UUID {
	return j.id
}

// Total is the number of items the job will send.
func (j *Job) Total() int {
	return j.seq.Len()
}

// Sent is the number of items fully emitted so far.
func (j *Job) Sent() int {
	return int(j.sent.Load())
}

// Cancel asks the worker to stop at its next check. Calling it again, or
// after the job has finished, does nothing.
func (j *Job) Cancel() {
	j.cancel()
}

// CancelRequested reports whether Cancel has been called.
func (j *Job) CancelRequested() bool {
	return j.ctx.Err() != nil
}

// Done is closed once the job has reached a terminal phase and the
// controller is idle again.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Outcome returns the final result; ok is false while the job is running.
func (j *Job) Outcome() (outcome Outcome, ok bool) {
	select {
	case <-j.done:
		return j.outcome, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the job is done or ctx ends.
func (j *Job) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-j.done:
		return j.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
