// Package sequencer replays a numeric sequence as keystrokes: a visible
// countdown first, then one value and one tab per item. One job runs at a
// time and it can be cancelled between items.
package sequencer

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"tab-sender/internal/keyboard"
	"tab-sender/internal/logger"
	"tab-sender/internal/models"
)

const component = "KeystrokeSequencer"

// Options tune the timing of a job.
type Options struct {
	// Countdown is the number of ticks before the first keystroke.
	Countdown int
	// Tick is the length of one countdown step.
	Tick time.Duration
	// Separator is pressed after every value.
	Separator keyboard.Key
	// ShutdownTimeout bounds how long Shutdown waits for the worker.
	ShutdownTimeout time.Duration
}

// DefaultOptions counts down ten seconds and separates values with tab.
func DefaultOptions() Options {
	return Options{
		Countdown:       10,
		Tick:            time.Second,
		Separator:       keyboard.KeyTab,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Controller owns the single active dispatch job.
type Controller struct {
	keyboard keyboard.Keyboard
	opts     Options
	log      logger.Logger
	active   atomic.Pointer[Job]
}

// New creates a controller that types into kb.
func New(kb keyboard.Keyboard, opts Options, log logger.Logger) *Controller {
	defaults := DefaultOptions()
	if opts.Tick <= 0 {
		opts.Tick = defaults.Tick
	}
	if opts.Countdown < 0 {
		opts.Countdown = 0
	}
	if opts.Separator == "" {
		opts.Separator = defaults.Separator
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return &Controller{keyboard: kb, opts: opts, log: log}
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// Start launches a worker for seq. It fails with a *models.ValidationError
// for an empty sequence and with models.ErrAlreadyRunning while another job
// is active; in both cases no worker is started.
func (c *Controller) Start(seq models.NumericSequence, r Reporter) (*Job, error) {
	if seq.IsEmpty() {
		return nil, models.NewValidationError("sequence", seq.Len(), "no values to send")
	}
	if r == nil {
		r = ReporterFuncs{}
	}

	job := newJob(seq)
	if !c.active.CompareAndSwap(nil, job) {
		job.cancel()
		fields := map[string]interface{}{"items": seq.Len()}
		if running := c.active.Load(); running != nil {
			fields["active_job"] = running.ID().String()
		}
		c.log.Warning(component, "start rejected, job already running", fields)
		return nil, models.ErrAlreadyRunning
	}

	c.log.Info(component, "job started", map[string]interface{}{
		"job":       job.ID().String(),
		"items":     seq.Len(),
		"countdown": c.opts.Countdown,
	})

	go c.run(job, r)
	return job, nil
}

// Active returns the running job, or nil when idle.
func (c *Controller) Active() *Job {
	return c.active.Load()
}

// Busy reports whether a job is running.
func (c *Controller) Busy() bool {
	return c.active.Load() != nil
}

// Cancel requests cancellation of job. A nil or finished job is ignored.
func (c *Controller) Cancel(job *Job) {
	if job == nil {
		return
	}
	if _, finished := job.Outcome(); finished {
		return
	}
	if !job.CancelRequested() {
		c.log.Info(component, "cancel requested", map[string]interface{}{
			"job":  job.ID().String(),
			"sent": job.Sent(),
		})
	}
	job.Cancel()
}

// Shutdown cancels the running job and waits for it to reach a terminal
// phase, up to the configured timeout.
func (c *Controller) Shutdown() {
	job := c.active.Load()
	if job == nil {
		return
	}
	c.Cancel(job)

	select {
	case <-job.Done():
	case <-time.After(c.opts.ShutdownTimeout):
		c.log.Warning(component, "job did not stop before shutdown timeout", map[string]interface{}{
			"job": job.ID().String(),
		})
	}
}

// run is the worker. Whatever happens inside execute, finish runs and the
// controller returns to idle.
func (c *Controller) run(job *Job, r Reporter) {
	outcome := Outcome{Phase: models.PhaseFailed}
	defer func() {
		if p := recover(); p != nil {
			outcome = Outcome{
				Phase: models.PhaseFailed,
				Sent:  job.Sent(),
				Err:   errors.Errorf("sequencer worker panic: %v", p),
			}
		}
		c.finish(job, r, outcome)
	}()

	outcome = c.execute(job, r)
}

func (c *Controller) execute(job *Job, r Reporter) Outcome {
	total := job.seq.Len()

	c.notify(func() { r.PhaseChanged(job, Event{Phase: models.PhaseCountingDown, Total: total}) })
	if !c.countdown(job, r) {
		return Outcome{Phase: models.PhaseCancelled}
	}

	c.notify(func() { r.PhaseChanged(job, Event{Phase: models.PhaseDispatching, Total: total}) })

	// A started item is always finished: value and separator, or neither.
	emitCtx := context.WithoutCancel(job.ctx)
	for i := 0; i < total; i++ {
		if job.ctx.Err() != nil {
			return Outcome{Phase: models.PhaseCancelled, Sent: i}
		}
		v := job.seq.At(i)
		if err := c.emit(emitCtx, v); err != nil {
			return Outcome{
				Phase: models.PhaseFailed,
				Sent:  i,
				Err:   &models.DispatchFailure{Index: i, Value: v, Err: err},
			}
		}
		job.sent.Add(1)
	}
	return Outcome{Phase: models.PhaseCompleted, Sent: total}
}

// countdown reports remaining ticks from Countdown down to 1 and returns
// false if the job was cancelled meanwhile.
func (c *Controller) countdown(job *Job, r Reporter) bool {
	if c.opts.Countdown == 0 {
		return job.ctx.Err() == nil
	}

	ticker := time.NewTicker(c.opts.Tick)
	defer ticker.Stop()

	for remaining := c.opts.Countdown; remaining > 0; remaining-- {
		if job.ctx.Err() != nil {
			return false
		}
		c.notify(func() { r.CountdownTick(job, remaining) })

		select {
		case <-ticker.C:
		case <-job.ctx.Done():
			return false
		}
	}
	return job.ctx.Err() == nil
}

// emit types one value followed by the separator key. A panicking backend
// is reported as an error.
func (c *Controller) emit(ctx context.Context, v float64) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("keyboard backend panic: %v", p)
		}
	}()

	if err := c.keyboard.TypeText(ctx, models.FormatValue(v)); err != nil {
		return err
	}
	return c.keyboard.PressKey(ctx, c.opts.Separator)
}

// finish frees the active slot before reporting the terminal phase and Idle,
// so a reporter may start the next job from either callback. Those late
// callbacks can then arrive while the next job is running; reporters compare
// the job against Active to tell them apart.
func (c *Controller) finish(job *Job, r Reporter, outcome Outcome) {
	job.outcome = outcome
	job.cancel()
	c.active.CompareAndSwap(job, nil)

	fields := map[string]interface{}{
		"job":      job.ID().String(),
		"phase":    outcome.Phase.String(),
		"sent":     outcome.Sent,
		"total":    job.seq.Len(),
		"duration": time.Since(job.startedAt).String(),
	}
	if outcome.Err != nil {
		c.log.Error(component, "job failed", outcome.Err, fields)
	} else {
		c.log.Info(component, "job finished", fields)
	}

	total := job.seq.Len()
	c.notify(func() {
		r.PhaseChanged(job, Event{Phase: outcome.Phase, Sent: outcome.Sent, Total: total, Err: outcome.Err})
	})
	c.notify(func() { r.PhaseChanged(job, Event{Phase: models.PhaseIdle, Sent: outcome.Sent, Total: total}) })

	close(job.done)
}

// notify shields the worker from a misbehaving reporter.
func (c *Controller) notify(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			c.log.Error(component, "reporter panic", errors.Errorf("%v", p), nil)
		}
	}()
	fn()
}
