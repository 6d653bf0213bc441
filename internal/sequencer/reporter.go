package sequencer

import "tab-sender/internal/models"

// Event describes a phase transition of a job.
type Event struct {
	Phase models.Phase
	Sent  int
	Total int
	Err   error
}

// Reporter receives status updates from the worker goroutine. Implementations
// must not block for long; they run on the worker. The terminal and Idle
// events of a job are delivered after it stopped being Active.
type Reporter interface {
	CountdownTick(job *Job, remaining int)
	PhaseChanged(job *Job, event Event)
}

// ReporterFuncs adapts plain callbacks to Reporter. Nil fields are skipped.
type ReporterFuncs struct {
	OnCountdownTick func(remaining int)
	OnPhaseChange   func(event Event)
}

func (f ReporterFuncs) CountdownTick(_ *Job, remaining int) {
	if f.OnCountdownTick != nil {
		f.OnCountdownTick(remaining)
	}
}

func (f ReporterFuncs) PhaseChanged(_ *Job, event Event) {
	if f.OnPhaseChange != nil {
		f.OnPhaseChange(event)
	}
}
