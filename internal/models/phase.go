package models

// Phase is the lifecycle state of a dispatch job.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCountingDown
	PhaseDispatching
	PhaseCompleted
	PhaseCancelled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCountingDown:
		return "counting_down"
	case PhaseDispatching:
		return "dispatching"
	case PhaseCompleted:
		return "completed"
	case PhaseCancelled:
		return "cancelled"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether a job in this phase has finished.
func (p Phase) IsTerminal() bool {
	return p == PhaseCompleted || p == PhaseCancelled || p == PhaseFailed
}
