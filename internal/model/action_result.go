package model

import (
	"time"
)

const (
	// StatusSuccess marks an action that completed.
	StatusSuccess = "success"
	// StatusFailed marks an action that returned an error.
	StatusFailed = "failed"
	// StatusSkipped indicates the driver never started the action.
	StatusSkipped = "skipped"
)

const (
	// PhaseExecute is the forward pass through the stages.
	PhaseExecute = "execute"
	// PhaseCleanup is the reverse pass that undoes completed actions.
	PhaseCleanup = "cleanup"
)

// ActionResult captures the outcome of running one stage action, either
// forward or as part of cleanup.
type ActionResult struct {
	Stage     string
	Kind      string
	Phase     string
	Status    string
	Message   string
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// Failed reports whether the action ended in error.
func (r ActionResult) Failed() bool {
	return r.Status == StatusFailed
}
