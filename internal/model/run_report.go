package model

const (
	// OutcomeSucceeded means every action, forward and cleanup, completed.
	OutcomeSucceeded = "succeeded"
	// OutcomeFailed means at least one failure was recorded.
	OutcomeFailed = "failed"
)

// ErrorEntry is the reporting view of one recorded state action failure.
type ErrorEntry struct {
	Stage string
	Kind  string
	Phase string
	Err   error
}

// RunReport summarises a finished job run.
type RunReport struct {
	AgentID      string
	JobID        string
	JobDirectory string
	Outcome      string
	ExitCode     int
	Results      []ActionResult
	Errors       []ErrorEntry
}

// Succeeded reports whether the run finished without recorded errors.
func (r *RunReport) Succeeded() bool {
	return r != nil && r.Outcome == OutcomeSucceeded
}

// CleanupErrors returns the entries recorded during the cleanup phase.
func (r *RunReport) CleanupErrors() []ErrorEntry {
	if r == nil {
		return nil
	}
	var out []ErrorEntry
	for _, entry := range r.Errors {
		if entry.Phase == PhaseCleanup {
			out = append(out, entry)
		}
	}
	return out
}
