package engine

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/stagehand/internal/model"
)

// Phase tells whether a failure happened running forward or during cleanup.
type Phase int

const (
	PhaseExecute Phase = iota
	PhaseCleanup
)

func (p Phase) String() string {
	if p == PhaseCleanup {
		return model.PhaseCleanup
	}
	return model.PhaseExecute
}

// StateActionError records one failed stage or cleanup action.
type StateActionError struct {
	Stage      Stage
	ActionKind string
	Phase      Phase
	Err        error
	Time       time.Time
}

func (e StateActionError) Error() string {
	return fmt.Sprintf("%s %s/%s: %v", e.Phase, e.Stage, e.ActionKind, e.Err)
}

// Unwrap exposes the action's error.
func (e StateActionError) Unwrap() error {
	return e.Err
}

// errorLedger is the append-only record of state action failures.
type errorLedger struct {
	mu      sync.Mutex
	entries []StateActionError
}

func (l *errorLedger) record(entry StateActionError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
}

func (l *errorLedger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *errorLedger) all() []StateActionError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// joined folds the ledger into a single error, nil when empty.
func (l *errorLedger) joined() error {
	entries := l.all()
	if len(entries) == 0 {
		return nil
	}
	errs := make([]error, len(entries))
	for i, entry := range entries {
		errs[i] = entry
	}
	return errors.Join(errs...)
}
