package engine

import (
	"context"
	"slices"
	"sync"
)

// CleanupAction is the reverse half of a stage action: it undoes what the
// action did during the forward pass. Cleanup must tolerate a forward action
// that only partially completed.
type CleanupAction interface {
	Stage() Stage
	Kind() string
	Cleanup(ctx context.Context, ec *ExecutionContext) error
}

type cleanupFunc struct {
	stage Stage
	kind  string
	fn    func(ctx context.Context, ec *ExecutionContext) error
}

// CleanupFunc adapts a closure into a CleanupAction.
func CleanupFunc(stage Stage, kind string, fn func(ctx context.Context, ec *ExecutionContext) error) CleanupAction {
	return &cleanupFunc{stage: stage, kind: kind, fn: fn}
}

func (c *cleanupFunc) Stage() Stage { return c.stage }
func (c *cleanupFunc) Kind() string { return c.kind }

func (c *cleanupFunc) Cleanup(ctx context.Context, ec *ExecutionContext) error {
	if c.fn == nil {
		return nil
	}
	return c.fn(ctx, ec)
}

// cleanupStack is a mutex guarded LIFO of cleanup actions. Pushes happen
// during the forward pass and pops during a single-threaded drain; pushing
// while draining is not supported.
type cleanupStack struct {
	mu      sync.Mutex
	actions []CleanupAction
}

func (s *cleanupStack) push(action CleanupAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
}

func (s *cleanupStack) pop() (CleanupAction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.actions)
	if n == 0 {
		return nil, false
	}
	action := s.actions[n-1]
	s.actions[n-1] = nil
	s.actions = s.actions[:n-1]
	return action, true
}

func (s *cleanupStack) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.actions)
}

// snapshot returns the pending actions in the order they will be popped.
func (s *cleanupStack) snapshot() []CleanupAction {
	s.mu.Lock()
	out := slices.Clone(s.actions)
	s.mu.Unlock()

	slices.Reverse(out)
	return out
}
