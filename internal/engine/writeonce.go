package engine

import (
	"sync/atomic"

	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// writeOnce holds a value that moves from unset to set exactly once.
// Publication goes through a single compare-and-swap, so a reader that
// observes the value also observes everything written before the set.
type writeOnce[T any] struct {
	ptr atomic.Pointer[T]
}

func (w *writeOnce[T]) trySet(v T) bool {
	return w.ptr.CompareAndSwap(nil, &v)
}

func (w *writeOnce[T]) set(field string, v T) error {
	if !w.trySet(v) {
		return agenterrors.NewIllegalStateError(field, "already set")
	}
	return nil
}

func (w *writeOnce[T]) load() (T, bool) {
	p := w.ptr.Load()
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
