package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// ErrJobTimeout is the cancellation cause of a run whose job exceeded its timeout.
var ErrJobTimeout = errors.New("job timed out")

// TerminateJob stops the job process held by ec: SIGTERM first, then SIGKILL
// once grace elapses (immediately when grace is zero). It reports whether a
// live process was found and waits for it to be reaped unless ctx ends first.
func TerminateJob(ctx context.Context, ec *ExecutionContext, grace time.Duration) (bool, error) {
	process, ok := ec.JobProcess()
	if !ok {
		return false, nil
	}
	select {
	case <-process.Done():
		return false, nil
	default:
	}

	if grace > 0 {
		if err := ignoreDone(ec.SignalJobProcess(syscall.SIGTERM)); err != nil {
			return true, fmt.Errorf("send SIGTERM to job process %d: %w", process.Pid(), err)
		}
		timer := time.NewTimer(grace)
		defer timer.Stop()
		select {
		case <-process.Done():
			return true, nil
		case <-timer.C:
		case <-ctx.Done():
			return true, ctx.Err()
		}
	}

	if err := ignoreDone(ec.SignalJobProcess(os.Kill)); err != nil {
		return true, fmt.Errorf("kill job process %d: %w", process.Pid(), err)
	}

	select {
	case <-process.Done():
		return true, nil
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

func ignoreDone(_ bool, err error) error {
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

// watchdog terminates the job when the run is cancelled or when the job's
// timeout, armed once the specification is known, elapses. It only reads the
// process handle through the execution context.
type watchdog struct {
	ec     *ExecutionContext
	cancel context.CancelCauseFunc
	grace  time.Duration
	logger *logger.Logger

	armOnce  sync.Once
	armCh    chan time.Duration
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}
}

func newWatchdog(ec *ExecutionContext, cancel context.CancelCauseFunc, grace time.Duration, log *logger.Logger) *watchdog {
	return &watchdog{
		ec:     ec,
		cancel: cancel,
		grace:  grace,
		logger: log.With("component", "watchdog"),
		armCh:  make(chan time.Duration, 1),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// arm starts the timeout clock. Only the first positive timeout counts.
func (w *watchdog) arm(timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	w.armOnce.Do(func() {
		w.armCh <- timeout
	})
}

// stop ends the watch and waits for any termination in progress.
func (w *watchdog) stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.done
}

func (w *watchdog) run(ctx context.Context) {
	defer close(w.done)

	var expired <-chan time.Time
	for {
		select {
		case <-w.stopCh:
			return
		case timeout := <-w.armCh:
			timer := time.NewTimer(timeout)
			defer timer.Stop()
			expired = timer.C
			w.logger.Debug(fmt.Sprintf("job timeout armed for %s", timeout))
		case <-expired:
			w.logger.Warn("job timeout elapsed, terminating job")
			w.cancel(ErrJobTimeout)
			w.terminate()
			return
		case <-ctx.Done():
			w.logger.Warn("run cancelled, terminating job")
			w.terminate()
			return
		}
	}
}

func (w *watchdog) terminate() {
	// A fresh context: the run context is already done at this point.
	killed, err := TerminateJob(context.Background(), w.ec, w.grace)
	if err != nil {
		w.logger.Error(err, "failed to terminate job")
		return
	}
	if killed {
		w.logger.Info("job process terminated")
	}
}
