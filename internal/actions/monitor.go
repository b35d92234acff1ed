package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// MonitorJob waits for the job to exit. A non-zero exit fails the action.
type MonitorJob struct {
	base
	grace time.Duration
}

func NewMonitorJob(grace time.Duration, log *logger.Logger) *MonitorJob {
	return &MonitorJob{
		base:  newBase(engine.StageMonitorJob, KindMonitorJob, log),
		grace: grace,
	}
}

func (a *MonitorJob) Execute(ctx context.Context, ec *engine.ExecutionContext) error {
	process, ok := ec.JobProcess()
	if !ok {
		return errNoProcess
	}

	select {
	case <-process.Done():
	case <-ctx.Done():
		// The watchdog may have finished before the process was set.
		if _, err := engine.TerminateJob(context.WithoutCancel(ctx), ec, a.grace); err != nil {
			a.logger.Error(err, "failed to terminate job")
		}
		<-process.Done()
		return fmt.Errorf("job interrupted: %w", context.Cause(ctx))
	}

	err := process.Wait()
	code := process.ExitCode()
	log := a.logger.WithFields(map[string]any{"pid": process.Pid(), "exit_code": code})

	if err != nil && !isExitError(err) {
		log.Error(err, "waiting for job failed")
		return agenterrors.NewJobFailedError(code, err)
	}
	if code != 0 {
		log.Warn("job failed")
		return agenterrors.NewJobFailedError(code, err)
	}

	log.Info("job succeeded")
	return nil
}
