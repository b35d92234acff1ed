package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/stagehand/internal/logger"
	"github.com/alexisbeaulieu97/stagehand/internal/model"
)

// StateAction is a unit of work run by one stage. A successful Execute is
// pushed onto the cleanup stack so its Cleanup runs during the reverse pass.
type StateAction interface {
	CleanupAction
	Execute(ctx context.Context, ec *ExecutionContext) error
}

// Plan is the ordered list of actions of a run. Stages must not go backwards.
type Plan []StateAction

// Validate checks that the plan is non-empty and ordered by stage.
func (p Plan) Validate() error {
	if len(p) == 0 {
		return errors.New("execution plan is empty")
	}
	for i, action := range p {
		if action == nil {
			return fmt.Errorf("execution plan action %d is nil", i)
		}
		if i > 0 && action.Stage() < p[i-1].Stage() {
			return fmt.Errorf("execution plan action %s (%s) runs before stage %s", action.Kind(), action.Stage(), p[i-1].Stage())
		}
	}
	return nil
}

// Options tune a Driver.
type Options struct {
	// KillGracePeriod is how long a terminated job gets between SIGTERM and SIGKILL.
	KillGracePeriod time.Duration
}

// Driver runs a plan against an ExecutionContext: forward through the
// stages, then a full LIFO cleanup pass.
type Driver struct {
	logger *logger.Logger
	opts   Options
}

// NewDriver creates a new driver instance.
func NewDriver(log *logger.Logger, opts Options) *Driver {
	if log == nil {
		log = logger.Nop()
	}
	return &Driver{logger: log, opts: opts}
}

// Run executes plan. Action failures never abort the call: they land in the
// context's error ledger and are reflected in the report's outcome. The
// returned error is reserved for invalid arguments.
//
// The forward pass stops at the first failing action, or when ctx is
// cancelled or the job's timeout elapses; in both latter cases the watchdog
// terminates the job process. Cleanup then pops every pushed action, even
// after ctx is cancelled, recording failures and carrying on.
func (d *Driver) Run(ctx context.Context, ec *ExecutionContext, plan Plan) (*model.RunReport, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if ec == nil {
		return nil, errors.New("execution context is nil")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	report := &model.RunReport{ExitCode: -1}

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	wd := newWatchdog(ec, cancel, d.opts.KillGracePeriod, d.logger)
	go wd.run(runCtx)

	d.forward(runCtx, ec, plan, wd, report)
	wd.stop()

	d.drain(context.WithoutCancel(ctx), ec, report)

	d.finalize(ec, report)
	return report, nil
}

func (d *Driver) forward(ctx context.Context, ec *ExecutionContext, plan Plan, wd *watchdog, report *model.RunReport) {
	for i, action := range plan {
		stage := action.Stage()
		log := d.logger.WithFields(map[string]any{"stage": stage.String(), "action": action.Kind()})

		if ctx.Err() != nil {
			err := context.Cause(ctx)
			ec.RecordStateActionError(stage, action.Kind(), err)
			report.Results = append(report.Results, failedResult(action, model.PhaseExecute, err, 0))
			log.Error(err, "run interrupted before action")
			d.skipRemaining(plan[i+1:], report)
			return
		}

		log.Debug("executing action")
		start := time.Now()
		err := action.Execute(ctx, ec)
		duration := time.Since(start)

		if err != nil {
			ec.RecordStateActionError(stage, action.Kind(), err)
			report.Results = append(report.Results, failedResult(action, model.PhaseExecute, err, duration))
			log.Error(err, "action failed")
			d.skipRemaining(plan[i+1:], report)
			return
		}

		ec.PushCleanupAction(action)
		report.Results = append(report.Results, model.ActionResult{
			Stage:     stage.String(),
			Kind:      action.Kind(),
			Phase:     model.PhaseExecute,
			Status:    model.StatusSuccess,
			Message:   "completed",
			Duration:  duration,
			Timestamp: time.Now(),
		})
		log.Timed(start, "action completed")

		if spec, ok := ec.JobSpecification(); ok {
			wd.arm(spec.Timeout())
		}
	}
}

func (d *Driver) skipRemaining(actions []StateAction, report *model.RunReport) {
	for _, action := range actions {
		report.Results = append(report.Results, model.ActionResult{
			Stage:     action.Stage().String(),
			Kind:      action.Kind(),
			Phase:     model.PhaseExecute,
			Status:    model.StatusSkipped,
			Message:   "not started",
			Timestamp: time.Now(),
		})
	}
}

// drain pops the cleanup stack until it is empty. A failing cleanup is
// recorded and the drain moves on to the next action.
func (d *Driver) drain(ctx context.Context, ec *ExecutionContext, report *model.RunReport) {
	for {
		action, ok := ec.PopCleanupAction()
		if !ok {
			return
		}

		log := d.logger.WithFields(map[string]any{"stage": action.Stage().String(), "action": action.Kind(), "phase": model.PhaseCleanup})
		start := time.Now()
		err := runCleanup(ctx, ec, action)
		duration := time.Since(start)

		if err != nil {
			ec.RecordCleanupError(action.Stage(), action.Kind(), err)
			report.Results = append(report.Results, failedResult(action, model.PhaseCleanup, err, duration))
			log.Error(err, "cleanup failed")
			continue
		}

		report.Results = append(report.Results, model.ActionResult{
			Stage:     action.Stage().String(),
			Kind:      action.Kind(),
			Phase:     model.PhaseCleanup,
			Status:    model.StatusSuccess,
			Message:   "reverted",
			Duration:  duration,
			Timestamp: time.Now(),
		})
		log.Timed(start, "cleanup completed")
	}
}

// runCleanup turns a panicking cleanup into a recorded failure so the
// remaining actions still get their turn.
func runCleanup(ctx context.Context, ec *ExecutionContext, action CleanupAction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cleanup panicked: %v", r)
		}
	}()
	return action.Cleanup(ctx, ec)
}

func (d *Driver) finalize(ec *ExecutionContext, report *model.RunReport) {
	report.AgentID, _ = ec.AgentID()
	report.JobDirectory, _ = ec.JobDirectory()
	if spec, ok := ec.JobSpecification(); ok {
		report.JobID = spec.JobID()
	}
	if process, ok := ec.JobProcess(); ok {
		select {
		case <-process.Done():
			report.ExitCode = process.ExitCode()
		default:
		}
	}

	for _, entry := range ec.Errors() {
		report.Errors = append(report.Errors, model.ErrorEntry{
			Stage: entry.Stage.String(),
			Kind:  entry.ActionKind,
			Phase: entry.Phase.String(),
			Err:   entry.Err,
		})
	}

	report.Outcome = model.OutcomeSucceeded
	if ec.HasErrors() {
		report.Outcome = model.OutcomeFailed
	}

	d.logger.WithFields(map[string]any{
		"outcome":   report.Outcome,
		"errors":    len(report.Errors),
		"exit_code": report.ExitCode,
	}).Info("run finished")
}

func failedResult(action CleanupAction, phase string, err error, duration time.Duration) model.ActionResult {
	return model.ActionResult{
		Stage:     action.Stage().String(),
		Kind:      action.Kind(),
		Phase:     phase,
		Status:    model.StatusFailed,
		Message:   err.Error(),
		Error:     err,
		Duration:  duration,
		Timestamp: time.Now(),
	}
}
