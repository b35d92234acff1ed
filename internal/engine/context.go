package engine

import (
	"maps"
	"os"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/stagehand/internal/jobspec"
	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// ExecutionContext is the state shared by every stage of one job run.
//
// Identity, process, directory, specification and environment are write-once:
// the first set wins and any later set returns an IllegalStateError leaving
// the stored value untouched. Getters never block and report an unset field
// with a false second result, which later stages use to tell how far the run
// progressed.
//
// All methods are safe for concurrent use; callers need no external locking.
// The zero value is ready to use.
type ExecutionContext struct {
	agentID          writeOnce[string]
	jobProcess       writeOnce[JobProcess]
	jobDirectory     writeOnce[string]
	jobSpecification writeOnce[*jobspec.JobSpecification]
	jobEnvironment   writeOnce[map[string]string]

	cleanup cleanupStack
	ledger  errorLedger
}

// NewExecutionContext returns an empty context for a new run.
func NewExecutionContext() *ExecutionContext {
	return &ExecutionContext{}
}

// SetAgentID stores the identifier assigned to this agent.
func (c *ExecutionContext) SetAgentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return agenterrors.NewValidationError("agent_id", "must not be blank", nil)
	}
	return c.agentID.set("agent_id", id)
}

// AgentID returns the agent identifier if it was set.
func (c *ExecutionContext) AgentID() (string, bool) {
	return c.agentID.load()
}

// SetJobProcess stores the handle of the launched job.
func (c *ExecutionContext) SetJobProcess(process JobProcess) error {
	if process == nil {
		return agenterrors.NewValidationError("job_process", "must not be nil", nil)
	}
	return c.jobProcess.set("job_process", process)
}

// JobProcess returns the job process handle if the job was launched.
func (c *ExecutionContext) JobProcess() (JobProcess, bool) {
	return c.jobProcess.load()
}

// SignalJobProcess delivers sig to the job process. It is the single path
// through which termination requests reach the job. It reports false when no
// process has been set.
func (c *ExecutionContext) SignalJobProcess(sig os.Signal) (bool, error) {
	process, ok := c.jobProcess.load()
	if !ok {
		return false, nil
	}
	return true, process.Signal(sig)
}

// SetJobDirectory stores the path of the job's working directory.
func (c *ExecutionContext) SetJobDirectory(path string) error {
	if strings.TrimSpace(path) == "" {
		return agenterrors.NewValidationError("job_directory", "must not be blank", nil)
	}
	return c.jobDirectory.set("job_directory", path)
}

// JobDirectory returns the job directory if it was established.
func (c *ExecutionContext) JobDirectory() (string, bool) {
	return c.jobDirectory.load()
}

// SetJobSpecification stores the resolved job specification.
func (c *ExecutionContext) SetJobSpecification(spec *jobspec.JobSpecification) error {
	if spec == nil {
		return agenterrors.NewValidationError("job_specification", "must not be nil", nil)
	}
	return c.jobSpecification.set("job_specification", spec)
}

// JobSpecification returns the job specification if it was resolved.
func (c *ExecutionContext) JobSpecification() (*jobspec.JobSpecification, bool) {
	return c.jobSpecification.load()
}

// SetJobEnvironment stores a copy of env; later changes to the caller's map
// are not observed.
func (c *ExecutionContext) SetJobEnvironment(env map[string]string) error {
	if env == nil {
		return agenterrors.NewValidationError("job_environment", "must not be nil", nil)
	}
	return c.jobEnvironment.set("job_environment", maps.Clone(env))
}

// JobEnvironment returns a copy of the job environment if it was assembled.
func (c *ExecutionContext) JobEnvironment() (map[string]string, bool) {
	env, ok := c.jobEnvironment.load()
	if !ok {
		return nil, false
	}
	return maps.Clone(env), true
}

// PushCleanupAction records that action completed and must be reverted
// during cleanup. Nil actions are ignored.
func (c *ExecutionContext) PushCleanupAction(action CleanupAction) {
	if action == nil {
		return
	}
	c.cleanup.push(action)
}

// PopCleanupAction removes and returns the most recently pushed action.
func (c *ExecutionContext) PopCleanupAction() (CleanupAction, bool) {
	return c.cleanup.pop()
}

// PendingCleanupActions returns the actions still to be reverted, in the
// order they will be popped.
func (c *ExecutionContext) PendingCleanupActions() []CleanupAction {
	return c.cleanup.snapshot()
}

// CleanupActionCount returns the number of actions still to be reverted.
func (c *ExecutionContext) CleanupActionCount() int {
	return c.cleanup.len()
}

// RecordStateActionError appends a forward pass failure to the error ledger.
func (c *ExecutionContext) RecordStateActionError(stage Stage, kind string, err error) {
	c.record(stage, kind, PhaseExecute, err)
}

// RecordCleanupError appends a cleanup failure to the error ledger.
func (c *ExecutionContext) RecordCleanupError(stage Stage, kind string, err error) {
	c.record(stage, kind, PhaseCleanup, err)
}

func (c *ExecutionContext) record(stage Stage, kind string, phase Phase, err error) {
	c.ledger.record(StateActionError{
		Stage:      stage,
		ActionKind: kind,
		Phase:      phase,
		Err:        err,
		Time:       time.Now(),
	})
}

// HasErrors reports whether any failure was recorded.
func (c *ExecutionContext) HasErrors() bool {
	return c.ledger.len() > 0
}

// Errors returns the recorded failures in insertion order.
func (c *ExecutionContext) Errors() []StateActionError {
	return c.ledger.all()
}

// Err joins all recorded failures, or returns nil when there are none.
func (c *ExecutionContext) Err() error {
	return c.ledger.joined()
}
