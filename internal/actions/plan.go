package actions

import (
	"os"

	"github.com/alexisbeaulieu97/stagehand/internal/config"
	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/jobspec"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// PlanOptions carries what a run needs beyond the agent configuration.
type PlanOptions struct {
	// JobID names the job; blank generates one.
	JobID string
	// InheritEnvironment passes the agent's environment through to the job.
	InheritEnvironment bool
	// Stdio is used by interactive jobs. Unset streams fall back to the agent's.
	Stdio Stdio
}

// DefaultPlan returns the standard run: configure the agent, resolve the
// request, prepare the job directory, then launch and monitor the job.
func DefaultPlan(cfg *config.AgentConfig, req *jobspec.Request, log *logger.Logger) engine.Plan {
	return NewPlan(cfg, req, PlanOptions{InheritEnvironment: true}, log)
}

// NewPlan is DefaultPlan with explicit options.
func NewPlan(cfg *config.AgentConfig, req *jobspec.Request, opts PlanOptions, log *logger.Logger) engine.Plan {
	if log == nil {
		log = logger.Nop()
	}
	stdio := opts.Stdio
	if stdio.In == nil {
		stdio.In = os.Stdin
	}
	if stdio.Out == nil {
		stdio.Out = os.Stdout
	}
	if stdio.Err == nil {
		stdio.Err = os.Stderr
	}

	return engine.Plan{
		NewConfigureAgent(cfg.AgentID, log),
		NewResolveJobSpecification(req, opts.JobID, cfg.DefaultTimeout, log),
		NewCreateJobDirectory(cfg.JobsRoot, cfg.KeepJobDirectory, log),
		NewFetchDependencies(log),
		NewSetupEnvironment(opts.InheritEnvironment, log),
		NewLaunchJob(cfg.KillGracePeriod, stdio, log),
		NewMonitorJob(cfg.KillGracePeriod, log),
	}
}
