// Package actions holds the stage actions that take a job from a resolved
// request to a finished process, each paired with the cleanup that undoes it.
package actions

import (
	"context"
	"errors"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

const (
	KindConfigureAgent          = "configure-agent"
	KindResolveJobSpecification = "resolve-job-specification"
	KindCreateJobDirectory      = "create-job-directory"
	KindFetchDependencies       = "fetch-dependencies"
	KindSetupEnvironment        = "setup-environment"
	KindLaunchJob               = "launch-job"
	KindMonitorJob              = "monitor-job"
)

var (
	errNoSpecification = errors.New("job specification has not been resolved")
	errNoDirectory     = errors.New("job directory has not been created")
	errNoEnvironment   = errors.New("job environment has not been assembled")
	errNoProcess       = errors.New("job process has not been launched")
)

var (
	_ engine.StateAction = (*ConfigureAgent)(nil)
	_ engine.StateAction = (*ResolveJobSpecification)(nil)
	_ engine.StateAction = (*CreateJobDirectory)(nil)
	_ engine.StateAction = (*FetchDependencies)(nil)
	_ engine.StateAction = (*SetupEnvironment)(nil)
	_ engine.StateAction = (*LaunchJob)(nil)
	_ engine.StateAction = (*MonitorJob)(nil)
)

// base supplies Stage and Kind, plus a no-op Cleanup for actions with
// nothing to undo.
type base struct {
	stage  engine.Stage
	kind   string
	logger *logger.Logger
}

func newBase(stage engine.Stage, kind string, log *logger.Logger) base {
	return base{stage: stage, kind: kind, logger: log.WithFields(map[string]any{"stage": stage.String(), "action": kind})}
}

func (b *base) Stage() engine.Stage { return b.stage }
func (b *base) Kind() string        { return b.kind }

func (b *base) Cleanup(context.Context, *engine.ExecutionContext) error {
	return nil
}
