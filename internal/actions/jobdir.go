package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// CreateJobDirectory makes <jobs root>/<job id> the job's working directory.
type CreateJobDirectory struct {
	base
	jobsRoot string
	keep     bool
}

// NewCreateJobDirectory creates job directories under jobsRoot. With keep set
// the directory survives cleanup.
func NewCreateJobDirectory(jobsRoot string, keep bool, log *logger.Logger) *CreateJobDirectory {
	return &CreateJobDirectory{
		base:     newBase(engine.StageSetupJob, KindCreateJobDirectory, log),
		jobsRoot: jobsRoot,
		keep:     keep,
	}
}

func (a *CreateJobDirectory) Execute(_ context.Context, ec *engine.ExecutionContext) error {
	spec, ok := ec.JobSpecification()
	if !ok {
		return errNoSpecification
	}

	root, err := filepath.Abs(a.jobsRoot)
	if err != nil {
		return fmt.Errorf("resolve jobs root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create jobs root: %w", err)
	}

	dir := filepath.Join(root, spec.JobID())
	// Mkdir, not MkdirAll: an existing directory belongs to another run.
	if err := os.Mkdir(dir, 0o755); err != nil {
		return fmt.Errorf("create job directory: %w", err)
	}

	if err := ec.SetJobDirectory(dir); err != nil {
		_ = os.Remove(dir)
		return err
	}

	a.logger.With("job_directory", dir).Info("job directory created")
	return nil
}

// Cleanup removes the job directory unless it is kept.
func (a *CreateJobDirectory) Cleanup(_ context.Context, ec *engine.ExecutionContext) error {
	dir, ok := ec.JobDirectory()
	if !ok {
		return nil
	}
	if a.keep {
		a.logger.With("job_directory", dir).Info("keeping job directory")
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove job directory: %w", err)
	}
	a.logger.With("job_directory", dir).Debug("job directory removed")
	return nil
}
