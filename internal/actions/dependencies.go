package actions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/jobspec"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// FetchDependencies clones every git dependency of the job into its
// destination below the job directory.
type FetchDependencies struct {
	base
	cloned []string
}

func NewFetchDependencies(log *logger.Logger) *FetchDependencies {
	return &FetchDependencies{base: newBase(engine.StageSetupJob, KindFetchDependencies, log)}
}

func (a *FetchDependencies) Execute(ctx context.Context, ec *engine.ExecutionContext) error {
	spec, ok := ec.JobSpecification()
	if !ok {
		return errNoSpecification
	}
	dir, ok := ec.JobDirectory()
	if !ok {
		return errNoDirectory
	}

	for _, dep := range spec.Dependencies() {
		if err := ctx.Err(); err != nil {
			return err
		}

		dest := filepath.Join(dir, dep.Destination)
		log := a.logger.WithFields(map[string]any{"url": dep.URL, "destination": dest})
		log.Debug("cloning dependency")

		if _, err := git.PlainCloneContext(ctx, dest, false, cloneOptions(dep)); err != nil {
			_ = os.RemoveAll(dest)
			return fmt.Errorf("clone %s into %s: %w", dep.URL, dep.Destination, err)
		}
		a.cloned = append(a.cloned, dest)
		log.Info("dependency cloned")
	}
	return nil
}

// Cleanup removes the cloned destinations, newest first.
func (a *FetchDependencies) Cleanup(context.Context, *engine.ExecutionContext) error {
	var errs []error
	for i := len(a.cloned) - 1; i >= 0; i-- {
		if err := os.RemoveAll(a.cloned[i]); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", a.cloned[i], err))
		}
	}
	a.cloned = nil
	return errors.Join(errs...)
}

func cloneOptions(dep jobspec.Dependency) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL: dep.URL,
	}
	if dep.Depth > 0 {
		opts.Depth = dep.Depth
	}
	if dep.Branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(dep.Branch)
		opts.SingleBranch = true
	}
	return opts
}
