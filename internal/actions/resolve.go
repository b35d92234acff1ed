package actions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/jobspec"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// ResolveJobSpecification turns the job request into the run's specification.
type ResolveJobSpecification struct {
	base
	request        *jobspec.Request
	jobID          string
	defaultTimeout time.Duration
}

// NewResolveJobSpecification resolves request as jobID, generating an id when
// jobID is blank.
func NewResolveJobSpecification(request *jobspec.Request, jobID string, defaultTimeout time.Duration, log *logger.Logger) *ResolveJobSpecification {
	return &ResolveJobSpecification{
		base:           newBase(engine.StageResolveJobSpecification, KindResolveJobSpecification, log),
		request:        request,
		jobID:          strings.TrimSpace(jobID),
		defaultTimeout: defaultTimeout,
	}
}

func (a *ResolveJobSpecification) Execute(_ context.Context, ec *engine.ExecutionContext) error {
	if a.request == nil {
		return errors.New("no job request supplied")
	}

	jobID := a.jobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	spec, err := jobspec.Resolve(a.request, jobID, a.defaultTimeout)
	if err != nil {
		return err
	}
	if err := ec.SetJobSpecification(spec); err != nil {
		return err
	}

	a.logger.WithFields(map[string]any{"job_id": spec.JobID(), "job_name": spec.Name()}).Info("job specification resolved")
	return nil
}
