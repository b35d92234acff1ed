package jobspec

import (
	"maps"
	"slices"
	"strings"
	"time"

	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// Resolve turns a validated request into the specification of run jobID.
// defaultTimeout applies when the request sets none.
func Resolve(req *Request, jobID string, defaultTimeout time.Duration) (*JobSpecification, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobID) == "" {
		return nil, agenterrors.NewValidationError("job_id", "must not be blank", nil)
	}

	timeout := defaultTimeout
	if req.Timeout != nil {
		timeout = time.Duration(*req.Timeout) * time.Second
	}

	return &JobSpecification{
		jobID:             jobID,
		name:              req.Metadata.Name,
		user:              req.Metadata.User,
		version:           req.Metadata.Version,
		tags:              slices.Clone(req.Metadata.Tags),
		executable:        slices.Clone(req.Criteria.Executable),
		args:              slices.Clone(req.CommandArgs),
		timeout:           timeout,
		interactive:       req.Interactive,
		archivingDisabled: req.ArchivingDisabled,
		resources: Resources{
			CPU:      req.RequestedAgentEnvironment.CPU,
			MemoryMB: req.RequestedAgentEnvironment.MemoryMB,
		},
		dependencies: slices.Clone(req.Dependencies),
		environment:  maps.Clone(req.RequestedAgentEnvironment.Variables),
	}, nil
}
