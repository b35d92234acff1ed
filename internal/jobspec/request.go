package jobspec

import (
	"fmt"
	"maps"
	"strings"

	"github.com/alexisbeaulieu97/stagehand/internal/config"
	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

// MaxCommandArgLength bounds each command argument, in characters.
const MaxCommandArgLength = 10000

// Metadata is the user supplied description of a job.
type Metadata struct {
	Name    string   `yaml:"name" validate:"required,max=255"`
	User    string   `yaml:"user" validate:"required,max=255"`
	Version string   `yaml:"version,omitempty" validate:"omitempty,max=255"`
	Tags    []string `yaml:"tags,omitempty" validate:"omitempty,dive,required"`
}

// Criteria selects what the job runs.
type Criteria struct {
	Executable []string `yaml:"executable" validate:"required,min=1,dive,required"`
}

// AgentEnvironmentRequest carries the environment a user asked the agent to provide.
type AgentEnvironmentRequest struct {
	Variables map[string]string `yaml:"variables,omitempty" validate:"omitempty,dive,keys,env_name,endkeys"`
	CPU       int               `yaml:"cpu,omitempty" validate:"omitempty,min=1"`
	MemoryMB  int               `yaml:"memory_mb,omitempty" validate:"omitempty,min=1"`
}

// Dependency is a git repository cloned into the job directory before launch.
type Dependency struct {
	URL         string `yaml:"url" validate:"required,git_url"`
	Destination string `yaml:"destination" validate:"required,rel_path"`
	Branch      string `yaml:"branch,omitempty"`
	Depth       int    `yaml:"depth,omitempty" validate:"omitempty,min=0"`
}

// Request is a finished, validated job request. Build one with RequestBuilder
// or ParseRequest.
type Request struct {
	Metadata                  Metadata                `yaml:"metadata"`
	Criteria                  Criteria                `yaml:"criteria"`
	CommandArgs               []string                `yaml:"command_args,omitempty" validate:"omitempty,dive,max=10000"`
	Timeout                   *int                    `yaml:"timeout,omitempty" validate:"omitempty,min=1"`
	ArchivingDisabled         bool                    `yaml:"archiving_disabled,omitempty"`
	Interactive               bool                    `yaml:"interactive,omitempty"`
	RequestedAgentEnvironment AgentEnvironmentRequest `yaml:"agent_environment,omitempty"`
	Dependencies              []Dependency            `yaml:"dependencies,omitempty" validate:"omitempty,dive"`
}

// RequestBuilder assembles a Request. The zero value is not usable; call
// NewRequestBuilder.
type RequestBuilder struct {
	metadata          Metadata
	criteria          Criteria
	commandArgs       []string
	timeout           *int
	archivingDisabled bool
	interactive       bool
	agentEnvironment  AgentEnvironmentRequest
	dependencies      []Dependency
}

// NewRequestBuilder starts a request from its required parts.
func NewRequestBuilder(metadata Metadata, criteria Criteria) *RequestBuilder {
	return &RequestBuilder{
		metadata: Metadata{
			Name:    metadata.Name,
			User:    metadata.User,
			Version: metadata.Version,
			Tags:    append([]string(nil), metadata.Tags...),
		},
		criteria: Criteria{Executable: append([]string(nil), criteria.Executable...)},
	}
}

// WithCommandArgs sets the arguments appended to the executable. Blank
// arguments are dropped; nil clears them.
func (b *RequestBuilder) WithCommandArgs(args []string) *RequestBuilder {
	b.commandArgs = nil
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		b.commandArgs = append(b.commandArgs, arg)
	}
	return b
}

// WithTimeout sets the number of seconds after which the job is killed. nil
// means no timeout.
func (b *RequestBuilder) WithTimeout(seconds *int) *RequestBuilder {
	if seconds == nil {
		b.timeout = nil
		return b
	}
	v := *seconds
	b.timeout = &v
	return b
}

// WithArchivingDisabled toggles archiving of the job directory.
func (b *RequestBuilder) WithArchivingDisabled(disabled bool) *RequestBuilder {
	b.archivingDisabled = disabled
	return b
}

// WithInteractive marks the job as interactive: its stdio is attached to the agent's.
func (b *RequestBuilder) WithInteractive(interactive bool) *RequestBuilder {
	b.interactive = interactive
	return b
}

// WithRequestedAgentEnvironment sets the requested environment.
func (b *RequestBuilder) WithRequestedAgentEnvironment(env AgentEnvironmentRequest) *RequestBuilder {
	b.agentEnvironment = AgentEnvironmentRequest{
		Variables: maps.Clone(env.Variables),
		CPU:       env.CPU,
		MemoryMB:  env.MemoryMB,
	}
	return b
}

// WithDependencies sets the repositories fetched into the job directory.
func (b *RequestBuilder) WithDependencies(deps []Dependency) *RequestBuilder {
	b.dependencies = append([]Dependency(nil), deps...)
	return b
}

// Build validates the accumulated fields and returns an independent Request.
func (b *RequestBuilder) Build() (*Request, error) {
	req := &Request{
		Metadata:                  b.metadata,
		Criteria:                  b.criteria,
		CommandArgs:               append([]string(nil), b.commandArgs...),
		ArchivingDisabled:         b.archivingDisabled,
		Interactive:               b.interactive,
		RequestedAgentEnvironment: b.agentEnvironment,
		Dependencies:              append([]Dependency(nil), b.dependencies...),
	}
	if b.timeout != nil {
		v := *b.timeout
		req.Timeout = &v
	}
	req.Metadata.Tags = append([]string(nil), b.metadata.Tags...)
	req.Criteria.Executable = append([]string(nil), b.criteria.Executable...)
	req.RequestedAgentEnvironment.Variables = maps.Clone(b.agentEnvironment.Variables)

	if err := ValidateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// ValidateRequest checks a request's field constraints.
func ValidateRequest(req *Request) error {
	if req == nil {
		return agenterrors.NewValidationError("request", "request is nil", nil)
	}

	if err := config.GetValidator().Struct(req); err != nil {
		return config.ConvertValidationError("request", err)
	}

	seen := make(map[string]int, len(req.Dependencies))
	for i, dep := range req.Dependencies {
		key := cleanRelative(dep.Destination)
		if prev, ok := seen[key]; ok {
			return agenterrors.NewValidationError(
				fmt.Sprintf("dependencies[%d].destination", i),
				fmt.Sprintf("duplicates dependencies[%d].destination %q", prev, dep.Destination),
				nil,
			)
		}
		seen[key] = i
	}

	return nil
}
