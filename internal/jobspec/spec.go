package jobspec

import (
	"maps"
	"path/filepath"
	"slices"
	"time"
)

// Resources are the compute limits requested for the job.
type Resources struct {
	CPU      int
	MemoryMB int
}

// JobSpecification describes what a job run executes. It is immutable: the
// accessors return copies, so holders can share one value freely.
type JobSpecification struct {
	jobID             string
	name              string
	user              string
	version           string
	tags              []string
	executable        []string
	args              []string
	timeout           time.Duration
	interactive       bool
	archivingDisabled bool
	resources         Resources
	dependencies      []Dependency
	environment       map[string]string
}

// JobID returns the unique identifier of the run.
func (s *JobSpecification) JobID() string { return s.jobID }

// Name returns the job name.
func (s *JobSpecification) Name() string { return s.name }

// User returns the user the job runs for.
func (s *JobSpecification) User() string { return s.user }

// Version returns the user supplied job version, possibly empty.
func (s *JobSpecification) Version() string { return s.version }

// Tags returns the job tags.
func (s *JobSpecification) Tags() []string { return slices.Clone(s.tags) }

// Executable returns the executable and its fixed leading arguments.
func (s *JobSpecification) Executable() []string { return slices.Clone(s.executable) }

// Args returns the user arguments appended to the executable.
func (s *JobSpecification) Args() []string { return slices.Clone(s.args) }

// CommandLine returns the full argv of the job process.
func (s *JobSpecification) CommandLine() []string {
	return slices.Concat(s.executable, s.args)
}

// Timeout returns the maximum run time, or 0 for none.
func (s *JobSpecification) Timeout() time.Duration { return s.timeout }

// Interactive reports whether the job shares the agent's stdio.
func (s *JobSpecification) Interactive() bool { return s.interactive }

// ArchivingDisabled reports whether the job directory should not be archived.
func (s *JobSpecification) ArchivingDisabled() bool { return s.archivingDisabled }

// Resources returns the requested compute limits.
func (s *JobSpecification) Resources() Resources { return s.resources }

// Dependencies returns the repositories to fetch into the job directory.
func (s *JobSpecification) Dependencies() []Dependency { return slices.Clone(s.dependencies) }

// Environment returns the user requested environment variables.
func (s *JobSpecification) Environment() map[string]string { return maps.Clone(s.environment) }

func cleanRelative(path string) string {
	return filepath.Clean(path)
}
