package actions

import (
	"context"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// Variables the agent exports to every job.
const (
	EnvJobID       = "STAGEHAND_JOB_ID"
	EnvJobName     = "STAGEHAND_JOB_NAME"
	EnvJobUser     = "STAGEHAND_JOB_USER"
	EnvJobDir      = "STAGEHAND_JOB_DIR"
	EnvAgentID     = "STAGEHAND_AGENT_ID"
	EnvJobCPU      = "STAGEHAND_JOB_CPU"
	EnvJobMemoryMB = "STAGEHAND_JOB_MEMORY_MB"
)

// SetupEnvironment assembles the job's environment: the agent's own
// environment when inherited, then the requested variables, then the
// STAGEHAND_ variables, each layer overriding the previous one.
type SetupEnvironment struct {
	base
	inherit bool
}

func NewSetupEnvironment(inherit bool, log *logger.Logger) *SetupEnvironment {
	return &SetupEnvironment{
		base:    newBase(engine.StageSetupJob, KindSetupEnvironment, log),
		inherit: inherit,
	}
}

func (a *SetupEnvironment) Execute(_ context.Context, ec *engine.ExecutionContext) error {
	spec, ok := ec.JobSpecification()
	if !ok {
		return errNoSpecification
	}
	dir, ok := ec.JobDirectory()
	if !ok {
		return errNoDirectory
	}

	env := make(map[string]string)
	if a.inherit {
		maps.Copy(env, parseEnviron(os.Environ()))
	}
	maps.Copy(env, spec.Environment())

	env[EnvJobID] = spec.JobID()
	env[EnvJobName] = spec.Name()
	env[EnvJobDir] = dir
	if spec.User() != "" {
		env[EnvJobUser] = spec.User()
	}
	if agentID, ok := ec.AgentID(); ok {
		env[EnvAgentID] = agentID
	}
	if res := spec.Resources(); res.CPU > 0 {
		env[EnvJobCPU] = strconv.Itoa(res.CPU)
	}
	if res := spec.Resources(); res.MemoryMB > 0 {
		env[EnvJobMemoryMB] = strconv.Itoa(res.MemoryMB)
	}

	if err := ec.SetJobEnvironment(env); err != nil {
		return err
	}
	a.logger.Debug("job environment assembled with " + strconv.Itoa(len(env)) + " variables")
	return nil
}

func parseEnviron(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}
