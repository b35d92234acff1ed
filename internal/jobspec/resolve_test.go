package jobspec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

func TestResolveProducesImmutableSpecification(t *testing.T) {
	t.Parallel()

	timeout := 45
	req, err := baseBuilder().
		WithCommandArgs([]string{"sleep 1"}).
		WithTimeout(&timeout).
		WithRequestedAgentEnvironment(AgentEnvironmentRequest{
			Variables: map[string]string{"REGION": "us-east-1"},
			CPU:       4,
			MemoryMB:  1024,
		}).
		Build()
	require.NoError(t, err)

	spec, err := Resolve(req, "job-1", time.Minute)
	require.NoError(t, err)

	require.Equal(t, "job-1", spec.JobID())
	require.Equal(t, "nightly-report", spec.Name())
	require.Equal(t, "etl", spec.User())
	require.Equal(t, []string{"/bin/sh", "-c", "sleep 1"}, spec.CommandLine())
	require.Equal(t, 45*time.Second, spec.Timeout())
	require.Equal(t, Resources{CPU: 4, MemoryMB: 1024}, spec.Resources())

	env := spec.Environment()
	env["REGION"] = "mutated"
	args := spec.Args()
	args[0] = "mutated"
	req.CommandArgs[0] = "mutated"
	req.RequestedAgentEnvironment.Variables["REGION"] = "mutated"

	require.Equal(t, "us-east-1", spec.Environment()["REGION"])
	require.Equal(t, []string{"sleep 1"}, spec.Args())
}

func TestResolveAppliesDefaultTimeout(t *testing.T) {
	t.Parallel()

	req, err := baseBuilder().Build()
	require.NoError(t, err)

	spec, err := Resolve(req, "job-2", 5*time.Minute)
	require.NoError(t, err)
	require.Equal(t, 5*time.Minute, spec.Timeout())
}

func TestResolveRequiresJobID(t *testing.T) {
	t.Parallel()

	req, err := baseBuilder().Build()
	require.NoError(t, err)

	_, err = Resolve(req, " ", 0)
	var validationErr *agenterrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "job_id", validationErr.Field)
}
