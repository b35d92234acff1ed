package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("job.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "job.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "job.yaml:12")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("command_args[3]", "exceeds 10000 characters", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "command_args[3]", validationErr.Field)
	require.Contains(t, err.Error(), "exceeds 10000 characters")
}

func TestIllegalStateErrorMatchesSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("assign: %w", NewIllegalStateError("agent_id", "already set"))

	require.ErrorIs(t, err, ErrIllegalState)

	var stateErr *IllegalStateError
	require.ErrorAs(t, err, &stateErr)
	require.Equal(t, "agent_id", stateErr.Field)
	require.Equal(t, "illegal state: agent_id: already set", stateErr.Error())
}

func TestActionErrorIncludesStageAndKind(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("permission denied")
	err := NewActionError("setup_job", "create-job-directory", underlying)

	var actionErr *ActionError
	require.ErrorAs(t, err, &actionErr)
	require.Equal(t, "setup_job", actionErr.Stage)
	require.Equal(t, "create-job-directory", actionErr.Kind)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "create-job-directory")
}

func TestJobFailedErrorReportsExitCode(t *testing.T) {
	t.Parallel()

	err := NewJobFailedError(3, nil)

	var jobErr *JobFailedError
	require.ErrorAs(t, err, &jobErr)
	require.Equal(t, 3, jobErr.ExitCode)
	require.Equal(t, "job exited with code 3", err.Error())
}
