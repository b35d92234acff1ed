package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/stagehand/internal/model"
)

func failedReport() *model.RunReport {
	jobErr := errors.New("job exited with code 3")
	cleanupErr := errors.New("remove job directory: permission denied")

	return &model.RunReport{
		AgentID:      "agent-1",
		JobID:        "job-1",
		JobDirectory: "/tmp/jobs/job-1",
		Outcome:      model.OutcomeFailed,
		ExitCode:     3,
		Results: []model.ActionResult{
			{Stage: "configure_agent", Kind: "configure-agent", Phase: model.PhaseExecute, Status: model.StatusSuccess, Message: "completed", Duration: 2 * time.Millisecond},
			{Stage: "monitor_job", Kind: "monitor-job", Phase: model.PhaseExecute, Status: model.StatusFailed, Message: jobErr.Error(), Error: jobErr},
			{Stage: "setup_job", Kind: "create-job-directory", Phase: model.PhaseCleanup, Status: model.StatusFailed, Message: cleanupErr.Error(), Error: cleanupErr},
		},
		Errors: []model.ErrorEntry{
			{Stage: "monitor_job", Kind: "monitor-job", Phase: model.PhaseExecute, Err: jobErr},
			{Stage: "setup_job", Kind: "create-job-directory", Phase: model.PhaseCleanup, Err: cleanupErr},
		},
	}
}

func TestRenderPlainFailedRun(t *testing.T) {
	t.Parallel()

	expected := strings.Join([]string{
		"Job job-1 (agent agent-1)",
		"Directory: /tmp/jobs/job-1",
		"",
		"Actions:",
		"  ✓ execute configure_agent/configure-agent  completed (2ms)",
		"  ✗ execute monitor_job/monitor-job  job exited with code 3",
		"  ✗ cleanup setup_job/create-job-directory  remove job directory: permission denied",
		"",
		"Errors:",
		"  execute monitor_job/monitor-job: job exited with code 3",
		"  cleanup setup_job/create-job-directory: remove job directory: permission denied",
		"",
		"Outcome: failed (exit code 3), 1 cleanup failure(s)",
	}, "\n")

	require.Equal(t, expected, Render(failedReport(), false))
}

func TestRenderSkippedAction(t *testing.T) {
	t.Parallel()

	report := &model.RunReport{
		Outcome:  model.OutcomeFailed,
		ExitCode: -1,
		Results: []model.ActionResult{
			{Stage: "launch_job", Kind: "launch-job", Phase: model.PhaseExecute, Status: model.StatusSkipped, Message: "not started"},
		},
	}

	view := Render(report, false)
	require.Contains(t, view, "  - execute launch_job/launch-job  not started")
	require.True(t, strings.HasSuffix(view, "Outcome: failed"))
	require.NotContains(t, view, "exit code")
}

func TestRenderSucceededRun(t *testing.T) {
	t.Parallel()

	report := &model.RunReport{JobID: "job-2", Outcome: model.OutcomeSucceeded}

	require.Equal(t, "Job job-2\n\nOutcome: succeeded (exit code 0)", Render(report, false))
}

func TestRenderStyledKeepsContent(t *testing.T) {
	t.Parallel()

	view := Render(failedReport(), true)
	require.Contains(t, view, "job-1")
	require.Contains(t, view, "monitor_job/monitor-job")
	require.Contains(t, view, "Outcome: failed")
}

func TestRenderNilReport(t *testing.T) {
	t.Parallel()

	require.Equal(t, "no run report", Render(nil, false))
}
