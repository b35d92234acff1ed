package actions

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/stagehand/internal/config"
	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/jobspec"
	"github.com/alexisbeaulieu97/stagehand/internal/model"
	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

func testConfig(t *testing.T, keep bool) *config.AgentConfig {
	t.Helper()

	return &config.AgentConfig{
		JobsRoot:         t.TempDir(),
		AgentID:          "agent-test",
		LogLevel:         "debug",
		KeepJobDirectory: keep,
		KillGracePeriod:  100 * time.Millisecond,
	}
}

func runPlan(t *testing.T, ctx context.Context, cfg *config.AgentConfig, req *jobspec.Request, opts PlanOptions) (*model.RunReport, *engine.ExecutionContext) {
	t.Helper()

	ec := engine.NewExecutionContext()
	driver := engine.NewDriver(nil, engine.Options{KillGracePeriod: cfg.KillGracePeriod})
	report, err := driver.Run(ctx, ec, NewPlan(cfg, req, opts, nil))
	require.NoError(t, err)
	return report, ec
}

func TestDefaultPlanOrder(t *testing.T) {
	t.Parallel()

	plan := DefaultPlan(testConfig(t, false), shellRequest(t, "true", nil), nil)
	require.NoError(t, plan.Validate())

	kinds := make([]string, 0, len(plan))
	for _, action := range plan {
		kinds = append(kinds, action.Kind())
	}
	require.Equal(t, []string{
		KindConfigureAgent,
		KindResolveJobSpecification,
		KindCreateJobDirectory,
		KindFetchDependencies,
		KindSetupEnvironment,
		KindLaunchJob,
		KindMonitorJob,
	}, kinds)
}

func TestPlanRunsJobToCompletion(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, true)
	req := shellRequest(t, `echo "$GREETING from $STAGEHAND_JOB_ID"; echo oops >&2`, func(b *jobspec.RequestBuilder) {
		b.WithRequestedAgentEnvironment(jobspec.AgentEnvironmentRequest{Variables: map[string]string{"GREETING": "hello"}})
	})

	report, ec := runPlan(t, context.Background(), cfg, req, PlanOptions{JobID: "job-ok"})

	require.True(t, report.Succeeded(), "errors: %v", ec.Err())
	require.Equal(t, 0, report.ExitCode)
	require.Equal(t, "agent-test", report.AgentID)
	require.Equal(t, "job-ok", report.JobID)
	require.Equal(t, 0, ec.CleanupActionCount())

	stdout, err := os.ReadFile(filepath.Join(report.JobDirectory, StdoutFile))
	require.NoError(t, err)
	require.Equal(t, "hello from job-ok\n", string(stdout))

	stderr, err := os.ReadFile(filepath.Join(report.JobDirectory, StderrFile))
	require.NoError(t, err)
	require.Equal(t, "oops\n", string(stderr))
}

func TestPlanRemovesJobDirectory(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t, false)
	report, _ := runPlan(t, context.Background(), cfg, shellRequest(t, "true", nil), PlanOptions{JobID: "job-rm"})

	require.True(t, report.Succeeded())
	require.Equal(t, filepath.Join(cfg.JobsRoot, "job-rm"), report.JobDirectory)
	require.NoDirExists(t, report.JobDirectory)
}

func TestPlanReportsNonZeroExit(t *testing.T) {
	t.Parallel()

	report, ec := runPlan(t, context.Background(), testConfig(t, false), shellRequest(t, "exit 3", nil), PlanOptions{JobID: "job-fail"})

	require.False(t, report.Succeeded())
	require.Equal(t, 3, report.ExitCode)
	require.Len(t, report.Errors, 1)
	require.Equal(t, KindMonitorJob, report.Errors[0].Kind)

	var jobErr *agenterrors.JobFailedError
	require.ErrorAs(t, ec.Err(), &jobErr)
	require.Equal(t, 3, jobErr.ExitCode)

	require.NoDirExists(t, report.JobDirectory)
}

func TestPlanKillsJobOnTimeout(t *testing.T) {
	t.Parallel()

	timeout := 1
	req := shellRequest(t, "sleep 30", func(b *jobspec.RequestBuilder) {
		b.WithTimeout(&timeout)
	})

	start := time.Now()
	report, ec := runPlan(t, context.Background(), testConfig(t, false), req, PlanOptions{JobID: "job-slow"})

	require.Less(t, time.Since(start), 20*time.Second)
	require.False(t, report.Succeeded())
	require.ErrorIs(t, ec.Err(), engine.ErrJobTimeout)
	require.NoDirExists(t, report.JobDirectory)
}

func TestPlanStopsJobWhenCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		time.Sleep(300 * time.Millisecond)
		cancel()
	}()

	report, ec := runPlan(t, ctx, testConfig(t, false), shellRequest(t, "sleep 30", nil), PlanOptions{JobID: "job-cancel"})

	require.False(t, report.Succeeded())
	require.ErrorIs(t, ec.Err(), context.Canceled)
	process, ok := ec.JobProcess()
	require.True(t, ok)
	require.Eventually(t, func() bool {
		select {
		case <-process.Done():
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestPlanInteractiveJobUsesStdio(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	req := shellRequest(t, "read line; echo got $line", func(b *jobspec.RequestBuilder) {
		b.WithInteractive(true)
	})
	opts := PlanOptions{
		JobID: "job-tty",
		Stdio: Stdio{In: bytes.NewBufferString("ping\n"), Out: &out, Err: &out},
	}

	report, ec := runPlan(t, context.Background(), testConfig(t, false), req, opts)

	require.True(t, report.Succeeded(), "errors: %v", ec.Err())
	require.Equal(t, "got ping\n", out.String())
}

func TestPlanFailedLaunchCleansUp(t *testing.T) {
	t.Parallel()

	builder := jobspec.NewRequestBuilder(
		jobspec.Metadata{Name: "missing-binary", User: "tester"},
		jobspec.Criteria{Executable: []string{"/nonexistent/stagehand-binary"}},
	)
	req, err := builder.Build()
	require.NoError(t, err)

	report, ec := runPlan(t, context.Background(), testConfig(t, false), req, PlanOptions{JobID: "job-missing"})

	require.False(t, report.Succeeded())
	require.Len(t, report.Errors, 1)
	require.Equal(t, KindLaunchJob, report.Errors[0].Kind)
	_, ok := ec.JobProcess()
	require.False(t, ok)
	require.NoDirExists(t, report.JobDirectory)

	var skipped int
	for _, result := range report.Results {
		if result.Status == model.StatusSkipped {
			skipped++
		}
	}
	require.Equal(t, 1, skipped)
}
