package actions

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
)

// Output files written to the job directory by non-interactive jobs.
const (
	StdoutFile = "stdout"
	StderrFile = "stderr"
)

// Stdio is the terminal an interactive job is attached to.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// LaunchJob starts the job's command line in the job directory.
type LaunchJob struct {
	base
	grace time.Duration
	stdio Stdio
}

// NewLaunchJob launches jobs, attaching interactive ones to stdio. grace is
// the time a job gets between SIGTERM and SIGKILL when cleanup stops it.
func NewLaunchJob(grace time.Duration, stdio Stdio, log *logger.Logger) *LaunchJob {
	return &LaunchJob{
		base:  newBase(engine.StageLaunchJob, KindLaunchJob, log),
		grace: grace,
		stdio: stdio,
	}
}

func (a *LaunchJob) Execute(ctx context.Context, ec *engine.ExecutionContext) error {
	spec, ok := ec.JobSpecification()
	if !ok {
		return errNoSpecification
	}
	dir, ok := ec.JobDirectory()
	if !ok {
		return errNoDirectory
	}
	env, ok := ec.JobEnvironment()
	if !ok {
		return errNoEnvironment
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	argv := spec.CommandLine()
	// Not CommandContext: termination goes through the execution context.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = environList(env)

	var closers []io.Closer
	if spec.Interactive() {
		cmd.Stdin = a.stdio.In
		cmd.Stdout = a.stdio.Out
		cmd.Stderr = a.stdio.Err
	} else {
		stdout, err := os.Create(filepath.Join(dir, StdoutFile))
		if err != nil {
			return fmt.Errorf("create stdout file: %w", err)
		}
		stderr, err := os.Create(filepath.Join(dir, StderrFile))
		if err != nil {
			_ = stdout.Close()
			return fmt.Errorf("create stderr file: %w", err)
		}
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		closers = append(closers, stdout, stderr)
	}

	process, err := startProcess(cmd, closers...)
	if err != nil {
		return fmt.Errorf("start job %q: %w", argv[0], err)
	}
	if err := ec.SetJobProcess(process); err != nil {
		_ = process.Signal(os.Kill)
		_ = process.Wait()
		return err
	}

	a.logger.WithFields(map[string]any{"pid": process.Pid(), "command": argv[0]}).Info("job launched")
	return nil
}

// Cleanup stops the job if it is still running.
func (a *LaunchJob) Cleanup(ctx context.Context, ec *engine.ExecutionContext) error {
	killed, err := engine.TerminateJob(ctx, ec, a.grace)
	if err != nil {
		return fmt.Errorf("terminate job: %w", err)
	}
	if killed {
		a.logger.Warn("job process was still running and has been terminated")
	}
	return nil
}

func environList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for key, value := range env {
		list = append(list, key+"="+value)
	}
	slices.Sort(list)
	return list
}
