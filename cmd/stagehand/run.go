package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/stagehand/internal/actions"
	"github.com/alexisbeaulieu97/stagehand/internal/config"
	"github.com/alexisbeaulieu97/stagehand/internal/engine"
	"github.com/alexisbeaulieu97/stagehand/internal/jobspec"
	"github.com/alexisbeaulieu97/stagehand/internal/logger"
	"github.com/alexisbeaulieu97/stagehand/internal/report"
	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

type runOptions struct {
	RequestPath string
	ConfigPath  string
	AgentID     string
	JobID       string
	JobsRoot    string
	KeepJobDir  bool
	Verbose     bool
	Styled      bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var errRunFailed = errors.New("run failed")

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a job request to completion",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.Styled = term.IsTerminal(int(os.Stdout.Fd()))
			opts.Stdin = cmd.InOrStdin()
			opts.Stdout = cmd.OutOrStdout()
			opts.Stderr = cmd.ErrOrStderr()

			if err := validateRequestPath(opts.RequestPath); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runJob(ctx, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.RequestPath, "request", "r", "", "Path to the job request file")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the agent configuration file")
	cmd.Flags().StringVar(&opts.AgentID, "agent-id", "", "Identifier of this agent (generated when empty)")
	cmd.Flags().StringVar(&opts.JobID, "job-id", "", "Identifier of the job (generated when empty)")
	cmd.Flags().StringVar(&opts.JobsRoot, "jobs-root", "", "Directory under which job directories are created")
	cmd.Flags().BoolVar(&opts.KeepJobDir, "keep-job-dir", false, "Keep the job directory after the run")
	cmd.MarkFlagRequired("request") //nolint:errcheck

	return cmd
}

func runJob(ctx context.Context, opts runOptions) error {
	cfg, err := config.Load(opts.ConfigPath, configOverrides(opts))
	if err != nil {
		return err
	}

	req, err := jobspec.ParseRequest(opts.RequestPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:         cfg.LogLevel,
		HumanReadable: cfg.HumanReadable || opts.Styled,
		Writer:        opts.Stderr,
	})
	if err != nil {
		return err
	}

	plan := actions.NewPlan(cfg, req, actions.PlanOptions{
		JobID:              opts.JobID,
		InheritEnvironment: true,
		Stdio:              actions.Stdio{In: opts.Stdin, Out: opts.Stdout, Err: opts.Stderr},
	}, log)

	ec := engine.NewExecutionContext()
	driver := engine.NewDriver(log, engine.Options{KillGracePeriod: cfg.KillGracePeriod})
	result, err := driver.Run(ctx, ec, plan)
	if err != nil {
		return err
	}

	fmt.Fprintln(opts.Stdout, report.Render(result, opts.Styled))

	if !result.Succeeded() {
		return fmt.Errorf("%w: %w", errRunFailed, failures(ec))
	}
	return nil
}

// failures joins the recorded failures, each tagged with its stage and action.
func failures(ec *engine.ExecutionContext) error {
	var errs []error
	for _, entry := range ec.Errors() {
		errs = append(errs, agenterrors.NewActionError(entry.Stage.String(), entry.ActionKind, entry.Err))
	}
	return errors.Join(errs...)
}

// configOverrides turns explicitly set flags into the top configuration layer.
func configOverrides(opts runOptions) map[string]any {
	overrides := map[string]any{}
	if opts.AgentID != "" {
		overrides["agent_id"] = opts.AgentID
	}
	if opts.JobsRoot != "" {
		overrides["jobs_root"] = opts.JobsRoot
	}
	if opts.KeepJobDir {
		overrides["keep_job_directory"] = true
	}
	if opts.Verbose {
		overrides["log_level"] = "debug"
	}
	return overrides
}
