package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/stagehand/internal/config"
	"github.com/alexisbeaulieu97/stagehand/internal/jobspec"
)

type validateOptions struct {
	RequestPath string
	ConfigPath  string
}

func newValidateCmd() *cobra.Command {
	opts := validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a job request without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateRequestPath(opts.RequestPath); err != nil {
				return err
			}

			summary, err := validateRequest(opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.RequestPath, "request", "r", "", "Path to the job request file")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to the agent configuration file")
	cmd.MarkFlagRequired("request") //nolint:errcheck

	return cmd
}

// validateRequest resolves the request the way a run would, against the
// configured default timeout, and describes the result.
func validateRequest(opts validateOptions) (string, error) {
	cfg, err := config.Load(opts.ConfigPath, nil)
	if err != nil {
		return "", err
	}

	req, err := jobspec.ParseRequest(opts.RequestPath)
	if err != nil {
		return "", err
	}

	spec, err := jobspec.Resolve(req, "validate", cfg.DefaultTimeout)
	if err != nil {
		return "", err
	}

	timeout := "none"
	if spec.Timeout() > 0 {
		timeout = spec.Timeout().String()
	}
	return fmt.Sprintf("request %s is valid\n  job: %s\n  command: %s\n  timeout: %s\n  dependencies: %d",
		opts.RequestPath, spec.Name(), strings.Join(spec.CommandLine(), " "), timeout, len(spec.Dependencies())), nil
}
