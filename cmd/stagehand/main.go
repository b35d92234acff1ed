package main

import (
	"errors"
	"fmt"
	"os"

	agenterrors "github.com/alexisbeaulieu97/stagehand/pkg/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode mirrors a failed job's exit status; any other failure exits 1.
func exitCode(err error) int {
	var jobErr *agenterrors.JobFailedError
	if errors.As(err, &jobErr) && jobErr.ExitCode > 0 {
		return jobErr.ExitCode
	}
	return 1
}
