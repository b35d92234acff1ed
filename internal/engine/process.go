package engine

import "os"

// JobProcess is the handle of the spawned job's operating system process.
// Implementations must be safe for concurrent use: the monitor waits on it
// while the watchdog may signal it.
type JobProcess interface {
	// Pid returns the operating system process id.
	Pid() int
	// Signal delivers sig. It returns os.ErrProcessDone once the process has exited.
	Signal(sig os.Signal) error
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	// Wait blocks until the process exits and returns its exit error.
	// Every caller observes the same result.
	Wait() error
	// ExitCode returns the exit status, or -1 while running or when killed by a signal.
	ExitCode() int
}
