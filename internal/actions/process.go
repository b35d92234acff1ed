package actions

import (
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/alexisbeaulieu97/stagehand/internal/engine"
)

// osProcess is the JobProcess backed by a started exec.Cmd. A single reaper
// goroutine waits on the command; everything else observes Done.
type osProcess struct {
	cmd     *exec.Cmd
	closers []io.Closer

	done     chan struct{}
	err      error
	exitCode int
}

var _ engine.JobProcess = (*osProcess)(nil)

// startProcess starts cmd and begins reaping it. closers are closed once the
// process exits, or immediately if it fails to start.
func startProcess(cmd *exec.Cmd, closers ...io.Closer) (*osProcess, error) {
	if err := cmd.Start(); err != nil {
		closeAll(closers)
		return nil, err
	}

	p := &osProcess{
		cmd:      cmd,
		closers:  closers,
		done:     make(chan struct{}),
		exitCode: -1,
	}
	go p.reap()
	return p, nil
}

func (p *osProcess) reap() {
	err := p.cmd.Wait()
	closeAll(p.closers)

	p.err = err
	if state := p.cmd.ProcessState; state != nil {
		p.exitCode = state.ExitCode()
	}
	close(p.done)
}

func (p *osProcess) Pid() int {
	return p.cmd.Process.Pid
}

// Signal delivers sig unless the process has already been reaped.
func (p *osProcess) Signal(sig os.Signal) error {
	select {
	case <-p.done:
		return os.ErrProcessDone
	default:
	}
	return p.cmd.Process.Signal(sig)
}

func (p *osProcess) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the process exits. A non-zero exit surfaces as an
// *exec.ExitError.
func (p *osProcess) Wait() error {
	<-p.done
	return p.err
}

// ExitCode is -1 until the process exits, and stays -1 when a signal ended it.
func (p *osProcess) ExitCode() int {
	select {
	case <-p.done:
		return p.exitCode
	default:
		return -1
	}
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}
