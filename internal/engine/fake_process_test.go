package engine

import (
	"os"
	"sync"
	"syscall"
)

var sigterm os.Signal = syscall.SIGTERM

// fakeProcess is an in-memory JobProcess. A kill signal, or exit, ends it.
type fakeProcess struct {
	pid int

	mu       sync.Mutex
	signals  []os.Signal
	exitCode int
	ignore   map[os.Signal]bool
	done     chan struct{}
	once     sync.Once
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, exitCode: -1, done: make(chan struct{})}
}

func (p *fakeProcess) Pid() int { return p.pid }

func (p *fakeProcess) Signal(sig os.Signal) error {
	select {
	case <-p.done:
		return os.ErrProcessDone
	default:
	}

	p.mu.Lock()
	p.signals = append(p.signals, sig)
	ignored := p.ignore[sig]
	p.mu.Unlock()

	if !ignored {
		p.exit(-1)
	}
	return nil
}

func (p *fakeProcess) exit(code int) {
	p.once.Do(func() {
		p.mu.Lock()
		p.exitCode = code
		p.mu.Unlock()
		close(p.done)
	})
}

func (p *fakeProcess) Done() <-chan struct{} { return p.done }

func (p *fakeProcess) Wait() error {
	<-p.done
	return nil
}

func (p *fakeProcess) ExitCode() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode
}

func (p *fakeProcess) receivedSignals() []os.Signal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]os.Signal(nil), p.signals...)
}
