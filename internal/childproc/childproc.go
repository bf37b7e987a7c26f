// Package childproc runs script files in separate rosa-child processes and
// exchanges framed messages with them.
package childproc

import (
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
	"golang.org/x/sys/unix"
)

var ErrNotRunning = errors.New("child process is not running")

// Limits are resource limits in seconds and bytes. Zero leaves a limit
// untouched.
type Limits struct {
	CPUSeconds  uint64
	MemoryBytes uint64
	FileBytes   uint64
}

// Process is one running child. Messages it writes to stdout are queued
// until Receive takes them.
type Process struct {
	cmd    *exec.Cmd
	pid    int
	log    *zap.Logger
	stderr *zapio.Writer

	wmu   sync.Mutex
	stdin io.WriteCloser

	mu       sync.Mutex
	queue    [][]byte
	exitCode int
	done     chan struct{}
}

// Start runs runner with args and applies limits once it has a pid.
func Start(runner string, args []string, limits Limits, log *zap.Logger) (*Process, error) {
	cmd := exec.Command(runner, args...)
	p := &Process{
		cmd:    cmd,
		log:    log,
		stderr: &zapio.Writer{Log: log, Level: zap.InfoLevel},
		done:   make(chan struct{}),
	}
	cmd.Stderr = p.stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", runner, err)
	}
	p.stdin = stdin
	p.pid = cmd.Process.Pid
	log.Debug("child started", zap.String("runner", runner), zap.Int("pid", p.pid))

	if err := p.applyLimits(limits); err != nil {
		_ = cmd.Process.Kill()
		go p.wait(stdout)
		return nil, err
	}
	go p.wait(stdout)
	return p, nil
}

func (p *Process) applyLimits(l Limits) error {
	if l.CPUSeconds > 0 {
		if err := p.SetCPULimit(l.CPUSeconds, l.CPUSeconds); err != nil {
			return err
		}
	}
	if l.MemoryBytes > 0 {
		if err := p.SetMemoryLimit(l.MemoryBytes, l.MemoryBytes); err != nil {
			return err
		}
	}
	if l.FileBytes > 0 {
		if err := p.SetFileSizeLimit(l.FileBytes, l.FileBytes); err != nil {
			return err
		}
	}
	return nil
}

func (p *Process) wait(stdout io.Reader) {
	for {
		msg, err := ReadFrame(stdout)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				p.log.Warn("child output", zap.Int("pid", p.pid), zap.Error(err))
			}
			break
		}
		p.mu.Lock()
		p.queue = append(p.queue, msg)
		p.mu.Unlock()
	}
	// drain so a misbehaving child cannot block on a full pipe
	_, _ = io.Copy(io.Discard, stdout)

	err := p.cmd.Wait()
	p.stderr.Close()
	code := p.cmd.ProcessState.ExitCode()
	p.log.Debug("child exited", zap.Int("pid", p.pid), zap.Int("code", code), zap.Error(err))

	p.mu.Lock()
	p.exitCode = code
	p.mu.Unlock()
	close(p.done)
}

func (p *Process) Pid() int { return p.pid }

func (p *Process) IsRunning() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Done is closed once the child has exited and its output is queued.
func (p *Process) Done() <-chan struct{} { return p.done }

// ExitCode reports the exit status. ok is false while the child runs; a
// child killed by a signal reports -1.
func (p *Process) ExitCode() (code int, ok bool) {
	if p.IsRunning() {
		return 0, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitCode, true
}

// Terminate kills the child. It does not wait for it.
func (p *Process) Terminate() error {
	if !p.IsRunning() {
		return nil
	}
	if err := unix.Kill(p.pid, unix.SIGKILL); err != nil && !errors.Is(err, unix.ESRCH) {
		return err
	}
	return nil
}

// Send writes one message to the child's stdin.
func (p *Process) Send(msg []byte) error {
	if !p.IsRunning() {
		return ErrNotRunning
	}
	p.wmu.Lock()
	defer p.wmu.Unlock()
	return WriteFrame(p.stdin, msg)
}

// Receive pops the oldest queued message without blocking.
func (p *Process) Receive() ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return nil, false
	}
	msg := p.queue[0]
	p.queue = p.queue[1:]
	return msg, true
}

func (p *Process) setLimit(resource int, soft, hard uint64) error {
	if !p.IsRunning() {
		return ErrNotRunning
	}
	lim := unix.Rlimit{Cur: soft, Max: hard}
	if err := unix.Prlimit(p.pid, resource, &lim, nil); err != nil {
		return fmt.Errorf("prlimit %d: %w", resource, err)
	}
	return nil
}

func (p *Process) SetCPULimit(soft, hard uint64) error {
	return p.setLimit(unix.RLIMIT_CPU, soft, hard)
}

func (p *Process) SetMemoryLimit(soft, hard uint64) error {
	return p.setLimit(unix.RLIMIT_AS, soft, hard)
}

func (p *Process) SetFileSizeLimit(soft, hard uint64) error {
	return p.setLimit(unix.RLIMIT_FSIZE, soft, hard)
}

// Priority returns the child's nice value.
func (p *Process) Priority() (int, error) {
	if !p.IsRunning() {
		return 0, ErrNotRunning
	}
	// the raw syscall reports 20-nice
	prio, err := unix.Getpriority(unix.PRIO_PROCESS, p.pid)
	if err != nil {
		return 0, err
	}
	return 20 - prio, nil
}

// SetPriority sets the child's nice value.
func (p *Process) SetPriority(nice int) error {
	if !p.IsRunning() {
		return ErrNotRunning
	}
	return unix.Setpriority(unix.PRIO_PROCESS, p.pid, nice)
}

// Close kills the child if needed, closes its stdin and waits for it.
func (p *Process) Close() error {
	err := p.Terminate()
	p.wmu.Lock()
	_ = p.stdin.Close()
	p.wmu.Unlock()
	<-p.done
	return err
}
