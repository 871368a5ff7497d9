package spawn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"lesiw.io/fs"
	"lesiw.io/spawn/cmdline"
)

const (
	// DefaultTimeout, passed as a timeout, selects Process.Timeout.
	DefaultTimeout time.Duration = -1

	chunkSize  = 1024
	queueDepth = 256

	// exitSettle bounds how long a read on a dead child waits for the
	// reader to forward output still sitting in the pipe.
	exitSettle = 50 * time.Millisecond
)

var killTestHook func(*os.Process) error

// Process is a child program driven over pipes.
//
// Standard error is merged into standard output. A background goroutine
// drains the output pipe into a queue so reads can be bounded by a
// timeout. All other methods run on the caller's goroutine.
//
// The queue holds at most 256 chunks of 1024 bytes. A child that writes
// faster than it is read blocks on its pipe until the caller catches up;
// no output is dropped.
type Process struct {
	// Timeout bounds reads that pass DefaultTimeout. Defaults to 30s.
	Timeout time.Duration

	// DelayAfterClose is how long Close lets the OS settle before
	// checking whether the child is still alive. Defaults to 100ms.
	DelayAfterClose time.Duration

	// DelayAfterTerminate is how long Terminate waits before its single
	// re-probe after a failed kill. Defaults to 100ms.
	DelayAfterTerminate time.Duration

	cmd  *exec.Cmd
	path string
	env  map[string]string

	stdin  *os.File
	out    *os.File                // read end of the output pipe
	stdout atomic.Pointer[os.File] // dropped by Wait and Kill
	queue  chan []byte
	quit   chan struct{}
	unread []byte

	done       chan struct{} // closed once the child has been reaped
	status     int           // valid after done is closed
	terminated atomic.Bool

	closeMu sync.Mutex
	closed  atomic.Bool

	logMu   sync.Mutex
	log     io.Writer
	logRead io.Writer
	logSend io.Writer
}

// Spawn starts args[0] with arguments args[1:].
//
// The executable is located with LookPath. Environment variables set with
// WithEnv are added to the host environment, and an absolute directory set
// with fs.WithWorkDir becomes the child's working directory. As with
// exec.CommandContext, canceling ctx kills the child.
func Spawn(ctx context.Context, args ...string) (*Process, error) {
	if len(args) == 0 {
		return nil, &Error{Err: errors.New("spawn: no command given")}
	}
	args = append([]string(nil), args...)
	path, err := LookPath(ctx, args[0])
	if err != nil {
		return nil, &Error{Args: args, Err: errors.Unwrap(err)}
	}
	dir := fs.WorkDir(ctx)
	if !filepath.IsAbs(dir) {
		dir = ""
	}
	if !filepath.IsAbs(path) {
		if dir != "" {
			path = filepath.Join(dir, path)
		} else if path, err = filepath.Abs(path); err != nil {
			return nil, &Error{Args: args, Err: err}
		}
	}

	p := &Process{
		Timeout:             30 * time.Second,
		DelayAfterClose:     100 * time.Millisecond,
		DelayAfterTerminate: 100 * time.Millisecond,

		path:  path,
		env:   Envs(ctx),
		queue: make(chan []byte, queueDepth),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	p.cmd = exec.CommandContext(ctx, path)
	p.cmd.Args = args
	p.cmd.Dir = dir
	p.cmd.Env = environ(ctx)
	p.cmd.SysProcAttr = sysProcAttr(args)
	if err := p.start(); err != nil {
		return nil, &Error{Args: args, Err: err}
	}
	trace(p)
	return p, nil
}

// SpawnLine splits line with cmdline.Split and starts the result.
func SpawnLine(ctx context.Context, line string) (*Process, error) {
	args, err := cmdline.Split(line)
	if err != nil {
		return nil, &Error{Err: err}
	}
	return Spawn(ctx, args...)
}

func (p *Process) start() error {
	inR, inW, err := os.Pipe()
	if err != nil {
		return err
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		_ = inR.Close()
		_ = inW.Close()
		return err
	}
	p.cmd.Stdin = inR
	p.cmd.Stdout = outW
	p.cmd.Stderr = outW
	if err := p.cmd.Start(); err != nil {
		for _, f := range []*os.File{inR, inW, outR, outW} {
			_ = f.Close() // Best effort.
		}
		return err
	}
	// The child holds its own copies of these ends.
	_ = inR.Close()
	_ = outW.Close()

	p.stdin = inW
	p.out = outR
	p.stdout.Store(outR)
	go p.readLoop(outR)
	go p.waitLoop()
	return nil
}

// waitLoop reaps the child and publishes its exit status.
func (p *Process) waitLoop() {
	err := p.cmd.Wait()
	switch ee := new(exec.ExitError); {
	case err == nil:
		p.status = 0
	case errors.As(err, &ee):
		p.status = ee.ExitCode()
	default:
		p.status = -1
	}
	close(p.done)
}

// Pid returns the child's process id.
func (p *Process) Pid() int { return p.cmd.Process.Pid }

// Path returns the resolved executable path.
func (p *Process) Path() string { return p.path }

// Args returns the argument vector, including the command name.
func (p *Process) Args() []string {
	return append([]string(nil), p.cmd.Args...)
}

// Dir returns the child's working directory, or "" if it was inherited.
func (p *Process) Dir() string { return p.cmd.Dir }

func (p *Process) String() string {
	return cmdline.String(p.env, p.cmd.Args...).String()
}

// IsAlive reports whether the child is still running. It never blocks.
//
// Once IsAlive has returned false it always returns false.
func (p *Process) IsAlive() bool {
	if p.terminated.Load() {
		return false
	}
	select {
	case <-p.done:
		p.terminated.CompareAndSwap(false, true)
		return false
	default:
		return true
	}
}

// ExitStatus returns the child's exit code and whether it is known.
// A child killed by a signal reports -1.
func (p *Process) ExitStatus() (int, bool) {
	if !p.IsAlive() {
		return p.status, true
	}
	return 0, false
}

// Wait blocks until the child exits and returns its exit code.
//
// Wait returns ErrInvalidState if the child is already known to be dead.
// Kill unblocks a pending Wait.
func (p *Process) Wait() (int, error) {
	if !p.IsAlive() {
		return p.status, ErrInvalidState
	}
	<-p.done
	p.terminated.Store(true)
	// The reader keeps its own reference and closes the pipe at EOF.
	p.stdout.Store(nil)
	return p.status, nil
}

// Kill forcibly stops the child and abandons its remaining output.
// It does nothing if the child has already exited.
//
// The signal is accepted for symmetry with os.Process.Signal; pipes offer
// no graceful delivery, so the child is always killed outright.
func (p *Process) Kill(sig os.Signal) error {
	if !p.IsAlive() {
		return nil
	}
	err := p.kill()
	if err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill %d (%v): %w", p.Pid(), sig, err)
	}
	if f := p.stdout.Swap(nil); f != nil {
		_ = f.Close()
	}
	return nil
}

func (p *Process) kill() error {
	if h := killTestHook; h != nil {
		return h(p.cmd.Process)
	}
	return kill(p.cmd.Process)
}

// Terminate kills the child and reports whether it is dead.
//
// If the kill itself fails, the child may already have exited without the
// exit being observed yet. Terminate then re-probes once after
// DelayAfterTerminate. The force flag is accepted for symmetry and
// ignored; killing is always forceful.
func (p *Process) Terminate(bool) bool {
	if !p.IsAlive() {
		return true
	}
	if err := p.Kill(os.Kill); err != nil {
		return p.reprobe(p.DelayAfterTerminate)
	}
	// Give the reaper a moment so the exit status is available.
	p.reprobe(p.DelayAfterTerminate)
	return true
}

// reprobe waits up to d for the child to be reaped and reports whether it
// is dead.
func (p *Process) reprobe(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-p.done:
	case <-t.C:
	}
	return !p.IsAlive()
}

// Close terminates the child if it is still running and releases its pipes.
// Calling Close more than once has no effect.
//
// If the child cannot be terminated, Close returns a *CloseError and the
// Process remains open.
func (p *Process) Close() error {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed.Load() {
		return nil
	}
	// Let the OS finish reaping a child that is already on its way out.
	if !p.reprobe(p.DelayAfterClose) && !p.Terminate(true) {
		return &CloseError{Pid: p.Pid()}
	}
	_ = p.stdin.Close()
	p.stdout.Store(nil)
	// Wait drops its reference without closing, and a grandchild may still
	// hold the write end open. Closing here stops the reader either way.
	_ = p.out.Close()
	close(p.quit)
	p.closed.Store(true)
	return nil
}

// Write sends b to the child's standard input.
// Partial writes are not retried.
func (p *Process) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	n, err := p.stdin.Write(b)
	p.logMu.Lock()
	mirror(p.log, b[:n])
	mirror(p.logSend, b[:n])
	p.logMu.Unlock()
	return n, err
}

// Send writes s to the child's standard input.
func (p *Process) Send(s string) (int, error) {
	return p.Write([]byte(s))
}

// SendLine writes s followed by a newline.
func (p *Process) SendLine(s string) (int, error) {
	return p.Send(s + "\n")
}

// SendEOF writes Ctrl-Z, the closest thing to end-of-input a pipe has.
func (p *Process) SendEOF() error {
	_, err := p.Write([]byte{0x1a})
	return err
}

// SendIntr writes Ctrl-C. The child sees a byte, not a signal.
func (p *Process) SendIntr() error {
	_, err := p.Write([]byte{0x03})
	return err
}
