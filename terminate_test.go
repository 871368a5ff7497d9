package spawn

import (
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"
)

// swap swaps a variable's value and restores it via t.Cleanup.
func swap[T any](t *testing.T, ptr *T, val T) {
	t.Helper()
	old := *ptr
	*ptr = val
	t.Cleanup(func() { *ptr = old })
}

// fakeChild returns a Process whose child is simulated: kills go through
// killTestHook and exits are reported with p.exit.
func fakeChild() *Process {
	p := testProcess()
	p.cmd = &exec.Cmd{Process: &os.Process{Pid: 4242}}
	return p
}

var errKillRace = errors.New("kill: no such process")

func TestTerminateKillFailsChildExitsDuringGrace(t *testing.T) {
	p := fakeChild()
	p.DelayAfterTerminate = 5 * time.Second
	swap(t, &killTestHook, func(*os.Process) error {
		go func() {
			time.Sleep(10 * time.Millisecond)
			p.exit(-1)
		}()
		return errKillRace
	})

	start := time.Now()
	if !p.Terminate(true) {
		t.Fatal("Terminate() = false, want true")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Terminate() took %v, want the exit to end the grace", elapsed)
	}
}

func TestTerminateKillFailsChildSurvives(t *testing.T) {
	p := fakeChild()
	p.DelayAfterTerminate = 10 * time.Millisecond
	var kills int
	swap(t, &killTestHook, func(*os.Process) error {
		kills++
		return errKillRace
	})

	if p.Terminate(true) {
		t.Error("Terminate() = true, want false")
	}
	if got, want := kills, 1; got != want {
		t.Errorf("kill attempts = %d, want %d", got, want)
	}
	if !p.IsAlive() {
		t.Error("IsAlive() = false, want true")
	}
}

func TestCloseReportsSurvivingChild(t *testing.T) {
	p := fakeChild()
	p.DelayAfterClose = 10 * time.Millisecond
	p.DelayAfterTerminate = 10 * time.Millisecond
	swap(t, &killTestHook, func(*os.Process) error { return errKillRace })

	err := p.Close()
	var closeErr *CloseError
	if !errors.As(err, &closeErr) {
		t.Fatalf("Close() error = %v, want *CloseError", err)
	}
	if got, want := closeErr.Pid, 4242; got != want {
		t.Errorf("Pid = %d, want %d", got, want)
	}
	if p.closed.Load() {
		t.Error("closed = true after failed Close, want false")
	}

	// Once the child is gone, Close can be retried.
	p.exit(-1)
	if err := p.Close(); err != nil {
		t.Errorf("Close() retry error = %v", err)
	}
	if !p.closed.Load() {
		t.Error("closed = false after Close, want true")
	}
}

func TestKillToleratesProcessDone(t *testing.T) {
	p := fakeChild()
	swap(t, &killTestHook, func(*os.Process) error {
		return os.ErrProcessDone
	})

	if err := p.Kill(os.Kill); err != nil {
		t.Errorf("Kill() error = %v, want <nil>", err)
	}
}

func TestCloseAfterWaitReleasesOutput(t *testing.T) {
	if _, err := LookPath(t.Context(), "sh"); err != nil {
		t.Skip("no sh on this host")
	}
	p, err := Spawn(t.Context(), "sh", "-c", "sleep 3 & exit 0")
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	if _, err := p.Wait(); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	drained := make(chan struct{})
	go func() {
		for range p.queue {
		}
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(time.Second):
		t.Fatal("output queue still open 1s after Close")
	}
}
