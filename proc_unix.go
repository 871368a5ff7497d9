//go:build unix

package spawn

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// sysProcAttr puts the child in its own process group so that anything it
// starts dies with it.
func sysProcAttr([]string) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func kill(p *os.Process) error {
	if p.Pid > 0 && unix.Kill(-p.Pid, unix.SIGKILL) == nil {
		return nil
	}
	return p.Kill()
}
