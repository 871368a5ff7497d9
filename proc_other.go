//go:build !unix && !windows

package spawn

import (
	"os"
	"syscall"
)

func sysProcAttr([]string) *syscall.SysProcAttr { return nil }

func kill(p *os.Process) error { return p.Kill() }
