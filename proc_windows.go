//go:build windows

package spawn

import (
	"os"
	"syscall"

	"golang.org/x/sys/windows"

	"lesiw.io/spawn/cmdline"
)

// sysProcAttr hands CreateProcess a command line quoted by cmdline.Join
// and keeps the child from opening a console window.
func sysProcAttr(args []string) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CmdLine:       cmdline.Join(args),
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

func kill(p *os.Process) error {
	return p.Kill()
}
