package spawn

import (
	"io"
	"time"
)

// Pipes carry bytes only. There is no line discipline to switch echo off,
// no window to resize, and no terminal to hand to the user, so the
// following operations always fail with ErrUnsupported.

// GetEcho always returns ErrUnsupported.
func (p *Process) GetEcho() (bool, error) { return false, ErrUnsupported }

// SetEcho always returns ErrUnsupported.
func (p *Process) SetEcho(bool) error { return ErrUnsupported }

// WaitNoEcho always returns ErrUnsupported.
func (p *Process) WaitNoEcho(time.Duration) error { return ErrUnsupported }

// GetWinSize always returns ErrUnsupported.
func (p *Process) GetWinSize() (rows, cols int, err error) {
	return 0, 0, ErrUnsupported
}

// SetWinSize always returns ErrUnsupported.
func (p *Process) SetWinSize(rows, cols int) error { return ErrUnsupported }

// Interact always returns ErrUnsupported.
func (p *Process) Interact(stdin io.Reader, stdout io.Writer) error {
	return ErrUnsupported
}
