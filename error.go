package spawn

import (
	"errors"
	"fmt"
	"io"

	"lesiw.io/spawn/cmdline"
)

var (
	// ErrNotFound is returned when no executable matches a command name.
	ErrNotFound = errors.New("spawn: executable not found")

	// ErrTimeout is returned by ReadNonblocking when no output arrived
	// before the deadline and the child is still running.
	ErrTimeout = errors.New("spawn: timeout exceeded in read")

	// ErrClosed is returned by reads and writes on a closed Process.
	ErrClosed = errors.New("spawn: I/O operation on closed process")

	// ErrInvalidState is returned by Wait when the child is already known
	// to have exited.
	ErrInvalidState = errors.New("spawn: cannot wait for dead child")

	// ErrUnsupported is returned by terminal operations that cannot be
	// performed over pipes.
	ErrUnsupported = fmt.Errorf(
		"spawn: not supported without a terminal: %w", errors.ErrUnsupported,
	)
)

// Error represents a command that could not be started.
type Error struct {
	// Args is the command that failed to start.
	Args []string

	// Err is the underlying error.
	Err error
}

func (e *Error) Error() string {
	if len(e.Args) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + cmdline.Join(e.Args)
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound returns true if err represents a command whose executable could
// not be located.
//
// NotFound uses errors.Is to probe the error chain for ErrNotFound.
//
//	p, err := spawn.SpawnLine(ctx, "ghci -v0")
//	if spawn.NotFound(err) {
//	    // GHC is not installed.
//	}
func NotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// EOFReason tells when a read observed the end of the child's output.
type EOFReason int

const (
	// EOFBeforeRead means the child was already dead when the read began.
	EOFBeforeRead EOFReason = iota
	// EOFDuringRead means the child died while the read was waiting.
	EOFDuringRead
)

func (r EOFReason) String() string {
	switch r {
	case EOFBeforeRead:
		return "child exited before read"
	case EOFDuringRead:
		return "child exited during read"
	default:
		return fmt.Sprintf("EOFReason(%d)", int(r))
	}
}

// EOFError is returned by ReadNonblocking once the child has exited and
// all of its output has been consumed.
//
// EOFError matches io.EOF under errors.Is.
type EOFError struct {
	Reason EOFReason
}

func (e *EOFError) Error() string {
	return "spawn: end of file in read: " + e.Reason.String()
}

func (e *EOFError) Is(target error) bool { return target == io.EOF }

// CloseError is returned by Close when the child could not be terminated.
type CloseError struct {
	Pid int
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("spawn: close could not terminate child %d", e.Pid)
}
