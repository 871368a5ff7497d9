package spawn

import (
	"fmt"
	"io"
	"os"
	"strings"

	"lesiw.io/prefix"
)

var (
	// Trace receives one line for every spawned command.
	Trace = io.Discard

	// ShTrace writes commands to stderr in the style of sh -x.
	// Assign it to Trace to enable tracing.
	ShTrace = prefix.NewWriter("+ ", stderr)

	stderr io.Writer = os.Stderr
)

func trace(v fmt.Stringer) {
	s := strings.TrimRight(v.String(), "\n")
	if s != "" {
		_, _ = fmt.Fprintf(Trace, "%s\n", s)
	}
}

// mirror copies b to a log sink and flushes it.
// Sink failures never reach the caller.
func mirror(w io.Writer, b []byte) {
	if w == nil || len(b) == 0 {
		return
	}
	_, _ = w.Write(b)
	switch f := w.(type) {
	case interface{ Flush() error }:
		_ = f.Flush()
	case interface{ Sync() error }:
		_ = f.Sync()
	}
}
