// Package cmdline splits and joins command lines using the quoting rules of
// the Microsoft C runtime.
//
// Arguments are separated by runs of spaces or tabs. A double quote toggles
// quoted mode, in which whitespace is literal. Backslashes are literal
// unless they immediately precede a double quote: then each pair of
// backslashes produces one backslash, and an odd backslash escapes the
// quote itself.
//
//	Split(`a "b c" d`)  // ["a", "b c", "d"]
//	Split(`a\\"b c"`)   // [`a\b c`]
//	Split(`a\"b`)       // [`a"b`]
//
// Join is the inverse of Split.
package cmdline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by Split when the command line ends inside a
// quoted argument.
var ErrMalformed = errors.New("cmdline: malformed command line")

// Split parses a command line into arguments.
func Split(line string) ([]string, error) {
	var (
		args    []string
		arg     strings.Builder
		touched bool // "" yields an empty argument
		quoted  bool
		slashes int
	)
	flush := func() {
		if arg.Len() > 0 || touched {
			args = append(args, arg.String())
		}
		arg.Reset()
		touched = false
	}
	for i := 0; i <= len(line); i++ {
		end := i == len(line)
		var c byte
		if !end {
			c = line[i]
		}
		if c == '\\' && !end {
			slashes++
			continue
		}
		if slashes > 0 {
			if c == '"' && !end {
				arg.WriteString(strings.Repeat(`\`, slashes/2))
				escaped := slashes%2 == 1
				slashes = 0
				if escaped {
					arg.WriteByte('"')
					continue
				}
			} else {
				// Includes a run at end of input: outside quotes the
				// backslashes are literal, so Join never needs to escape
				// a trailing one.
				arg.WriteString(strings.Repeat(`\`, slashes))
				slashes = 0
			}
		}
		switch {
		case end:
			if quoted {
				return nil, fmt.Errorf("%w: unterminated quote", ErrMalformed)
			}
			flush()
		case c == '"':
			quoted = !quoted
			touched = true
		case (c == ' ' || c == '\t') && !quoted:
			flush()
		default:
			arg.WriteByte(c)
		}
	}
	return args, nil
}

// Join quotes args and joins them into a single command line that Split
// parses back into args.
func Join(args []string) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteByte(' ')
		}
		quote(&sb, arg)
	}
	return sb.String()
}

func quote(sb *strings.Builder, arg string) {
	needquote := arg == "" || strings.ContainsAny(arg, " \t\"")
	if !needquote {
		sb.WriteString(arg)
		return
	}
	sb.WriteByte('"')
	var slashes int
	for i := 0; i < len(arg); i++ {
		switch c := arg[i]; c {
		case '\\':
			slashes++
		case '"':
			sb.WriteString(strings.Repeat(`\`, 2*slashes+1))
			sb.WriteByte('"')
			slashes = 0
		default:
			sb.WriteString(strings.Repeat(`\`, slashes))
			sb.WriteByte(c)
			slashes = 0
		}
	}
	// Backslashes before the closing quote must not escape it.
	sb.WriteString(strings.Repeat(`\`, 2*slashes))
	sb.WriteByte('"')
}
