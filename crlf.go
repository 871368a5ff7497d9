package spawn

import (
	"bufio"
	"io"
)

// NormalizeNewlines returns a reader that converts line endings to LF.
//
// Children on Windows usually end lines with CRLF:
//   - CRLF (\r\n) → LF (\n)
//   - CR (\r) → LF (\n)
//
// Wrapping a Process lets callers compare output without caring which
// host produced it.
func NormalizeNewlines(r io.Reader) io.Reader {
	return &crlfReader{br: bufio.NewReader(r)}
}

type crlfReader struct {
	br *bufio.Reader
	cr bool
}

func (c *crlfReader) Read(p []byte) (n int, err error) {
	var ch byte
	for n < len(p) {
		if n > 0 && c.br.Buffered() == 0 {
			break // Return what we have rather than wait for more.
		}
		ch, err = c.br.ReadByte()
		if err != nil {
			if err == io.EOF && c.cr {
				p[n] = '\n'
				n++
				c.cr = false
			}
			break
		}
		if c.cr {
			c.cr = false
			p[n] = '\n'
			n++
			if ch == '\n' {
				continue
			}
			_ = c.br.UnreadByte() // Cannot fail after ReadByte.
			continue
		}
		if ch == '\r' {
			c.cr = true
			continue
		}
		p[n] = ch
		n++
	}
	if n > 0 {
		err = nil // Reported again by the next call.
	}
	return
}
