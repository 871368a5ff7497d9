package spawn

import (
	"errors"
	"io"
	"time"
)

// readLoop forwards the child's output to the queue until the pipe reports
// EOF or an error. Closing the queue tells readers no more output will
// arrive; it says nothing about whether the child is alive.
func (p *Process) readLoop(r io.ReadCloser) {
	defer close(p.queue)
	defer func() { _ = r.Close() }()
	for {
		buf := make([]byte, chunkSize)
		n, err := r.Read(buf)
		if n == 0 {
			return
		}
		select {
		case p.queue <- buf[:n]:
		case <-p.quit:
			return
		}
		if err != nil {
			return
		}
	}
}

// ReadNonblocking returns output the child has produced, waiting at most
// timeout for the first chunk.
//
// After the first chunk arrives, ReadNonblocking keeps collecting output
// that is already available until it has at least size bytes or nothing
// more is ready. The result may be shorter or longer than size.
//
// A timeout of DefaultTimeout selects p.Timeout. Any other negative timeout
// waits without a deadline. If the child is already known to have exited,
// ReadNonblocking returns what is queued, or an *EOFError after a brief
// settling period, regardless of timeout: a grandchild holding the pipe
// open does not delay it.
//
// ReadNonblocking returns ErrTimeout if nothing arrived in time and the
// child is still running, and an *EOFError once the child has exited and
// its output is exhausted.
func (p *Process) ReadNonblocking(size int, timeout time.Duration) (
	[]byte, error,
) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	if timeout == DefaultTimeout {
		timeout = p.Timeout
	}
	reason := EOFDuringRead
	if !p.IsAlive() {
		reason = EOFBeforeRead
		// Only output already in flight is worth waiting for.
		if timeout < 0 || timeout > exitSettle {
			timeout = exitSettle
		}
	}

	var deadline <-chan time.Time
	if timeout >= 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}

	var s []byte
	select {
	case chunk, ok := <-p.queue:
		if !ok {
			return nil, p.drained(reason, deadline)
		}
		s = chunk
	default:
		select {
		case chunk, ok := <-p.queue:
			if !ok {
				return nil, p.drained(reason, deadline)
			}
			s = chunk
		case <-deadline:
			if !p.IsAlive() {
				return nil, &EOFError{Reason: reason}
			}
			return nil, ErrTimeout
		}
	}

drain:
	for len(s) < size {
		select {
		case chunk, ok := <-p.queue:
			if !ok {
				break drain
			}
			s = append(s, chunk...)
		default:
			break drain
		}
	}

	p.logMu.Lock()
	mirror(p.log, s)
	mirror(p.logRead, s)
	p.logMu.Unlock()
	return s, nil
}

// drained decides the outcome of a read once the queue has been closed
// and emptied. The child usually exits at the same moment its output ends,
// but the exit may be observed slightly later.
func (p *Process) drained(
	reason EOFReason, deadline <-chan time.Time,
) error {
	if reason == EOFBeforeRead {
		return &EOFError{Reason: reason}
	}
	select {
	case <-p.done:
		p.IsAlive()
		return &EOFError{Reason: reason}
	case <-deadline:
		if !p.IsAlive() {
			return &EOFError{Reason: reason}
		}
		return ErrTimeout
	}
}

// Read reads output into b, waiting at most p.Timeout for it to arrive.
// Read returns io.EOF once the child has exited and its output is
// exhausted.
//
// Read lets a Process be used with the io package. Output that does not
// fit in b is kept for the next call.
func (p *Process) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if len(p.unread) == 0 {
		s, err := p.ReadNonblocking(len(b), DefaultTimeout)
		if errors.Is(err, io.EOF) {
			return 0, io.EOF
		} else if err != nil {
			return 0, err
		}
		p.unread = s
	}
	n := copy(b, p.unread)
	p.unread = p.unread[n:]
	return n, nil
}

// Log sets a sink that receives a copy of all traffic, in both directions.
// A nil writer disables it.
func (p *Process) Log(w io.Writer) {
	p.logMu.Lock()
	defer p.logMu.Unlock()
	p.log = w
}

// LogRead sets a sink that receives a copy of the child's output.
func (p *Process) LogRead(w io.Writer) {
	p.logMu.Lock()
	defer p.logMu.Unlock()
	p.logRead = w
}

// LogSend sets a sink that receives a copy of the child's input.
func (p *Process) LogSend(w io.Writer) {
	p.logMu.Lock()
	defer p.logMu.Unlock()
	p.logSend = w
}
