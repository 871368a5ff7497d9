// Package spawn drives interactive, line-oriented programs, such as
// language REPLs, over plain pipes.
//
// A [Process] is started with [Spawn] or [SpawnLine]. Its standard error is
// merged into standard output, and both standard input and output are
// anonymous pipes: no pseudo-terminal is involved, so the same code works
// on hosts that do not offer one.
//
//	p, err := spawn.SpawnLine(ctx, "python -i -u")
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	p.SendLine("1 + 1")
//	out, err := p.ReadNonblocking(1024, time.Second)
//
// Pipes only offer blocking reads. Each Process runs a goroutine that
// drains the child's output into a queue, and [Process.ReadNonblocking]
// waits on that queue for a bounded time. Its errors tell the three
// outcomes apart:
//   - output arrived: it is returned, batched with anything else ready
//   - [ErrTimeout]: nothing arrived, but the child is still running
//   - [EOFError]: the child has exited and its output is exhausted
//
// A Process is also an [io.ReadWriter], so it can be used with [io.Copy],
// [bufio.Scanner] and friends. [NormalizeNewlines] hides CRLF line endings.
//
// # Command lines
//
// [SpawnLine] splits its argument with [lesiw.io/spawn/cmdline.Split],
// which follows the Microsoft C runtime quoting rules. On Windows, the
// argument vector is joined back with [lesiw.io/spawn/cmdline.Join] before
// it is handed to CreateProcess, so both forms reach the child identically.
//
// The executable is located by [LookPath], which probes the bare name and
// then each directory in PATH, trying each extension in PATHEXT.
//
// # Environment
//
// Environment variables are part of the [context.Context].
// They can be set using [WithEnv] and inspected using [Env].
// The working directory is taken from [lesiw.io/fs.WithWorkDir].
//
//	ctx = spawn.WithEnv(ctx, map[string]string{"PYTHONIOENCODING": "utf-8"})
//	ctx = fs.WithWorkDir(ctx, "/srv/notebooks")
//	p, err := spawn.Spawn(ctx, "python", "-i")
//
// # Limitations
//
// Without a terminal there is no echo control, no window size and no
// signal delivery through control characters. [Process.SendIntr] and
// [Process.SendEOF] write the corresponding bytes, which the child may or
// may not honor, and the terminal operations return [ErrUnsupported].
// Killing is always forceful, and exit statuses carry no signal detail.
package spawn
