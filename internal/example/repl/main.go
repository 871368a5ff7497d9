// This example drives an interactive interpreter the way a notebook kernel
// would: each line read from standard input is sent to the child, and
// whatever the child prints before it falls quiet is copied back out.
//
//	repl python -i -u
//	repl -quiet 1s ghci -v0
//
// No terminal is involved, so interpreters that buffer their output when
// not attached to one need their unbuffered flag.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"lesiw.io/defers"
	"lesiw.io/spawn"
)

var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

func main() {
	defer defers.Run()
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		defers.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	quiet := flags.Duration("quiet", 200*time.Millisecond,
		"silence that ends a reply")
	trace := flags.Bool("x", false, "print the spawned command")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return errors.New("usage: repl [-quiet d] [-x] command [arg...]")
	}
	if *trace {
		spawn.Trace = spawn.ShTrace
	}

	p, err := spawn.Spawn(ctx, flags.Args()...)
	if err != nil {
		return err
	}
	defers.Add(func() { _ = p.Close() })

	out := bufio.NewWriter(stdout)
	p.LogRead(out)
	if err := drain(p, *quiet); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	scn := bufio.NewScanner(stdin)
	for scn.Scan() {
		if _, err := p.SendLine(scn.Text()); err != nil {
			return fmt.Errorf("failed to send input: %w", err)
		}
		if err := drain(p, *quiet); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
	}
	if err := scn.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := p.Close(); err != nil {
		return err
	}
	if status, ok := p.ExitStatus(); ok && status > 0 {
		return fmt.Errorf("%s: exit status %d", p.Args()[0], status)
	}
	return nil
}

// drain consumes output until the child has been silent for quiet.
// Output reaches the caller through the process's read log.
func drain(p *spawn.Process, quiet time.Duration) error {
	for {
		_, err := p.ReadNonblocking(4096, quiet)
		if errors.Is(err, spawn.ErrTimeout) {
			return nil
		} else if err != nil {
			return err
		}
	}
}
