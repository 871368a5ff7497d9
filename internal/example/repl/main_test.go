package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"lesiw.io/spawn"
)

// swap swaps a variable's value and restores it via t.Cleanup.
func swap[T any](t *testing.T, ptr *T, val T) {
	t.Helper()
	old := *ptr
	*ptr = val
	t.Cleanup(func() { *ptr = old })
}

// calculator stands in for an interpreter when the test binary is
// re-run as a child.
func calculator() {
	fmt.Println("calc ready")
	scn := bufio.NewScanner(os.Stdin)
	for scn.Scan() {
		if scn.Text() == "quit" {
			os.Exit(0)
		}
		fmt.Printf("= %s\n", scn.Text())
	}
	os.Exit(0)
}

func TestRun(t *testing.T) {
	if os.Getenv("CMD_TEST_PROC") == "1" {
		calculator()
	}
	t.Setenv("CMD_TEST_PROC", "1")
	var out strings.Builder
	swap[io.Reader](t, &stdin, strings.NewReader("1+1\nquit\n"))
	swap[io.Writer](t, &stdout, &out)

	err := run(t.Context(), []string{
		"-quiet", "1s", os.Args[0], "-test.run=^TestRun$",
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	for _, want := range []string{"calc ready\n", "= 1+1\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output = %q, want it to contain %q", out.String(), want)
		}
	}
}

func TestRunUsage(t *testing.T) {
	if err := run(t.Context(), nil); err == nil {
		t.Error("run() error = <nil>, want usage error")
	}
}

func TestRunNotFound(t *testing.T) {
	err := run(t.Context(), []string{"this-repl-does-not-exist"})
	if !spawn.NotFound(err) {
		t.Errorf("run() error = %v, want NotFound", err)
	}
}
