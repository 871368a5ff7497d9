package spawn

import (
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"lesiw.io/fs/osfs"
)

func writeFile(t *testing.T, name string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(name, []byte("#!/bin/sh\n"), mode); err != nil {
		t.Fatal(err)
	}
}

func TestResolverFind(t *testing.T) {
	x, y := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(y, "cmd.exe"), 0755)
	r := Resolver{
		FS:   osfs.New(),
		Path: []string{x, y},
		Ext:  []string{".exe"},
	}

	got, ok := r.Find(t.Context(), "cmd")
	if !ok {
		t.Fatal("Find(cmd) = false, want true")
	}
	if want := filepath.Join(y, "cmd.exe"); got != want {
		t.Errorf("Find(cmd) = %q, want %q", got, want)
	}
	if _, ok := r.Find(t.Context(), "nope"); ok {
		t.Error("Find(nope) = true, want false")
	}
	if _, ok := r.Find(t.Context(), ""); ok {
		t.Error("Find(\"\") = true, want false")
	}
}

func TestResolverFindOrder(t *testing.T) {
	x, y := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(x, "tool.bat"), 0755)
	writeFile(t, filepath.Join(y, "tool"), 0755)
	r := Resolver{
		FS:   osfs.New(),
		Path: []string{x, y},
		Ext:  []string{".exe", ".bat"},
	}

	got, ok := r.Find(t.Context(), "tool")
	if !ok {
		t.Fatal("Find(tool) = false, want true")
	}
	if want := filepath.Join(x, "tool.bat"); got != want {
		t.Errorf("Find(tool) = %q, want %q", got, want)
	}
}

func TestResolverFindAbsolute(t *testing.T) {
	x := t.TempDir()
	name := filepath.Join(x, "abs")
	writeFile(t, name, 0755)
	r := Resolver{FS: osfs.New(), Path: []string{t.TempDir()}}

	if got, ok := r.Find(t.Context(), name); !ok || got != name {
		t.Errorf("Find(%q) = %q, %v, want %q, true", name, got, ok, name)
	}
}

func TestResolverSkipsDirectories(t *testing.T) {
	x, y := t.TempDir(), t.TempDir()
	if err := os.Mkdir(filepath.Join(x, "tool"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(y, "tool"), 0755)
	r := Resolver{FS: osfs.New(), Path: []string{x, y}}

	got, ok := r.Find(t.Context(), "tool")
	if want := filepath.Join(y, "tool"); !ok || got != want {
		t.Errorf("Find(tool) = %q, %v, want %q, true", got, ok, want)
	}
}

func TestResolverSkipsNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are not tracked on windows")
	}
	x := t.TempDir()
	writeFile(t, filepath.Join(x, "data"), 0644)
	r := Resolver{FS: osfs.New(), Path: []string{x}}

	if got, ok := r.Find(t.Context(), "data"); ok {
		t.Errorf("Find(data) = %q, true, want false", got)
	}
}

func TestLookPathUsesContextEnv(t *testing.T) {
	x := t.TempDir()
	writeFile(t, filepath.Join(x, "repl.cmd"), 0755)
	ctx := WithEnv(t.Context(), map[string]string{
		"PATH":    x,
		"PATHEXT": ".exe;.cmd",
	})

	got, err := LookPath(ctx, "repl")
	if err != nil {
		t.Fatalf("LookPath(repl) error = %v", err)
	}
	if want := filepath.Join(x, "repl.cmd"); got != want {
		t.Errorf("LookPath(repl) = %q, want %q", got, want)
	}

	_, err = LookPath(ctx, "missing")
	if !NotFound(err) {
		t.Errorf("LookPath(missing) error = %v, want NotFound", err)
	}
}

func TestSplitList(t *testing.T) {
	sep := string(os.PathListSeparator)
	got := splitList(sep + "a" + sep + sep + "b" + sep)
	if want := []string{"a", "b"}; !slices.Equal(got, want) {
		t.Errorf("splitList() = %q, want %q", got, want)
	}
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %q, want nil", got)
	}
}
