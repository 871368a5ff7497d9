package spawn

import (
	"context"
	"path/filepath"
	"runtime"

	"lesiw.io/fs"
	"lesiw.io/fs/osfs"
)

// DefaultPathExt is used when PATHEXT is unset on Windows.
const DefaultPathExt = ".exe;.com;.bat;.cmd"

// A Resolver locates executables by probing directories and extensions.
type Resolver struct {
	// FS is the filesystem probed for candidates.
	FS fs.FS

	// Path lists the directories to search after the bare name.
	Path []string

	// Ext lists the extensions to try after the bare candidate.
	Ext []string
}

// Find returns the first candidate that exists and is executable.
//
// Candidates are probed in order: the name as given, then each directory in
// Path; within each, the bare name and then each extension in Ext.
func (r Resolver) Find(ctx context.Context, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	dirs := append([]string{""}, r.Path...)
	if filepath.IsAbs(name) {
		dirs = dirs[:1]
	}
	exts := append([]string{""}, r.Ext...)
	for _, dir := range dirs {
		for _, ext := range exts {
			candidate := name + ext
			if dir != "" {
				candidate = filepath.Join(dir, candidate)
			}
			if r.executable(ctx, candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func (r Resolver) executable(ctx context.Context, name string) bool {
	info, err := fs.Stat(ctx, r.FS, name)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}

// LookPath resolves name using the PATH and PATHEXT environment variables.
// Variables set with WithEnv take precedence over the host environment.
//
// If no candidate is found, LookPath returns an *Error wrapping
// ErrNotFound.
func LookPath(ctx context.Context, name string) (string, error) {
	r := Resolver{
		FS:   osfs.New(),
		Path: splitList(Env(ctx, "PATH")),
		Ext:  splitList(pathExt(ctx)),
	}
	path, ok := r.Find(ctx, name)
	if !ok {
		return "", &Error{Args: []string{name}, Err: ErrNotFound}
	}
	return path, nil
}

func pathExt(ctx context.Context) string {
	if ext := Env(ctx, "PATHEXT"); ext != "" {
		return ext
	}
	if runtime.GOOS == "windows" {
		return DefaultPathExt
	}
	return ""
}
