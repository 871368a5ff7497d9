package spawn

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"lesiw.io/zeros"

	"lesiw.io/spawn/cmdline"
)

// A Group keeps one named Process per key, such as one REPL per language.
// The zero value is ready to use.
type Group struct {
	mu    sync.Mutex
	procs zeros.Map[string, *Process]
	names []string
}

// Get returns the live process registered under name.
// Processes that have exited are reported as absent.
func (g *Group) Get(name string) (*Process, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.procs.CheckGet(name)
	if !ok || p == nil || !p.IsAlive() {
		return nil, false
	}
	return p, true
}

// Spawn starts args and registers the result under name.
// A process already registered under name is closed first.
func (g *Group) Spawn(
	ctx context.Context, name string, args ...string,
) (*Process, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if old, ok := g.procs.CheckGet(name); ok && old != nil {
		if err := old.Close(); err != nil {
			return nil, err
		}
	}
	p, err := Spawn(ctx, args...)
	if err != nil {
		g.procs.Set(name, nil)
		return nil, err
	}
	g.procs.Set(name, p)
	if !slices.Contains(g.names, name) {
		g.names = append(g.names, name)
	}
	return p, nil
}

// SpawnLine is like Spawn but splits line with cmdline.Split.
func (g *Group) SpawnLine(
	ctx context.Context, name, line string,
) (*Process, error) {
	args, err := cmdline.Split(line)
	if err != nil {
		return nil, &Error{Err: err}
	}
	return g.Spawn(ctx, name, args...)
}

// Close closes every process in the group concurrently.
// It returns the first error encountered.
func (g *Group) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	var eg errgroup.Group
	for _, name := range g.names {
		p, ok := g.procs.CheckGet(name)
		if !ok || p == nil {
			continue
		}
		eg.Go(p.Close)
	}
	err := eg.Wait()
	if err == nil {
		g.procs = zeros.Map[string, *Process]{}
		g.names = nil
	}
	return err
}
