package spawn

import (
	"context"
	"maps"
	"os"
	"strings"
)

type envKey struct{}

// Env returns the value of the environment variable named by key.
// It first checks the context, then falls back to the host environment.
// Returns an empty string if the variable is unset.
func Env(ctx context.Context, key string) string {
	if env := Envs(ctx); env != nil {
		if val, ok := env[key]; ok {
			return val
		}
	}
	return os.Getenv(key)
}

// Envs returns a map of the environment variables stored in ctx.
func Envs(ctx context.Context) map[string]string {
	if env, ok := ctx.Value(envKey{}).(map[string]string); ok {
		return env
	}
	return nil
}

// WithEnv returns a new context with the provided environment variables
// merged with any existing environment variables in ctx.
//
// Spawned children inherit the host environment overlaid with these values.
func WithEnv(ctx context.Context, env map[string]string) context.Context {
	val := maps.Clone(Envs(ctx))
	if val == nil {
		val = make(map[string]string, len(env))
	}
	maps.Copy(val, env)
	return context.WithValue(ctx, envKey{}, val)
}

// WithoutEnv returns a new context with all environment variables removed.
// Other context values, like the working directory, are preserved.
func WithoutEnv(ctx context.Context) context.Context {
	if Envs(ctx) == nil {
		return ctx
	}
	return context.WithValue(ctx, envKey{}, nil)
}

// environ merges the host environment with the variables in ctx.
// Later entries win, so overrides are appended rather than replaced.
func environ(ctx context.Context) []string {
	env := os.Environ()
	for k, v := range Envs(ctx) {
		env = append(env, k+"="+v)
	}
	return env
}

// splitList splits a PATH-style list, dropping empty entries.
func splitList(list string) []string {
	var out []string
	for s := range strings.SplitSeq(list, string(os.PathListSeparator)) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
