package source

import (
	"context"
	"strings"
)

type envSource struct {
	environ []string
	prefix  string
}

// Env reads KEY=value entries (as returned by os.Environ) whose key starts
// with prefix. The prefix is stripped and the rest is lowercased with "_"
// replaced by "-": APP_DRY_RUN with prefix "APP_" becomes "dry-run".
func Env(environ []string, prefix string) Source {
	return envSource{environ: environ, prefix: prefix}
}

func (envSource) Name() string { return "env" }

func (e envSource) Values(context.Context) (map[string]any, error) {
	out := map[string]any{}
	for _, kv := range e.environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, e.prefix) {
			continue
		}
		name := strings.TrimPrefix(key, e.prefix)
		if name == "" {
			continue
		}
		out[strings.ReplaceAll(strings.ToLower(name), "_", "-")] = val
	}
	return out, nil
}
