// FILE: lixenwraith/layercfg/env.go
package layercfg

import (
	"os"
	"strconv"
	"strings"
)

// EnvTransformFunc maps a dot-separated config path to an environment variable name
type EnvTransformFunc func(path string) string

// EnvOptions configures EnvOverlay
type EnvOptions struct {
	// Prefix is prepended by the default transform ("APP_" maps server.port to APP_SERVER_PORT)
	Prefix string
	// Transform replaces the default path-to-variable mapping
	Transform EnvTransformFunc
	// Whitelist, when non-nil, limits the overlay to the listed paths
	Whitelist map[string]bool
	// LookupEnv replaces os.LookupEnv
	LookupEnv func(key string) (string, bool)
}

// EnvOverlay returns middleware that overrides existing leaf values of the
// resolved tree from environment variables named after their paths.
// Values are parsed as bool, int64 or float64 before falling back to string.
// Paths absent from the resolved tree are never created.
//
// Listed before NewCache the overlay is cached with the tree; listed after it
// the environment is consulted on every call.
func EnvOverlay(prefix string) Middleware {
	return EnvOverlayWithOptions(EnvOptions{Prefix: prefix})
}

// EnvOverlayWithOptions is EnvOverlay with full control over the mapping
func EnvOverlayWithOptions(opts EnvOptions) Middleware {
	transform := opts.Transform
	if transform == nil {
		transform = defaultEnvTransform(opts.Prefix)
	}
	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	return MiddlewareFunc(func(next ResolveFunc) ResolveFunc {
		return func(resources []Resource) (any, error) {
			tree, err := next(resources)
			if err != nil {
				return nil, err
			}

			root, ok := tree.(map[string]any)
			if !ok {
				return tree, nil
			}

			overlay := make(map[string]any)
			for path := range flattenMap(root, "") {
				if opts.Whitelist != nil && !opts.Whitelist[path] {
					continue
				}
				if value, exists := lookup(transform(path)); exists {
					setNestedValue(overlay, path, parseValue(value))
				}
			}

			if len(overlay) == 0 {
				return tree, nil
			}
			return Merge(overlay, tree), nil
		}
	})
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ReplaceAll(env, "-", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// parseValue attempts to parse a string into appropriate types.
// Only the words true and false are booleans, so "1" and "0" stay integers.
func parseValue(s string) any {
	switch {
	case strings.EqualFold(s, "true"):
		return true
	case strings.EqualFold(s, "false"):
		return false
	}

	// Try int64
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}

	// Try float64
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	// Remove quotes if present
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}

	return s
}
