// FILE: lixenwraith/layercfg/config.go
package layercfg

import (
	"log/slog"
	"strings"
)

// MiddlewareOptionsKey is the reserved first path segment that selects the
// middleware options map instead of the configuration tree:
//
//	cache, _ := cfg(layercfg.MiddlewareOptionsKey, layercfg.CacheOptionKey)
//	cache.(*layercfg.Cache).Clear()
const MiddlewareOptionsKey = ":layercfg/middleware-options"

// loggerOptionKey sits under MiddlewareOptionsKey and yields the Func's logger.
// The leading colon keeps it apart from middleware option keys.
const loggerOptionKey = ":logger"

// Func is a resolved configuration bound to a fixed resource list.
// Calling it with a key path resolves the resources (through any middleware)
// and returns the value at that path; no path returns the whole tree.
// Unknown keys are not errors: they yield a nil value and a logged warning.
// Returned mappings and sequences are copies owned by the caller.
type Func func(path ...string) (any, error)

// newFunc binds resolve to a private copy of resources.
func newFunc(resolve ResolveFunc, resources []Resource, options Options, logger *slog.Logger) Func {
	bound := make([]Resource, len(resources))
	copy(bound, resources)
	if logger == nil {
		logger = slog.Default()
	}

	return func(path ...string) (any, error) {
		if len(path) > 0 && path[0] == MiddlewareOptionsKey {
			if len(path) == 2 && path[1] == loggerOptionKey {
				return logger, nil
			}
			value, ok := Lookup(map[string]any(options), path[1:]...)
			if !ok {
				warnUnknownKey(logger, path)
				return nil, nil
			}
			return value, nil
		}

		tree, err := resolve(bound)
		if err != nil {
			return nil, err
		}

		value, ok := Lookup(tree, path...)
		if !ok {
			warnUnknownKey(logger, path)
			return nil, nil
		}
		return cloneTree(value), nil
	}
}

// Get is f(path...), for symmetry with the typed accessors.
func (f Func) Get(path ...string) (any, error) {
	return f(path...)
}

// loggerOf returns the logger f warns through, or slog.Default for functions
// not built by this package.
func loggerOf(f Func) *slog.Logger {
	if v, err := f(MiddlewareOptionsKey, loggerOptionKey); err == nil {
		if logger, ok := v.(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

func warnUnknownKey(logger *slog.Logger, path []string) {
	logger.Warn("unknown config key", slog.String("path", strings.Join(path, ".")))
}
