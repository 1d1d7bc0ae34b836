// FILE: lixenwraith/layercfg/middleware.go
package layercfg

import (
	"log/slog"
	"time"
)

// ResolveFunc turns a resource list into one merged configuration tree.
type ResolveFunc func(resources []Resource) (any, error)

// Options holds named state exposed by middleware, such as a cache handle.
// It is reachable through the MiddlewareOptionsKey lookup path.
type Options map[string]any

// Middleware wraps a ResolveFunc. Wrap may return named options to expose
// internals to callers; nil is fine when there is nothing to expose.
type Middleware interface {
	Wrap(next ResolveFunc) (ResolveFunc, Options)
}

// MiddlewareFunc adapts a plain wrapping function to Middleware.
type MiddlewareFunc func(next ResolveFunc) ResolveFunc

// Wrap calls f(next) and exposes no options.
func (f MiddlewareFunc) Wrap(next ResolveFunc) (ResolveFunc, Options) {
	return f(next), nil
}

// Compose applies mws in order, each wrapping the result of the previous one:
// mws[n-1](...mws[0](resolve)). The last middleware is the outermost and sees
// each call first. Options of all middleware are collected into one map; on a
// key collision the later middleware's value silently wins.
// Errors from middleware are returned unchanged.
func Compose(resolve ResolveFunc, mws ...Middleware) (ResolveFunc, Options) {
	options := make(Options)
	for _, mw := range mws {
		if mw == nil {
			continue
		}
		var opts Options
		resolve, opts = mw.Wrap(resolve)
		for k, v := range opts {
			options[k] = v
		}
	}
	return resolve, options
}

// Logging returns a middleware that logs every resolution: the resource count
// and duration at debug level, failures at error level.
// A nil logger uses slog.Default at call time.
func Logging(logger *slog.Logger) Middleware {
	return MiddlewareFunc(func(next ResolveFunc) ResolveFunc {
		return func(resources []Resource) (any, error) {
			log := logger
			if log == nil {
				log = slog.Default()
			}

			start := time.Now()
			tree, err := next(resources)
			attrs := []any{
				slog.Int("resources", len(resources)),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				log.Error("config resolution failed", append(attrs, slog.String("error", err.Error()))...)
				return nil, err
			}
			log.Debug("config resolved", attrs...)
			return tree, nil
		}
	})
}
