// FILE: lixenwraith/layercfg/loader.go
package layercfg

import (
	"errors"
	"fmt"
	"log/slog"
)

// Loader fetches and parses an ordered resource list.
type Loader struct {
	registry *Registry
	fetcher  Fetcher
	logger   *slog.Logger
}

// NewLoader creates a Loader. Nil arguments fall back to DefaultRegistry,
// a ResourceFetcher with DefaultFetchOptions and slog.Default.
func NewLoader(registry *Registry, fetcher Fetcher, logger *slog.Logger) *Loader {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if fetcher == nil {
		fetcher = NewFetcher(nil, DefaultFetchOptions())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{registry: registry, fetcher: fetcher, logger: logger}
}

// Load returns one parsed tree per resource, in input order.
// The first failing resource aborts the whole load; its descriptor is named in
// the returned error. Optional resources that are not found are skipped.
func (l *Loader) Load(resources []Resource) ([]any, error) {
	trees := make([]any, 0, len(resources))

	for _, r := range resources {
		tree, err := l.loadOne(r)
		if err != nil {
			if r.Optional && errors.Is(err, ErrResourceNotFound) {
				l.logger.Debug("optional config resource not found, skipping",
					slog.String("resource", r.String()))
				continue
			}
			return nil, fmt.Errorf("load %s: %w", r, err)
		}
		trees = append(trees, tree)
	}

	return trees, nil
}

// Resolve loads resources and merges them; it is the base ResolveFunc
// that middleware wraps.
func (l *Loader) Resolve(resources []Resource) (any, error) {
	trees, err := l.Load(resources)
	if err != nil {
		return nil, err
	}
	return Merge(trees...), nil
}

func (l *Loader) loadOne(r Resource) (any, error) {
	kind := r.ResolvedKind()
	if kind == "" {
		return nil, fmt.Errorf("%w: cannot infer kind from %q", ErrUnsupportedFormat, r.Location)
	}
	// Check the kind before touching the resource
	if _, ok := l.registry.Parser(kind); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}

	data, err := l.fetcher.Fetch(r)
	if err != nil {
		return nil, err
	}

	tree, err := l.registry.Parse(kind, data)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Resource = r.String()
		}
		return nil, err
	}
	return tree, nil
}
