// File: lixenwraith/layercfg/builder.go
package layercfg

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// ValidatorFunc checks a freshly built configuration.
// It receives the resolved Func and should return an error if validation fails.
type ValidatorFunc func(cfg Func) error

// Builder provides a fluent interface for building a configuration function
type Builder struct {
	resources    []Resource
	resourcesSet bool

	middleware    []Middleware
	middlewareSet bool

	registry   *Registry
	fetcher    Fetcher
	locator    Locator
	fetchOpts  FetchOptions
	logger     *slog.Logger
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder.
// Without WithResources it resolves DefaultResources; without WithMiddleware
// the chain is a single NewCache.
func NewBuilder() *Builder {
	return &Builder{
		fetchOpts:  DefaultFetchOptions(),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithResources appends resources, highest precedence first.
// Calling it, even with no arguments, replaces the default resource set.
func (b *Builder) WithResources(resources ...Resource) *Builder {
	b.resources = append(b.resources, resources...)
	b.resourcesSet = true
	return b
}

// WithDefaultResources appends DefaultResources after any resources already added.
func (b *Builder) WithDefaultResources() *Builder {
	return b.WithResources(DefaultResources()...)
}

// WithMiddleware appends middleware to the chain; see Compose for ordering.
// Calling it, even with no arguments, replaces the default cache.
func (b *Builder) WithMiddleware(mws ...Middleware) *Builder {
	b.middleware = append(b.middleware, mws...)
	b.middlewareSet = true
	return b
}

// WithRegistry sets the format registry (default: DefaultRegistry)
func (b *Builder) WithRegistry(r *Registry) *Builder {
	b.registry = r
	return b
}

// WithFetcher replaces the resource fetcher; WithLocator and the fetch options are then unused
func (b *Builder) WithFetcher(f Fetcher) *Builder {
	b.fetcher = f
	return b
}

// WithLocator sets how named resources are found
func (b *Builder) WithLocator(l Locator) *Builder {
	b.locator = l
	return b
}

// WithDiscovery locates named resources with a SearchPathLocator built from opts
func (b *Builder) WithDiscovery(opts DiscoveryOptions) *Builder {
	b.locator = NewSearchPathLocator(opts)
	return b
}

// WithFetchOptions sets size, timeout and retry limits for fetching
func (b *Builder) WithFetchOptions(opts FetchOptions) *Builder {
	b.fetchOpts = opts
	return b
}

// WithHTTPClient sets the client used for URL resources
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	b.fetchOpts.HTTPClient = c
	return b
}

// WithLogger sets the logger for unknown-key warnings and loader diagnostics
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Validators run in the order they are added; all failures are reported together
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build composes loader, merge and middleware into a Func and resolves it once,
// so missing resources and parse failures surface here rather than at first use.
func (b *Builder) Build() (Func, error) {
	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	resources := b.resources
	if !b.resourcesSet {
		resources = DefaultResources()
	}

	mws := b.middleware
	if !b.middlewareSet {
		mws = []Middleware{NewCache()}
	}

	fetcher := b.fetcher
	if fetcher == nil {
		opts := b.fetchOpts
		if opts.Logger == nil {
			opts.Logger = logger
		}
		fetcher = NewFetcher(b.locator, opts)
	}

	loader := NewLoader(b.registry, fetcher, logger)
	resolve, options := Compose(loader.Resolve, mws...)
	cfg := newFunc(resolve, resources, options, logger)

	if _, err := resolve(resources); err != nil {
		return nil, err
	}

	var errs []error
	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() Func {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds and decodes the whole resolved tree into target
func (b *Builder) BuildAndScan(target any) (Func, error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}

	if err := cfg.Scan(target); err != nil {
		return nil, fmt.Errorf("failed to scan final config into target: %w", err)
	}
	return cfg, nil
}

// New builds a Func over exactly resources and mws: no default resources and
// no implicit cache. It resolves eagerly like Builder.Build.
func New(resources []Resource, mws ...Middleware) (Func, error) {
	return NewBuilder().
		WithResources(resources...).
		WithMiddleware(mws...).
		Build()
}
