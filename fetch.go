// FILE: lixenwraith/layercfg/fetch.go
package layercfg

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Fetcher retrieves the raw bytes of a resource.
// Implementations report missing resources with an error wrapping ErrResourceNotFound.
type Fetcher interface {
	Fetch(r Resource) ([]byte, error)
}

// FetchOptions bounds resource retrieval.
type FetchOptions struct {
	// MaxSize caps the bytes read from one resource; <= 0 disables the limit
	MaxSize int64

	// Timeout applies to each URL fetch attempt
	Timeout time.Duration

	// RetryMax is the number of retries after a failed URL fetch attempt
	RetryMax int

	// HTTPClient replaces the underlying client used for URL resources
	HTTPClient *http.Client

	// Logger receives retry diagnostics; nil discards them
	Logger *slog.Logger
}

// DefaultFetchOptions returns the standard fetch limits
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		MaxSize:  DefaultMaxResourceSize,
		Timeout:  DefaultFetchTimeout,
		RetryMax: DefaultRetryMax,
	}
}

// ResourceFetcher is the default Fetcher. It reads files from disk, resolves
// named resources through a Locator and fetches URLs with retries.
type ResourceFetcher struct {
	locator Locator
	client  *retryablehttp.Client
	maxSize int64
}

// NewFetcher creates a ResourceFetcher. A nil locator searches the current directory only.
func NewFetcher(locator Locator, opts FetchOptions) *ResourceFetcher {
	if locator == nil {
		locator = NewSearchPathLocator(DiscoveryOptions{UseCurrentDir: true})
	}

	client := retryablehttp.NewClient()
	client.RetryMax = opts.RetryMax
	client.RetryWaitMin = DefaultRetryWaitMin
	client.RetryWaitMax = DefaultRetryWaitMax
	if opts.HTTPClient != nil {
		client.HTTPClient = opts.HTTPClient
	} else if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	client.Logger = nil
	if opts.Logger != nil {
		client.Logger = opts.Logger
	}

	return &ResourceFetcher{
		locator: locator,
		client:  client,
		maxSize: opts.MaxSize,
	}
}

// Fetch implements Fetcher.
func (f *ResourceFetcher) Fetch(r Resource) ([]byte, error) {
	switch r.Type {
	case ResourceFile:
		return f.readFile(r.Location)
	case ResourceNamed:
		path, err := f.locator.Locate(r.Location)
		if err != nil {
			return nil, err
		}
		return f.readFile(path)
	case ResourceURL:
		return f.fetchURL(r.Location)
	default:
		return nil, fmt.Errorf("unknown resource type %d", r.Type)
	}
}

// readFile reads a regular file, enforcing the size limit
func (f *ResourceFetcher) readFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, cleanPath)
		}
		return nil, fmt.Errorf("failed to stat file '%s': %w", cleanPath, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}
	if f.maxSize > 0 && info.Size() > f.maxSize {
		return nil, fmt.Errorf("file '%s' (%d bytes): %w (%d bytes)", cleanPath, info.Size(), ErrResourceTooLarge, f.maxSize)
	}

	file, err := os.Open(cleanPath) // #nosec G304 -- reading caller-named config is the point
	if err != nil {
		return nil, fmt.Errorf("failed to open file '%s': %w", cleanPath, err)
	}
	defer file.Close()

	return f.readLimited(file, cleanPath)
}

func (f *ResourceFetcher) fetchURL(rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	switch u.Scheme {
	case "file":
		return f.readFile(u.Path)
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported url scheme %q in %s", u.Scheme, rawURL)
	}

	req, err := retryablehttp.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: %s (status %d)", ErrResourceNotFound, rawURL, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	if f.maxSize > 0 && resp.ContentLength > f.maxSize {
		return nil, fmt.Errorf("url %s (%d bytes): %w (%d bytes)", rawURL, resp.ContentLength, ErrResourceTooLarge, f.maxSize)
	}

	return f.readLimited(resp.Body, rawURL)
}

// readLimited reads at most maxSize bytes and fails if more are available
func (f *ResourceFetcher) readLimited(r io.Reader, name string) ([]byte, error) {
	if f.maxSize <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read '%s': %w", name, err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", name, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("'%s': %w (%d bytes)", name, ErrResourceTooLarge, f.maxSize)
	}
	return data, nil
}
