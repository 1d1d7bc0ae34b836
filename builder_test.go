// FILE: lixenwraith/layercfg/builder_test.go
package layercfg

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuilder tests the builder pattern
func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	local := writeFile(t, tmpDir, "local.toml", "[server]\nport = 9090\n")
	base := writeFile(t, tmpDir, "base.yaml", "server:\n  host: example.com\n  port: 8080\n")

	t.Run("BasicBuilder", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithResources(File(local), File(base)).
			Build()
		require.NoError(t, err)

		port, err := cfg.Int64("server", "port")
		require.NoError(t, err)
		assert.Equal(t, int64(9090), port)

		host, err := cfg.String("server", "host")
		require.NoError(t, err)
		assert.Equal(t, "example.com", host)
	})

	t.Run("DefaultChainIsCache", func(t *testing.T) {
		cfg, err := NewBuilder().WithResources(File(local)).Build()
		require.NoError(t, err)

		c, err := cfg(MiddlewareOptionsKey, CacheOptionKey)
		require.NoError(t, err)
		require.IsType(t, &Cache{}, c)
		assert.Equal(t, 1, c.(*Cache).Len())
	})

	t.Run("CacheServesStaleUntilCleared", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "app.toml", "version = 1\n")
		cfg, err := NewBuilder().WithResources(File(path)).Build()
		require.NoError(t, err)

		writeFile(t, filepath.Dir(path), "app.toml", "version = 2\n")
		v, _ := cfg.Int64("version")
		assert.Equal(t, int64(1), v)

		c, _ := cfg(MiddlewareOptionsKey, CacheOptionKey)
		c.(*Cache).Clear()
		v, _ = cfg.Int64("version")
		assert.Equal(t, int64(2), v)
	})

	t.Run("ExplicitEmptyMiddleware", func(t *testing.T) {
		cfg, err := NewBuilder().WithResources(File(local)).WithMiddleware().Build()
		require.NoError(t, err)

		options, err := cfg(MiddlewareOptionsKey)
		require.NoError(t, err)
		assert.Empty(t, options)
	})

	t.Run("EagerResolutionFails", func(t *testing.T) {
		_, err := NewBuilder().
			WithResources(File(filepath.Join(tmpDir, "missing.toml"))).
			Build()
		assert.ErrorIs(t, err, ErrResourceNotFound)

		bad := writeFile(t, tmpDir, "bad.json", "{")
		_, err = NewBuilder().WithResources(File(bad)).Build()
		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("EmptyResourceList", func(t *testing.T) {
		cfg, err := New(nil)
		require.NoError(t, err)

		tree, err := cfg()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, tree)
	})

	t.Run("CustomFetcher", func(t *testing.T) {
		fetcher := &countingFetcher{content: map[Resource]string{
			Named("virtual.json"): `{"virtual": true}`,
		}}
		cfg, err := NewBuilder().
			WithResources(Named("virtual.json")).
			WithFetcher(fetcher).
			Build()
		require.NoError(t, err)

		v, err := cfg("virtual")
		require.NoError(t, err)
		assert.Equal(t, true, v)

		// Cached after the eager resolution
		_, _ = cfg("virtual")
		assert.Equal(t, int64(1), fetcher.calls.Load())
	})

	t.Run("CustomRegistry", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register("json", ParserFunc(parseJSON)))

		_, err := NewBuilder().
			WithResources(File(local)).
			WithRegistry(registry).
			Build()
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("WithDiscovery", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "service.toml", "name = \"svc\"\n")

		cfg, err := NewBuilder().
			WithResources(Named("service.toml")).
			WithDiscovery(DiscoveryOptions{Paths: []string{dir}}).
			Build()
		require.NoError(t, err)

		name, err := cfg.String("name")
		require.NoError(t, err)
		assert.Equal(t, "svc", name)
	})

	t.Run("WithLocator", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "located.yaml", "ok: true\n")

		cfg, err := NewBuilder().
			WithResources(Named("located.yaml")).
			WithLocator(NewSearchPathLocator(DiscoveryOptions{Paths: []string{dir}})).
			Build()
		require.NoError(t, err)

		ok, err := cfg.Bool("ok")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		cfg, err := NewBuilder().
			WithResources(File(local)).
			WithLogger(captureLogger(&buf)).
			Build()
		require.NoError(t, err)

		_, _ = cfg("server", "nope")
		assert.Contains(t, buf.String(), `"path":"server.nope"`)
	})

	t.Run("WithHTTPClient", func(t *testing.T) {
		var requests atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			fmt.Fprint(w, "remote: true\n")
		}))
		defer server.Close()

		opts := DefaultFetchOptions()
		opts.RetryMax = 0
		cfg, err := NewBuilder().
			WithResources(File(local), URL(server.URL+"/remote.yaml")).
			WithFetchOptions(opts).
			WithHTTPClient(server.Client()).
			Build()
		require.NoError(t, err)

		v, err := cfg.Bool("remote")
		require.NoError(t, err)
		assert.True(t, v)
		assert.Equal(t, int64(1), requests.Load())
	})
}

// TestDefaultResourceSet tests building without explicit resources
func TestDefaultResourceSet(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", "[server]\nport = 7000\n")
	writeFile(t, dir, "config.json", `{"server": {"port": 1, "host": "json-host"}}`)

	t.Run("OptionalDefaultsMerged", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithDiscovery(DiscoveryOptions{Paths: []string{dir}}).
			Build()
		require.NoError(t, err)

		port, _ := cfg.Int64("server", "port")
		host, _ := cfg.String("server", "host")
		assert.Equal(t, int64(7000), port)
		assert.Equal(t, "json-host", host)
	})

	t.Run("NothingFound", func(t *testing.T) {
		cfg, err := NewBuilder().
			WithDiscovery(DiscoveryOptions{Paths: []string{t.TempDir()}}).
			Build()
		require.NoError(t, err)

		tree, err := cfg()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, tree)
	})

	t.Run("ExplicitResourcesBeforeDefaults", func(t *testing.T) {
		override := writeFile(t, t.TempDir(), "override.toml", "[server]\nport = 9999\n")
		cfg, err := NewBuilder().
			WithResources(File(override)).
			WithDefaultResources().
			WithDiscovery(DiscoveryOptions{Paths: []string{dir}}).
			Build()
		require.NoError(t, err)

		port, _ := cfg.Int64("server", "port")
		host, _ := cfg.String("server", "host")
		assert.Equal(t, int64(9999), port)
		assert.Equal(t, "json-host", host)
	})
}

// TestBuilderValidation tests validators and the Must/Scan variants
func TestBuilderValidation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.toml", "[server]\nhost = \"localhost\"\nport = 80\n")

	portCheck := func(cfg Func) error {
		port, err := cfg.Int64("server", "port")
		if err != nil {
			return err
		}
		if port < 1024 {
			return fmt.Errorf("port %d is privileged", port)
		}
		return nil
	}
	hostCheck := func(cfg Func) error {
		host, _ := cfg.String("server", "host")
		if host == "localhost" {
			return errors.New("host must not be localhost")
		}
		return nil
	}

	t.Run("AllFailuresReported", func(t *testing.T) {
		_, err := NewBuilder().
			WithResources(File(path)).
			WithValidator(portCheck).
			WithValidator(nil).
			WithValidator(hostCheck).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.Contains(t, err.Error(), "port 80 is privileged")
		assert.Contains(t, err.Error(), "host must not be localhost")
	})

	t.Run("Passing", func(t *testing.T) {
		_, err := NewBuilder().
			WithResources(File(path)).
			WithValidator(func(cfg Func) error { return nil }).
			Build()
		assert.NoError(t, err)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().WithResources(File(path)).WithValidator(portCheck).MustBuild()
		})
		assert.NotPanics(t, func() {
			NewBuilder().WithResources(File(path)).MustBuild()
		})
	})

	t.Run("BuildAndScan", func(t *testing.T) {
		var target struct {
			Server struct {
				Host string `toml:"host"`
				Port int    `toml:"port"`
			} `toml:"server"`
		}

		cfg, err := NewBuilder().WithResources(File(path)).BuildAndScan(&target)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "localhost", target.Server.Host)
		assert.Equal(t, 80, target.Server.Port)

		_, err = NewBuilder().WithResources(File(path)).BuildAndScan(target)
		assert.Error(t, err)
	})
}

// TestDefaultInstance tests the process-wide instance
func TestDefaultInstance(t *testing.T) {
	t.Cleanup(ResetDefault)

	t.Run("LazyBuildFromWorkingDirectory", func(t *testing.T) {
		ResetDefault()
		dir := t.TempDir()
		writeFile(t, dir, "config.yaml", "source: default\n")

		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(dir))
		t.Cleanup(func() { _ = os.Chdir(wd) })

		first, err := Default()
		require.NoError(t, err)
		second, err := Default()
		require.NoError(t, err)

		v, _ := first.String("source")
		assert.Equal(t, "default", v)

		// Same instance: its cache is shared
		c1, _ := first(MiddlewareOptionsKey, CacheOptionKey)
		c2, _ := second(MiddlewareOptionsKey, CacheOptionKey)
		assert.Same(t, c1, c2)
	})

	t.Run("SetAndReset", func(t *testing.T) {
		replacement := staticFunc(map[string]any{"source": "replaced"}, nil)
		SetDefault(replacement)

		cfg, err := Default()
		require.NoError(t, err)
		v, _ := cfg.String("source")
		assert.Equal(t, "replaced", v)

		ResetDefault()
		cfg, err = Default()
		require.NoError(t, err)
		v, _ = cfg.String("source")
		assert.NotEqual(t, "replaced", v)
	})
}
