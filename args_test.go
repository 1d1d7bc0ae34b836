package layercfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	t.Run("Formats", func(t *testing.T) {
		result, err := parseArgs([]string{
			"positional",
			"--server.port", "9090",
			"--server.host=example.com",
			"--debug",
			"--",
			"--ratio=0.25",
			"--name=a=b",
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"server": map[string]any{"port": int64(9090), "host": "example.com"},
			"debug":  true,
			"ratio":  0.25,
			"name":   "a=b",
		}, result)
	})

	t.Run("TrailingBoolFlag", func(t *testing.T) {
		result, err := parseArgs([]string{"--verbose", "--quiet"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"verbose": true, "quiet": true}, result)
	})

	t.Run("SingleDashIgnored", func(t *testing.T) {
		result, err := parseArgs([]string{"-test.v=true", "-v"})
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("InvalidSegment", func(t *testing.T) {
		_, err := parseArgs([]string{"--server..port=1"})
		assert.ErrorContains(t, err, "invalid command-line key segment")

		_, err = parseArgs([]string{"--bad key=1"})
		assert.Error(t, err)
	})
}

func TestArgsOverlay(t *testing.T) {
	base := func([]Resource) (any, error) {
		return map[string]any{
			"server": map[string]any{"port": int64(8080), "host": "localhost"},
			"debug":  false,
		}, nil
	}

	t.Run("ExistingPathsOnly", func(t *testing.T) {
		resolve, _ := Compose(base, ArgsOverlay([]string{"--server.port=9090", "--debug", "--extra=1"}))
		tree, err := resolve(nil)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"server": map[string]any{"port": int64(9090), "host": "localhost"},
			"debug":  true,
		}, tree)
	})

	t.Run("ArgsOverEnv", func(t *testing.T) {
		env := EnvOverlayWithOptions(EnvOptions{
			LookupEnv: func(key string) (string, bool) {
				if key == "SERVER_PORT" {
					return "7070", true
				}
				return "", false
			},
		})

		resolve, _ := Compose(base, env, ArgsOverlay([]string{"--server.port", "9090"}))
		cfg := newFunc(resolve, nil, nil, nil)
		port, _ := cfg.Int64("server", "port")
		assert.Equal(t, int64(9090), port)

		resolve, _ = Compose(base, env, ArgsOverlay(nil))
		cfg = newFunc(resolve, nil, nil, nil)
		port, _ = cfg.Int64("server", "port")
		assert.Equal(t, int64(7070), port)
	})

	t.Run("NumericZeroStaysInteger", func(t *testing.T) {
		workers := func([]Resource) (any, error) {
			return map[string]any{"server": map[string]any{"workers": int64(8)}}, nil
		}
		resolve, _ := Compose(workers, ArgsOverlay([]string{"--server.workers", "0"}))
		tree, err := resolve(nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), tree.(map[string]any)["server"].(map[string]any)["workers"])
	})

	t.Run("ParseErrorOnEveryResolution", func(t *testing.T) {
		calls := 0
		counted := func(rs []Resource) (any, error) {
			calls++
			return base(rs)
		}

		resolve, _ := Compose(counted, ArgsOverlay([]string{"--a..b=1"}))
		for i := 0; i < 2; i++ {
			_, err := resolve(nil)
			assert.ErrorContains(t, err, "invalid command-line key segment")
		}
		assert.Equal(t, 0, calls)
	})
}
