// File: lixenwraith/layercfg/convenience.go
package layercfg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Quick builds a Func with the usual precedence: command-line arguments over
// environment variables over resources. Without resources DefaultResources are
// used. When target is non-nil the resolved tree is scanned into it.
func Quick(target any, envPrefix string, resources ...Resource) (Func, error) {
	b := NewBuilder().WithMiddleware(
		EnvOverlay(envPrefix),
		ArgsOverlay(os.Args[1:]),
		NewCache(),
	)
	if len(resources) > 0 {
		b.WithResources(resources...)
	}

	if target == nil {
		return b.Build()
	}
	return b.BuildAndScan(target)
}

// MustQuick is like Quick but panics on error
func MustQuick(target any, envPrefix string, resources ...Resource) Func {
	cfg, err := Quick(target, envPrefix, resources...)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Dump writes the value at path to w encoded as kind ("toml", "json" or "yaml").
func (f Func) Dump(w io.Writer, kind string, path ...string) error {
	tree, err := f(path...)
	if err != nil {
		return err
	}
	return Dump(w, tree, kind)
}

// Dump encodes tree to w as kind. TOML requires a mapping at the root.
func Dump(w io.Writer, tree any, kind string) error {
	switch normalizeKind(kind) {
	case "toml", "tml":
		root, ok := tree.(map[string]any)
		if !ok {
			return fmt.Errorf("toml output requires a mapping, got %T", tree)
		}
		return toml.NewEncoder(w).Encode(root)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
}
