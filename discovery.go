// FILE: lixenwraith/layercfg/discovery.go
package layercfg

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Locator resolves a named resource to a filesystem path.
type Locator interface {
	Locate(name string) (string, error)
}

// DiscoveryOptions configures the search path used for named resources
type DiscoveryOptions struct {
	// Custom search paths, searched first and in order
	Paths []string

	// Environment variable holding an OS path list prepended to the search path
	EnvVar string

	// Whether to search in current directory
	UseCurrentDir bool

	// AppName enables XDG config directories ($XDG_CONFIG_HOME/<app>, ...) when set
	AppName string
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	opts := DiscoveryOptions{
		UseCurrentDir: true,
		AppName:       appName,
	}
	if appName != "" {
		opts.EnvVar = strings.ToUpper(strings.ReplaceAll(appName, "-", "_")) + "_CONFIG_PATH"
	}
	return opts
}

// SearchPathLocator finds named resources by probing an ordered list of directories.
// The first directory containing the name wins.
type SearchPathLocator struct {
	dirs []string
}

// NewSearchPathLocator builds the directory list from opts once, at construction time.
func NewSearchPathLocator(opts DiscoveryOptions) *SearchPathLocator {
	var dirs []string

	// Env-provided paths first (highest priority)
	if opts.EnvVar != "" {
		if list := os.Getenv(opts.EnvVar); list != "" {
			dirs = append(dirs, filepath.SplitList(list)...)
		}
	}

	dirs = append(dirs, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}

	if opts.AppName != "" {
		dirs = append(dirs, getXDGConfigPaths(opts.AppName)...)
	}

	return &SearchPathLocator{dirs: dirs}
}

// Dirs returns the search path in probe order.
func (l *SearchPathLocator) Dirs() []string {
	out := make([]string, len(l.dirs))
	copy(out, l.dirs)
	return out
}

// Locate returns the first existing regular file named name on the search path.
// Absolute names are checked directly.
func (l *SearchPathLocator) Locate(name string) (string, error) {
	if filepath.IsAbs(name) {
		if isRegularFile(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrResourceNotFound, name)
	}

	for _, dir := range l.dirs {
		candidate := filepath.Join(dir, name)
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s not found in %d search path(s)", ErrResourceNotFound, name, len(l.dirs))
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}

// DefaultResourceNames is the conventional resource set, highest precedence first.
var DefaultResourceNames = []string{"config.toml", "config.yaml", "config.json"}

// DefaultResources returns DefaultResourceNames as optional named resources.
func DefaultResources() []Resource {
	resources := make([]Resource, 0, len(DefaultResourceNames))
	for _, name := range DefaultResourceNames {
		resources = append(resources, Named(name).AsOptional())
	}
	return resources
}
