package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/lixenwraith/layercfg"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand
type rootOptions struct {
	resources   []string
	searchPaths []string
	envPrefix   string
	eval        bool
	verbose     bool
}

func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "layercfg",
		Short: "Resolve and inspect layered configuration",
		Long: `layercfg loads configuration resources, merges them with the first
resource winning, and prints values from the merged tree.

Resources are given with -r, highest precedence first:
  layercfg get server.port -r local.toml -r named:config.yaml
  layercfg dump --format json -r https://config.internal/app.json

Without -r the optional named resources config.toml, config.yaml and
config.json are searched in the current directory and --search-path.`,
		Version:      version,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringArrayVarP(&opts.resources, "resource", "r", nil, "resource to load: path, file:path, named:name or an http(s) URL; append ? to make it optional")
	flags.StringArrayVar(&opts.searchPaths, "search-path", nil, "directory searched for named resources")
	flags.StringVar(&opts.envPrefix, "env-prefix", "", "overlay environment variables with this prefix onto existing keys")
	flags.BoolVar(&opts.eval, "eval", false, "evaluate \"#eval \" values (only for trusted resources)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log resolution details to stderr")

	rootCmd.AddCommand(newGetCommand(opts))
	rootCmd.AddCommand(newDumpCommand(opts))
	rootCmd.AddCommand(newKindsCommand())

	return rootCmd
}

// buildConfig turns the shared flags into a resolved configuration
func buildConfig(cmd *cobra.Command, opts *rootOptions) (layercfg.Func, error) {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	b := layercfg.NewBuilder().WithLogger(logger)

	if len(opts.resources) > 0 {
		resources := make([]layercfg.Resource, 0, len(opts.resources))
		for _, arg := range opts.resources {
			r, err := parseResource(arg)
			if err != nil {
				return nil, err
			}
			resources = append(resources, r)
		}
		b.WithResources(resources...)
	}

	if len(opts.searchPaths) > 0 {
		b.WithDiscovery(layercfg.DiscoveryOptions{
			Paths:         opts.searchPaths,
			UseCurrentDir: true,
		})
	}

	// One-shot process, nothing to cache
	var mws []layercfg.Middleware
	if opts.eval {
		mws = append(mws, layercfg.Eval(layercfg.NewExprEvaluator(nil)))
	}
	if opts.envPrefix != "" {
		mws = append(mws, layercfg.EnvOverlay(opts.envPrefix))
	}
	if opts.verbose {
		mws = append(mws, layercfg.Logging(logger))
	}
	b.WithMiddleware(mws...)

	return b.Build()
}

// parseResource reads a -r flag value
func parseResource(arg string) (layercfg.Resource, error) {
	optional := strings.HasSuffix(arg, "?")
	arg = strings.TrimSuffix(arg, "?")

	var r layercfg.Resource
	switch {
	case arg == "":
		return r, fmt.Errorf("empty resource")
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"), strings.HasPrefix(arg, "file://"):
		r = layercfg.URL(arg)
	case strings.HasPrefix(arg, "named:"):
		r = layercfg.Named(strings.TrimPrefix(arg, "named:"))
	case strings.HasPrefix(arg, "file:"):
		r = layercfg.File(strings.TrimPrefix(arg, "file:"))
	default:
		r = layercfg.File(arg)
	}

	if r.Location == "" {
		return r, fmt.Errorf("resource %q has no location", arg)
	}
	if optional {
		r = r.AsOptional()
	}
	return r, nil
}

// splitPath turns "server.port" into a lookup path; "" and "." mean the root
func splitPath(key string) []string {
	key = strings.Trim(key, ".")
	if key == "" {
		return nil
	}
	return strings.Split(key, ".")
}
