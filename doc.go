// File: lixenwraith/layercfg/doc.go

// Package layercfg resolves application configuration from layered resources:
// files, named resources found on a search path, and URLs. Resources are
// parsed by kind (toml, json and yaml built in), deep-merged with the first
// resource winning, and exposed as a Func that looks values up by key path.
//
// Quick Start:
//
//	cfg, err := layercfg.NewBuilder().
//	    WithResources(
//	        layercfg.File("local.toml").AsOptional(),
//	        layercfg.Named("config.yaml"),
//	    ).
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	port, _ := cfg.Int64("server", "port")
//	tree, _ := cfg() // whole tree
//
// Merge rules (earlier resource first):
//  1. Mapping vs mapping: union of keys, shared keys merged recursively
//  2. Anything else: the earlier value wins outright (sequences are not merged)
//
// Middleware:
// Resolution runs through a middleware chain. Without WithMiddleware the chain
// is a single cache, so repeated lookups do not reload resources. Other
// middleware: Eval for "#eval " expressions, EnvOverlay, ArgsOverlay and
// Logging. Middleware state is reachable through the reserved path:
//
//	c, _ := cfg(layercfg.MiddlewareOptionsKey, layercfg.CacheOptionKey)
//	c.(*layercfg.Cache).Clear()
//
// Overrides:
// Override and OverrideMerge wrap a Func for tests, substituting a value or a
// partial mapping at a path without touching the wrapped Func.
//
// Unknown keys are not errors: the Func returns nil and logs a warning.
// There is no file watching; clear the cache to force a reload.
package layercfg
