// FILE: lixenwraith/layercfg/args.go
package layercfg

import (
	"fmt"
	"strings"
)

// ArgsOverlay returns middleware that overrides leaf values of the resolved
// tree from command-line style arguments: "--server.port 8080",
// "--server.port=8080" or a bare "--debug" for true. Non-flag arguments are
// ignored, as are flags naming paths absent from the resolved tree.
// A malformed key makes every resolution fail.
func ArgsOverlay(args []string) Middleware {
	parsed, parseErr := parseArgs(args)
	flat := flattenMap(parsed, "")

	return MiddlewareFunc(func(next ResolveFunc) ResolveFunc {
		return func(resources []Resource) (any, error) {
			if parseErr != nil {
				return nil, parseErr
			}

			tree, err := next(resources)
			if err != nil {
				return nil, err
			}

			root, ok := tree.(map[string]any)
			if !ok || len(flat) == 0 {
				return tree, nil
			}

			existing := flattenMap(root, "")
			overlay := make(map[string]any)
			for path, value := range flat {
				if _, exists := existing[path]; exists {
					setNestedValue(overlay, path, value)
				}
			}

			if len(overlay) == 0 {
				return tree, nil
			}
			return Merge(overlay, tree), nil
		}
	})
}

// parseArgs processes command-line arguments into a nested map structure.
func parseArgs(args []string) (map[string]any, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// "--" separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		if strings.Contains(argContent, "=") {
			parts := strings.SplitN(argContent, "=", 2)
			keyPath = parts[0]
			valueStr = parts[1]
			i++
		} else {
			keyPath = argContent
			isBoolFlag := i+1 >= len(args) || strings.HasPrefix(args[i+1], "--")

			if isBoolFlag {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		for _, segment := range strings.Split(keyPath, ".") {
			if !isValidKeySegment(segment) {
				return nil, fmt.Errorf("invalid command-line key segment %q in path %q", segment, keyPath)
			}
		}

		setNestedValue(result, keyPath, parseValue(valueStr))
	}

	return result, nil
}
