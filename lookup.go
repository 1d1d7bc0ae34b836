package layercfg

// Lookup walks tree one key at a time through nested mappings.
// An empty path returns tree itself. A missing key, or a non-mapping met
// before the path is exhausted, reports false.
func Lookup(tree any, path ...string) (any, bool) {
	current := tree
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
