package layercfg

// Override returns a Func that sees value at path instead of whatever f holds
// there. Lookups on, above or below path are answered from f's tree with the
// substitution applied; every other lookup goes straight to f. f is untouched,
// so dropping the wrapper restores its behaviour. Overrides nest: the outermost
// one wins when two target the same path.
//
// Meant for tests:
//
//	cfg = layercfg.Override(cfg, []string{"db", "password"}, "swordfish")
func Override(f Func, path []string, value any) Func {
	target := append([]string(nil), path...)
	value = cloneTree(value)

	return overlay(f, target, func(any) any {
		return value
	})
}

// OverrideMerge is like Override but deep-merges partial over the value at path,
// so keys of the original mapping not named in partial are preserved.
func OverrideMerge(f Func, path []string, partial map[string]any) Func {
	target := append([]string(nil), path...)
	overlayTree := cloneTree(map[string]any(partial))

	return overlay(f, target, func(base any) any {
		return Merge(overlayTree, base)
	})
}

func overlay(f Func, target []string, substitute func(base any) any) Func {
	return func(path ...string) (any, error) {
		if len(path) > 0 && path[0] == MiddlewareOptionsKey {
			return f(path...)
		}
		if !isPrefix(path, target) && !isPrefix(target, path) {
			return f(path...)
		}

		tree, err := f()
		if err != nil {
			return nil, err
		}

		base, _ := Lookup(tree, target...)
		view := setIn(tree, target, substitute(base))

		value, ok := Lookup(view, path...)
		if !ok {
			warnUnknownKey(loggerOf(f), path)
			return nil, nil
		}
		return cloneTree(value), nil
	}
}
