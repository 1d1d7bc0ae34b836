package layercfg

// Merge folds trees left to right into one tree. Earlier trees take precedence:
// where both sides hold a mapping the keys are unioned and shared keys merged
// recursively; any other pairing keeps the earlier value as-is, so sequences
// and mismatched types never combine. Merge() is an empty mapping and
// Merge(t) is t. Inputs are never modified.
func Merge(trees ...any) any {
	if len(trees) == 0 {
		return map[string]any{}
	}

	result := trees[0]
	for _, next := range trees[1:] {
		result = mergePair(result, next)
	}
	return result
}

// mergePair merges lower under higher.
func mergePair(higher, lower any) any {
	hm, hok := higher.(map[string]any)
	lm, lok := lower.(map[string]any)
	if !hok || !lok {
		return higher
	}

	out := make(map[string]any, len(hm)+len(lm))
	for k, v := range lm {
		out[k] = v
	}
	for k, v := range hm {
		if lv, exists := lm[k]; exists {
			out[k] = mergePair(v, lv)
		} else {
			out[k] = v
		}
	}
	return out
}
