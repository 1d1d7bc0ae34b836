package layercfg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// treeGen draws small nested mappings over a shared key set so that
// independently drawn trees collide often
func treeGen(depth int) *rapid.Generator[map[string]any] {
	return rapid.Custom(func(t *rapid.T) map[string]any {
		keys := []string{"a", "b", "c", "d"}
		n := rapid.IntRange(0, len(keys)).Draw(t, "size")

		tree := make(map[string]any, n)
		for i := 0; i < n; i++ {
			key := rapid.SampledFrom(keys).Draw(t, "key")
			kind := rapid.IntRange(0, 3).Draw(t, "kind")
			switch {
			case kind == 0:
				tree[key] = rapid.Int64().Draw(t, "int")
			case kind == 1:
				tree[key] = rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "string")
			case kind == 2:
				tree[key] = []any{rapid.Int64().Draw(t, "elem")}
			case depth > 0:
				tree[key] = treeGen(depth-1).Draw(t, "child")
			default:
				tree[key] = rapid.Bool().Draw(t, "bool")
			}
		}
		return tree
	})
}

func TestMerge(t *testing.T) {
	t.Run("NoTreesIsEmptyMapping", func(t *testing.T) {
		assert.Equal(t, map[string]any{}, Merge())
	})

	t.Run("SingleTreeIsIdentity", func(t *testing.T) {
		tree := map[string]any{"a": int64(1)}
		assert.Equal(t, tree, Merge(tree))
		assert.Equal(t, "scalar", Merge("scalar"))
	})

	t.Run("LeftBias", func(t *testing.T) {
		assert.Equal(t, int64(1), Merge(int64(1), int64(2)))
		assert.Equal(t,
			map[string]any{"port": int64(9090)},
			Merge(map[string]any{"port": int64(9090)}, map[string]any{"port": int64(8080)}),
		)
	})

	t.Run("RecursiveUnion", func(t *testing.T) {
		a := map[string]any{"db": map[string]any{"host": "a", "tls": map[string]any{"on": true}}}
		b := map[string]any{"db": map[string]any{"host": "b", "port": int64(5432)}, "log": "info"}

		expected := map[string]any{
			"db": map[string]any{
				"host": "a",
				"port": int64(5432),
				"tls":  map[string]any{"on": true},
			},
			"log": "info",
		}
		assert.Equal(t, expected, Merge(a, b))
	})

	t.Run("TypeMismatchDoesNotCombine", func(t *testing.T) {
		a := map[string]any{"db": "sqlite://local"}
		b := map[string]any{"db": map[string]any{"host": "remote"}}
		assert.Equal(t, map[string]any{"db": "sqlite://local"}, Merge(a, b))

		assert.Equal(t,
			map[string]any{"db": map[string]any{"host": "remote"}},
			Merge(b, a),
		)
	})

	t.Run("SequencesAreNotMerged", func(t *testing.T) {
		a := map[string]any{"hosts": []any{"a"}}
		b := map[string]any{"hosts": []any{"b", "c"}}
		assert.Equal(t, map[string]any{"hosts": []any{"a"}}, Merge(a, b))
	})

	t.Run("ExplicitNilWins", func(t *testing.T) {
		a := map[string]any{"proxy": nil}
		b := map[string]any{"proxy": "http://proxy"}
		assert.Equal(t, map[string]any{"proxy": nil}, Merge(a, b))
	})

	t.Run("FoldsLeftToRight", func(t *testing.T) {
		a := map[string]any{"x": int64(1)}
		b := map[string]any{"x": int64(2), "y": int64(2)}
		c := map[string]any{"x": int64(3), "y": int64(3), "z": int64(3)}

		assert.Equal(t, Merge(Merge(a, b), c), Merge(a, b, c))
		assert.Equal(t, map[string]any{"x": int64(1), "y": int64(2), "z": int64(3)}, Merge(a, b, c))
	})

	t.Run("InputsUntouched", func(t *testing.T) {
		a := map[string]any{"db": map[string]any{"host": "a"}}
		b := map[string]any{"db": map[string]any{"port": int64(1)}}
		Merge(a, b)
		assert.Equal(t, map[string]any{"db": map[string]any{"host": "a"}}, a)
		assert.Equal(t, map[string]any{"db": map[string]any{"port": int64(1)}}, b)
	})
}

func TestMergeProperties(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := treeGen(2).Draw(t, "a")
			assert.Equal(t, a, Merge(a, a))
		})
	})

	t.Run("EmptyMappingIsIdentity", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := treeGen(2).Draw(t, "a")
			assert.Equal(t, a, Merge(a, map[string]any{}))
			assert.Equal(t, a, Merge(map[string]any{}, a))
		})
	})

	t.Run("EarlierValuesSurvive", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := treeGen(2).Draw(t, "a")
			b := treeGen(2).Draw(t, "b")
			merged := Merge(a, b)

			// Every leaf of a is visible unchanged in the result
			for path, v := range flattenMap(a, "") {
				got, ok := Lookup(merged, strings.Split(path, ".")...)
				assert.True(t, ok, "path %s", path)
				if _, isMap := v.(map[string]any); !isMap {
					assert.Equal(t, v, got, "path %s", path)
				}
			}
		})
	})

	t.Run("KeyUnion", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := treeGen(1).Draw(t, "a")
			b := treeGen(1).Draw(t, "b")
			merged := Merge(a, b).(map[string]any)

			for k := range a {
				assert.Contains(t, merged, k)
			}
			for k := range b {
				assert.Contains(t, merged, k)
			}
			assert.LessOrEqual(t, len(merged), len(a)+len(b))
		})
	})

	t.Run("FoldEquivalence", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			a := treeGen(2).Draw(t, "a")
			b := treeGen(2).Draw(t, "b")
			c := treeGen(2).Draw(t, "c")
			assert.Equal(t, Merge(Merge(a, b), c), Merge(a, b, c))
		})
	})
}
