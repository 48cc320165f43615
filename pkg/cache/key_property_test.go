package cache

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_KeyIgnoresInsertionOrder checks that two maps holding the
// same entries hash to the same cache key no matter which order the
// entries were inserted in.
func TestProperty_KeyIgnoresInsertionOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("same entries, any insertion order, same key", prop.ForAll(
		func(keys []string, values []int) bool {
			n := len(keys)
			if len(values) < n {
				n = len(values)
			}

			forward := make(map[string]any, n)
			for i := 0; i < n; i++ {
				forward[keys[i]] = values[i]
			}
			reversed := make(map[string]any, n)
			for i := n - 1; i >= 0; i-- {
				reversed[keys[i]] = values[i]
			}

			keyA, errA := Key(forward)
			keyB, errB := Key(reversed)
			return errA == nil && errB == nil && keyA == keyB
		},
		gen.SliceOf(gen.Identifier()),
		gen.SliceOf(gen.Int()),
	))

	properties.Property("distinct scalar values yield distinct keys", prop.ForAll(
		func(a, b int) bool {
			keyA, errA := Key(map[string]any{"v": a})
			keyB, errB := Key(map[string]any{"v": b})
			if errA != nil || errB != nil {
				return false
			}
			if a == b {
				return keyA == keyB
			}
			return keyA != keyB
		},
		gen.Int(),
		gen.Int(),
	))

	properties.TestingRun(t)
}
