// Package naming provides the deterministic choice utilities used by
// social NPC creation: seeded weighted selection and procedural,
// culture-aware name generation. Identical seeds always reproduce
// identical results, which is what keeps regenerated world content
// stable across sessions.
package naming

import (
	"math"
	"sort"

	"github.com/kaelwren/npcforge/internal/entropy"
)

// WeightedPick deterministically selects a key from a weight map.
// Non-positive and non-finite weights are excluded. Returns false when
// no valid entries remain. Candidates are walked in sorted key order so
// map iteration order never leaks into the result.
func WeightedPick(weights map[string]float64, seed string) (string, bool) {
	keys := make([]string, 0, len(weights))
	total := 0.0
	for k, w := range weights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		keys = append(keys, k)
		total += w
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)

	r := entropy.Seeded(seed).Float64() * total
	cumulative := 0.0
	for _, k := range keys {
		cumulative += weights[k]
		if r < cumulative {
			return k, true
		}
	}
	return keys[len(keys)-1], true
}
