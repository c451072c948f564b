// Package entropy provides the two random roles the generator needs:
// an unseeded variance source for per-NPC stat spread, and deterministic
// seed derivation for reproducible weighted choice and naming.
//
// The digest used for seed derivation is not a security primitive; it is
// only a stable way to turn caller context strings into PRNG seeds.
package entropy

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// Variance yields uniform floats in [0, 1) for budget sampling. It is
// deliberately not derived from caller seeds: NPC-to-NPC stat spread is
// meant to vary between calls.
type Variance interface {
	Float64() float64
}

// lockedVariance guards a rand.Rand so concurrent generation calls can
// share one source.
type lockedVariance struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewVariance creates a time-seeded variance source.
func NewVariance() Variance {
	return &lockedVariance{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededVariance creates a variance source from a fixed seed, for
// tests and reproducible batch runs.
func NewSeededVariance(seed int64) Variance {
	return &lockedVariance{rng: rand.New(rand.NewSource(seed))}
}

func (v *lockedVariance) Float64() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rng.Float64()
}

// Seeded derives a fresh PRNG from a context string. Identical strings
// always yield identical streams, so callers get reproducible picks
// without sharing RNG state.
func Seeded(seed string) *rand.Rand {
	sum := sha256.Sum256([]byte(seed))
	n := int64(binary.BigEndian.Uint64(sum[:8]))
	return rand.New(rand.NewSource(n))
}
