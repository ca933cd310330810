package hashtab

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// HashFunc computes a seeded 32-bit hash of name. Implementations must
// spread arbitrary byte strings uniformly and change their output with
// the seed.
type HashFunc func(name string, seed uint32) uint32

// XXH3 hashes name with xxh3 keyed by seed. It is the default HashFunc.
func XXH3(name string, seed uint32) uint32 {
	return fold(xxh3.HashStringSeed(name, uint64(seed)))
}

// XXHash hashes name with xxHash64 keyed by seed.
func XXHash(name string, seed uint32) uint32 {
	d := xxhash.NewWithSeed(uint64(seed))
	_, _ = d.WriteString(name)
	return fold(d.Sum64())
}

// fold mixes the upper half of a 64-bit hash into the lower 32 bits so
// that both halves contribute to the bucket index.
func fold(h uint64) uint32 {
	return uint32(h ^ (h >> 32))
}

// randomSeed draws the per-table seed.
func randomSeed() uint32 {
	return rand.Uint32()
}
