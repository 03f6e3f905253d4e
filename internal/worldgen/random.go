package worldgen

import (
	"hash/fnv"
	"math/rand"
)

// DefaultSeed is used when the config leaves the world seed blank.
const DefaultSeed = "crownridge"

// DeterministicSeedValue folds a root seed string and a label into an int64
// source value so layout and roster generation draw from independent streams.
func DeterministicSeedValue(rootSeed, label string) int64 {
	hasher := fnv.New64a()
	hasher.Write([]byte(rootSeed))
	hasher.Write([]byte{0})
	hasher.Write([]byte(label))
	sum := hasher.Sum64()
	if sum == 0 {
		sum = 1
	}
	return int64(sum)
}

// NewDeterministicRNG returns a rand stream keyed on (rootSeed, label).
func NewDeterministicRNG(rootSeed, label string) *rand.Rand {
	return rand.New(rand.NewSource(DeterministicSeedValue(rootSeed, label)))
}
