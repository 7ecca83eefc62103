package simulation

import "math/rand"

// defaultSeed is used when callers pass seed 0, so runs stay reproducible by default.
const defaultSeed int64 = 1

// deriveSeed mixes a run seed and a shard number into an independent 64-bit
// seed with a SplitMix64 finalizer.
func deriveSeed(seed int64, shard uint64) int64 {
	if seed == 0 {
		seed = defaultSeed
	}
	x := uint64(seed) ^ (shard + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// shardRNG returns the deterministic generator of one shard.
// math/rand.Rand is not goroutine-safe; every shard owns its generator.
func shardRNG(seed int64, shard int) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(seed, uint64(shard))))
}
