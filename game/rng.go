package game

// Deterministic RNG used by bot brains. Seeds come from FNV-1a hashes of
// string keys so that a room created with the same seed string replays the
// same decision jitter. The LCG must stay bit-exact across platforms: all
// arithmetic wraps at 32 bits.

// fnv1a32 hashes s with 32-bit FNV-1a.
func fnv1a32(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// Rand is a 32-bit linear congruential generator.
type Rand struct {
	state uint32
}

// NewRand seeds a stream from an arbitrary string key.
func NewRand(key string) *Rand {
	return &Rand{state: fnv1a32(key)}
}

// NewRandSeed seeds a stream from a raw 32-bit seed.
func NewRandSeed(seed uint32) *Rand {
	return &Rand{state: seed}
}

// Next advances the stream and returns the raw 32-bit state.
func (r *Rand) Next() uint32 {
	r.state = r.state*1664525 + 1013904223
	return r.state
}

// Float returns the next value in [0, 1).
func (r *Rand) Float() float64 {
	return float64(r.Next()) / 4294967296.0
}

// Intn returns the next value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.Next() % uint32(n))
}

// Derive produces an independent sub-stream keyed by the current state and a
// string, so per-bot streams stay decoupled from the room stream.
func (r *Rand) Derive(key string) *Rand {
	return &Rand{state: r.Next() ^ fnv1a32(key)}
}
