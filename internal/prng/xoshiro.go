// Package prng provides the seeded random stream used by the runner.
package prng

import "math/bits"

// Xoshiro is a xoshiro256** generator. It implements math/rand/v2.Source.
// The zero value is not usable; call New.
type Xoshiro struct {
	s [4]uint64
}

// New returns a generator whose state is expanded from seed with splitmix64.
func New(seed uint64) *Xoshiro {
	x := &Xoshiro{}
	x.Seed(seed)
	return x
}

// Seed resets the generator to the stream for seed.
func (x *Xoshiro) Seed(seed uint64) {
	for i := range x.s {
		seed += 0x9e3779b97f4a7c15
		z := seed
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		x.s[i] = z ^ (z >> 31)
	}
}

func (x *Xoshiro) Uint64() uint64 {
	s := &x.s
	result := bits.RotateLeft64(s[1]*5, 7) * 9
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)
	return result
}
