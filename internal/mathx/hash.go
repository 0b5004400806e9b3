package mathx

// Hash32 mixes 32-bit input into a well-distributed 32-bit output.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash3 returns a stable hash for a 3D cell coordinate and seed.
func Hash3(seed uint32, p Vec3) uint32 {
	h := seed
	h ^= uint32(int32(p.X)) * 0x9e3779b1
	h ^= uint32(int32(p.Y)) * 0x85ebca6b
	h ^= uint32(int32(p.Z)) * 0xc2b2ae35
	return Hash32(h)
}
