package anim

import "math"

// cellNoise returns a pseudo-random pair in [-1, 1] that is constant over
// each unit cell of (x, y, z) and differs per salt.
func cellNoise(x, y, z float32, salt uint32) (float32, float32) {
	h := hash4(
		uint32(int32(math.Floor(float64(x)))),
		uint32(int32(math.Floor(float64(y)))),
		uint32(int32(math.Floor(float64(z)))),
		salt,
	)
	a := float32(h&0xffff)/0xffff*2 - 1
	b := float32(h>>16)/0xffff*2 - 1
	return a, b
}

// hash4 mixes four words with the murmur3 finalizer.
func hash4(a, b, c, d uint32) uint32 {
	h := a*0x9e3779b1 ^ b*0x85ebca77 ^ c*0xc2b2ae3d ^ d*0x27d4eb2f
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}
