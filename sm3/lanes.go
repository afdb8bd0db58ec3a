package sm3

// vec4 holds four 32-bit lanes packed two per 64-bit word. Lane 0 is the high
// half of v[0], lane 1 its low half, lanes 2 and 3 likewise in v[1]. Lane-wise
// operations work on both halves of a word at once.
type vec4 [2]uint64

// laneRepeat copies a 32-bit pattern into both halves of a 64-bit word.
const laneRepeat = 0x0000000100000001

func load4(w []uint32) vec4 {
	_ = w[3]
	return vec4{
		uint64(w[0])<<32 | uint64(w[1]),
		uint64(w[2])<<32 | uint64(w[3]),
	}
}

// load3 is load4 with lane 3 set to zero.
func load3(w []uint32) vec4 {
	_ = w[2]
	return vec4{
		uint64(w[0])<<32 | uint64(w[1]),
		uint64(w[2]) << 32,
	}
}

func (v vec4) store(w []uint32) {
	_ = w[3]
	w[0] = uint32(v[0] >> 32)
	w[1] = uint32(v[0])
	w[2] = uint32(v[1] >> 32)
	w[3] = uint32(v[1])
}

func (v vec4) xor(u vec4) vec4 {
	return vec4{v[0] ^ u[0], v[1] ^ u[1]}
}

// rotl rotates every lane left by n bits, 0 < n < 32. Bits shifted across a
// lane boundary are masked off and brought back from the lane's own top bits.
func (v vec4) rotl(n uint) vec4 {
	hi := uint64(^uint32(0)<<n) * laneRepeat
	lo := uint64(^uint32(0)>>(32-n)) * laneRepeat
	return vec4{
		(v[0]<<n)&hi | (v[0]>>(32-n))&lo,
		(v[1]<<n)&hi | (v[1]>>(32-n))&lo,
	}
}

// p1 is the message expansion permutation applied to every lane.
func (v vec4) p1() vec4 {
	return v.xor(v.rotl(15)).xor(v.rotl(23))
}
