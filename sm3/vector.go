package sm3

import (
	"encoding/binary"
	"math/bits"
)

// schedule is the expanded message for one block: 68 words W and 64 words W'.
type schedule struct {
	w  [68]uint32
	wp [64]uint32
}

// rotT[j] is T_j rotated left by j mod 32, the constant added in round j.
var rotT [64]uint32

func init() {
	for j := range rotT {
		rotT[j] = bits.RotateLeft32(tj(j), j%32)
	}
}

// Vector is the optimized SM3 engine. Message expansion runs on packed lanes
// four words per step and the compression loop is unrolled four rounds per
// iteration.
type Vector struct{}

// Name returns "vector".
func (Vector) Name() string { return "vector" }

// Sum returns the SM3 digest of data. Full blocks are compressed in place;
// only the final partial block is copied.
func (Vector) Sum(data []byte) [Size]byte {
	v := iv
	var s schedule

	full := len(data) &^ (BlockSize - 1)
	for i := 0; i < full; i += BlockSize {
		compressVector(&v, &s, data[i:i+BlockSize])
	}

	buf, n := finalBlocks(data[full:], uint64(len(data)))
	for i := 0; i < n; i += BlockSize {
		compressVector(&v, &s, buf[i:i+BlockSize])
	}

	var digest [Size]byte
	for i, w := range v {
		binary.BigEndian.PutUint32(digest[4*i:], w)
	}
	return digest
}

// finalBlocks pads tail, the trailing len(data) mod 64 bytes of a message of
// total bytes, and returns the padded buffer and the number of bytes in use:
// one block, or two when fewer than 9 bytes remain after the tail.
func finalBlocks(tail []byte, total uint64) (buf [2 * BlockSize]byte, n int) {
	copy(buf[:], tail)
	buf[len(tail)] = 0x80
	n = BlockSize
	if len(tail)+1 > BlockSize-8 {
		n += BlockSize
	}
	binary.BigEndian.PutUint64(buf[n-8:n], total<<3)
	return buf, n
}

// expandVector computes the message schedule of one block four words at a time.
//
// In step j the lane for W[j+3] needs rotl(W[j], 15), which the same step
// produces. That lane is computed with the term zeroed and then corrected:
// P1 is linear over XOR, so the missing contribution is P1(rotl(W[j], 15)).
func expandVector(s *schedule, block []byte) {
	for j := 0; j < 16; j++ {
		s.w[j] = binary.BigEndian.Uint32(block[4*j:])
	}

	w := s.w[:]
	for j := 16; j < 68; j += 4 {
		x := load4(w[j-16:]).xor(load4(w[j-9:])).xor(load3(w[j-3:]).rotl(15))
		x = x.p1().xor(load4(w[j-13:]).rotl(7)).xor(load4(w[j-6:]))
		x.store(w[j:])
		w[j+3] ^= p1(bits.RotateLeft32(w[j], 15))
	}

	for j := 0; j < 64; j += 4 {
		load4(w[j:]).xor(load4(w[j+4:])).store(s.wp[j:])
	}
}

// round0 and round1 perform one compression round with the register rotation
// folded into argument order. Only B, D, F and H change in place: B and F are
// rotated, D receives TT1 and H receives P0(TT2). The caller renames the
// registers for the next round so that D is read as A, A as B, and so on.
func round0(a, b, c, d, e, f, g, h, w, wp, t uint32) (uint32, uint32, uint32, uint32) {
	a12 := bits.RotateLeft32(a, 12)
	ss1 := bits.RotateLeft32(a12+e+t, 7)
	ss2 := ss1 ^ a12
	tt1 := (a ^ b ^ c) + d + ss2 + wp
	tt2 := (e ^ f ^ g) + h + ss1 + w
	return bits.RotateLeft32(b, 9), tt1, bits.RotateLeft32(f, 19), p0(tt2)
}

func round1(a, b, c, d, e, f, g, h, w, wp, t uint32) (uint32, uint32, uint32, uint32) {
	a12 := bits.RotateLeft32(a, 12)
	ss1 := bits.RotateLeft32(a12+e+t, 7)
	ss2 := ss1 ^ a12
	tt1 := ((a & b) | (a & c) | (b & c)) + d + ss2 + wp
	tt2 := ((e & f) | (^e & g)) + h + ss1 + w
	return bits.RotateLeft32(b, 9), tt1, bits.RotateLeft32(f, 19), p0(tt2)
}

// compressVector folds one 64-byte block into v, reusing s as scratch.
func compressVector(v *[8]uint32, s *schedule, block []byte) {
	expandVector(s, block)

	a, b, c, d, e, f, g, h := v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7]
	w, wp := &s.w, &s.wp

	for j := 0; j < 16; j += 4 {
		b, d, f, h = round0(a, b, c, d, e, f, g, h, w[j], wp[j], rotT[j])
		a, c, e, g = round0(d, a, b, c, h, e, f, g, w[j+1], wp[j+1], rotT[j+1])
		d, b, h, f = round0(c, d, a, b, g, h, e, f, w[j+2], wp[j+2], rotT[j+2])
		c, a, g, e = round0(b, c, d, a, f, g, h, e, w[j+3], wp[j+3], rotT[j+3])
	}
	for j := 16; j < 64; j += 4 {
		b, d, f, h = round1(a, b, c, d, e, f, g, h, w[j], wp[j], rotT[j])
		a, c, e, g = round1(d, a, b, c, h, e, f, g, w[j+1], wp[j+1], rotT[j+1])
		d, b, h, f = round1(c, d, a, b, g, h, e, f, w[j+2], wp[j+2], rotT[j+2])
		c, a, g, e = round1(b, c, d, a, f, g, h, e, w[j+3], wp[j+3], rotT[j+3])
	}

	v[0] ^= a
	v[1] ^= b
	v[2] ^= c
	v[3] ^= d
	v[4] ^= e
	v[5] ^= f
	v[6] ^= g
	v[7] ^= h
}
