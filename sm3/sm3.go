// Package sm3 implements the SM3 cryptographic hash function (GB/T 32905-2016).
//
// SM3 is a Merkle–Damgård hash with 512-bit blocks and a 256-bit digest. Two
// engines are provided: Reference, which follows the standard's text word by
// word, and Vector, which expands the message schedule four words at a time
// in packed lanes and unrolls the compression loop. Both produce identical
// digests for every input.
//
// This package offers one-shot hashing only.
package sm3

import (
	"encoding/binary"
	"math/bits"
)

const (
	// Size is the size of an SM3 digest in bytes.
	Size = 32
	// BlockSize is the size of an SM3 message block in bytes.
	BlockSize = 64
)

// iv is the initial hash state.
var iv = [8]uint32{
	0x7380166f, 0x4914b2b9, 0x172442d7, 0xda8a0600,
	0xa96f30bc, 0x163138aa, 0xe38dee4d, 0xb0fb0e4e,
}

// Round constants T_j before rotation.
const (
	t0 = 0x79cc4519 // rounds 0-15
	t1 = 0x7a879d8a // rounds 16-63
)

// Hasher is implemented by every SM3 engine in this package.
type Hasher interface {
	// Sum returns the SM3 digest of data.
	Sum(data []byte) [Size]byte
	// Name identifies the engine.
	Name() string
}

var (
	_ Hasher = Reference{}
	_ Hasher = Vector{}
)

// Sum returns the SM3 digest of data using the vectorized engine.
func Sum(data []byte) [Size]byte {
	return Vector{}.Sum(data)
}

// pad returns msg followed by the SM3 padding: a 0x80 marker, zero fill and
// the 64-bit big-endian bit length, for a total length that is a multiple of
// BlockSize.
func pad(msg []byte) []byte {
	n := len(msg) + 1 + 8
	if r := n % BlockSize; r != 0 {
		n += BlockSize - r
	}
	out := make([]byte, n)
	copy(out, msg)
	out[len(msg)] = 0x80
	binary.BigEndian.PutUint64(out[n-8:], uint64(len(msg))<<3)
	return out
}

// Reference is the literal SM3 engine and the oracle for Vector.
type Reference struct{}

// Name returns "reference".
func (Reference) Name() string { return "reference" }

// Sum returns the SM3 digest of data.
func (Reference) Sum(data []byte) [Size]byte {
	v := iv
	padded := pad(data)
	for i := 0; i < len(padded); i += BlockSize {
		compressReference(&v, padded[i:i+BlockSize])
	}

	var digest [Size]byte
	for i, s := range v {
		binary.BigEndian.PutUint32(digest[4*i:], s)
	}
	return digest
}

func p0(x uint32) uint32 { return x ^ bits.RotateLeft32(x, 9) ^ bits.RotateLeft32(x, 17) }

func p1(x uint32) uint32 { return x ^ bits.RotateLeft32(x, 15) ^ bits.RotateLeft32(x, 23) }

func ff(j int, x, y, z uint32) uint32 {
	if j < 16 {
		return x ^ y ^ z
	}
	return (x & y) | (x & z) | (y & z)
}

func gg(j int, x, y, z uint32) uint32 {
	if j < 16 {
		return x ^ y ^ z
	}
	return (x & y) | (^x & z)
}

func tj(j int) uint32 {
	if j < 16 {
		return t0
	}
	return t1
}

// expandReference computes the message schedule of one block one word at a time.
func expandReference(s *schedule, block []byte) {
	for j := 0; j < 16; j++ {
		s.w[j] = binary.BigEndian.Uint32(block[4*j:])
	}
	for j := 16; j < 68; j++ {
		s.w[j] = p1(s.w[j-16]^s.w[j-9]^bits.RotateLeft32(s.w[j-3], 15)) ^ bits.RotateLeft32(s.w[j-13], 7) ^ s.w[j-6]
	}
	for j := 0; j < 64; j++ {
		s.wp[j] = s.w[j] ^ s.w[j+4]
	}
}

// compressReference folds one 64-byte block into v.
func compressReference(v *[8]uint32, block []byte) {
	var s schedule
	expandReference(&s, block)

	a, b, c, d, e, f, g, h := v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7]
	for j := 0; j < 64; j++ {
		ss1 := bits.RotateLeft32(bits.RotateLeft32(a, 12)+e+bits.RotateLeft32(tj(j), j%32), 7)
		ss2 := ss1 ^ bits.RotateLeft32(a, 12)
		tt1 := ff(j, a, b, c) + d + ss2 + s.wp[j]
		tt2 := gg(j, e, f, g) + h + ss1 + s.w[j]
		d = c
		c = bits.RotateLeft32(b, 9)
		b = a
		a = tt1
		h = g
		g = bits.RotateLeft32(f, 19)
		f = e
		e = p0(tt2)
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
