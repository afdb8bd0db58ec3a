// Package sm4 provides the SM4 block cipher.
// Based on: GB/T 32907-2016 "Information security technology - SM4 block cipher algorithm"
package sm4

import (
	"encoding/binary"
	"math/bits"
)

const (
	// BlockSize is the SM4 block size in bytes.
	BlockSize = 16
	// KeySize is the SM4 key size in bytes.
	KeySize = 16
	// Rounds is the number of rounds of the block transform and the key schedule.
	Rounds = 32
)

// sbox is the SM4 substitution table.
var sbox = [256]byte{
	0xd6, 0x90, 0xe9, 0xfe, 0xcc, 0xe1, 0x3d, 0xb7, 0x16, 0xb6, 0x14, 0xc2, 0x28, 0xfb, 0x2c, 0x05,
	0x2b, 0x67, 0x9a, 0x76, 0x2a, 0xbe, 0x04, 0xc3, 0xaa, 0x44, 0x13, 0x26, 0x49, 0x86, 0x06, 0x99,
	0x9c, 0x42, 0x50, 0xf4, 0x91, 0xef, 0x98, 0x7a, 0x33, 0x54, 0x0b, 0x43, 0xed, 0xcf, 0xac, 0x62,
	0xe4, 0xb3, 0x1c, 0xa9, 0xc9, 0x08, 0xe8, 0x95, 0x80, 0xdf, 0x94, 0xfa, 0x75, 0x8f, 0x3f, 0xa6,
	0x47, 0x07, 0xa7, 0xfc, 0xf3, 0x73, 0x17, 0xba, 0x83, 0x59, 0x3c, 0x19, 0xe6, 0x85, 0x4f, 0xa8,
	0x68, 0x6b, 0x81, 0xb2, 0x71, 0x64, 0xda, 0x8b, 0xf8, 0xeb, 0x0f, 0x4b, 0x70, 0x56, 0x9d, 0x35,
	0x1e, 0x24, 0x0e, 0x5e, 0x63, 0x58, 0xd1, 0xa2, 0x25, 0x22, 0x7c, 0x3b, 0x01, 0x21, 0x78, 0x87,
	0xd4, 0x00, 0x46, 0x57, 0x9f, 0xd3, 0x27, 0x52, 0x4c, 0x36, 0x02, 0xe7, 0xa0, 0xc4, 0xc8, 0x9e,
	0xea, 0xbf, 0x8a, 0xd2, 0x40, 0xc7, 0x38, 0xb5, 0xa3, 0xf7, 0xf2, 0xce, 0xf9, 0x61, 0x15, 0xa1,
	0xe0, 0xae, 0x5d, 0xa4, 0x9b, 0x34, 0x1a, 0x55, 0xad, 0x93, 0x32, 0x30, 0xf5, 0x8c, 0xb1, 0xe3,
	0x1d, 0xf6, 0xe2, 0x2e, 0x82, 0x66, 0xca, 0x60, 0xc0, 0x29, 0x23, 0xab, 0x0d, 0x53, 0x4e, 0x6f,
	0xd5, 0xdb, 0x37, 0x45, 0xde, 0xfd, 0x8e, 0x2f, 0x03, 0xff, 0x6a, 0x72, 0x6d, 0x6c, 0x5b, 0x51,
	0x8d, 0x1b, 0xaf, 0x92, 0xbb, 0xdd, 0xbc, 0x7f, 0x11, 0xd9, 0x5c, 0x41, 0x1f, 0x10, 0x5a, 0xd8,
	0x0a, 0xc1, 0x31, 0x88, 0xa5, 0xcd, 0x7b, 0xbd, 0x2d, 0x74, 0xd0, 0x12, 0xb8, 0xe5, 0xb4, 0xb0,
	0x89, 0x69, 0x97, 0x4a, 0x0c, 0x96, 0x77, 0x7e, 0x65, 0xb9, 0xf1, 0x09, 0xc5, 0x6e, 0xc6, 0x84,
	0x18, 0xf0, 0x7d, 0xec, 0x3a, 0xdc, 0x4d, 0x20, 0x79, 0xee, 0x5f, 0x3e, 0xd7, 0xcb, 0x39, 0x48,
}

// fk is the system parameter XORed into the key words.
var fk = [4]uint32{0xa3b1bac6, 0x56aa3350, 0x677d9197, 0xb27022dc}

// ck holds the key schedule constants, ck[i] byte j = (4i+j)*7 mod 256.
var ck = [Rounds]uint32{
	0x00070e15, 0x1c232a31, 0x383f464d, 0x545b6269,
	0x70777e85, 0x8c939aa1, 0xa8afb6bd, 0xc4cbd2d9,
	0xe0e7eef5, 0xfc030a11, 0x181f262d, 0x343b4249,
	0x50575e65, 0x6c737a81, 0x888f969d, 0xa4abb2b9,
	0xc0c7ced5, 0xdce3eaf1, 0xf8ff060d, 0x141b2229,
	0x30373e45, 0x4c535a61, 0x686f767d, 0x848b9299,
	0xa0a7aeb5, 0xbcc3cad1, 0xd8dfe6ed, 0xf4fb0209,
	0x10171e25, 0x2c333a41, 0x484f565d, 0x646b7279,
}

// Engine is implemented by every SM4 engine in this package. All engines
// produce identical output for identical input.
type Engine interface {
	// Encrypt encrypts one 16-byte block under a 16-byte key.
	Encrypt(plaintext, key []byte) ([]byte, error)
	// Decrypt decrypts one 16-byte block under a 16-byte key.
	Decrypt(ciphertext, key []byte) ([]byte, error)
	// Name identifies the engine.
	Name() string
}

var (
	_ Engine = Reference{}
	_ Engine = (*TTable)(nil)
)

// Encrypt encrypts a single block using the T-table engine.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	return NewTTable().Encrypt(plaintext, key)
}

// Decrypt decrypts a single block using the T-table engine.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	return NewTTable().Decrypt(ciphertext, key)
}

// Reference is the literal SM4 engine. It is the oracle the T-table engine
// is tested against.
type Reference struct{}

// Name returns "reference".
func (Reference) Name() string { return "reference" }

// Encrypt encrypts plaintext with key and returns a new 16-byte ciphertext.
func (Reference) Encrypt(plaintext, key []byte) ([]byte, error) {
	if err := checkSizes(plaintext, key); err != nil {
		return nil, err
	}
	rk := expandKey(key)
	dst := make([]byte, BlockSize)
	processBlock(dst, plaintext, &rk)
	return dst, nil
}

// Decrypt decrypts ciphertext with key. It runs the same round structure as
// Encrypt with the round keys in reverse order.
func (Reference) Decrypt(ciphertext, key []byte) ([]byte, error) {
	if err := checkSizes(ciphertext, key); err != nil {
		return nil, err
	}
	rk := expandKey(key)
	reverseKeys(&rk)
	dst := make([]byte, BlockSize)
	processBlock(dst, ciphertext, &rk)
	return dst, nil
}

// reverseKeys turns an encryption schedule into a decryption schedule.
func reverseKeys(rk *[Rounds]uint32) {
	for i, j := 0, Rounds-1; i < j; i, j = i+1, j-1 {
		rk[i], rk[j] = rk[j], rk[i]
	}
}

// tau applies the S-box to each byte of x.
func tau(x uint32) uint32 {
	return uint32(sbox[x>>24])<<24 |
		uint32(sbox[(x>>16)&0xff])<<16 |
		uint32(sbox[(x>>8)&0xff])<<8 |
		uint32(sbox[x&0xff])
}

// l is the linear transform of the round function.
func l(x uint32) uint32 {
	return x ^ bits.RotateLeft32(x, 2) ^ bits.RotateLeft32(x, 10) ^ bits.RotateLeft32(x, 18) ^ bits.RotateLeft32(x, 24)
}

// lPrime is the linear transform of the key schedule.
func lPrime(x uint32) uint32 {
	return x ^ bits.RotateLeft32(x, 13) ^ bits.RotateLeft32(x, 23)
}

// expandKey derives the 32 encryption round keys from a 16-byte key.
func expandKey(key []byte) [Rounds]uint32 {
	var k [Rounds + 4]uint32
	for i := 0; i < 4; i++ {
		k[i] = binary.BigEndian.Uint32(key[4*i:]) ^ fk[i]
	}

	var rk [Rounds]uint32
	for i := 0; i < Rounds; i++ {
		t := k[i+1] ^ k[i+2] ^ k[i+3] ^ ck[i]
		k[i+4] = k[i] ^ lPrime(tau(t))
		rk[i] = k[i+4]
	}
	return rk
}

// f is the SM4 round function.
func f(x0, x1, x2, x3, rk uint32) uint32 {
	return x0 ^ l(tau(x1^x2^x3^rk))
}

// processBlock runs the 32-round transform over src and writes the result,
// the last four words in reverse order, to dst.
func processBlock(dst, src []byte, rk *[Rounds]uint32) {
	var x [Rounds + 4]uint32
	for i := 0; i < 4; i++ {
		x[i] = binary.BigEndian.Uint32(src[4*i:])
	}

	for i := 0; i < Rounds; i++ {
		x[i+4] = f(x[i], x[i+1], x[i+2], x[i+3], rk[i])
	}

	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint32(dst[4*i:], x[Rounds+3-i])
	}
}
