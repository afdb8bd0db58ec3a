package sm4

import (
	"encoding/binary"
	"sync"
)

// Tables holds the fused substitution and diffusion tables.
//
// Round[i][b] is L applied to Sbox[b] placed in byte position i (counting from
// the most significant byte), and Key[i][b] is the same with L'. XORing the
// four lookups for the bytes of a word equals L(τ(word)), respectively
// L'(τ(word)).
type Tables struct {
	Round [4][256]uint32
	Key   [4][256]uint32
}

var (
	tablesOnce sync.Once
	tables     *Tables
)

// sharedTables returns the process-wide tables, building them on first use.
func sharedTables() *Tables {
	tablesOnce.Do(func() {
		tables = BuildTables()
	})
	return tables
}

// BuildTables computes a fresh set of lookup tables from the S-box. The result
// depends only on fixed constants, so every call returns identical tables.
func BuildTables() *Tables {
	t := new(Tables)
	for i := 0; i < 4; i++ {
		shift := uint(24 - 8*i)
		for b := 0; b < 256; b++ {
			x := uint32(sbox[b]) << shift
			t.Round[i][b] = l(x)
			t.Key[i][b] = lPrime(x)
		}
	}
	return t
}

// TTable is the table-driven SM4 engine.
type TTable struct {
	t *Tables
}

// NewTTable returns a T-table engine backed by the shared, lazily built
// tables. The returned engine is safe for concurrent use.
func NewTTable() *TTable {
	return &TTable{t: sharedTables()}
}

// Name returns "ttable".
func (e *TTable) Name() string { return "ttable" }

// Encrypt encrypts plaintext with key and returns a new 16-byte ciphertext.
func (e *TTable) Encrypt(plaintext, key []byte) ([]byte, error) {
	if err := checkSizes(plaintext, key); err != nil {
		return nil, err
	}
	var rk [Rounds]uint32
	e.expandKey(&rk, key)
	dst := make([]byte, BlockSize)
	e.processBlock(dst, plaintext, &rk)
	return dst, nil
}

// Decrypt decrypts ciphertext with key and returns a new 16-byte plaintext.
func (e *TTable) Decrypt(ciphertext, key []byte) ([]byte, error) {
	if err := checkSizes(ciphertext, key); err != nil {
		return nil, err
	}
	var rk [Rounds]uint32
	e.expandKey(&rk, key)
	reverseKeys(&rk)
	dst := make([]byte, BlockSize)
	e.processBlock(dst, ciphertext, &rk)
	return dst, nil
}

// round returns L(τ(x)) using four table reads.
func (e *TTable) round(x uint32) uint32 {
	r := &e.t.Round
	return r[0][x>>24] ^ r[1][(x>>16)&0xff] ^ r[2][(x>>8)&0xff] ^ r[3][x&0xff]
}

// keyRound returns L'(τ(x)) using four table reads.
func (e *TTable) keyRound(x uint32) uint32 {
	k := &e.t.Key
	return k[0][x>>24] ^ k[1][(x>>16)&0xff] ^ k[2][(x>>8)&0xff] ^ k[3][x&0xff]
}

func (e *TTable) expandKey(rk *[Rounds]uint32, key []byte) {
	k0 := binary.BigEndian.Uint32(key[0:]) ^ fk[0]
	k1 := binary.BigEndian.Uint32(key[4:]) ^ fk[1]
	k2 := binary.BigEndian.Uint32(key[8:]) ^ fk[2]
	k3 := binary.BigEndian.Uint32(key[12:]) ^ fk[3]

	for i := 0; i < Rounds; i += 4 {
		k0 ^= e.keyRound(k1 ^ k2 ^ k3 ^ ck[i])
		rk[i] = k0
		k1 ^= e.keyRound(k2 ^ k3 ^ k0 ^ ck[i+1])
		rk[i+1] = k1
		k2 ^= e.keyRound(k3 ^ k0 ^ k1 ^ ck[i+2])
		rk[i+2] = k2
		k3 ^= e.keyRound(k0 ^ k1 ^ k2 ^ ck[i+3])
		rk[i+3] = k3
	}
}

// processBlock is the 32-round transform unrolled four rounds at a time over
// rolling registers: after each group x0..x3 again hold the four most recent
// words in order.
func (e *TTable) processBlock(dst, src []byte, rk *[Rounds]uint32) {
	x0 := binary.BigEndian.Uint32(src[0:])
	x1 := binary.BigEndian.Uint32(src[4:])
	x2 := binary.BigEndian.Uint32(src[8:])
	x3 := binary.BigEndian.Uint32(src[12:])

	for i := 0; i < Rounds; i += 4 {
		x0 ^= e.round(x1 ^ x2 ^ x3 ^ rk[i])
		x1 ^= e.round(x2 ^ x3 ^ x0 ^ rk[i+1])
		x2 ^= e.round(x3 ^ x0 ^ x1 ^ rk[i+2])
		x3 ^= e.round(x0 ^ x1 ^ x2 ^ rk[i+3])
	}

	binary.BigEndian.PutUint32(dst[0:], x3)
	binary.BigEndian.PutUint32(dst[4:], x2)
	binary.BigEndian.PutUint32(dst[8:], x1)
	binary.BigEndian.PutUint32(dst[12:], x0)
}
