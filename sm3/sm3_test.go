package sm3

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashers() []Hasher {
	return []Hasher{Reference{}, Vector{}}
}

// TestSM3KnownAnswer checks the examples of GB/T 32905-2016 and the empty input.
func TestSM3KnownAnswer(t *testing.T) {
	testCases := []struct {
		name  string
		input []byte
		want  string
	}{
		{"empty", nil, "1ab21d8355cfa17f8e61194831e81a8f22bec8c728fefb747ed035eb5082aa2b"},
		{"abc", []byte("abc"), "66c7f0f462eeedd9d1f2d46bdc10e4e24167c4875cf2f7a2297da02b8f4ba8e0"},
		{"abcd_x16", bytes.Repeat([]byte("abcd"), 16), "debe9ff92275b8a138604889c18e5a4d6fdb70e5387e5765293dcba39c0c5732"},
	}

	for _, h := range hashers() {
		for _, tc := range testCases {
			t.Run(h.Name()+"/"+tc.name, func(t *testing.T) {
				digest := h.Sum(tc.input)
				assert.Equal(t, tc.want, hex.EncodeToString(digest[:]))
			})
		}
	}

	digest := Sum([]byte{})
	assert.Equal(t, testCases[0].want, hex.EncodeToString(digest[:]))
}

// TestSM3EngineEquivalence hashes inputs around the padding boundaries with
// both engines.
func TestSM3EngineEquivalence(t *testing.T) {
	lengths := []int{0, 1, 55, 56, 57, 63, 64, 65, 119, 120, 121, 127, 128, 129, 10240}

	for _, n := range lengths {
		t.Run(fmt.Sprintf("%d_bytes", n), func(t *testing.T) {
			data := bytes.Repeat([]byte{0x61}, n)
			assert.Equal(t, Reference{}.Sum(data), Vector{}.Sum(data))
		})
	}

	t.Run("random", func(t *testing.T) {
		for n := 0; n < 300; n++ {
			data := make([]byte, n)
			rand.Read(data)
			require.Equal(t, Reference{}.Sum(data), Vector{}.Sum(data), "length %d", n)
		}
	})
}

// TestSM3Padding verifies the padded length and layout for every tail length.
func TestSM3Padding(t *testing.T) {
	for n := 0; n <= 3*BlockSize; n++ {
		msg := bytes.Repeat([]byte{0xab}, n)
		padded := pad(msg)

		require.Zero(t, len(padded)%BlockSize, "length %d", n)
		require.Greater(t, len(padded), 0)
		require.GreaterOrEqual(t, len(padded), n+9, "length %d", n)
		require.Less(t, len(padded), n+9+BlockSize, "length %d", n)
		require.Equal(t, msg, padded[:n])
		require.Equal(t, byte(0x80), padded[n])
		for _, b := range padded[n+1 : len(padded)-8] {
			require.Zero(t, b)
		}
		require.Equal(t, uint64(n)*8, beUint64(padded[len(padded)-8:]))

		// The optimized engine builds only the trailing blocks.
		full := n &^ (BlockSize - 1)
		buf, used := finalBlocks(msg[full:], uint64(n))
		require.Equal(t, padded[full:], buf[:used], "length %d", n)
	}
}

// TestSM3PaddingSpill checks exactly where the length field spills into a
// second block.
func TestSM3PaddingSpill(t *testing.T) {
	testCases := []struct {
		tail   int
		blocks int
	}{
		{0, 1}, {1, 1}, {55, 1}, {56, 2}, {57, 2}, {63, 2},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("tail_%d", tc.tail), func(t *testing.T) {
			_, n := finalBlocks(make([]byte, tc.tail), uint64(tc.tail))
			assert.Equal(t, tc.blocks*BlockSize, n)
		})
	}
}

// TestSM3Expansion compares the lane-parallel expansion with the scalar one.
func TestSM3Expansion(t *testing.T) {
	for i := 0; i < 100; i++ {
		block := make([]byte, BlockSize)
		rand.Read(block)

		var ref, vec schedule
		expandReference(&ref, block)
		expandVector(&vec, block)
		require.Equal(t, ref, vec, "block %x", block)
	}
}

// TestSM3Lanes checks the packed lane primitives against scalar operations.
func TestSM3Lanes(t *testing.T) {
	w := []uint32{0x80000001, 0x12345678, 0xdeadbeef, 0xffffffff}
	v := load4(w)

	for n := uint(1); n < 32; n++ {
		var got [4]uint32
		v.rotl(n).store(got[:])
		for k := range w {
			require.Equal(t, bits.RotateLeft32(w[k], int(n)), got[k], "lane %d rotl %d", k, n)
		}
	}

	var got [4]uint32
	v.p1().store(got[:])
	for k := range w {
		assert.Equal(t, p1(w[k]), got[k])
	}

	load3(w).store(got[:])
	assert.Equal(t, [4]uint32{w[0], w[1], w[2], 0}, got)
}

// TestSM3RoundConstants verifies the precomputed rotated constants.
func TestSM3RoundConstants(t *testing.T) {
	assert.Equal(t, uint32(0x79cc4519), rotT[0])
	assert.Equal(t, uint32(0xf3988a32), rotT[1])
	assert.Equal(t, uint32(0x9d8a7a87), rotT[16])
	assert.Equal(t, uint32(0x7a879d8a), rotT[32])
	assert.Equal(t, uint32(0x3d43cec5), rotT[63])
	for j := range rotT {
		assert.Equal(t, bits.RotateLeft32(tj(j), j%32), rotT[j])
	}
}

// TestSM3Avalanche flips one input bit and checks that roughly half the
// digest bits change.
func TestSM3Avalanche(t *testing.T) {
	msg := []byte("The quick brown fox jumps over the lazy dog")
	for _, h := range hashers() {
		t.Run(h.Name(), func(t *testing.T) {
			base := h.Sum(msg)
			total := 0
			for bit := 0; bit < len(msg)*8; bit++ {
				m := bytes.Clone(msg)
				m[bit/8] ^= 1 << (bit % 8)
				d := h.Sum(m)
				for i := range d {
					total += bits.OnesCount8(d[i] ^ base[i])
				}
			}
			avg := float64(total) / float64(len(msg)*8)
			t.Logf("average flipped bits: %.2f of 256", avg)
			assert.Greater(t, avg, 100.0)
			assert.Less(t, avg, 156.0)
		})
	}
}

// TestSM3DoesNotModifyInput makes sure hashing leaves the caller's buffer alone.
func TestSM3DoesNotModifyInput(t *testing.T) {
	data := bytes.Repeat([]byte{0x5a}, 130)
	orig := bytes.Clone(data)
	for _, h := range hashers() {
		h.Sum(data)
		assert.Equal(t, orig, data, h.Name())
	}
}

func beUint64(b []byte) uint64 {
	var x uint64
	for _, c := range b {
		x = x<<8 | uint64(c)
	}
	return x
}

// Benchmark functions

func BenchmarkReference64(b *testing.B) { benchmarkSum(b, Reference{}, 64) }
func BenchmarkVector64(b *testing.B)    { benchmarkSum(b, Vector{}, 64) }
func BenchmarkReference1K(b *testing.B) { benchmarkSum(b, Reference{}, 1024) }
func BenchmarkVector1K(b *testing.B)    { benchmarkSum(b, Vector{}, 1024) }
func BenchmarkReference8K(b *testing.B) { benchmarkSum(b, Reference{}, 8192) }
func BenchmarkVector8K(b *testing.B)    { benchmarkSum(b, Vector{}, 8192) }

func benchmarkSum(b *testing.B, h Hasher, size int) {
	data := make([]byte, size)
	if _, err := rand.Read(data); err != nil {
		b.Fatalf("Failed to generate random data: %v", err)
	}

	b.SetBytes(int64(size))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = h.Sum(data)
	}
}
