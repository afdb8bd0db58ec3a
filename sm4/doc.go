// Package sm4 implements the SM4 block cipher (GB/T 32907-2016), a 128-bit
// block cipher with a 128-bit key and 32 rounds of an unbalanced Feistel-like
// network.
//
// Two engines are provided and must produce identical output for every key
// and block:
//
//   - Reference follows the published algorithm literally: four S-box lookups
//     followed by the rotate-XOR linear transform in every round.
//   - TTable fuses substitution and diffusion into four precomputed 256-entry
//     tables, so a round costs four table reads and three XORs.
//
// # Basic Usage
//
//	key, _ := hex.DecodeString("0123456789abcdeffedcba9876543210")
//	plaintext := key
//
//	ciphertext, err := sm4.Encrypt(plaintext, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	decrypted, _ := sm4.Decrypt(ciphertext, key)
//
// Key and block must both be exactly 16 bytes. Any other length is rejected
// with ErrInvalidKeySize or ErrInvalidBlockSize before any work is done.
//
// # Block Interface
//
// NewCipher returns a crypto/cipher.Block with the key schedule expanded
// once, for callers that want to drive SM4 from their own mode of operation.
// This package does not implement any mode itself.
//
// # Thread Safety
//
// Engines hold no per-call state. The T-tables are built once using
// sync.Once and are read-only afterwards, so a single TTable may be shared
// by any number of goroutines.
//
// This package makes no attempt at constant-time execution: table lookups
// are indexed by secret data.
package sm4
