package sm4

import "errors"

var (
	// ErrInvalidKeySize is returned when the provided key is not 16 bytes.
	ErrInvalidKeySize = errors.New("sm4: invalid key size, must be 16 bytes")

	// ErrInvalidBlockSize is returned when the input block is not 16 bytes.
	ErrInvalidBlockSize = errors.New("sm4: invalid block size, must be 16 bytes")
)

func checkSizes(block, key []byte) error {
	if len(key) != KeySize {
		return ErrInvalidKeySize
	}
	if len(block) != BlockSize {
		return ErrInvalidBlockSize
	}
	return nil
}
