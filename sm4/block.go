package sm4

import "crypto/cipher"

// sm4Cipher is a cipher.Block with the key schedule expanded once.
type sm4Cipher struct {
	engine *TTable
	enc    [Rounds]uint32
	dec    [Rounds]uint32
}

// NewCipher creates a cipher.Block for the given 16-byte key.
func NewCipher(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	c := &sm4Cipher{engine: NewTTable()}
	c.engine.expandKey(&c.enc, key)
	c.dec = c.enc
	reverseKeys(&c.dec)
	return c, nil
}

func (c *sm4Cipher) BlockSize() int { return BlockSize }

func (c *sm4Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("sm4: input not full block")
	}
	if len(dst) < BlockSize {
		panic("sm4: output not full block")
	}
	c.engine.processBlock(dst, src, &c.enc)
}

func (c *sm4Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("sm4: input not full block")
	}
	if len(dst) < BlockSize {
		panic("sm4: output not full block")
	}
	c.engine.processBlock(dst, src, &c.dec)
}
