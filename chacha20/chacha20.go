// Package chacha20 implements the ChaCha20 stream cipher (RFC 7539):
// the 20-round quarter-round block function exposed as a counter-mode
// keystream primitive, with no authentication.
package chacha20

import "encoding/binary"

const (
	KeySize   = 32
	NonceSize = 12
	BlockSize = 64
)

var sigma = [4]uint32{0x61707865, 0x3320646e, 0x79622d32, 0x6b206574}

// Cipher is a ChaCha20 CTR-mode stream, RFC 7539 §2.4.
type Cipher struct {
	state   [16]uint32
	block   [BlockSize]byte
	used    int
	counter uint32
}

// New builds a Cipher from a 32-byte key, 12-byte nonce, and initial
// block counter.
func New(key [KeySize]byte, nonce [NonceSize]byte, counter uint32) *Cipher {
	c := &Cipher{counter: counter, used: BlockSize}
	c.state[0], c.state[1], c.state[2], c.state[3] = sigma[0], sigma[1], sigma[2], sigma[3]
	for i := 0; i < 8; i++ {
		c.state[4+i] = binary.LittleEndian.Uint32(key[i*4 : i*4+4])
	}
	c.state[12] = counter
	c.state[13] = binary.LittleEndian.Uint32(nonce[0:4])
	c.state[14] = binary.LittleEndian.Uint32(nonce[4:8])
	c.state[15] = binary.LittleEndian.Uint32(nonce[8:12])
	return c
}

func quarterRound(a, b, c, d *uint32) {
	*a += *b
	*d ^= *a
	*d = *d<<16 | *d>>16
	*c += *d
	*b ^= *c
	*b = *b<<12 | *b>>20
	*a += *b
	*d ^= *a
	*d = *d<<8 | *d>>24
	*c += *d
	*b ^= *c
	*b = *b<<7 | *b>>25
}

// block runs the 20-round ChaCha20 block function over state, writing
// the serialized keystream block to out.
func block(state [16]uint32, out *[BlockSize]byte) {
	w := state
	for i := 0; i < 10; i++ {
		quarterRound(&w[0], &w[4], &w[8], &w[12])
		quarterRound(&w[1], &w[5], &w[9], &w[13])
		quarterRound(&w[2], &w[6], &w[10], &w[14])
		quarterRound(&w[3], &w[7], &w[11], &w[15])
		quarterRound(&w[0], &w[5], &w[10], &w[15])
		quarterRound(&w[1], &w[6], &w[11], &w[12])
		quarterRound(&w[2], &w[7], &w[8], &w[13])
		quarterRound(&w[3], &w[4], &w[9], &w[14])
	}
	for i := range w {
		w[i] += state[i]
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(out[i*4:i*4+4], w[i])
	}
}

// XORKeyStream XORs src with the keystream into dst; dst and src may
// overlap exactly, matching the cipher.Stream convention the teacher's
// hash.go/field.go layers lean on for byte-oriented primitives.
func (c *Cipher) XORKeyStream(dst, src []byte) {
	for i := 0; i < len(src); i++ {
		if c.used == BlockSize {
			c.state[12] = c.counter
			block(c.state, &c.block)
			c.counter++
			c.used = 0
		}
		dst[i] = src[i] ^ c.block[c.used]
		c.used++
	}
}

// Seek resets the stream to a given block counter, discarding any
// partially consumed keystream block.
func (c *Cipher) Seek(counter uint32) {
	c.counter = counter
	c.used = BlockSize
}

// CounterSize is the width of the one-shot counter block: a 32-bit
// little-endian block counter followed by the 96-bit nonce.
const CounterSize = 16

// XOR is the one-shot form: it XORs src with the keystream selected by
// the 16-byte counter block (4-byte little-endian block counter, then
// the 12-byte nonce) into dst. dst and src may overlap exactly.
func XOR(dst, src []byte, key [KeySize]byte, counter [CounterSize]byte) {
	var nonce [NonceSize]byte
	copy(nonce[:], counter[4:])
	initial := binary.LittleEndian.Uint32(counter[0:4])
	New(key, nonce, initial).XORKeyStream(dst, src)
}
