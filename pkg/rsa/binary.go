package rsa

import (
	"fmt"

	"github.com/rsahardcore/rsa4096/pkg/bigint"
	"github.com/rsahardcore/rsa4096/pkg/pool"
)

// The binary codec splits a payload into numeric blocks each strictly
// below the modulus and transforms them independently.
//
// With a modulus of L ≥ 3 bytes, a block payload is one chunk-length byte
// followed by up to min(L-2, 255) chunk bytes: the spare leading byte
// keeps the block below the modulus, the explicit length makes recovery
// of the final (possibly short) chunk unambiguous even when the data
// contains zero bytes, and the 255 cap is what the length byte can
// express. Each ciphertext block is a fixed L-byte big-endian field.
//
// Toy moduli of one or two bytes cannot carry a length prefix at all, so
// the codec degrades to exactly one plaintext byte per block; recovery
// stays unambiguous because every block renders at a fixed one-byte width.
// Under a one-byte modulus, byte values ≥ n are simply not encodable and
// fail with ErrMessageTooLarge.

// payloadCapacity returns the number of plaintext bytes per block. The
// one-byte length prefix caps it at 255 even when a wide modulus leaves
// room for more.
func (k *Key) payloadCapacity() int {
	L := k.ByteLen()
	if L < 3 {
		return 1
	}
	if L-2 > 255 {
		return 255
	}
	return L - 2
}

// prefixed reports whether blocks carry a chunk-length byte.
func (k *Key) prefixed() bool {
	return k.ByteLen() >= 3
}

// EncryptedSize returns the exact ciphertext size EncryptBinary produces
// for a plaintext of the given length.
func (k *Key) EncryptedSize(plaintextLen int) int {
	capacity := k.payloadCapacity()
	blocks := (plaintextLen + capacity - 1) / capacity
	return blocks * k.ByteLen()
}

// MaxDecryptedSize returns an upper bound on the plaintext size a
// ciphertext of the given length can decrypt to, for sizing output buffers.
func (k *Key) MaxDecryptedSize(ciphertextLen int) int {
	L := k.ByteLen()
	if L == 0 {
		return 0
	}
	return ciphertextLen / L * k.payloadCapacity()
}

// EncryptBinary encrypts an arbitrary byte payload into out, returning the
// number of bytes written (always EncryptedSize(len(plaintext))).
//
// If out cannot hold the full ciphertext the call fails with
// bigint.ErrBufferTooSmall before anything is written. A nil pool runs the
// blocks sequentially; a non-nil pool transforms them concurrently, which
// is safe because the key is immutable and the output regions are
// disjoint.
func (k *Key) EncryptBinary(plaintext, out []byte, pl *pool.Pool) (int, error) {
	if err := k.valid(); err != nil {
		return 0, err
	}
	L := k.ByteLen()
	capacity := k.payloadCapacity()
	blocks := (len(plaintext) + capacity - 1) / capacity
	total := blocks * L
	if len(out) < total {
		return 0, fmt.Errorf("rsa: ciphertext needs %d bytes, have %d: %w",
			total, len(out), bigint.ErrBufferTooSmall)
	}
	if !k.prefixed() && L == 1 {
		// Validate up front so a failure cannot leave partial output.
		limit := k.n.Uint64()
		for i, b := range plaintext {
			if uint64(b) >= limit {
				return 0, fmt.Errorf("rsa: byte %#02x at offset %d with modulus %s: %w",
					b, i, k.n.Decimal(), ErrMessageTooLarge)
			}
		}
	}
	err := pl.Parallelize(blocks, func(i int) error {
		lo := i * capacity
		hi := lo + capacity
		if hi > len(plaintext) {
			hi = len(plaintext)
		}
		chunk := plaintext[lo:hi]

		// The block field is fixed-width so the length byte always sits in
		// the most significant position; a short final chunk is padded with
		// trailing zeros that the length byte tells the decoder to drop.
		var payload []byte
		if k.prefixed() {
			payload = make([]byte, L-1)
			payload[0] = byte(len(chunk))
			copy(payload[1:], chunk)
		} else {
			payload = chunk
		}
		// The reserved leading byte (or the up-front scan, for tiny
		// moduli) guarantees the block value is below the modulus.
		c, err := k.exp(bigint.FromBytes(payload))
		if err != nil {
			return fmt.Errorf("rsa: block %d: %w", i, err)
		}
		return c.FillBytes(out[i*L : (i+1)*L])
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// DecryptBinary reverses EncryptBinary. The ciphertext length must be an
// exact multiple of the key's block size, else ErrMalformedInput. All
// blocks are decoded to scratch before the output capacity is checked, so
// a failure writes nothing.
func (k *Key) DecryptBinary(ciphertext, out []byte, pl *pool.Pool) (int, error) {
	if err := k.valid(); err != nil {
		return 0, err
	}
	L := k.ByteLen()
	if len(ciphertext)%L != 0 {
		return 0, fmt.Errorf("rsa: ciphertext length %d is not a multiple of the %d-byte block size: %w",
			len(ciphertext), L, ErrMalformedInput)
	}
	blocks := len(ciphertext) / L
	chunks := make([][]byte, blocks)
	err := pl.Parallelize(blocks, func(i int) error {
		m, err := k.exp(bigint.FromBytes(ciphertext[i*L : (i+1)*L]))
		if err != nil {
			return fmt.Errorf("rsa: block %d: %w", i, err)
		}
		if !k.prefixed() {
			buf := make([]byte, 1)
			if err := m.FillBytes(buf); err != nil {
				return fmt.Errorf("rsa: block %d decodes above one byte: %w", i, ErrMalformedInput)
			}
			chunks[i] = buf
			return nil
		}
		// A valid block decodes to [length byte] ++ chunk in L-1 bytes.
		buf := make([]byte, L-1)
		if err := m.FillBytes(buf); err != nil {
			return fmt.Errorf("rsa: block %d decodes above the payload width: %w", i, ErrMalformedInput)
		}
		n := int(buf[0])
		if n == 0 || n > k.payloadCapacity() {
			return fmt.Errorf("rsa: block %d carries chunk length %d (payload capacity %d): %w",
				i, n, k.payloadCapacity(), ErrMalformedInput)
		}
		chunks[i] = buf[1 : 1+n]
		return nil
	})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	if len(out) < total {
		return 0, fmt.Errorf("rsa: plaintext needs %d bytes, have %d: %w",
			total, len(out), bigint.ErrBufferTooSmall)
	}
	w := 0
	for _, chunk := range chunks {
		w += copy(out[w:], chunk)
	}
	return total, nil
}
