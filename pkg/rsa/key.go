// Package rsa implements textbook RSA on top of the bigint Montgomery
// engine: key loading from decimal text, the integer text transform, and a
// length-prefixed block codec for arbitrary binary payloads.
//
// No padding scheme is applied; the package provides the raw modular
// transform and an unambiguous chunking layer, nothing more.
package rsa

import (
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/rsahardcore/rsa4096/internal/params"
	"github.com/rsahardcore/rsa4096/pkg/bigint"
)

var (
	// ErrInvalidKey is returned for a zero or degenerate modulus or
	// exponent, a modulus or exponent above the configured bit ceiling,
	// or any operation on a key that was never loaded.
	ErrInvalidKey = errors.New("rsa: invalid key")
	// ErrMessageTooLarge is returned when a message or ciphertext integer
	// is not strictly smaller than the modulus.
	ErrMessageTooLarge = errors.New("rsa: message too large for modulus")
	// ErrMalformedInput is returned by the binary codec for ciphertext
	// whose length or block contents cannot have been produced by
	// EncryptBinary under this key.
	ErrMalformedInput = errors.New("rsa: malformed input")
)

// Key is an RSA key half: a modulus, one exponent, a role flag, and the
// Montgomery context derived from the modulus.
//
// A Key is immutable once loaded, so concurrent use for encryption or
// decryption is safe without locking. The zero Key is detectably unloaded:
// every operation on it fails with ErrInvalidKey.
type Key struct {
	n, e    *bigint.Int
	private bool
	mont    *bigint.Montgomery
}

// NewKey loads a key from two ASCII decimal strings and a role flag.
//
// Malformed text fails with an error wrapping bigint.ErrSyntax. A modulus
// below 2, a zero exponent, or either value exceeding the params bit
// ceilings fails with ErrInvalidKey.
func NewKey(modulus, exponent string, private bool) (*Key, error) {
	n, err := bigint.ParseDecimal(modulus)
	if err != nil {
		return nil, fmt.Errorf("rsa: modulus: %w", err)
	}
	e, err := bigint.ParseDecimal(exponent)
	if err != nil {
		return nil, fmt.Errorf("rsa: exponent: %w", err)
	}
	return newKey(n, e, private)
}

func newKey(n, e *bigint.Int, private bool) (*Key, error) {
	// n ≤ 1 leaves no encryptable message (every m ≥ n except 0).
	if n.Cmp(bigint.New(2)) < 0 {
		return nil, fmt.Errorf("modulus %s is below 2: %w", n.Decimal(), ErrInvalidKey)
	}
	if e.IsZero() {
		return nil, fmt.Errorf("zero exponent: %w", ErrInvalidKey)
	}
	if bits := n.BitLen(); bits > params.MaxModulusBits {
		return nil, fmt.Errorf("modulus is %d bits, limit is %d: %w", bits, params.MaxModulusBits, ErrInvalidKey)
	}
	if bits := e.BitLen(); bits > params.MaxExponentBits {
		return nil, fmt.Errorf("exponent is %d bits, limit is %d: %w", bits, params.MaxExponentBits, ErrInvalidKey)
	}
	return &Key{
		n:       n,
		e:       e,
		private: private,
		mont:    bigint.NewMontgomery(n),
	}, nil
}

// valid guards every operation against nil or zero-value keys.
func (k *Key) valid() error {
	if k == nil || k.n == nil || k.e == nil || k.mont == nil {
		return fmt.Errorf("key not loaded: %w", ErrInvalidKey)
	}
	return nil
}

// N returns the modulus. Int values are immutable, so sharing is safe.
func (k *Key) N() *bigint.Int { return k.n }

// E returns the exponent (public or private, per IsPrivate).
func (k *Key) E() *bigint.Int { return k.e }

// IsPrivate reports the key's role flag. The transform itself is symmetric
// in the exponent; the flag only labels which half this is.
func (k *Key) IsPrivate() bool { return k.private }

// BitLen returns the modulus length in bits.
func (k *Key) BitLen() int { return k.n.BitLen() }

// ByteLen returns the modulus length in bytes, which is also the width of
// one ciphertext block in the binary codec.
func (k *Key) ByteLen() int { return k.n.ByteLen() }

// Fingerprint returns a stable blake3 identifier of the key parameters,
// for logging and display. Keys differing in modulus, exponent, or role
// have different fingerprints.
func (k *Key) Fingerprint() [32]byte {
	h := blake3.New()
	writeLengthPrefixed := func(tag byte, b []byte) {
		// Write on a blake3 hasher never fails.
		_, _ = h.Write([]byte{tag, byte(len(b) >> 8), byte(len(b))})
		_, _ = h.Write(b)
	}
	_, _ = h.Write([]byte("rsa4096 key v1"))
	role := byte(0)
	if k.private {
		role = 1
	}
	writeLengthPrefixed('n', k.n.Bytes())
	writeLengthPrefixed('e', k.e.Bytes())
	_, _ = h.Write([]byte{role})
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
