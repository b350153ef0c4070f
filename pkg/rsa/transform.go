package rsa

import (
	"fmt"

	"github.com/rsahardcore/rsa4096/pkg/bigint"
)

// exp applies the key's modular exponentiation to a value already parsed,
// enforcing the value < modulus precondition.
func (k *Key) exp(m *bigint.Int) (*bigint.Int, error) {
	if m.Cmp(k.n) >= 0 {
		return nil, fmt.Errorf("%d-bit value with %d-bit modulus: %w",
			m.BitLen(), k.n.BitLen(), ErrMessageTooLarge)
	}
	return k.mont.Exp(m, k.e)
}

// Encrypt parses a decimal message integer m, requires m < n, and returns
// mᵉ (mod n) as canonical hex text.
func (k *Key) Encrypt(messageDecimal string) (string, error) {
	c, err := k.encryptInt(messageDecimal)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// EncryptInto is Encrypt with an explicit output buffer: it writes the hex
// ciphertext into out and returns the number of bytes written, failing
// with bigint.ErrBufferTooSmall (and writing nothing) when out is too
// small.
func (k *Key) EncryptInto(messageDecimal string, out []byte) (int, error) {
	c, err := k.encryptInt(messageDecimal)
	if err != nil {
		return 0, err
	}
	return c.FillHex(out)
}

func (k *Key) encryptInt(messageDecimal string) (*bigint.Int, error) {
	if err := k.valid(); err != nil {
		return nil, err
	}
	m, err := bigint.ParseDecimal(messageDecimal)
	if err != nil {
		return nil, fmt.Errorf("rsa: message: %w", err)
	}
	return k.exp(m)
}

// Decrypt parses a hex ciphertext integer c, requires c < n, and returns
// cᵈ (mod n) as canonical decimal text.
func (k *Key) Decrypt(ciphertextHex string) (string, error) {
	m, err := k.decryptInt(ciphertextHex)
	if err != nil {
		return "", err
	}
	return m.Decimal(), nil
}

// DecryptInto is Decrypt with an explicit output buffer, with the same
// no-partial-write contract as EncryptInto.
func (k *Key) DecryptInto(ciphertextHex string, out []byte) (int, error) {
	m, err := k.decryptInt(ciphertextHex)
	if err != nil {
		return 0, err
	}
	return m.FillDecimal(out)
}

func (k *Key) decryptInt(ciphertextHex string) (*bigint.Int, error) {
	if err := k.valid(); err != nil {
		return nil, err
	}
	c, err := bigint.ParseHex(ciphertextHex)
	if err != nil {
		return nil, fmt.Errorf("rsa: ciphertext: %w", err)
	}
	return k.exp(c)
}
