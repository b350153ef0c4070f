package rsa

import (
	"bytes"
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsahardcore/rsa4096/pkg/bigint"
	"github.com/rsahardcore/rsa4096/pkg/pool"
)

// Test keys by modulus byte length:
//
//	L=1: n=35=5·7        e=5 d=5     (φ=24)
//	L=2: n=3763=53·71    e=3 d=2427  (φ=3640)
//	L=3: n=67591=257·263 e=5 d=26829 (φ=67072)
//	L=4: n=16850989=4099·4111 e=7 d=4812223 (φ=16842780)
func binaryRoundTrip(t *testing.T, pub, priv *Key, payload []byte, pl *pool.Pool) []byte {
	t.Helper()
	ciphertext := make([]byte, pub.EncryptedSize(len(payload)))
	n, err := pub.EncryptBinary(payload, ciphertext, pl)
	require.NoError(t, err)
	require.Equal(t, len(ciphertext), n)

	recovered := make([]byte, len(payload))
	n, err = priv.DecryptBinary(ciphertext[:n], recovered, pl)
	require.NoError(t, err)
	assert.Equal(t, payload, recovered[:n])
	return ciphertext
}

func TestBinaryRoundTripTinyModulus(t *testing.T) {
	pub, priv := keyPair(t, "35", "5", "5")
	assert.Equal(t, 1, pub.ByteLen())

	binaryRoundTrip(t, pub, priv, []byte{0x01, 0x02, 0x03, 0x04}, nil)

	// zero bytes survive: each block renders at fixed width
	binaryRoundTrip(t, pub, priv, []byte{0x00, 0x01, 0x00}, nil)

	// a byte the modulus cannot hold is not encodable
	out := make([]byte, 16)
	_, err := pub.EncryptBinary([]byte{0x01, 0xff}, out, nil)
	assert.ErrorIs(t, err, ErrMessageTooLarge)

	// a two-byte modulus holds any byte value
	pub2, priv2 := keyPair(t, "3763", "3", "2427")
	assert.Equal(t, 2, pub2.ByteLen())
	binaryRoundTrip(t, pub2, priv2, []byte{0x00, 0xff, 0x07}, nil)
}

func TestBinaryRoundTripPrefixedBlocks(t *testing.T) {
	pub, priv := keyPair(t, "16850989", "7", "4812223")
	require.Equal(t, 4, pub.ByteLen())

	payloads := [][]byte{
		{0x01, 0x02, 0x03, 0x04},
		{0x00, 0xff, 0x00, 0x01, 0x02}, // zeros and an unaligned tail
		{0x42},                         // single short block
		bytes.Repeat([]byte{0x00}, 9),  // all zeros
	}
	for _, payload := range payloads {
		binaryRoundTrip(t, pub, priv, payload, nil)
	}

	r := mrand.New(mrand.NewSource(7))
	for i := 0; i < 20; i++ {
		payload := make([]byte, 1+r.Intn(64))
		r.Read(payload)
		binaryRoundTrip(t, pub, priv, payload, nil)
	}

	// a single-byte payload capacity still carries a prefix at L=3
	pub3, priv3 := keyPair(t, "67591", "5", "26829")
	require.Equal(t, 3, pub3.ByteLen())
	binaryRoundTrip(t, pub3, priv3, []byte{0x00, 0xab, 0x00, 0xcd}, nil)
}

// Wide moduli leave more room per block than the one-byte length prefix
// can express; the codec must cap each chunk at 255 bytes rather than let
// the prefix wrap. e = d = 1 makes the transform the identity, so these
// round trips exercise the framing alone.
func TestBinaryRoundTripWideModulus(t *testing.T) {
	n := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 2080), big.NewInt(1))
	pub, priv := keyPair(t, n.String(), "1", "1")
	require.Equal(t, 260, pub.ByteLen())

	// 256 payload bytes no longer fit one block
	assert.Equal(t, 2*pub.ByteLen(), pub.EncryptedSize(256))
	assert.Equal(t, pub.ByteLen(), pub.EncryptedSize(255))

	r := mrand.New(mrand.NewSource(9))
	for _, size := range []int{1, 255, 256, 258, 1000} {
		payload := make([]byte, size)
		r.Read(payload)
		binaryRoundTrip(t, pub, priv, payload, nil)
	}

	// a key at the modulus bit ceiling frames the same way
	nMax := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 4096), big.NewInt(1))
	pubMax, privMax := keyPair(t, nMax.String(), "1", "1")
	require.Equal(t, 512, pubMax.ByteLen())
	payload := make([]byte, 300)
	r.Read(payload)
	binaryRoundTrip(t, pubMax, privMax, payload, nil)
}

func TestBinaryEmptyPayload(t *testing.T) {
	pub, priv := keyPair(t, "16850989", "7", "4812223")
	assert.Zero(t, pub.EncryptedSize(0))

	n, err := pub.EncryptBinary(nil, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = priv.DecryptBinary(nil, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBinaryEncryptedSize(t *testing.T) {
	pub, _ := keyPair(t, "16850989", "7", "4812223")
	// L=4, two payload bytes per block
	assert.Equal(t, 4, pub.EncryptedSize(1))
	assert.Equal(t, 4, pub.EncryptedSize(2))
	assert.Equal(t, 8, pub.EncryptedSize(3))
	assert.Equal(t, 20, pub.EncryptedSize(9))

	assert.Equal(t, 2, pub.MaxDecryptedSize(4))
	assert.Equal(t, 10, pub.MaxDecryptedSize(pub.EncryptedSize(9)))
}

func TestBinaryBufferTooSmall(t *testing.T) {
	pub, priv := keyPair(t, "16850989", "7", "4812223")
	payload := []byte{1, 2, 3, 4, 5}

	out := make([]byte, pub.EncryptedSize(len(payload))-1)
	for i := range out {
		out[i] = 0xee
	}
	n, err := pub.EncryptBinary(payload, out, nil)
	assert.ErrorIs(t, err, bigint.ErrBufferTooSmall)
	assert.Zero(t, n)
	for _, b := range out {
		assert.EqualValues(t, 0xee, b, "failed encrypt must not write")
	}

	ciphertext := make([]byte, pub.EncryptedSize(len(payload)))
	_, err = pub.EncryptBinary(payload, ciphertext, nil)
	require.NoError(t, err)

	short := make([]byte, len(payload)-1)
	for i := range short {
		short[i] = 0xee
	}
	n, err = priv.DecryptBinary(ciphertext, short, nil)
	assert.ErrorIs(t, err, bigint.ErrBufferTooSmall)
	assert.Zero(t, n)
	for _, b := range short {
		assert.EqualValues(t, 0xee, b, "failed decrypt must not write")
	}
}

func TestBinaryMalformedCiphertext(t *testing.T) {
	pub, priv := keyPair(t, "16850989", "7", "4812223")

	// length not a multiple of the block size
	_, err := priv.DecryptBinary([]byte{1, 2, 3}, make([]byte, 16), nil)
	assert.ErrorIs(t, err, ErrMalformedInput)

	// block value above the modulus
	_, err = priv.DecryptBinary([]byte{0xff, 0xff, 0xff, 0xff}, make([]byte, 16), nil)
	assert.ErrorIs(t, err, ErrMessageTooLarge)

	// block decrypting to a zero length prefix: 0^d = 0
	_, err = priv.DecryptBinary(make([]byte, 4), make([]byte, 16), nil)
	assert.ErrorIs(t, err, ErrMalformedInput)

	// honest ciphertext still decrypts after the failures above
	payload := []byte{9, 8, 7}
	ciphertext := make([]byte, pub.EncryptedSize(len(payload)))
	_, err = pub.EncryptBinary(payload, ciphertext, nil)
	require.NoError(t, err)
	out := make([]byte, len(payload))
	n, err := priv.DecryptBinary(ciphertext, out, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, out[:n])
}

func TestBinaryPoolMatchesInline(t *testing.T) {
	pub, priv := keyPair(t, "16850989", "7", "4812223")
	pl := pool.New(4)

	r := mrand.New(mrand.NewSource(8))
	payload := make([]byte, 128)
	r.Read(payload)

	inline := binaryRoundTrip(t, pub, priv, payload, nil)
	pooled := binaryRoundTrip(t, pub, priv, payload, pl)
	assert.Equal(t, inline, pooled, "the pool only changes scheduling, not output")
}
