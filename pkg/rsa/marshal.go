package rsa

import (
	"encoding"

	"github.com/fxamacker/cbor/v2"

	"github.com/rsahardcore/rsa4096/pkg/bigint"
)

var _ encoding.BinaryMarshaler = (*Key)(nil)
var _ encoding.BinaryUnmarshaler = (*Key)(nil)

type keyMarshal struct {
	N       []byte
	E       []byte
	Private bool
}

// MarshalBinary encodes the key as CBOR. The Montgomery context is derived
// state and is rebuilt on unmarshal rather than serialized.
func (k *Key) MarshalBinary() ([]byte, error) {
	if err := k.valid(); err != nil {
		return nil, err
	}
	return cbor.Marshal(&keyMarshal{
		N:       k.n.Bytes(),
		E:       k.e.Bytes(),
		Private: k.private,
	})
}

// UnmarshalBinary decodes a key encoded by MarshalBinary, revalidating it
// through the same checks as NewKey.
func (k *Key) UnmarshalBinary(data []byte) error {
	var km keyMarshal
	if err := cbor.Unmarshal(data, &km); err != nil {
		return err
	}
	loaded, err := newKey(bigint.FromBytes(km.N), bigint.FromBytes(km.E), km.Private)
	if err != nil {
		return err
	}
	*k = *loaded
	return nil
}
