package bigint

import "fmt"

// ParseDecimal converts an ASCII base-10 numeral into an Int. Leading
// zeros are accepted; an empty string or any non-digit character fails
// with ErrSyntax.
func ParseDecimal(s string) (*Int, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("empty decimal string: %w", ErrSyntax)
	}
	var limbs []Word
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("decimal digit %q at position %d: %w", c, i, ErrSyntax)
		}
		limbs = mulAddWW(limbs, 10, Word(c-'0'))
	}
	return &Int{limbs: norm(limbs)}, nil
}

// ParseHex converts an ASCII base-16 numeral (case-insensitive, no prefix)
// into an Int, failing with ErrSyntax on empty or malformed input.
func ParseHex(s string) (*Int, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("empty hex string: %w", ErrSyntax)
	}
	z := new(Int)
	limbs := make([]Word, 0, (len(s)*4+_W-1)/_W)
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return nil, fmt.Errorf("hex digit %q at position %d: %w", s[i], i, ErrSyntax)
		}
		limbs = mulAddWW(limbs, 16, Word(d))
	}
	z.limbs = norm(limbs)
	return z, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Decimal returns the canonical base-10 representation of x, with no
// leading zeros. The representation of 0 is "0".
func (x *Int) Decimal() string {
	if x.IsZero() {
		return "0"
	}
	buf := make([]byte, 0, x.BitLen()/3+1)
	for v := x; !v.IsZero(); {
		var digit Word
		v, digit = v.divModW(10)
		buf = append(buf, byte('0'+digit))
	}
	reverse(buf)
	return string(buf)
}

// Hex returns the canonical lowercase base-16 representation of x, with no
// leading zeros. The representation of 0 is "0".
func (x *Int) Hex() string {
	if x.IsZero() {
		return "0"
	}
	const digits = "0123456789abcdef"
	buf := make([]byte, 0, (x.BitLen()+3)/4)
	for i := uint(0); int(i) < x.BitLen(); i += 4 {
		limb := x.limbs[i/_W]
		buf = append(buf, digits[limb>>(i%_W)&0xf])
	}
	buf = norm16(buf)
	reverse(buf)
	return string(buf)
}

// norm16 drops high zero nibbles (stored little-endian here).
func norm16(buf []byte) []byte {
	for len(buf) > 1 && buf[len(buf)-1] == '0' {
		buf = buf[:len(buf)-1]
	}
	return buf
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// FillDecimal writes the canonical decimal representation of x into out,
// returning the number of bytes written. If out is too small it fails with
// ErrBufferTooSmall and writes nothing.
func (x *Int) FillDecimal(out []byte) (int, error) {
	s := x.Decimal()
	if len(s) > len(out) {
		return 0, fmt.Errorf("decimal needs %d bytes, have %d: %w", len(s), len(out), ErrBufferTooSmall)
	}
	return copy(out, s), nil
}

// FillHex writes the canonical hex representation of x into out, returning
// the number of bytes written. If out is too small it fails with
// ErrBufferTooSmall and writes nothing.
func (x *Int) FillHex(out []byte) (int, error) {
	s := x.Hex()
	if len(s) > len(out) {
		return 0, fmt.Errorf("hex needs %d bytes, have %d: %w", len(s), len(out), ErrBufferTooSmall)
	}
	return copy(out, s), nil
}

// FromBytes interprets buf as a big-endian unsigned integer.
func FromBytes(buf []byte) *Int {
	limbs := make([]Word, (len(buf)*8+_W-1)/_W)
	for p := 0; p < len(buf); p++ {
		// byte p positions from the end lands at bit offset 8p; limbs are
		// byte-aligned so a byte never straddles two limbs
		off := uint(p) * 8
		limbs[off/_W] |= Word(buf[len(buf)-1-p]) << (off % _W)
	}
	return &Int{limbs: norm(limbs)}
}

// Bytes returns the minimal big-endian representation of x. The
// representation of 0 is an empty slice.
func (x *Int) Bytes() []byte {
	out := make([]byte, x.ByteLen())
	// cannot fail: out is exactly wide enough
	if err := x.FillBytes(out); err != nil {
		panic("bigint: Bytes: " + err.Error())
	}
	return out
}

// FillBytes writes x into out as a fixed-width big-endian field, padded
// with leading zeros. It fails with ErrBufferTooSmall when x does not fit,
// writing nothing.
func (x *Int) FillBytes(out []byte) error {
	if need := x.ByteLen(); need > len(out) {
		return fmt.Errorf("value needs %d bytes, have %d: %w", need, len(out), ErrBufferTooSmall)
	}
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < len(out); i++ {
		off := uint(i) * 8
		limb := int(off / _W)
		if limb >= len(x.limbs) {
			break
		}
		out[len(out)-1-i] = byte(x.limbs[limb] >> (off % _W))
	}
	return nil
}
