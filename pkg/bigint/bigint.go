// Package bigint implements arbitrary-precision unsigned integers for the
// RSA core, together with a Montgomery-REDC modular exponentiation engine.
//
// Int is a value type: every operation returns a fresh value and no method
// mutates its receiver or operands, so values may be shared freely across
// goroutines.
package bigint

import (
	"errors"
	"math/bits"
)

// Word is one limb of an Int.
type Word = uint

// _W is the number of bits per limb.
const _W = bits.UintSize

var (
	// ErrSyntax is returned when numeral text is empty or contains a
	// character that is not a digit of the expected base.
	ErrSyntax = errors.New("bigint: invalid numeral syntax")
	// ErrUnderflow is returned by Sub when the minuend is smaller than the
	// subtrahend. The RSA layer never subtracts larger from smaller, so
	// hitting this indicates a caller bug rather than bad input.
	ErrUnderflow = errors.New("bigint: subtraction underflow")
	// ErrDivisionByZero is returned by DivMod and Exp for a zero divisor
	// or modulus.
	ErrDivisionByZero = errors.New("bigint: division by zero")
	// ErrBufferTooSmall is returned by the Fill functions when the
	// canonical representation does not fit the provided buffer. Nothing
	// is written in that case.
	ErrBufferTooSmall = errors.New("bigint: buffer too small")
)

// Int is an arbitrary-precision non-negative integer.
//
// The representation is a little-endian limb slice in canonical form: the
// highest limb is never zero, and the value zero is the empty slice. The
// zero value of Int is the number 0 and is ready to use.
type Int struct {
	limbs []Word
}

// New returns x as an Int.
func New(x uint64) *Int {
	z := new(Int)
	if x == 0 {
		return z
	}
	if _W == 32 && x>>32 != 0 {
		z.limbs = []Word{Word(x), Word(x >> 32)}
		return z
	}
	z.limbs = []Word{Word(x)}
	return z
}

var (
	one = New(1)
	two = New(2)
	ten = New(10)
)

// norm trims high zero limbs so the slice is canonical.
func norm(x []Word) []Word {
	for len(x) > 0 && x[len(x)-1] == 0 {
		x = x[:len(x)-1]
	}
	return x
}

func (x *Int) clone() *Int {
	z := &Int{limbs: make([]Word, len(x.limbs))}
	copy(z.limbs, x.limbs)
	return z
}

// IsZero reports whether x is 0.
func (x *Int) IsZero() bool {
	return len(x.limbs) == 0
}

// IsEven reports whether x is even. 0 counts as even.
func (x *Int) IsEven() bool {
	return len(x.limbs) == 0 || x.limbs[0]&1 == 0
}

// IsOdd reports whether x is odd.
func (x *Int) IsOdd() bool {
	return !x.IsEven()
}

// BitLen returns the length of x in bits. The bit length of 0 is 0.
func (x *Int) BitLen() int {
	if len(x.limbs) == 0 {
		return 0
	}
	return (len(x.limbs)-1)*_W + bits.Len(uint(x.limbs[len(x.limbs)-1]))
}

// ByteLen returns the number of bytes needed to represent x big-endian.
func (x *Int) ByteLen() int {
	return (x.BitLen() + 7) / 8
}

// Bit returns bit i of x (0 or 1). Bits beyond BitLen are 0.
func (x *Int) Bit(i uint) uint {
	limb := int(i / _W)
	if limb >= len(x.limbs) {
		return 0
	}
	return uint(x.limbs[limb]>>(i%_W)) & 1
}

// Cmp compares x and y, returning -1 if x < y, 0 if x == y, and +1 if x > y.
func (x *Int) Cmp(y *Int) int {
	return cmpWords(x.limbs, y.limbs)
}

func cmpWords(x, y []Word) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Lsh returns x << s.
func (x *Int) Lsh(s uint) *Int {
	if len(x.limbs) == 0 {
		return new(Int)
	}
	limbShift, bitShift := int(s/_W), s%_W
	out := make([]Word, len(x.limbs)+limbShift+1)
	if bitShift == 0 {
		copy(out[limbShift:], x.limbs)
	} else {
		var carry Word
		for i, w := range x.limbs {
			out[limbShift+i] = w<<bitShift | carry
			carry = w >> (_W - bitShift)
		}
		out[limbShift+len(x.limbs)] = carry
	}
	return &Int{limbs: norm(out)}
}

// Rsh returns x >> s. Shifting past the bit length yields 0.
func (x *Int) Rsh(s uint) *Int {
	limbShift, bitShift := int(s/_W), s%_W
	if limbShift >= len(x.limbs) {
		return new(Int)
	}
	src := x.limbs[limbShift:]
	out := make([]Word, len(src))
	if bitShift == 0 {
		copy(out, src)
	} else {
		for i := range src {
			out[i] = src[i] >> bitShift
			if i+1 < len(src) {
				out[i] |= src[i+1] << (_W - bitShift)
			}
		}
	}
	return &Int{limbs: norm(out)}
}

// truncBits returns the low k bits of x, i.e. x mod 2^k.
func (x *Int) truncBits(k uint) *Int {
	limbCount := int((k + _W - 1) / _W)
	if limbCount >= len(x.limbs) {
		return x.clone()
	}
	out := make([]Word, limbCount)
	copy(out, x.limbs[:limbCount])
	if rem := k % _W; rem != 0 {
		out[limbCount-1] &= (1 << rem) - 1
	}
	return &Int{limbs: norm(out)}
}

// Uint64 returns the low 64 bits of x.
func (x *Int) Uint64() uint64 {
	if len(x.limbs) == 0 {
		return 0
	}
	v := uint64(x.limbs[0])
	if _W == 32 && len(x.limbs) > 1 {
		v |= uint64(x.limbs[1]) << 32
	}
	return v
}
