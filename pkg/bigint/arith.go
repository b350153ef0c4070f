package bigint

import (
	"fmt"
	"math/bits"
)

// Add returns x + y.
func (x *Int) Add(y *Int) *Int {
	a, b := x.limbs, y.limbs
	if len(a) < len(b) {
		a, b = b, a
	}
	out := make([]Word, len(a), len(a)+1)
	var c uint
	for i := range a {
		var bi uint
		if i < len(b) {
			bi = uint(b[i])
		}
		s, carry := bits.Add(uint(a[i]), bi, c)
		out[i] = Word(s)
		c = carry
	}
	if c != 0 {
		out = append(out, 1)
	}
	return &Int{limbs: out}
}

// Sub returns x - y. It fails with ErrUnderflow when x < y: the RSA
// arithmetic in this module never needs a negative result.
func (x *Int) Sub(y *Int) (*Int, error) {
	if x.Cmp(y) < 0 {
		return nil, fmt.Errorf("%d-bit minuend smaller than %d-bit subtrahend: %w",
			x.BitLen(), y.BitLen(), ErrUnderflow)
	}
	out := make([]Word, len(x.limbs))
	var borrow uint
	for i := range x.limbs {
		var yi uint
		if i < len(y.limbs) {
			yi = uint(y.limbs[i])
		}
		d, b := bits.Sub(uint(x.limbs[i]), yi, borrow)
		out[i] = Word(d)
		borrow = b
	}
	return &Int{limbs: norm(out)}, nil
}

// addMulVVW computes z += x * y, returning the carry limb.
// The classic identity x·y + z + c ≤ (2^W-1)² + 2(2^W-1) < 2^2W keeps the
// running carry inside a single limb.
func addMulVVW(z, x []Word, y Word) (c Word) {
	for i := range x {
		hi, lo := bits.Mul(uint(x[i]), uint(y))
		lo, carry := bits.Add(lo, uint(c), 0)
		hi += carry
		lo, carry = bits.Add(lo, uint(z[i]), 0)
		hi += carry
		z[i] = Word(lo)
		c = Word(hi)
	}
	return c
}

// Mul returns x * y using schoolbook multiplication with a full
// double-width accumulator.
func (x *Int) Mul(y *Int) *Int {
	if x.IsZero() || y.IsZero() {
		return new(Int)
	}
	out := make([]Word, len(x.limbs)+len(y.limbs))
	for i, yi := range y.limbs {
		out[i+len(x.limbs)] = addMulVVW(out[i:i+len(x.limbs)], x.limbs, yi)
	}
	return &Int{limbs: norm(out)}
}

// DivMod returns the quotient and remainder of x / y.
//
// The division is plain binary long division: the dividend's bits are fed
// into the remainder most significant first, subtracting y whenever the
// remainder reaches it.
func (x *Int) DivMod(y *Int) (q, r *Int, err error) {
	if y.IsZero() {
		return nil, nil, ErrDivisionByZero
	}
	if x.Cmp(y) < 0 {
		return new(Int), x.clone(), nil
	}
	n := x.BitLen()
	quo := make([]Word, (n+_W-1)/_W)
	rem := make([]Word, 0, len(y.limbs)+1)
	for i := n - 1; i >= 0; i-- {
		rem = shl1(rem)
		if x.Bit(uint(i)) != 0 {
			if len(rem) == 0 {
				rem = append(rem, 0)
			}
			rem[0] |= 1
		}
		if cmpWords(rem, y.limbs) >= 0 {
			subInPlace(rem, y.limbs)
			rem = norm(rem)
			quo[i/_W] |= 1 << (uint(i) % _W)
		}
	}
	return &Int{limbs: norm(quo)}, &Int{limbs: norm(rem)}, nil
}

// shl1 shifts a limb slice left by one bit in place, growing it if the top
// bit spills over.
func shl1(x []Word) []Word {
	var carry Word
	for i := range x {
		next := x[i] >> (_W - 1)
		x[i] = x[i]<<1 | carry
		carry = next
	}
	if carry != 0 {
		x = append(x, carry)
	}
	return x
}

// subInPlace computes x -= y, requiring x >= y.
func subInPlace(x, y []Word) {
	var borrow uint
	for i := range x {
		var yi uint
		if i < len(y) {
			yi = uint(y[i])
		}
		d, b := bits.Sub(uint(x[i]), yi, borrow)
		x[i] = Word(d)
		borrow = b
	}
}

// mulAddWW computes x = x*m + a in place, used by the decimal parser.
func mulAddWW(x []Word, m, a Word) []Word {
	c := uint(a)
	for i := range x {
		hi, lo := bits.Mul(uint(x[i]), uint(m))
		lo, carry := bits.Add(lo, c, 0)
		x[i] = Word(lo)
		c = hi + carry
	}
	if c != 0 {
		x = append(x, Word(c))
	}
	return x
}

// divModW returns x / d and x mod d for a single-limb divisor.
func (x *Int) divModW(d Word) (*Int, Word) {
	out := make([]Word, len(x.limbs))
	var rem uint
	for i := len(x.limbs) - 1; i >= 0; i-- {
		var quo uint
		quo, rem = bits.Div(rem, uint(x.limbs[i]), uint(d))
		out[i] = Word(quo)
	}
	return &Int{limbs: norm(out)}, Word(rem)
}
