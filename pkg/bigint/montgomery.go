package bigint

import "fmt"

// Montgomery carries the constants for REDC-based modular multiplication
// with respect to one modulus n.
//
// The context is active only when n is odd and greater than 1. An inactive
// context still remembers n, and Exp falls back to direct divide-based
// reduction, so callers never branch on which strategy runs. A context is
// immutable once built.
type Montgomery struct {
	n *Int
	// rBits is k with R = 2^k, the smallest multiple of the limb width
	// such that R > n.
	rBits uint
	// nPrime = -n⁻¹ (mod R)
	nPrime *Int
	// rModN = R (mod n), which is also 1 in the Montgomery domain
	rModN *Int
	// r2ModN = R² (mod n), the to-Montgomery multiplier
	r2ModN *Int
	active bool
}

// NewMontgomery derives the REDC constants for n. For an even modulus, or
// n ≤ 1, the context is marked inactive and no constants are computed.
func NewMontgomery(n *Int) *Montgomery {
	m := &Montgomery{n: n.clone()}
	if n.IsZero() || n.IsEven() || n.Cmp(one) == 0 {
		return m
	}
	k := uint((n.BitLen() + _W - 1) / _W * _W)
	r := one.Lsh(k)

	// n odd means n is invertible mod R; negate to get n′ with
	// n·n′ ≡ -1 (mod R).
	inv := invertModPow2(m.n, k)
	nPrime, err := r.Sub(inv)
	if err != nil {
		panic("bigint: montgomery: inverse exceeds radix")
	}

	_, rModN, _ := r.DivMod(m.n)
	_, r2ModN, _ := rModN.Mul(rModN).DivMod(m.n)

	m.rBits = k
	m.nPrime = nPrime
	m.rModN = rModN
	m.r2ModN = r2ModN
	m.active = true
	return m
}

// Active reports whether the REDC fast path is available for this modulus.
func (m *Montgomery) Active() bool {
	return m.active
}

// Modulus returns the modulus the context was built for.
func (m *Montgomery) Modulus() *Int {
	return m.n
}

// invertModW calculates x⁻¹ mod 2^_W for odd x by Newton–Raphson
// iteration; every step doubles the number of correct low bits.
func invertModW(x Word) Word {
	y := x
	// five iterations reach 64 bits; the spare one is cheap on 32
	for i := 0; i < 5; i++ {
		y = y * (2 - x*y)
	}
	return y
}

// invertModPow2 computes n⁻¹ mod 2^k for odd n, lifting the single-limb
// inverse quadratically until it covers k bits.
func invertModPow2(n *Int, k uint) *Int {
	y := &Int{limbs: []Word{invertModW(n.limbs[0])}}
	for have := uint(_W); have < k; have *= 2 {
		// y = y·(2 − n·y) mod 2^(2·have)
		span := 2 * have
		t := n.Mul(y).truncBits(span)
		t, _ = one.Lsh(span).Add(two).Sub(t)
		y = y.Mul(t).truncBits(span)
	}
	return y.truncBits(k)
}

// redc reduces t < n·R to t·R⁻¹ mod n with a single conditional
// correction (the standard REDC bound).
func (m *Montgomery) redc(t *Int) *Int {
	// u = (t mod R)·n′ mod R
	u := t.truncBits(m.rBits).Mul(m.nPrime).truncBits(m.rBits)
	// v = (t + u·n) / R, exact by construction
	v := t.Add(u.Mul(m.n)).Rsh(m.rBits)
	if v.Cmp(m.n) >= 0 {
		v, _ = v.Sub(m.n)
	}
	return v
}

// mul returns REDC(a·b), keeping Montgomery-domain operands reduced below n.
func (m *Montgomery) mul(a, b *Int) *Int {
	return m.redc(a.Mul(b))
}

// toMont maps x < n into the Montgomery domain.
func (m *Montgomery) toMont(x *Int) *Int {
	return m.mul(x, m.r2ModN)
}

// fromMont maps x back out of the Montgomery domain.
func (m *Montgomery) fromMont(x *Int) *Int {
	return m.redc(x)
}

// Exp computes base^exponent mod n by left-to-right binary
// square-and-multiply: the running result is squared at every exponent bit
// and multiplied by the base on set bits.
//
// An active context keeps the intermediate values in the Montgomery domain
// and converts out once at the end; an inactive one reduces every product
// directly through DivMod. Both paths return identical results for all
// valid inputs.
func (m *Montgomery) Exp(base, exponent *Int) (*Int, error) {
	if m.n.IsZero() {
		return nil, fmt.Errorf("modexp with zero modulus: %w", ErrDivisionByZero)
	}
	if m.n.Cmp(one) == 0 {
		return new(Int), nil
	}
	_, b, err := base.DivMod(m.n)
	if err != nil {
		return nil, err
	}
	if exponent.IsZero() {
		return one.clone(), nil
	}
	if m.active {
		return m.expMont(b, exponent), nil
	}
	return m.expDirect(b, exponent), nil
}

func (m *Montgomery) expMont(base, exponent *Int) *Int {
	result := m.rModN.clone() // 1 in the Montgomery domain
	baseM := m.toMont(base)
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result = m.mul(result, result)
		if exponent.Bit(uint(i)) != 0 {
			result = m.mul(result, baseM)
		}
	}
	return m.fromMont(result)
}

func (m *Montgomery) expDirect(base, exponent *Int) *Int {
	mulMod := func(a, b *Int) *Int {
		_, r, _ := a.Mul(b).DivMod(m.n)
		return r
	}
	result := one.clone()
	for i := exponent.BitLen() - 1; i >= 0; i-- {
		result = mulMod(result, result)
		if exponent.Bit(uint(i)) != 0 {
			result = mulMod(result, base)
		}
	}
	return result
}

// Exp computes base^exponent mod modulus with a one-shot Montgomery
// context, for callers that do not reuse the modulus.
func Exp(base, exponent, modulus *Int) (*Int, error) {
	return NewMontgomery(modulus).Exp(base, exponent)
}
