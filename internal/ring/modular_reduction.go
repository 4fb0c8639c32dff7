package ring

import (
	"math/big"
	"math/bits"

	"golang.org/x/exp/constraints"
)

// MForm switches a into the Montgomery domain by computing a*2^64 mod q.
func MForm(a, q uint64, u []uint64) (r uint64) {
	mhi, _ := bits.Mul64(a, u[1])
	r = -(a*u[0] + mhi) * q
	if r >= q {
		r -= q
	}
	return
}

// InvMForm switches a out of the Montgomery domain by computing a*(1/2^64) mod q.
func InvMForm(a, q, qInv uint64) (r uint64) {
	r, _ = bits.Mul64(a*qInv, q)
	r = q - r
	if r >= q {
		r -= q
	}
	return
}

// MRedParams computes qInv = q^-1 mod 2^64, required by MRed.
func MRedParams(q uint64) (qInv uint64) {
	qInv = 1
	x := q
	for i := 0; i < 63; i++ {
		qInv *= x
		x *= x
	}
	return
}

// MRed computes x*y*(1/2^64) mod q (Montgomery multiplication).
func MRed(x, y, q, qInv uint64) (r uint64) {
	ahi, alo := bits.Mul64(x, y)
	h, _ := bits.Mul64(alo*qInv, q)
	r = ahi - h + q
	if r >= q {
		r -= q
	}
	return
}

// BRedParams computes the Barrett reduction parameters u = [hi, lo] such
// that floor(2^128/q) == hi*2^64 + lo: the precomputed multiplier m with
// x mod q = x - ((x*m)>>k)*q.
func BRedParams(q uint64) []uint64 {
	bigR := new(big.Int).Lsh(big.NewInt(1), 128)
	bigR.Quo(bigR, new(big.Int).SetUint64(q))

	hi := new(big.Int).Rsh(bigR, 64).Uint64()
	lo := bigR.Uint64()

	return []uint64{hi, lo}
}

// BRedAdd reduces x (0 <= x < 2q) into [0, q) with a single conditional subtraction.
func BRedAdd(x, q uint64) uint64 {
	if x >= q {
		return x - q
	}
	return x
}

// BRed computes x*y mod q using Barrett reduction with precomputed params u = [hi, lo].
func BRed(x, y, q uint64, u []uint64) (r uint64) {
	var lhi, mhi, mlo, s0, s1, carry uint64

	ahi, alo := bits.Mul64(x, y)

	lhi, _ = bits.Mul64(alo, u[1])

	mhi, mlo = bits.Mul64(alo, u[0])
	s0, carry = bits.Add64(mlo, lhi, 0)
	s1 = mhi + carry

	mhi, mlo = bits.Mul64(ahi, u[1])
	_, carry = bits.Add64(mlo, s0, 0)
	lhi = mhi + carry

	s0 = ahi*u[0] + s1 + lhi

	r = alo - s0*q
	if r >= q {
		r -= q
	}
	return
}

// ReferenceReduce is the straightforward integer-modulo reduction back-end.
func ReferenceReduce(x, q uint64) uint64 {
	return x % q
}

// FloatReduce implements the floating-point reduction back-end:
// x - q*floor(x*invQ), with double-precision invQ = 1/q.
func FloatReduce(x, q uint64, invQ float64) uint64 {
	qf := float64(x) * invQ
	r := x - q*uint64(qf)
	for r >= q {
		r -= q
	}
	return r
}

// AbsMax returns the largest absolute value among a centered coefficient
// vector, shared by every scheme's rejection-sampling bound check
// (BLISS-B's z1/z2 infinity-norm test, Dilithium's w1/z/r0 bound checks).
func AbsMax[T constraints.Signed](v []T) T {
	var m T
	for _, c := range v {
		if c < 0 {
			c = -c
		}
		if c > m {
			m = c
		}
	}
	return m
}

// ModExp computes base^exp mod q by square-and-multiply.
func ModExp(base, exp, q uint64) uint64 {
	result := uint64(1) % q
	base %= q
	for exp > 0 {
		if exp&1 == 1 {
			result = mulModSlow(result, base, q)
		}
		base = mulModSlow(base, base, q)
		exp >>= 1
	}
	return result
}

func mulModSlow(x, y, q uint64) uint64 {
	hi, lo := bits.Mul64(x, y)
	_, rem := bits.Div64(hi%q, lo, q)
	return rem
}
