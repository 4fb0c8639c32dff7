// Package mlwe implements Module-LWE arithmetic helpers shared by
// Kyber-CPA/KEM and Dilithium/Dilithium-G: compress/decompress, power-of-2
// rounding, high/low-order decomposition, MakeHint/UseHint, the
// random-product expansion Ay, and the sparse-challenge oracle. Grounded on
// the reference ring package's ring.Ring arithmetic (internal/ring)
// generalised from lattigo's RNS rescale/decompose helpers
// (ring/ring_scaling.go family) to these single-modulus Dilithium/Kyber-shaped
// formulas.
package mlwe

import (
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
)

// Compress maps x in [0, q) to [0, 2^d) via floor((x*2^d + q/2)/q) mod 2^d.
func Compress(x, q uint64, d int) uint64 {
	num := x*(uint64(1)<<uint(d)) + q/2
	return (num / q) % (uint64(1) << uint(d))
}

// Decompress maps [0, 2^d) back to [0, q) via floor(x*q/2^d).
func Decompress(x uint64, q uint64, d int) uint64 {
	return (x * q) / (uint64(1) << uint(d))
}

// Pwr2Round splits x in [0, q) into (t1, t0) with x = t1*2^d + t0 and
// |t0| <= 2^(d-1), Dilithium's public-key rounding.
func Pwr2Round(x uint64, d int) (t1 int64, t0 int64) {
	pow := int64(1) << uint(d)
	xi := int64(x)
	t0 = xi % pow
	if t0 > pow/2 {
		t0 -= pow
	}
	t1 = (xi - t0) / pow
	return
}

// Decompose splits x in [0, q) into (r1, r0) with x = r1*alpha + r0 and r0 in
// (-alpha/2, alpha/2], handling the wrap-around case where x = q-1 (mod q) by
// forcing r1 = 0 and r0 -> r0 - 1.
func Decompose(x, alpha, q uint64) (r1 int64, r0 int64) {
	xi := int64(x)
	a := int64(alpha)
	r0 = xi % a
	if r0 > a/2 {
		r0 -= a
	}
	if xi-r0 == int64(q)-1 {
		r1 = 0
		r0--
	} else {
		r1 = (xi - r0) / a
	}
	return
}

// DecomposeG is the Dilithium-G variant of Decompose, parameterised by the
// same alpha but without the dedicated q-1 wrap rule (Dilithium-G's
// continuous-Gaussian masking removes the boundary case that motivates it).
func DecomposeG(x, alpha, q uint64) (r1 int64, r0 int64) {
	xi := int64(x)
	a := int64(alpha)
	r0 = xi % a
	if r0 > a/2 {
		r0 -= a
	}
	r1 = (xi - r0) / a
	return
}

// HighOrderBits returns r1 for every coefficient of a kn-element buffer.
func HighOrderBits(x []uint64, alpha, q uint64) []int64 {
	out := make([]int64, len(x))
	for i, v := range x {
		r1, _ := Decompose(v, alpha, q)
		out[i] = r1
	}
	return out
}

// LowOrderBits returns r0 for every coefficient of a kn-element buffer.
func LowOrderBits(x []uint64, alpha, q uint64) []int64 {
	out := make([]int64, len(x))
	for i, v := range x {
		_, r0 := Decompose(v, alpha, q)
		out[i] = r0
	}
	return out
}

// MakeHint produces a minimal binary hint array marking positions where
// HighOrderBits(r) differs from HighOrderBits(r+z).
func MakeHint(r, z []uint64, alpha, q uint64) []bool {
	hint := make([]bool, len(r))
	for i := range r {
		r1, _ := Decompose(r[i], alpha, q)
		sum := (r[i] + z[i]) % q
		r1p, _ := Decompose(sum, alpha, q)
		hint[i] = r1 != r1p
	}
	return hint
}

// UseHint reconstructs r1 from (r+z) and the hint h.
func UseHint(h []bool, rPlusZ []uint64, alpha, q uint64) []int64 {
	out := make([]int64, len(rPlusZ))
	m := int64(q-1) / int64(alpha)
	for i, v := range rPlusZ {
		r1, r0 := Decompose(v, alpha, q)
		if !h[i] {
			out[i] = r1
			continue
		}
		if r0 > 0 {
			out[i] = (r1 + 1) % m
		} else {
			out[i] = (r1 - 1 + m) % m
		}
	}
	return out
}

// MakeHintG / UseHintG are the Dilithium-G signed-integer hint variants.
func MakeHintG(r, z []uint64, alpha, q uint64) []int32 {
	hint := make([]int32, len(r))
	for i := range r {
		r1, _ := DecomposeG(r[i], alpha, q)
		sum := (r[i] + z[i]) % q
		r1p, _ := DecomposeG(sum, alpha, q)
		hint[i] = int32(r1p - r1)
	}
	return hint
}

func UseHintG(h []int32, r []uint64, alpha, q uint64) []int64 {
	out := make([]int64, len(r))
	for i, v := range r {
		r1, _ := DecomposeG(v, alpha, q)
		out[i] = r1 + int64(h[i])
	}
	return out
}

// CreateRandProduct expands a k x l matrix of uniformly random ring
// polynomials from a seeded source and computes A*y (or A^T*y when
// transpose is set). y is provided in the standard domain; it is
// NTT-transformed into a scratch buffer unless inNTTDomain is already true,
// honoring the caller's in-place-vs-scratch choice. The accumulator is
// normalised into [0, q) after every row to avoid overflow at larger
// parameter sets.
func CreateRandProduct(r *ring.Ring, seed []byte, y []ring.Poly, k, l int, transpose, inNTTDomain bool) ([]ring.Poly, error) {
	yNTT := make([]ring.Poly, l)
	for i := range y {
		if inNTTDomain {
			yNTT[i] = y[i]
		} else {
			yNTT[i] = r.NewPoly()
			r.Forward(y[i], yNTT[i])
		}
	}

	result := make([]ring.Poly, k)
	for row := 0; row < k; row++ {
		acc := r.NewPoly()
		acc.Domain = ring.NTT
		for col := 0; col < l; col++ {
			var aRow, aCol int
			if transpose {
				aRow, aCol = col, row
			} else {
				aRow, aCol = row, col
			}
			aPoly := r.NewPoly()
			aPoly.Domain = ring.NTT
			if err := expandUniform(r, seed, aRow, aCol, aPoly); err != nil {
				return nil, err
			}
			term := r.NewPoly()
			r.MulCoeffs(aPoly, yNTT[col], term)
			r.Add(acc, term, acc)
		}
		r.Normalize(acc)
		result[row] = acc
	}
	return result, nil
}

// expandUniform deterministically expands the (row, col) block of matrix A
// from seed using a XOF, matching Kyber's/Dilithium's "ExpandA" convention
// (a seeded uniform-rejection sample per matrix entry keyed on its
// coordinates).
func expandUniform(r *ring.Ring, seed []byte, row, col int, out ring.Poly) error {
	xof, err := newMatrixXOF(seed, row, col)
	if err != nil {
		return err
	}
	u := newRejectionSampler(r.Q)
	for i := 0; i < r.N; i++ {
		v, err := u.next(xof)
		if err != nil {
			return err
		}
		out.Coeffs[i] = v
	}
	return nil
}

type rejectionSampler struct {
	q    uint64
	mask uint64
}

func newRejectionSampler(q uint64) *rejectionSampler {
	bitLen := 0
	for t := q - 1; t > 0; t >>= 1 {
		bitLen++
	}
	return &rejectionSampler{q: q, mask: (uint64(1) << uint(bitLen)) - 1}
}

func (u *rejectionSampler) next(xof prng.Stream) (uint64, error) {
	buf := make([]byte, 8)
	for {
		if _, err := xof.Read(buf); err != nil {
			return 0, err
		}
		v := uint64(0)
		for _, b := range buf {
			v = (v << 8) | uint64(b)
		}
		v &= u.mask
		if v < u.q {
			return v, nil
		}
	}
}
