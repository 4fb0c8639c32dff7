// Package ring implements modular polynomial arithmetic over Z_q[x]/(x^N+1)
// (and the ternary Falcon variant Z_q[x]/(x^N - x^(N/2) + 1)): coefficient-wise
// add/sub/scalar operations, forward/inverse NTT, and four interchangeable
// reduction back-ends. It is grounded on the reference implementation's ring
// package (github.com/tuneinsight/lattigo/v5/ring), narrowed from an RNS
// (multi-modulus) ring to the single-modulus rings these parameter sets use.
package ring

import "fmt"

// Backend selects the modular-reduction strategy used by coefficient-wise
// operations.
type Backend int

const (
	// Reference is the straightforward integer-modulo reduction.
	Reference Backend = iota
	// Barrett precomputes (m, k) and reduces with one conditional subtraction.
	Barrett
	// FloatingPoint reduces using a double-precision reciprocal of q.
	FloatingPoint
	// AVX is the optional vectorised Barrett back-end. This pure-Go build
	// executes the identical Barrett code path as Backend Barrett; see
	// DESIGN.md for why no SIMD intrinsics are used.
	AVX
)

// String names the back-end.
func (b Backend) String() string {
	switch b {
	case Reference:
		return "reference"
	case Barrett:
		return "barrett"
	case FloatingPoint:
		return "floating-point"
	case AVX:
		return "avx"
	default:
		return fmt.Sprintf("Backend(%d)", int(b))
	}
}

// Ring holds the precomputed parameters needed to operate on polynomials of
// degree N modulo the prime Q, plus the chosen reduction Backend.
type Ring struct {
	N int
	Q uint64

	Backend Backend

	table *Table
}

// NewRing builds a Ring for a binary cyclotomic degree N (power of two) and
// prime modulus q congruent to 1 mod 2N, generating the NTT tables.
func NewRing(n int, q uint64, backend Backend) (*Ring, error) {
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("ring: N=%d is not a power of two", n)
	}
	t := NewTable(n, q)
	if err := t.GenNTTParams(uint64(2 * n)); err != nil {
		return nil, err
	}
	return &Ring{N: n, Q: q, Backend: backend, table: t}, nil
}

// NewTernaryRing builds a Ring for Falcon's ternary cyclotomic ring of degree
// n = 3*2^k, using a 4N-th root of unity.
func NewTernaryRing(n int, q uint64, backend Backend) (*Ring, error) {
	t := NewTable(n, q)
	if err := t.GenNTTParams(uint64(4 * n)); err != nil {
		return nil, err
	}
	return &Ring{N: n, Q: q, Backend: backend, table: t}, nil
}

// NewPoly allocates a zero polynomial in this ring's standard domain.
func (r *Ring) NewPoly() Poly {
	return NewPoly(r.N)
}

// reduce applies the ring's selected Backend to bring x (assumed < q^2 or so)
// into [0, q).
func (r *Ring) reduce(x uint64) uint64 {
	switch r.Backend {
	case Reference:
		return ReferenceReduce(x, r.Q)
	case FloatingPoint:
		return FloatReduce(x, r.Q, r.table.FloatInvQ)
	default: // Barrett, AVX
		return BRed(x, 1, r.Q, r.table.BRedParams)
	}
}

// Add computes p1 + p2 -> out, coefficient-wise mod q.
func (r *Ring) Add(p1, p2 Poly, out Poly) {
	requireSameDomain(p1, p2)
	for i := 0; i < r.N; i++ {
		s := p1.Coeffs[i] + p2.Coeffs[i]
		if s >= r.Q {
			s -= r.Q
		}
		out.Coeffs[i] = s
	}
	out.Domain = p1.Domain
}

// Sub computes p1 - p2 -> out, coefficient-wise mod q.
func (r *Ring) Sub(p1, p2 Poly, out Poly) {
	requireSameDomain(p1, p2)
	for i := 0; i < r.N; i++ {
		var s uint64
		if p1.Coeffs[i] >= p2.Coeffs[i] {
			s = p1.Coeffs[i] - p2.Coeffs[i]
		} else {
			s = p1.Coeffs[i] + r.Q - p2.Coeffs[i]
		}
		out.Coeffs[i] = s
	}
	out.Domain = p1.Domain
}

// AddScalar adds a scalar to every coefficient of p -> out.
func (r *Ring) AddScalar(p Poly, scalar uint64, out Poly) {
	scalar %= r.Q
	for i := 0; i < r.N; i++ {
		s := p.Coeffs[i] + scalar
		if s >= r.Q {
			s -= r.Q
		}
		out.Coeffs[i] = s
	}
	out.Domain = p.Domain
}

// SubScalar subtracts a scalar from every coefficient of p -> out.
func (r *Ring) SubScalar(p Poly, scalar uint64, out Poly) {
	scalar %= r.Q
	for i := 0; i < r.N; i++ {
		var s uint64
		if p.Coeffs[i] >= scalar {
			s = p.Coeffs[i] - scalar
		} else {
			s = p.Coeffs[i] + r.Q - scalar
		}
		out.Coeffs[i] = s
	}
	out.Domain = p.Domain
}

// MulScalar multiplies every coefficient of p by a scalar -> out.
func (r *Ring) MulScalar(p Poly, scalar uint64, out Poly) {
	scalar = r.reduce(scalar)
	for i := 0; i < r.N; i++ {
		out.Coeffs[i] = r.reduce(p.Coeffs[i] * scalar)
	}
	out.Domain = p.Domain
}

// MulCoeffs computes the pointwise product of p1 and p2 -> out. Both operands
// must be in the NTT domain.
func (r *Ring) MulCoeffs(p1, p2 Poly, out Poly) {
	if p1.Domain != NTT || p2.Domain != NTT {
		panic("ring: MulCoeffs requires both operands in the NTT domain")
	}
	for i := 0; i < r.N; i++ {
		out.Coeffs[i] = r.reduce(p1.Coeffs[i] * p2.Coeffs[i])
	}
	out.Domain = NTT
}

// MulSparse multiplies p (a dense polynomial, standard domain) by c, a sparse
// polynomial whose coefficients are in {-1, 0, +1}, given as the positions of
// its non-zero coefficients (indices) and their signs (signs), via negacyclic
// convolution. Used for BLISS-B's and Dilithium's challenge
// multiplications.
func (r *Ring) MulSparse(p Poly, indices []int, signs []int8, out Poly) {
	out.Zero()
	n := r.N
	for k, idx := range indices {
		sign := signs[k]
		for i := 0; i < n; i++ {
			j := i + idx
			coeff := p.Coeffs[i]
			neg := false
			if j >= n {
				j -= n
				neg = !neg
			}
			if sign < 0 {
				neg = !neg
			}
			if neg {
				out.Coeffs[j] = r.subMod(out.Coeffs[j], coeff)
			} else {
				out.Coeffs[j] = r.addMod(out.Coeffs[j], coeff)
			}
		}
	}
	out.Domain = p.Domain
}

func (r *Ring) addMod(a, b uint64) uint64 {
	s := a + b
	if s >= r.Q {
		s -= r.Q
	}
	return s
}

func (r *Ring) subMod(a, b uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + r.Q - b
}

// Center reduces every coefficient of p into (-q/2, q/2], returned as signed
// int64 values.
func (r *Ring) Center(p Poly) []int64 {
	out := make([]int64, r.N)
	half := int64(r.Q / 2)
	for i, c := range p.Coeffs {
		v := int64(c)
		if v > half {
			v -= int64(r.Q)
		}
		out[i] = v
	}
	return out
}

// Normalize reduces every coefficient of p, read as an unsigned value, into
// [0, q).
func (r *Ring) Normalize(p Poly) {
	for i, c := range p.Coeffs {
		p.Coeffs[i] = c % r.Q
	}
}

// Invert computes the pointwise multiplicative inverse of p (NTT domain) via
// Fermat's little theorem x^(q-2). It returns an error ("not invertible") if
// any coefficient is zero.
func (r *Ring) Invert(p Poly, out Poly) error {
	if p.Domain != NTT {
		panic("ring: Invert requires the NTT domain")
	}
	for i := 0; i < r.N; i++ {
		if p.Coeffs[i] == 0 {
			return fmt.Errorf("ring: not invertible (zero coefficient at %d)", i)
		}
		out.Coeffs[i] = ModExp(p.Coeffs[i], r.Q-2, r.Q)
	}
	out.Domain = NTT
	return nil
}

func requireSameDomain(p1, p2 Poly) {
	if p1.Domain != p2.Domain {
		panic("ring: mixing-domain operation")
	}
}

// MulBinary computes the product of two polynomials over the binary ring
// Z_2[x]/(x^N+1) (coefficients reduced mod 2), used by ENS-KEM's g-inverse
// step.
func MulBinary(a, b []uint8, out []uint8) {
	n := len(a)
	for i := range out {
		out[i] = 0
	}
	for i := 0; i < n; i++ {
		if a[i] == 0 {
			continue
		}
		for j := 0; j < n; j++ {
			if b[j] == 0 {
				continue
			}
			k := i + j
			if k >= n {
				k -= n
				out[k] ^= 1 // (x^n = -1 = 1 mod 2)
			} else {
				out[k] ^= 1
			}
		}
	}
}
