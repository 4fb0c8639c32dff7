package ring

import (
	"fmt"
	"math/bits"
)

// Table stores the precomputed NTT and reduction parameters for a single
// modulus q and ring degree N, the way the reference ring package's
// ring.Table does for one RNS limb — this module never needs more than one
// limb since every parameter set names a single prime modulus q.
type Table struct {
	N       int
	NthRoot uint64
	Modulus uint64

	BRedParams []uint64
	MRedParams uint64
	FloatInvQ  float64

	PrimitiveRoot uint64
	Factors       []uint64

	RootsForward  []uint64 // plain form mod q, bit-reversed order
	RootsBackward []uint64 // plain form mod q, bit-reversed order
	NInv          uint64   // plain form mod q
}

// NewTable allocates the fast-reduction parameters for modulus q; call
// GenNTTParams afterwards to populate the NTT root tables.
func NewTable(n int, q uint64) *Table {
	t := &Table{N: n, Modulus: q}
	t.BRedParams = BRedParams(q)
	if q&(q-1) != 0 {
		t.MRedParams = MRedParams(q)
	}
	t.FloatInvQ = 1.0 / float64(q)
	return t
}

// GenNTTParams factors q-1, finds the smallest primitive root, and builds the
// bit-reversed root-of-unity tables for a 2N-th (or, for the ternary Falcon
// ring, 4N-th) primitive root, following the reference ring package's Table.GenNTTParams.
func (t *Table) GenNTTParams(nthRoot uint64) error {
	if t.N == 0 || t.Modulus == 0 || nthRoot < 1 {
		return fmt.Errorf("ring: invalid table parameters")
	}
	q := t.Modulus

	if !IsPrime(q) {
		return fmt.Errorf("ring: modulus %d is not prime", q)
	}
	if q%nthRoot != 1 {
		return fmt.Errorf("ring: modulus %d is not 1 mod nth-root %d", q, nthRoot)
	}

	t.NthRoot = nthRoot

	g, factors, err := PrimitiveRoot(q, nil)
	if err != nil {
		return err
	}
	t.PrimitiveRoot, t.Factors = g, factors

	logNthRoot := uint64(bits.Len64(nthRoot>>1) - 1)

	t.NInv = ModExp(nthRoot>>1, q-2, q)

	t.RootsForward = make([]uint64, nthRoot>>1)
	t.RootsBackward = make([]uint64, nthRoot>>1)

	psi := ModExp(g, (q-1)/nthRoot, q)
	psiInv := ModExp(g, q-1-(q-1)/nthRoot, q)

	t.RootsForward[0] = 1
	t.RootsBackward[0] = 1

	for j := uint64(1); j < nthRoot>>1; j++ {
		prev := bitReverse64(j-1, logNthRoot)
		next := bitReverse64(j, logNthRoot)
		t.RootsForward[next] = mulModSlow(t.RootsForward[prev], psi, q)
		t.RootsBackward[next] = mulModSlow(t.RootsBackward[prev], psiInv, q)
	}

	return nil
}

func bitReverse64(index, bitLen uint64) (r uint64) {
	for i := uint64(0); i < bitLen; i++ {
		r |= ((index >> i) & 1) << (bitLen - i - 1)
	}
	return
}

// IsPrime reports whether q is prime using trial division, which is fast
// enough for the 14-32 bit moduli used by every parameter set this library
// defines.
func IsPrime(q uint64) bool {
	if q < 2 {
		return false
	}
	if q%2 == 0 {
		return q == 2
	}
	for d := uint64(3); d*d <= q; d += 2 {
		if q%d == 0 {
			return false
		}
	}
	return true
}

// factorize returns the distinct prime factors of m by trial division.
func factorize(m uint64) []uint64 {
	var factors []uint64
	for p := uint64(2); p*p <= m; p++ {
		if m%p == 0 {
			factors = append(factors, p)
			for m%p == 0 {
				m /= p
			}
		}
	}
	if m > 1 {
		factors = append(factors, m)
	}
	return factors
}

// PrimitiveRoot computes the smallest primitive root of prime q. The unique
// factors of q-1 may be supplied to skip refactoring; when nil they are
// computed by trial division.
func PrimitiveRoot(q uint64, factors []uint64) (uint64, []uint64, error) {
	if !IsPrime(q) {
		return 0, nil, fmt.Errorf("ring: %d is not prime", q)
	}
	if factors == nil {
		factors = factorize(q - 1)
	}

	for g := uint64(2); g < q; g++ {
		isRoot := true
		for _, f := range factors {
			if ModExp(g, (q-1)/f, q) == 1 {
				isRoot = false
				break
			}
		}
		if isRoot {
			return g, factors, nil
		}
	}
	return 0, factors, fmt.Errorf("ring: no primitive root found for %d", q)
}
