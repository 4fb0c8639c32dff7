package bliss

import (
	intmlwe "github.com/safecrypto/libsafecrypto-sub000/internal/mlwe"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
)

// sampleTernary draws a ring element with exactly `weight` non-zero
// coefficients valued +-1 at uniformly random, distinct positions, the key
// distribution nu: a live-PRNG Fisher-Yates pull, structurally the same
// shuffle-into-place construction intmlwe.Oracle uses against a XOF, but
// driven directly by src since key material must not be deterministically
// re-derivable from a public seed.
func sampleTernary(r *ring.Ring, src prng.Stream, weight int) (ring.Poly, error) {
	n := r.N
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	buf := make([]byte, 8)

	p := r.NewPoly()
	for i := n - weight; i < n; i++ {
		j, err := randBelow(src, buf, i+1)
		if err != nil {
			return ring.Poly{}, err
		}
		perm[i], perm[j] = perm[j], perm[i]

		var signByte [1]byte
		if _, err := src.Read(signByte[:]); err != nil {
			return ring.Poly{}, err
		}
		if signByte[0]&1 == 0 {
			p.Coeffs[perm[i]] = r.Q - 1
		} else {
			p.Coeffs[perm[i]] = 1
		}
	}
	return p, nil
}

func randBelow(src prng.Stream, buf []byte, bound int) (int, error) {
	if _, err := src.Read(buf); err != nil {
		return 0, err
	}
	v := 0
	for _, b := range buf {
		v = (v << 8) | int(b)
	}
	if v < 0 {
		v = -v
	}
	return v % bound, nil
}

// sparseChallenge maps a fixed seed to `weight` distinct indices in [0, n)
// with signs +-1, reusing the Module-LWE family's random-oracle indexing
// construction (the same Fisher-Yates-over-a-XOF shape this scheme's key
// sampler runs against a live PRNG instead).
func sparseChallenge(n, weight int, seed []byte) (indices []int, signs []int8) {
	return intmlwe.Oracle(n, weight, seed)
}
