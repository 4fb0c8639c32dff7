package bliss

import (
	"fmt"
	"math"

	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
)

// maxKeyGenAttempts bounds the retry loop waiting for an invertible f.
const maxKeyGenAttempts = 256

// maxSignAttempts bounds the rejection-sampling signing loop.
const maxSignAttempts = 4096

// blissCore holds one instance's key material and precomputed ring/sampler
// handles, shared by the public-contract wrapper registered with the scheme
// package.
type blissCore struct {
	ps    ParamSet
	r     *ring.Ring
	gauss *sampler.Gaussian

	f ring.Poly // private, standard domain, ternary
	g ring.Poly // private, standard domain, ternary (pre 2g+1 transform)
	a ring.Poly // public, NTT domain
}

func newCore(ps ParamSet) (*blissCore, error) {
	r, err := newRing(ps)
	if err != nil {
		return nil, err
	}
	gauss, err := sampler.NewGaussian(r, ps.Sigma, ps.Tau, sampler.CDF, sampler.Knobs{})
	if err != nil {
		return nil, err
	}
	return &blissCore{ps: ps, r: r, gauss: gauss}, nil
}

func (b *blissCore) keyGen(src prng.Stream) error {
	for attempt := 0; attempt < maxKeyGenAttempts; attempt++ {
		g, err := sampleTernary(b.r, src, b.ps.Nu)
		if err != nil {
			return err
		}
		gDoubled := b.r.NewPoly()
		b.r.MulScalar(g, 2, gDoubled)
		b.r.AddScalar(gDoubled, 1, gDoubled)
		gHat := b.r.NewPoly()
		b.r.Forward(gDoubled, gHat)

		f, err := sampleTernary(b.r, src, b.ps.Nu)
		if err != nil {
			return err
		}
		fHat := b.r.NewPoly()
		b.r.Forward(f, fHat)

		invFHat := b.r.NewPoly()
		if err := b.r.Invert(fHat, invFHat); err != nil {
			continue
		}

		aHat := b.r.NewPoly()
		b.r.MulCoeffs(gHat, invFHat, aHat)

		b.f, b.g, b.a = f, g, aHat
		return nil
	}
	return fmt.Errorf("bliss: keygen: exceeded %d attempts without an invertible f", maxKeyGenAttempts)
}

// dropModulus is BLISS-B's secondary modulus p that the commitment and z2
// vectors live in once the low D bits are dropped from a mod-2q value:
// p = floor(2q / 2^D), per bliss_params.c's per-set p field.
func dropModulus(q uint64, d int) int64 {
	return int64((2 * q) >> uint(d))
}

func mod(v, m int64) int64 {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// combineAndDrop folds v (A*y1, standard domain, residues in [0,q)) with u
// (the raw small y2 samples) into a single mod-2q value and rounds away the
// low D bits, bliss_b.c's round_and_drop: w = round((v+u) mod 2q, D) mod p.
// This is the BLISS-B commitment, and must see both y1 and y2 before any
// bits are dropped — dropping v alone (ignoring u) produces a commitment
// the real protocol never computes.
func combineAndDrop(v ring.Poly, u []int64, q uint64, d int) []int64 {
	n := len(v.Coeffs)
	twoQ := int64(2 * q)
	p := dropModulus(q, d)
	half := int64(1) << uint(d-1)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		tmp := int64(v.Coeffs[i])
		if tmp&1 == 1 {
			tmp += int64(q)
		}
		tmp = (tmp + u[i]) % twoQ
		if tmp < 0 {
			tmp += twoQ
		}
		out[i] = mod((tmp+half)>>uint(d), p)
	}
	return out
}

// roundToP normalises x into [0, 2q) and rounds it down to bliss_b.c's
// secondary modulus p the same way combineAndDrop's final step does, without
// the round_and_drop parity correction (signature_gen's tmp computation
// skips it, operating on an already-combined difference).
func roundToP(x int64, q uint64, d int) int64 {
	twoQ := int64(2 * q)
	if x < 0 {
		x += twoQ
	}
	if x >= twoQ {
		x -= twoQ
	}
	p := dropModulus(q, d)
	half := int64(1) << uint(d-1)
	return mod((x+half)>>uint(d), p)
}

// centerDiffModP centers a difference of two values already in [0,p) back
// into (-p/2, p/2], signature_gen's final normalisation of the transmitted
// z2 coefficient.
func centerDiffModP(diff, p int64) int64 {
	half := p >> 1
	if diff <= -half {
		diff += p
	} else if diff > half {
		diff -= p
	}
	return diff
}

// commitmentFromSignature reconstructs the commitment w' a verifier computes
// from A*z1 and the transmitted z2, per bliss_b.c's verify-side
// reconstruction: apply round_and_drop's parity correction to v=A*z1, add q
// (mod 2q) at each challenge index, round to p, then ADD the transmitted z2
// (the signer's compressed commitment delta, not subtract it).
func commitmentFromSignature(v ring.Poly, indices []int, z2 []int64, q uint64, d int) []int64 {
	n := len(v.Coeffs)
	twoQ := int64(2 * q)
	p := dropModulus(q, d)
	half := int64(1) << uint(d-1)

	raw := make([]int64, n)
	for i, c := range v.Coeffs {
		tmp := int64(c)
		if tmp&1 == 1 {
			tmp += int64(q)
		}
		raw[i] = tmp
	}
	for _, idx := range indices {
		raw[idx] = mod(raw[idx]+int64(q), twoQ)
	}

	out := make([]int64, n)
	for i := 0; i < n; i++ {
		out[i] = mod((raw[i]+half)>>uint(d)+z2[i], p)
	}
	return out
}

// compressZ2 is bliss_b.c's signature_gen: given the original commitment w
// (from combineAndDrop, still mod p), the raw A*y1 (v, standard domain) and
// the centered z2_final = y2 (+/-) c*g, it computes the transmitted z2
// coefficient as w - round((v - z2_final) mod 2q, D), centered back into
// (-p/2, p/2]. Unlike combineAndDrop this step does not parity-correct v:
// signature_gen normalises the already-combined difference directly.
func compressZ2(w []int64, v ring.Poly, zFinal []int64, q uint64, d int) []int64 {
	n := len(v.Coeffs)
	p := dropModulus(q, d)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		diff := int64(v.Coeffs[i]) - zFinal[i]
		rounded := roundToP(diff, q, d)
		out[i] = centerDiffModP(w[i]-rounded, p)
	}
	return out
}

// sumSquares returns the L2 norm-squared of a centered coefficient vector
// (as plain int64s, already in (-q/2, q/2]).
func sumSquares(v []int64) int64 {
	var s int64
	for _, c := range v {
		s += c * c
	}
	return s
}

func maxAbs(v []int64) int64 { return ring.AbsMax(v) }

func dotProduct(a, b []int64) int64 {
	var s int64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func fromCenteredPoly(r *ring.Ring, v []int64) ring.Poly {
	p := r.NewPoly()
	for i, c := range v {
		if c < 0 {
			c += int64(r.Q)
		}
		p.Coeffs[i] = uint64(c)
	}
	return p
}

// acceptThreshold computes BLISS-B's bimodal rejection-sampling acceptance
// probability bound: 1 / (M * exp(-csNum/(2*sigma^2)) * cosh(csDen/sigma^2)).
func acceptThreshold(csNum, csDen int64, sigma float64) float64 {
	const m = 3.0
	num := math.Exp(-float64(csNum) / (2 * sigma * sigma))
	den := math.Cosh(float64(csDen) / (sigma * sigma))
	return 1.0 / (m * num * den)
}
