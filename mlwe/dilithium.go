package mlwe

import (
	"fmt"

	intmlwe "github.com/safecrypto/libsafecrypto-sub000/internal/mlwe"
	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
	"golang.org/x/crypto/sha3"
)

// maxSignAttempts bounds Dilithium's rejection-sampling signing loop; a
// correctly parameterised instance accepts within a handful of attempts with
// overwhelming probability, so hitting this cap indicates a parameter-set
// or entropy-source problem rather than ordinary bad luck.
const maxSignAttempts = 1000

// dilithiumCore holds the key material shared by the Dilithium and
// Dilithium-G scheme rows. Both rows sign and verify through the same
// boolean MakeHint/UseHint path; the `gaussianHint` field records which row
// created the core but is not read by sign or verify, so the signed-integer
// MakeHintG/UseHintG helpers are not used here.
type dilithiumCore struct {
	ps           ParamSet
	r            *ring.Ring
	gaussianHint bool

	seedA []byte
	s1    []ring.Poly // length L, standard domain
	s2    []ring.Poly // length K, standard domain
	t1    []ring.Poly // length K, standard domain (public)
	t0    []ring.Poly // length K, standard domain (private correction term)
}

func (d *dilithiumCore) keyGen(src prng.Stream) error {
	seedA, err := randomSeed(src, 32)
	if err != nil {
		return err
	}
	su := sampler.NewSmallUniform(d.r, d.ps.Eta)

	s1 := make([]ring.Poly, d.ps.L)
	for i := range s1 {
		s1[i] = d.r.NewPoly()
		if err := su.Read(src, s1[i]); err != nil {
			return err
		}
	}
	s2 := make([]ring.Poly, d.ps.K)
	for i := range s2 {
		s2[i] = d.r.NewPoly()
		if err := su.Read(src, s2[i]); err != nil {
			return err
		}
	}

	tHat, err := intmlwe.CreateRandProduct(d.r, seedA, s1, d.ps.K, d.ps.L, false, false)
	if err != nil {
		return fmt.Errorf("mlwe: dilithium keygen: %w", err)
	}
	t1 := make([]ring.Poly, d.ps.K)
	t0 := make([]ring.Poly, d.ps.K)
	for i := range tHat {
		tStd := d.r.NewPoly()
		d.r.Inverse(tHat[i], tStd)
		d.r.Add(tStd, s2[i], tStd)

		t1[i] = d.r.NewPoly()
		t0[i] = d.r.NewPoly()
		for j, c := range tStd.Coeffs {
			hi, lo := intmlwe.Pwr2Round(c, d.ps.D)
			t1[i].Coeffs[j] = uint64(hi)
			t0[i].Coeffs[j] = centeredToMod(lo, d.r.Q)
		}
	}

	d.seedA = seedA
	d.s1, d.s2, d.t1, d.t0 = s1, s2, t1, t0
	return nil
}

func centeredToMod(v int64, q uint64) uint64 {
	if v < 0 {
		v += int64(q)
	}
	return uint64(v)
}

// challengeSeed derives the Oracle's seed from the message and w1's encoded
// high-order bits, the Fiat-Shamir binding step common to every Dilithium
// variant.
func challengeSeed(msg []byte, w1 []ring.Poly) []byte {
	h := sha3.New256()
	h.Write(msg)
	for _, p := range w1 {
		for _, c := range p.Coeffs {
			var b [8]byte
			b[0] = byte(c)
			b[1] = byte(c >> 8)
			h.Write(b[:2])
		}
	}
	return h.Sum(nil)
}

func maxAbsCentered(r *ring.Ring, p ring.Poly) int64 { return ring.AbsMax(r.Center(p)) }

func (d *dilithiumCore) sign(src prng.Stream, msg []byte) ([]byte, error) {
	alpha := 2 * d.ps.Gamma2
	bound := int(d.ps.Gamma1) - 1

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		su := sampler.NewSmallUniform(d.r, bound)
		y := make([]ring.Poly, d.ps.L)
		for i := range y {
			y[i] = d.r.NewPoly()
			if err := su.Read(src, y[i]); err != nil {
				return nil, err
			}
		}

		wHat, err := intmlwe.CreateRandProduct(d.r, d.seedA, y, d.ps.K, d.ps.L, false, false)
		if err != nil {
			return nil, err
		}
		w := make([]ring.Poly, d.ps.K)
		w1 := make([]ring.Poly, d.ps.K)
		for i := range wHat {
			w[i] = d.r.NewPoly()
			d.r.Inverse(wHat[i], w[i])
			w1[i] = d.r.NewPoly()
			for j, c := range w[i].Coeffs {
				hi, _ := intmlwe.Decompose(c, alpha, d.r.Q)
				w1[i].Coeffs[j] = uint64(hi)
			}
		}

		seed := challengeSeed(msg, w1)
		indices, signs := intmlwe.Oracle(d.r.N, d.ps.Tau, seed)

		z := make([]ring.Poly, d.ps.L)
		zOK := true
		for i := range z {
			cs1 := d.r.NewPoly()
			d.r.MulSparse(d.s1[i], indices, signs, cs1)
			z[i] = d.r.NewPoly()
			d.r.Add(y[i], cs1, z[i])
			if maxAbsCentered(d.r, z[i]) >= int64(bound)-int64(d.ps.Beta) {
				zOK = false
				break
			}
		}
		if !zOK {
			continue
		}

		hints := make([]ring.Poly, d.ps.K)
		hintWeight := 0
		rejected := false
		for i := range hints {
			cs2 := d.r.NewPoly()
			d.r.MulSparse(d.s2[i], indices, signs, cs2)
			rMinusCs2 := d.r.NewPoly()
			d.r.Sub(w[i], cs2, rMinusCs2)

			for _, c := range rMinusCs2.Coeffs {
				_, lo := intmlwe.Decompose(c, alpha, d.r.Q)
				if lo < 0 {
					lo = -lo
				}
				if uint64(lo) >= d.ps.Gamma2-d.ps.Beta {
					rejected = true
					break
				}
			}
			if rejected {
				break
			}

			ct0 := d.r.NewPoly()
			d.r.MulSparse(d.t0[i], indices, signs, ct0)
			hintBits := intmlwe.MakeHint(rMinusCs2.Coeffs, ct0.Coeffs, alpha, d.r.Q)
			hints[i] = d.r.NewPoly()
			for j, b := range hintBits {
				if b {
					hints[i].Coeffs[j] = 1
					hintWeight++
				}
			}
		}
		if rejected || hintWeight > d.ps.Omega {
			continue
		}

		return encodeSignature(d.r, z, hints, seed), nil
	}
	return nil, fmt.Errorf("mlwe: dilithium sign: exceeded %d rejection attempts", maxSignAttempts)
}

func (d *dilithiumCore) verify(msg, sig []byte) error {
	z, hints, seed, err := decodeSignature(d.r, sig, d.ps.L, d.ps.K)
	if err != nil {
		return err
	}

	bound := int64(d.ps.Gamma1) - int64(d.ps.Beta)
	for i := range z {
		if maxAbsCentered(d.r, z[i]) >= bound {
			return fmt.Errorf("mlwe: dilithium verify: response out of bound")
		}
	}

	indices, signs := decodeChallenge(seed, d.r.N, d.ps.Tau)

	azHat, err := intmlwe.CreateRandProduct(d.r, d.seedA, z, d.ps.K, d.ps.L, false, false)
	if err != nil {
		return err
	}

	alpha := 2 * d.ps.Gamma2
	w1Prime := make([]ring.Poly, d.ps.K)
	for i := range azHat {
		ct1 := d.r.NewPoly()
		d.r.MulScalar(d.t1[i], uint64(1)<<uint(d.ps.D), ct1)

		cT1 := d.r.NewPoly()
		d.r.MulSparse(ct1, indices, signs, cT1)
		cT1Hat := d.r.NewPoly()
		d.r.Forward(cT1, cT1Hat)

		approx := d.r.NewPoly()
		d.r.Sub(azHat[i], cT1Hat, approx)
		approxStd := d.r.NewPoly()
		d.r.Inverse(approx, approxStd)

		w1Prime[i] = d.r.NewPoly()
		useHint := intmlwe.UseHint(hintsToBools(hints[i]), approxStd.Coeffs, alpha, d.r.Q)
		for j, v := range useHint {
			w1Prime[i].Coeffs[j] = uint64(v)
		}
	}

	expectSeed := challengeSeed(msg, w1Prime)
	if string(expectSeed) != string(seed) {
		return fmt.Errorf("mlwe: dilithium verify: challenge mismatch")
	}
	return nil
}

func hintsToBools(p ring.Poly) []bool {
	out := make([]bool, len(p.Coeffs))
	for i, c := range p.Coeffs {
		out[i] = c != 0
	}
	return out
}

// decodeChallenge regenerates the same sparse challenge Sign derived from
// seed, so Verify never needs the signature to carry indices/signs
// directly.
func decodeChallenge(seed []byte, n, weight int) ([]int, []int8) {
	return intmlwe.Oracle(n, weight, seed)
}

func encodeSignature(r *ring.Ring, z, hints []ring.Poly, seed []byte) []byte {
	p := packer.NewWriter(len(z)*r.N*4+len(hints)*r.N+64, packer.None)
	for _, poly := range z {
		coeffs := make([]int64, r.N)
		for i, c := range r.Center(poly) {
			coeffs[i] = c
		}
		_ = packer.EncodePoly(p, coeffs, 24, true)
	}
	for _, poly := range hints {
		coeffs := make([]int64, r.N)
		for i, c := range poly.Coeffs {
			coeffs[i] = int64(c)
		}
		_ = packer.EncodePoly(p, coeffs, 1, false)
	}
	p.Flush()
	buf := p.GetBuffer()
	out := make([]byte, 0, len(buf)+len(seed)+4)
	out = append(out, byte(len(seed)))
	out = append(out, seed...)
	out = append(out, buf...)
	return out
}

func decodeSignature(r *ring.Ring, sig []byte, l, k int) (z, hints []ring.Poly, seed []byte, err error) {
	if len(sig) < 1 {
		return nil, nil, nil, fmt.Errorf("mlwe: dilithium: signature too short")
	}
	seedLen := int(sig[0])
	if len(sig) < 1+seedLen {
		return nil, nil, nil, fmt.Errorf("mlwe: dilithium: signature truncated")
	}
	seed = sig[1 : 1+seedLen]
	p := packer.NewReader(sig[1+seedLen:], packer.None)

	z = make([]ring.Poly, l)
	for i := range z {
		coeffs, derr := packer.DecodePoly(p, r.N, 24, true)
		if derr != nil {
			return nil, nil, nil, derr
		}
		z[i] = r.NewPoly()
		for j, c := range coeffs {
			z[i].Coeffs[j] = centeredToMod(c, r.Q)
		}
	}
	hints = make([]ring.Poly, k)
	for i := range hints {
		coeffs, derr := packer.DecodePoly(p, r.N, 1, false)
		if derr != nil {
			return nil, nil, nil, derr
		}
		hints[i] = r.NewPoly()
		for j, c := range coeffs {
			hints[i].Coeffs[j] = uint64(c)
		}
	}
	return z, hints, seed, nil
}

// dilithiumScheme implements the Dilithium and Dilithium-G rows; `kind` and
// `gaussianHint` are fixed at registration time.
type dilithiumScheme struct {
	kind scheme.Kind
	core *dilithiumCore
}

func init() {
	scheme.Register(scheme.Dilithium, func() scheme.Scheme {
		return &dilithiumScheme{kind: scheme.Dilithium}
	})
	scheme.Register(scheme.DilithiumG, func() scheme.Scheme {
		return &dilithiumScheme{kind: scheme.DilithiumG}
	})
}

func (s *dilithiumScheme) Kind() scheme.Kind { return s.kind }

func (s *dilithiumScheme) Create(inst *scheme.Instance, paramSet int) error {
	ps, err := dilithiumParamSet(paramSet)
	if err != nil {
		return err
	}
	r, err := newRing(ps)
	if err != nil {
		return err
	}
	inst.State = &dilithiumScheme{kind: s.kind, core: &dilithiumCore{
		ps: ps, r: r, gaussianHint: s.kind == scheme.DilithiumG,
	}}
	return nil
}

func (s *dilithiumScheme) Destroy(inst *scheme.Instance) error { return nil }

// TempSize mirrors dilithium.c's create-time scratch sizing:
// NUM_TEMP_DILITHIUM_RINGS=(5*k+2*l+4) rings for plain Dilithium,
// NUM_TEMP_DILITHIUM_G_RINGS=(8*k+2*l+4) for the Gaussian-hint variant,
// each ring sized n*sizeof(SINT32).
func (s *dilithiumScheme) TempSize(inst *scheme.Instance) int {
	core := inst.State.(*dilithiumScheme).core
	rings := 5*core.ps.K + 2*core.ps.L + 4
	if s.kind == scheme.DilithiumG {
		rings = 8*core.ps.K + 2*core.ps.L + 4
	}
	return rings * core.r.N * 4
}

func (s *dilithiumScheme) KeyGen(inst *scheme.Instance) error {
	core := inst.State.(*dilithiumScheme).core
	if err := core.keyGen(inst.PRNGs[0]); err != nil {
		return err
	}
	inst.Keys.PublicRaw = struct {
		SeedA []byte
		T1    []ring.Poly
	}{core.seedA, core.t1}
	inst.Keys.PrivateRaw = struct {
		S1, S2, T0 []ring.Poly
	}{core.s1, core.s2, core.t0}
	return nil
}

func (s *dilithiumScheme) Sign(inst *scheme.Instance, msg []byte) ([]byte, error) {
	core := inst.State.(*dilithiumScheme).core
	return core.sign(inst.PRNGs[0], msg)
}

func (s *dilithiumScheme) Verify(inst *scheme.Instance, msg, sig []byte) error {
	core := inst.State.(*dilithiumScheme).core
	return core.verify(msg, sig)
}
