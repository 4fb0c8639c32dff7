package bliss

import (
	"fmt"
	"math"
	"math/big"

	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
)

// signature is the decoded form of a packed BLISS-B signature: z1 is the
// full-precision response to the first commitment, z2 is its round-and-drop
// compressed counterpart, and indices/signs are the sparse challenge c.
type signature struct {
	z1      []int64
	z2      []int64
	indices []int
	signs   []int8
}

func (b *blissCore) sign(src prng.Stream, msg []byte) ([]byte, error) {
	n := b.r.N

	for attempt := 0; attempt < maxSignAttempts; attempt++ {
		y1 := b.r.NewPoly()
		if err := b.gauss.ReadPoly(src, y1); err != nil {
			return nil, err
		}
		y2 := b.r.NewPoly()
		if err := b.gauss.ReadPoly(src, y2); err != nil {
			return nil, err
		}

		y1Hat := b.r.NewPoly()
		b.r.Forward(y1, y1Hat)
		vHat := b.r.NewPoly()
		b.r.MulCoeffs(b.a, y1Hat, vHat)
		vStd := b.r.NewPoly()
		b.r.Inverse(vHat, vStd)

		y2Raw := b.r.Center(y2)
		w := combineAndDrop(vStd, y2Raw, uint64(b.ps.Q), b.ps.D)
		seed := commitmentSeed(msg, w)
		indices, signs := sparseChallenge(n, b.ps.Kappa, seed)

		cx := b.r.NewPoly()
		b.r.MulSparse(b.f, indices, signs, cx)
		cy := b.r.NewPoly()
		b.r.MulSparse(b.g, indices, signs, cy)

		add, err := coinFlip(src)
		if err != nil {
			return nil, err
		}

		z1Poly := b.r.NewPoly()
		z2Poly := b.r.NewPoly()
		if add {
			b.r.Add(y1, cx, z1Poly)
			b.r.Add(y2, cy, z2Poly)
		} else {
			b.r.Sub(y1, cx, z1Poly)
			b.r.Sub(y2, cy, z2Poly)
		}

		cxC, cyC := b.r.Center(cx), b.r.Center(cy)
		y1C, y2C := b.r.Center(y1), b.r.Center(y2)
		csNum := sumSquares(cxC) + sumSquares(cyC)
		csDen := dotProduct(y1C, cxC) + dotProduct(y2C, cyC)
		if !add {
			csDen = -csDen
		}
		threshold := acceptThreshold(csNum, csDen, b.ps.Sigma)

		u, err := uniformUnitFloat(src)
		if err != nil {
			return nil, err
		}
		if u > threshold {
			continue
		}

		z1 := b.r.Center(z1Poly)
		z2 := compressZ2(w, vStd, b.r.Center(z2Poly), uint64(b.ps.Q), b.ps.D)

		if maxAbs(z1) > b.ps.BInf {
			continue
		}
		if maxAbs(z2)*(int64(1)<<uint(b.ps.D)) > b.ps.BInf {
			continue
		}
		if sumSquares(z1)+sumSquares(z2)*(int64(1)<<uint(2*b.ps.D)) > b.ps.BL2Sq {
			continue
		}

		return encodeSignature(b.ps, &signature{z1: z1, z2: z2, indices: indices, signs: signs}), nil
	}
	return nil, fmt.Errorf("bliss: sign: exceeded %d rejection attempts", maxSignAttempts)
}

func (b *blissCore) verify(msg, sig []byte) error {
	s, err := decodeSignature(b.ps, sig)
	if err != nil {
		return err
	}
	if maxAbs(s.z1) > b.ps.BInf {
		return fmt.Errorf("bliss: verify: z1 out of bound")
	}
	if maxAbs(s.z2)*(int64(1)<<uint(b.ps.D)) > b.ps.BInf {
		return fmt.Errorf("bliss: verify: z2 out of bound")
	}

	z1Poly := fromCenteredPoly(b.r, s.z1)
	z1Hat := b.r.NewPoly()
	b.r.Forward(z1Poly, z1Hat)
	vHat := b.r.NewPoly()
	b.r.MulCoeffs(b.a, z1Hat, vHat)
	vStd := b.r.NewPoly()
	b.r.Inverse(vHat, vStd)

	wPrime := commitmentFromSignature(vStd, s.indices, s.z2, uint64(b.ps.Q), b.ps.D)

	seed := commitmentSeed(msg, wPrime)
	indices, signs := sparseChallenge(b.r.N, b.ps.Kappa, seed)

	if !sameChallenge(indices, signs, s.indices, s.signs) {
		return fmt.Errorf("bliss: verify: challenge mismatch")
	}
	return nil
}

func sameChallenge(i1 []int, s1 []int8, i2 []int, s2 []int8) bool {
	if len(i1) != len(i2) {
		return false
	}
	for k := range i1 {
		if i1[k] != i2[k] || s1[k] != s2[k] {
			return false
		}
	}
	return true
}

func coinFlip(src prng.Stream) (bool, error) {
	var b [1]byte
	if _, err := src.Read(b[:]); err != nil {
		return false, err
	}
	return b[0]&1 == 1, nil
}

// uniformUnitFloat draws a uniform float64 in [0, 1) from src, the
// rejection-sampling comparator used by BLISS-B's bimodal acceptance test.
func uniformUnitFloat(src prng.Stream) (float64, error) {
	var buf [8]byte
	if _, err := src.Read(buf[:]); err != nil {
		return 0, err
	}
	v := new(big.Int).SetBytes(buf[:])
	max := new(big.Int).Lsh(big.NewInt(1), 64)
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(v), new(big.Float).SetInt(max)).Float64()
	return math.Abs(f), nil
}
