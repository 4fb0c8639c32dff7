package mlwe

import (
	intmlwe "github.com/safecrypto/libsafecrypto-sub000/internal/mlwe"
	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
)

// randomSeed pulls n bytes of fresh randomness from src.
func randomSeed(src prng.Stream, n int) ([]byte, error) {
	seed := make([]byte, n)
	if _, err := src.Read(seed); err != nil {
		return nil, err
	}
	return seed, nil
}

// dotProductNTT computes sum_i a[i]*b[i] over polynomials already in the NTT
// domain, returning the (still NTT-domain) result.
func dotProductNTT(r *ring.Ring, a, b []ring.Poly) ring.Poly {
	acc := r.NewPoly()
	acc.Domain = ring.NTT
	term := r.NewPoly()
	term.Domain = ring.NTT
	for i := range a {
		r.MulCoeffs(a[i], b[i], term)
		r.Add(acc, term, acc)
	}
	return acc
}

// forwardVector NTT-transforms every element of v into a fresh slice.
func forwardVector(r *ring.Ring, v []ring.Poly) []ring.Poly {
	out := make([]ring.Poly, len(v))
	for i := range v {
		out[i] = r.NewPoly()
		r.Forward(v[i], out[i])
	}
	return out
}

// messageToPoly decodes msg's bits (MSB-first within each byte), one bit per
// coefficient up to r.N bits, into a Compress(*, q, 1)-style {0, (q+1)/2}
// polynomial; bytes beyond r.N/8 are ignored, as Kyber messages are always
// exactly N/8 bytes.
func messageToPoly(r *ring.Ring, msg []byte) ring.Poly {
	p := r.NewPoly()
	half := (r.Q + 1) / 2
	for i := 0; i < r.N; i++ {
		byteIdx := i / 8
		bitIdx := uint(7 - i%8)
		var bit uint64
		if byteIdx < len(msg) {
			bit = uint64((msg[byteIdx] >> bitIdx) & 1)
		}
		if bit == 1 {
			p.Coeffs[i] = half
		}
	}
	return p
}

// polyToMessage re-derives the message bytes from a noisy {~0, ~(q+1)/2}
// polynomial by rounding each coefficient to its nearest multiple of q/2.
func polyToMessage(r *ring.Ring, p ring.Poly) []byte {
	out := make([]byte, (r.N+7)/8)
	for i := 0; i < r.N; i++ {
		bit := intmlwe.Compress(p.Coeffs[i], r.Q, 1)
		if bit == 1 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

// encodeCompressedVector packs a vector of polynomials, each coefficient
// compressed to d bits, through a Packer.
func encodeCompressedVector(r *ring.Ring, v []ring.Poly, d int) []byte {
	p := packer.NewWriter(len(v)*r.N*d/8+8, packer.None)
	for _, poly := range v {
		coeffs := make([]int64, r.N)
		for i, c := range poly.Coeffs {
			coeffs[i] = int64(intmlwe.Compress(c, r.Q, d))
		}
		_ = packer.EncodePoly(p, coeffs, d, false)
	}
	p.Flush()
	return p.GetBuffer()
}

func decodeCompressedVector(r *ring.Ring, data []byte, k, d int) []ring.Poly {
	p := packer.NewReader(data, packer.None)
	out := make([]ring.Poly, k)
	for i := 0; i < k; i++ {
		coeffs, _ := packer.DecodePoly(p, r.N, d, false)
		out[i] = r.NewPoly()
		for j, c := range coeffs {
			out[i].Coeffs[j] = intmlwe.Decompress(uint64(c), r.Q, d)
		}
	}
	return out
}
