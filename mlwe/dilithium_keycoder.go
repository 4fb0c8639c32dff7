package mlwe

import (
	"fmt"
	"math/bits"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

// Dilithium's public key is t1 at full coefficient width plus the 32-byte
// matrix-A seed; its private key is the three small centered vectors
// s1/s2/t0, each signed-encoded at the width its own magnitude bound needs.
// None of s1/s2/t1/t0 need NTT round-tripping: dilithiumCore keeps them all
// in the standard domain already.

// signedWidth returns the bit width a centered signed encoding needs to
// cover every value in [-bound, bound].
func signedWidth(bound int64) int { return bits.Len(uint(bound)) + 1 }

func (d *dilithiumCore) s1s2Width() int { return signedWidth(int64(d.ps.Eta)) }

// t0 is Pwr2Round's low part: magnitude bounded by 2^(D-1).
func (d *dilithiumCore) t0Width() int { return signedWidth(int64(1) << uint(d.ps.D-1)) }

func (d *dilithiumCore) encodePublicKey() []byte {
	width := coeffWidth(d.ps.Q)
	out := encodeRawVector(d.r, d.t1, width)
	return append(out, d.seedA...)
}

func (d *dilithiumCore) loadPublicKey(data []byte) error {
	width := coeffWidth(d.ps.Q)
	t1Len := (d.ps.K*d.r.N*width + 7) / 8
	if len(data) < t1Len+32 {
		return fmt.Errorf("mlwe: dilithium public key load: truncated")
	}
	d.t1 = decodeRawVector(d.r, data[:t1Len], d.ps.K, width)
	d.seedA = append([]byte{}, data[t1Len:t1Len+32]...)
	return nil
}

func encodeCenteredVector(r *ring.Ring, v []ring.Poly, width int) []byte {
	p := packer.NewWriter(len(v)*r.N*width/8+8, packer.None)
	for _, poly := range v {
		_ = packer.EncodePoly(p, r.Center(poly), width, true)
	}
	p.Flush()
	return p.GetBuffer()
}

func decodeCenteredVector(r *ring.Ring, data []byte, k, width int) []ring.Poly {
	p := packer.NewReader(data, packer.None)
	out := make([]ring.Poly, k)
	for i := 0; i < k; i++ {
		coeffs, _ := packer.DecodePoly(p, r.N, width, true)
		out[i] = r.NewPoly()
		for j, c := range coeffs {
			out[i].Coeffs[j] = centeredToMod(c, r.Q)
		}
	}
	return out
}

func (d *dilithiumCore) encodePrivateKey() []byte {
	s1s2Width, t0Width := d.s1s2Width(), d.t0Width()
	out := encodeCenteredVector(d.r, d.s1, s1s2Width)
	out = append(out, encodeCenteredVector(d.r, d.s2, s1s2Width)...)
	out = append(out, encodeCenteredVector(d.r, d.t0, t0Width)...)
	return out
}

func (d *dilithiumCore) loadPrivateKey(data []byte) error {
	s1s2Width, t0Width := d.s1s2Width(), d.t0Width()
	s1s2Chunk := (d.r.N*s1s2Width + 7) / 8
	t0Chunk := (d.r.N*t0Width + 7) / 8
	need := s1s2Chunk*(d.ps.L+d.ps.K) + t0Chunk*d.ps.K
	if len(data) < need {
		return fmt.Errorf("mlwe: dilithium private key load: truncated")
	}
	off := 0
	d.s1 = decodeCenteredVector(d.r, data[off:off+s1s2Chunk*d.ps.L], d.ps.L, s1s2Width)
	off += s1s2Chunk * d.ps.L
	d.s2 = decodeCenteredVector(d.r, data[off:off+s1s2Chunk*d.ps.K], d.ps.K, s1s2Width)
	off += s1s2Chunk * d.ps.K
	d.t0 = decodeCenteredVector(d.r, data[off:off+t0Chunk*d.ps.K], d.ps.K, t0Width)
	return nil
}

func (s *dilithiumScheme) PublicKeyEncode(inst *scheme.Instance) ([]byte, error) {
	return inst.State.(*dilithiumScheme).core.encodePublicKey(), nil
}

func (s *dilithiumScheme) PublicKeyLoad(inst *scheme.Instance, data []byte) error {
	return inst.State.(*dilithiumScheme).core.loadPublicKey(data)
}

func (s *dilithiumScheme) PrivateKeyEncode(inst *scheme.Instance) ([]byte, error) {
	return inst.State.(*dilithiumScheme).core.encodePrivateKey(), nil
}

func (s *dilithiumScheme) PrivateKeyLoad(inst *scheme.Instance, data []byte) error {
	return inst.State.(*dilithiumScheme).core.loadPrivateKey(data)
}
