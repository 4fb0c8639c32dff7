package mlwe

import (
	"fmt"
	"math/bits"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

// coeffWidth is the bit width used to carry a mod-q coefficient through the
// wire format untouched: Kyber's public key and secret key are stored at
// full precision (no compression), only the ciphertext vectors u/v use the
// Du/Dv-bit compression codec in codec.go.
func coeffWidth(q uint64) int { return bits.Len(uint(q - 1)) }

// encodeRawVector packs a vector of polynomials at full coefficient width,
// no compression — the sibling of encodeCompressedVector for wire forms
// that carry every bit of q.
func encodeRawVector(r *ring.Ring, v []ring.Poly, width int) []byte {
	p := packer.NewWriter(len(v)*r.N*width/8+8, packer.None)
	for _, poly := range v {
		coeffs := make([]int64, r.N)
		for i, c := range poly.Coeffs {
			coeffs[i] = int64(c)
		}
		_ = packer.EncodePoly(p, coeffs, width, false)
	}
	p.Flush()
	return p.GetBuffer()
}

func decodeRawVector(r *ring.Ring, data []byte, k, width int) []ring.Poly {
	p := packer.NewReader(data, packer.None)
	out := make([]ring.Poly, k)
	for i := 0; i < k; i++ {
		coeffs, _ := packer.DecodePoly(p, r.N, width, false)
		out[i] = r.NewPoly()
		for j, c := range coeffs {
			out[i].Coeffs[j] = uint64(c)
		}
	}
	return out
}

// encodePublicKey renders t (inverse-NTT'd to the standard domain) at full
// width, followed by the 32-byte matrix-A seed rho: pk = Encode(t) || rho.
func (k *kyberCore) encodePublicKey() []byte {
	width := coeffWidth(k.ps.Q)
	tStd := make([]ring.Poly, len(k.tHat))
	for i, t := range k.tHat {
		tStd[i] = k.r.NewPoly()
		k.r.Inverse(t, tStd[i])
	}
	out := encodeRawVector(k.r, tStd, width)
	return append(out, k.seedA...)
}

func (k *kyberCore) loadPublicKey(data []byte) error {
	width := coeffWidth(k.ps.Q)
	tLen := (k.ps.K*k.r.N*width + 7) / 8
	if len(data) < tLen+32 {
		return fmt.Errorf("mlwe: kyber public key load: truncated")
	}
	tStd := decodeRawVector(k.r, data[:tLen], k.ps.K, width)
	k.tHat = forwardVector(k.r, tStd)
	k.seedA = append([]byte{}, data[tLen:tLen+32]...)
	return nil
}

// encodePrivateKey renders s (inverse-NTT'd) at full width: the Kyber-CPA
// secret key is s alone.
func (k *kyberCore) encodePrivateKey() []byte {
	width := coeffWidth(k.ps.Q)
	sStd := make([]ring.Poly, len(k.sHat))
	for i, s := range k.sHat {
		sStd[i] = k.r.NewPoly()
		k.r.Inverse(s, sStd[i])
	}
	return encodeRawVector(k.r, sStd, width)
}

// loadPrivateKey parses s from the front of data and returns the number of
// bytes it consumed, so callers that append more fields after s (kyberKEM)
// know where the next field starts.
func (k *kyberCore) loadPrivateKey(data []byte) (int, error) {
	width := coeffWidth(k.ps.Q)
	sLen := (k.ps.L*k.r.N*width + 7) / 8
	if len(data) < sLen {
		return 0, fmt.Errorf("mlwe: kyber private key load: truncated")
	}
	sStd := decodeRawVector(k.r, data[:sLen], k.ps.L, width)
	k.sHat = forwardVector(k.r, sStd)
	return sLen, nil
}

// PublicKeyEncode / PublicKeyLoad / PrivateKeyEncode / PrivateKeyLoad give
// kyberCPA the KeyCoder capability.
func (s *kyberCPA) PublicKeyEncode(inst *scheme.Instance) ([]byte, error) {
	return inst.State.(*kyberCPA).core.encodePublicKey(), nil
}

func (s *kyberCPA) PublicKeyLoad(inst *scheme.Instance, data []byte) error {
	return inst.State.(*kyberCPA).core.loadPublicKey(data)
}

func (s *kyberCPA) PrivateKeyEncode(inst *scheme.Instance) ([]byte, error) {
	return inst.State.(*kyberCPA).core.encodePrivateKey(), nil
}

func (s *kyberCPA) PrivateKeyLoad(inst *scheme.Instance, data []byte) error {
	_, err := inst.State.(*kyberCPA).core.loadPrivateKey(data)
	return err
}

// kyberKEM's private key wire form is s || z(32) || the public key's own
// encoding: s || z(32) || t || rho(32).
func (s *kyberKEM) PublicKeyEncode(inst *scheme.Instance) ([]byte, error) {
	return inst.State.(*kyberKEM).core.encodePublicKey(), nil
}

func (s *kyberKEM) PublicKeyLoad(inst *scheme.Instance, data []byte) error {
	return inst.State.(*kyberKEM).core.loadPublicKey(data)
}

func (s *kyberKEM) PrivateKeyEncode(inst *scheme.Instance) ([]byte, error) {
	st := inst.State.(*kyberKEM)
	out := st.core.encodePrivateKey()
	out = append(out, st.z...)
	out = append(out, st.core.encodePublicKey()...)
	return out, nil
}

func (s *kyberKEM) PrivateKeyLoad(inst *scheme.Instance, data []byte) error {
	st := inst.State.(*kyberKEM)
	sLen, err := st.core.loadPrivateKey(data)
	if err != nil {
		return err
	}
	if len(data) < sLen+32 {
		return fmt.Errorf("mlwe: kyber-kem private key load: truncated")
	}
	st.z = append([]byte{}, data[sLen:sLen+32]...)
	return st.core.loadPublicKey(data[sLen+32:])
}
