package bliss

import (
	"fmt"
	"math/bits"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
)

func bitsFor(n int) int {
	return bits.Len(uint(n - 1))
}

// encodeSignature packs t(z1_bits) || z(z2_bits) || kappa c-indices
// (n_bits each) || kappa sign bits. The signature is always packed uncoded
// (packer.None); the instance's configured coder is not applied to it.
func encodeSignature(ps ParamSet, s *signature) []byte {
	idxBits := bitsFor(ps.N)
	p := packer.NewWriter(ps.N*(ps.Z1Bits+ps.Z2Bits)/8+ps.Kappa*(idxBits+1)/8+16, packer.None)

	_ = packer.EncodePoly(p, s.z1, ps.Z1Bits, true)
	_ = packer.EncodePoly(p, s.z2, ps.Z2Bits, true)

	idxVals := make([]int64, len(s.indices))
	for i, idx := range s.indices {
		idxVals[i] = int64(idx)
	}
	_ = packer.EncodePoly(p, idxVals, idxBits, false)

	signVals := make([]int64, len(s.signs))
	for i, sg := range s.signs {
		if sg < 0 {
			signVals[i] = 0
		} else {
			signVals[i] = 1
		}
	}
	_ = packer.EncodePoly(p, signVals, 1, false)

	p.Flush()
	return p.GetBuffer()
}

func decodeSignature(ps ParamSet, data []byte) (*signature, error) {
	idxBits := bitsFor(ps.N)
	p := packer.NewReader(data, packer.None)

	z1, err := packer.DecodePoly(p, ps.N, ps.Z1Bits, true)
	if err != nil {
		return nil, fmt.Errorf("bliss: decode signature: %w", err)
	}
	z2, err := packer.DecodePoly(p, ps.N, ps.Z2Bits, true)
	if err != nil {
		return nil, fmt.Errorf("bliss: decode signature: %w", err)
	}
	idxVals, err := packer.DecodePoly(p, ps.Kappa, idxBits, false)
	if err != nil {
		return nil, fmt.Errorf("bliss: decode signature: %w", err)
	}
	signVals, err := packer.DecodePoly(p, ps.Kappa, 1, false)
	if err != nil {
		return nil, fmt.Errorf("bliss: decode signature: %w", err)
	}

	indices := make([]int, ps.Kappa)
	signs := make([]int8, ps.Kappa)
	for i := range indices {
		indices[i] = int(idxVals[i])
		if signVals[i] == 0 {
			signs[i] = -1
		} else {
			signs[i] = 1
		}
	}
	return &signature{z1: z1, z2: z2, indices: indices, signs: signs}, nil
}

// encodeKey packs a ternary (f or g) polynomial's centered coefficients as
// keyCoefficientWidth-bit signed values, through the instance's configured
// coder.
func encodeKey(coder packer.Coder, coeffs []int64) []byte {
	p := packer.NewWriter(len(coeffs)*keyCoefficientWidth/8+4, coder)
	_ = packer.EncodePoly(p, coeffs, keyCoefficientWidth, true)
	p.Flush()
	return p.GetBuffer()
}

func decodeKey(coder packer.Coder, data []byte, n int) ([]int64, error) {
	p := packer.NewReader(data, coder)
	return packer.DecodePoly(p, n, keyCoefficientWidth, true)
}

// encodePublicKey packs the public polynomial a's NTT-domain coefficients as
// given (no inverse NTT), centered, at full modulus width.
func encodePublicKey(coder packer.Coder, q uint64, coeffs []int64) []byte {
	width := bits.Len(uint(q)) + 1
	p := packer.NewWriter(len(coeffs)*width/8+4, coder)
	_ = packer.EncodePoly(p, coeffs, width, true)
	p.Flush()
	return p.GetBuffer()
}

func decodePublicKey(coder packer.Coder, data []byte, q uint64, n int) ([]int64, error) {
	width := bits.Len(uint(q)) + 1
	p := packer.NewReader(data, coder)
	return packer.DecodePoly(p, n, width, true)
}
