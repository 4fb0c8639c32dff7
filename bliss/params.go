// Package bliss implements the BLISS-B signature scheme: bimodal
// discrete-Gaussian rejection-sampled signing over a single NTT-friendly
// ring, greedy sparse-challenge multiplication, and round-and-drop
// compression of the second response vector. It registers itself against
// the scheme package's dispatch table from init().
package bliss

import (
	"fmt"

	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
)

// ParamSet bundles one BLISS-B parameter row. Sigma/Tau drive the Gaussian
// sampler; Kappa is the challenge weight; Nu is the number of non-zero
// coefficients in each of the two ternary key polynomials; D is the
// round-and-drop bit count; BInf/BL2Sq are the signature acceptance bounds;
// Z1Bits/Z2Bits size the packed signature fields.
type ParamSet struct {
	Name string
	N    int
	Q    uint64

	Sigma float64
	Tau   float64
	Kappa int
	Nu    int

	D      int
	BInf   int64
	BL2Sq  int64
	Z1Bits int
	Z2Bits int
}

var paramSets = []ParamSet{
	{Name: "BLISS-I", N: 512, Q: 12289, Sigma: 215.73, Tau: 13.42, Kappa: 23, Nu: 154, D: 10, BInf: 2100, BL2Sq: 12872 * 12872, Z1Bits: 13, Z2Bits: 9},
	{Name: "BLISS-II", N: 512, Q: 12289, Sigma: 107.86, Tau: 13.42, Kappa: 23, Nu: 154, D: 10, BInf: 1738, BL2Sq: 11074 * 11074, Z1Bits: 12, Z2Bits: 9},
	{Name: "BLISS-III", N: 512, Q: 12289, Sigma: 250.54, Tau: 13.42, Kappa: 30, Nu: 216, D: 9, BInf: 1860, BL2Sq: 10968 * 10968, Z1Bits: 12, Z2Bits: 8},
	{Name: "BLISS-IV", N: 512, Q: 12289, Sigma: 271.93, Tau: 13.42, Kappa: 39, Nu: 231, D: 8, BInf: 1633, BL2Sq: 9901 * 9901, Z1Bits: 12, Z2Bits: 7},
}

func paramSet(idx int) (ParamSet, error) {
	if idx < 0 || idx >= len(paramSets) {
		return ParamSet{}, fmt.Errorf("bliss: invalid parameter set %d", idx)
	}
	return paramSets[idx], nil
}

func newRing(ps ParamSet) (*ring.Ring, error) {
	return ring.NewRing(ps.N, ps.Q, ring.AVX)
}

// keyCoefficientWidth is the bit width used to pack each ternary key
// coefficient (values in {-1, 0, 1}); the wire format's 3-bit/2-bit option is
// collapsed to a single 2-bit signed encoding, left to the configured
// packer.Coder to shrink further when the caller selects a non-identity
// coder.
const keyCoefficientWidth = 2
