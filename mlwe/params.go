// Package mlwe implements the Module-LWE encryption, KEM, and signature
// schemes: Kyber-CPA encryption, Kyber-KEM, and Dilithium/Dilithium-G
// signatures. All four register themselves against the scheme package's
// dispatch table from their respective init() functions.
package mlwe

import (
	"fmt"

	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
)

// ParamSet bundles one parameter row for either a Kyber-shaped scheme (N, Q,
// K, L, Eta, Eta2, Du, Dv) or a Dilithium-shaped scheme (N, Q, K, L, Eta,
// Gamma1, Gamma2, Beta, Omega, Tau, D); each scheme's paramTable only
// populates the fields it uses.
type ParamSet struct {
	Name string
	N    int
	Q    uint64

	K int // public-vector / commitment-vector dimension
	L int // secret-vector dimension

	Eta  int // primary noise bound
	Eta2 int // Kyber ciphertext-noise bound

	Du, Dv int // Kyber ciphertext compression depths

	Gamma1, Gamma2 uint64 // Dilithium rejection bounds
	Beta           uint64 // Dilithium max(|c*s1|, |c*s2|) bound
	Omega          int    // Dilithium max hint weight
	Tau            int    // Dilithium challenge weight
	D              int    // Dilithium Pwr2Round drop-bit count
}

var kyberParams = []ParamSet{
	{Name: "Kyber-512", N: 256, Q: 3329, K: 2, L: 2, Eta: 3, Eta2: 2, Du: 10, Dv: 4},
	{Name: "Kyber-768", N: 256, Q: 3329, K: 3, L: 3, Eta: 2, Eta2: 2, Du: 10, Dv: 4},
	{Name: "Kyber-1024", N: 256, Q: 3329, K: 4, L: 4, Eta: 2, Eta2: 2, Du: 11, Dv: 5},
}

var dilithiumParams = []ParamSet{
	{Name: "Dilithium-2", N: 256, Q: 8380417, K: 4, L: 4, Eta: 2, Gamma1: 1 << 17, Gamma2: (8380417 - 1) / 88, Beta: 78, Omega: 80, Tau: 39, D: 13},
	{Name: "Dilithium-3", N: 256, Q: 8380417, K: 6, L: 5, Eta: 4, Gamma1: 1 << 19, Gamma2: (8380417 - 1) / 32, Beta: 196, Omega: 55, Tau: 49, D: 13},
	{Name: "Dilithium-5", N: 256, Q: 8380417, K: 8, L: 7, Eta: 2, Gamma1: 1 << 19, Gamma2: (8380417 - 1) / 32, Beta: 120, Omega: 75, Tau: 60, D: 13},
}

func kyberParamSet(idx int) (ParamSet, error) {
	if idx < 0 || idx >= len(kyberParams) {
		return ParamSet{}, fmt.Errorf("mlwe: invalid Kyber parameter set %d", idx)
	}
	return kyberParams[idx], nil
}

func dilithiumParamSet(idx int) (ParamSet, error) {
	if idx < 0 || idx >= len(dilithiumParams) {
		return ParamSet{}, fmt.Errorf("mlwe: invalid Dilithium parameter set %d", idx)
	}
	return dilithiumParams[idx], nil
}

func newRing(ps ParamSet) (*ring.Ring, error) {
	return ring.NewRing(ps.N, ps.Q, ring.AVX)
}
