package mlwe

import (
	"golang.org/x/crypto/sha3"

	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
)

// newMatrixXOF derives the (row, col) block's uniform byte stream from seed,
// matching Kyber/Dilithium's SHAKE128-based ExpandA convention.
func newMatrixXOF(seed []byte, row, col int) (prng.Stream, error) {
	x := sha3.NewShake128()
	x.Write(seed)
	x.Write([]byte{byte(col), byte(row)})
	return x, nil
}

// Oracle implements the kyber_oracle construction: map a fixed seed to a
// sparse polynomial of length n with exactly `weight` non-zero coefficients
// valued +-1, via a Fisher-Yates-like pull from a XOF byte stream: place
// `weight` non-zero coefficients into slots [n-weight, n) and swap them into
// uniformly chosen earlier positions.
func Oracle(n, weight int, seed []byte) (indices []int, signs []int8) {
	x := sha3.NewShake256()
	x.Write(seed)

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	signSlots := make([]int8, n)

	buf := make([]byte, 8)
	for i := n - weight; i < n; i++ {
		j := randBelow(x, buf, i+1)
		perm[i], perm[j] = perm[j], perm[i]

		var signByte [1]byte
		x.Read(signByte[:])
		if signByte[0]&1 == 0 {
			signSlots[i] = -1
		} else {
			signSlots[i] = 1
		}
	}

	indices = make([]int, 0, weight)
	signs = make([]int8, 0, weight)
	for i := n - weight; i < n; i++ {
		indices = append(indices, perm[i])
		signs = append(signs, signSlots[i])
	}
	return
}

func randBelow(x interface{ Read([]byte) (int, error) }, buf []byte, bound int) int {
	for {
		x.Read(buf)
		v := 0
		for _, b := range buf {
			v = (v << 8) | int(b)
		}
		if v < 0 {
			v = -v
		}
		v %= bound
		return v
	}
}
