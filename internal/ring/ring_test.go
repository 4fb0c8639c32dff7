package ring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
)

func newTestRing(t *testing.T, backend ring.Backend) *ring.Ring {
	t.Helper()
	r, err := ring.NewRing(256, 3329, backend) // Kyber's (N, Q)
	require.NoError(t, err)
	return r
}

func TestForwardInverseNTTIsIdentity(t *testing.T) {
	for _, backend := range []ring.Backend{ring.Reference, ring.Barrett, ring.FloatingPoint, ring.AVX} {
		backend := backend
		t.Run(backend.String(), func(t *testing.T) {
			r := newTestRing(t, backend)
			p := r.NewPoly()
			for i := range p.Coeffs {
				p.Coeffs[i] = uint64(i * 7 % 3329)
			}

			fwd := r.NewPoly()
			r.Forward(p, fwd)
			back := r.NewPoly()
			r.Inverse(fwd, back)

			assert.Equal(t, p.Coeffs, back.Coeffs)
		})
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	r := newTestRing(t, ring.Barrett)
	a, b := r.NewPoly(), r.NewPoly()
	for i := range a.Coeffs {
		a.Coeffs[i] = uint64(i)
		b.Coeffs[i] = uint64(2 * i % 3329)
	}

	sum := r.NewPoly()
	r.Add(a, b, sum)
	diff := r.NewPoly()
	r.Sub(sum, b, diff)

	assert.Equal(t, a.Coeffs, diff.Coeffs)
}

func TestCenterStaysWithinHalfModulus(t *testing.T) {
	r := newTestRing(t, ring.Barrett)
	p := r.NewPoly()
	for i := range p.Coeffs {
		p.Coeffs[i] = uint64(i * 5 % 3329)
	}

	centered := r.Center(p)
	for _, c := range centered {
		assert.True(t, c > -3329/2-1 && c < 3329/2+1)
	}
}

func TestMulCoeffsRejectsDomainMismatch(t *testing.T) {
	r := newTestRing(t, ring.Barrett)
	a := r.NewPoly()
	b := r.NewPoly()
	b.Domain = ring.NTT

	assert.Panics(t, func() {
		r.MulCoeffs(a, b, r.NewPoly())
	})
}
