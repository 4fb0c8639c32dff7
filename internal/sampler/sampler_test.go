package sampler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
)

func testRing(t *testing.T) *ring.Ring {
	t.Helper()
	r, err := ring.NewRing(256, 3329, ring.Barrett)
	require.NoError(t, err)
	return r
}

func testStream(t *testing.T) prng.Stream {
	t.Helper()
	s, err := prng.New(prng.ChaCha, prng.OSRandom, nil)
	require.NoError(t, err)
	return s
}

func TestUniformStaysInRange(t *testing.T) {
	r := testRing(t)
	u := sampler.NewUniform(r)
	p := r.NewPoly()
	require.NoError(t, u.Read(testStream(t), p))
	for _, c := range p.Coeffs {
		assert.Less(t, c, r.Q)
	}
}

func TestSmallUniformStaysWithinEta(t *testing.T) {
	r := testRing(t)
	eta := 3
	su := sampler.NewSmallUniform(r, eta)
	p := r.NewPoly()
	require.NoError(t, su.Read(testStream(t), p))

	for _, c := range r.Center(p) {
		assert.GreaterOrEqual(t, c, int64(-eta))
		assert.LessOrEqual(t, c, int64(eta))
	}
}

func TestCenteredBinomialStaysWithinEta(t *testing.T) {
	r := testRing(t)
	eta := 2
	cb := sampler.NewCenteredBinomial(r, eta)
	p := r.NewPoly()
	require.NoError(t, cb.Read(testStream(t), p))

	for _, c := range r.Center(p) {
		assert.GreaterOrEqual(t, c, int64(-eta))
		assert.LessOrEqual(t, c, int64(eta))
	}
}

func TestGaussianRejectsUnimplementedBackends(t *testing.T) {
	r := testRing(t)
	for _, backend := range []sampler.Backend{sampler.BAC, sampler.Huffman, sampler.KnuthYao, sampler.Ziggurat} {
		_, err := sampler.NewGaussian(r, 100, 13.4, backend, sampler.Knobs{})
		assert.ErrorIs(t, err, sampler.ErrUnsupportedBackend)
	}
}

func TestGaussianCDFStaysWithinBound(t *testing.T) {
	r := testRing(t)
	sigma, tau := 100.0, 13.4
	g, err := sampler.NewGaussian(r, sigma, tau, sampler.CDF, sampler.Knobs{})
	require.NoError(t, err)

	out := make([]int64, 64)
	require.NoError(t, g.ReadVector(testStream(t), out, len(out)))

	bound := int64(sigma*tau) + 1
	for _, v := range out {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}

func TestGaussianBernoulliStaysWithinBound(t *testing.T) {
	r := testRing(t)
	sigma, tau := 100.0, 13.4
	g, err := sampler.NewGaussian(r, sigma, tau, sampler.Bernoulli, sampler.Knobs{})
	require.NoError(t, err)

	out := make([]int64, 64)
	require.NoError(t, g.ReadVector(testStream(t), out, len(out)))

	bound := int64(sigma*tau) + 1
	for _, v := range out {
		assert.LessOrEqual(t, v, bound)
		assert.GreaterOrEqual(t, v, -bound)
	}
}
