package scheme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

func TestDefaultFlagsHaveNoSideChannelHardeningEnabled(t *testing.T) {
	f := scheme.Default()
	assert.Equal(t, packer.None, f.Coder)
	assert.Equal(t, ring.AVX, f.ReductionBackend)
	assert.Equal(t, sampler.CDF, f.SamplerBackend)
	assert.Equal(t, scheme.Precision64, f.SamplerPrecision)
	assert.Equal(t, prng.AESCTRDRBG, f.PRNGKind)
	assert.Equal(t, prng.OSRandom, f.EntropySrc)
	assert.False(t, f.Blinding)
	assert.False(t, f.Shuffle)
	assert.False(t, f.CacheObfuscate)
}

func TestNewFlagsAppliesOptionsOverDefault(t *testing.T) {
	f := scheme.NewFlags(
		scheme.WithCoder(packer.HuffmanStatic),
		scheme.WithReduction(ring.Reference),
		scheme.WithSampler(sampler.Bernoulli),
		scheme.WithPRNG(prng.ChaCha),
		scheme.WithEntropySource(prng.Callback),
		scheme.WithBlinding(),
		scheme.WithShuffle(),
		scheme.WithCacheObfuscation(),
		scheme.WithScratchExternal(),
		scheme.WithDebugVerbosity(3),
	)

	assert.Equal(t, packer.HuffmanStatic, f.Coder)
	assert.Equal(t, ring.Reference, f.ReductionBackend)
	assert.Equal(t, sampler.Bernoulli, f.SamplerBackend)
	assert.Equal(t, prng.ChaCha, f.PRNGKind)
	assert.Equal(t, prng.Callback, f.EntropySrc)
	assert.True(t, f.Blinding)
	assert.True(t, f.Shuffle)
	assert.True(t, f.CacheObfuscate)
	assert.True(t, f.ScratchExternal)
	assert.Equal(t, 3, f.DebugVerbosity)
}

func TestNewFlagsWithNoOptionsMatchesDefault(t *testing.T) {
	assert.Equal(t, scheme.Default(), scheme.NewFlags())
}
