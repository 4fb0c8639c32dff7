package capi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/errqueue"
	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

func TestFlagsRoundTrip(t *testing.T) {
	f := scheme.NewFlags(
		scheme.WithCoder(packer.HuffmanStatic),
		scheme.WithReduction(ring.Barrett),
		scheme.WithSampler(sampler.Bernoulli),
		scheme.WithPRNG(prng.ChaCha),
		scheme.WithEntropySource(prng.DevURandom),
		scheme.WithBlinding(),
		scheme.WithShuffle(),
		scheme.WithCacheObfuscation(),
	)

	words := EncodeFlags(f)
	require.Len(t, words, 4)
	assert.Equal(t, uint32(0), words[3], "wire form is zero-terminated")

	got, err := DecodeFlags(words)
	require.NoError(t, err)
	assert.Equal(t, f.Coder, got.Coder)
	assert.Equal(t, f.ReductionBackend, got.ReductionBackend)
	assert.Equal(t, f.SamplerBackend, got.SamplerBackend)
	assert.Equal(t, f.PRNGKind, got.PRNGKind)
	assert.Equal(t, f.EntropySrc, got.EntropySrc)
	assert.Equal(t, f.Blinding, got.Blinding)
	assert.Equal(t, f.Shuffle, got.Shuffle)
	assert.Equal(t, f.CacheObfuscate, got.CacheObfuscate)
}

func TestDecodeFlagsRejectsShortArray(t *testing.T) {
	_, err := DecodeFlags([]uint32{1, 2})
	assert.Error(t, err)
}

func TestVersionPacking(t *testing.T) {
	v := Version()
	assert.Equal(t, uint32(versionPatch), v&0xff)
	assert.Equal(t, uint32(versionBuild), (v>>8)&0xff)
	assert.Equal(t, uint32(versionMinor), (v>>16)&0xff)
	assert.Equal(t, uint32(versionMajor), (v>>24)&0xff)
	assert.NotEmpty(t, VersionString())
}

func TestFillBufferAllocatesWhenNilAndRejectsUndersized(t *testing.T) {
	src := []byte{1, 2, 3, 4}

	out, err := fillBuffer(nil, src)
	require.NoError(t, err)
	assert.Equal(t, src, out)

	big := make([]byte, 8)
	out, err = fillBuffer(big, src)
	require.NoError(t, err)
	assert.Equal(t, src, out)

	small := make([]byte, 2)
	_, err = fillBuffer(small, src)
	assert.Error(t, err)
}

func TestSchemeCategoriesNonEmpty(t *testing.T) {
	assert.NotEmpty(t, SignatureSchemes())
	assert.NotEmpty(t, EncryptionSchemes())
	assert.NotEmpty(t, KEMSchemes())
	assert.NotEmpty(t, IBESchemes())
}

func TestScratchExternalGatesKeyGen(t *testing.T) {
	flags := scheme.NewFlags()
	flags.ScratchExternal = true

	inst, err := Create(scheme.KyberCPAEncryption, 0, EncodeFlags(flags))
	require.NoError(t, err)
	defer Destroy(inst)

	err = KeyGen(inst)
	assert.Error(t, err, "keygen before scratch_external must fail")
	assert.Equal(t, errqueue.General, PeekError(inst))

	need := ScratchSize(inst)
	assert.Greater(t, need, 0)

	require.NoError(t, ScratchExternal(inst, make([]byte, need)))
	assert.NoError(t, KeyGen(inst))
}

func TestBLISSEndToEndThroughCAPI(t *testing.T) {
	inst, err := Create(scheme.BLISS, 3, EncodeFlags(scheme.Default()))
	require.NoError(t, err)
	defer Destroy(inst)

	require.NoError(t, KeyGen(inst))

	msg := []byte("capi round trip")
	sig, err := Sign(inst, msg, nil)
	require.NoError(t, err)
	assert.NoError(t, Verify(inst, msg, sig))
}
