package prng_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
)

func fixedCallback(seed []byte) func([]byte) error {
	return func(out []byte) error {
		for i := range out {
			out[i] = seed[i%len(seed)]
		}
		return nil
	}
}

func TestEveryBackedKindProducesNonZeroOutput(t *testing.T) {
	kinds := []prng.Kind{
		prng.AESCTRDRBG, prng.AESCTR, prng.Salsa, prng.ChaCha,
		prng.SHA3DRBG256, prng.SHA3DRBG512,
		prng.SHA2DRBG256, prng.SHA2DRBG512, prng.WhirlpoolDRBG512,
		prng.BLAKE2DRBG256, prng.BLAKE2DRBG512,
	}
	for _, kind := range kinds {
		kind := kind
		t.Run("", func(t *testing.T) {
			s, err := prng.New(kind, prng.Callback, fixedCallback([]byte("deterministic test seed material")))
			require.NoError(t, err)

			out := make([]byte, 64)
			_, err = s.Read(out)
			require.NoError(t, err)
			assert.NotEqual(t, bytes.Repeat([]byte{0}, 64), out)
		})
	}
}

func TestSameSeedProducesSameStreamForDeterministicBackends(t *testing.T) {
	// Salsa and the SHA3/BLAKE2 XOF backends are pure functions of the
	// derived key material, so two Streams built from the same callback
	// seed must agree.
	for _, kind := range []prng.Kind{prng.Salsa, prng.SHA3DRBG256, prng.BLAKE2DRBG256} {
		kind := kind
		t.Run("", func(t *testing.T) {
			seed := []byte("same seed every time")
			s1, err := prng.New(kind, prng.Callback, fixedCallback(seed))
			require.NoError(t, err)
			s2, err := prng.New(kind, prng.Callback, fixedCallback(seed))
			require.NoError(t, err)

			a := make([]byte, 32)
			b := make([]byte, 32)
			_, err = s1.Read(a)
			require.NoError(t, err)
			_, err = s2.Read(b)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		})
	}
}

func TestDisabledKindsError(t *testing.T) {
	for _, kind := range []prng.Kind{prng.ISAAC, prng.KISS} {
		kind := kind
		t.Run("", func(t *testing.T) {
			_, err := prng.New(kind, prng.Callback, fixedCallback([]byte("seed")))
			assert.Error(t, err)
		})
	}
}

func TestCallbackSourceRequiresCallback(t *testing.T) {
	_, err := prng.New(prng.ChaCha, prng.Callback, nil)
	assert.Error(t, err)
}

func TestOSRandomSourceNeedsNoCallback(t *testing.T) {
	s, err := prng.New(prng.ChaCha, prng.OSRandom, nil)
	require.NoError(t, err)
	out := make([]byte, 16)
	_, err = s.Read(out)
	require.NoError(t, err)
}
