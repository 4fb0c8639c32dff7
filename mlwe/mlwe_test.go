package mlwe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/scheme"

	_ "github.com/safecrypto/libsafecrypto-sub000/mlwe"
)

func TestKyberCPAEncryptDecryptRoundTrip(t *testing.T) {
	for idx := 0; idx < 3; idx++ {
		idx := idx
		inst, err := scheme.Create(scheme.KyberCPAEncryption, idx, scheme.Default())
		require.NoError(t, err)
		defer inst.Destroy()

		require.NoError(t, scheme.KeyGen(inst))

		msg := []byte("kyber cpa payload")
		ct, err := scheme.Encrypt(inst, msg)
		require.NoError(t, err)
		pt, err := scheme.Decrypt(inst, ct)
		require.NoError(t, err)
		assert.Equal(t, msg, pt)
	}
}

func TestKyberCPAKeyRoundTrip(t *testing.T) {
	inst, err := scheme.Create(scheme.KyberCPAEncryption, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	require.NoError(t, scheme.KeyGen(inst))

	pub, err := scheme.PublicKeyEncode(inst)
	require.NoError(t, err)
	priv, err := scheme.PrivateKeyEncode(inst)
	require.NoError(t, err)

	loaded, err := scheme.Create(scheme.KyberCPAEncryption, 0, scheme.Default())
	require.NoError(t, err)
	defer loaded.Destroy()
	require.NoError(t, scheme.PublicKeyLoad(loaded, pub))
	require.NoError(t, scheme.PrivateKeyLoad(loaded, priv))

	rePub, err := scheme.PublicKeyEncode(loaded)
	require.NoError(t, err)
	assert.Equal(t, pub, rePub)

	msg := []byte("encrypted under the original key, decrypted under the loaded one")
	ct, err := scheme.Encrypt(inst, msg)
	require.NoError(t, err)
	pt, err := scheme.Decrypt(loaded, ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)
}

func TestKyberKEMEncapsulateDecapsulateSharedSecret(t *testing.T) {
	for idx := 0; idx < 3; idx++ {
		idx := idx
		inst, err := scheme.Create(scheme.KyberKEM, idx, scheme.Default())
		require.NoError(t, err)
		defer inst.Destroy()
		require.NoError(t, scheme.KeyGen(inst))

		ct, key, err := scheme.Encapsulate(inst)
		require.NoError(t, err)
		require.NotEmpty(t, key)

		gotKey, err := scheme.Decapsulate(inst, ct)
		require.NoError(t, err)
		assert.Equal(t, key, gotKey)
	}
}

func TestKyberKEMKeyRoundTrip(t *testing.T) {
	inst, err := scheme.Create(scheme.KyberKEM, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	require.NoError(t, scheme.KeyGen(inst))

	pub, err := scheme.PublicKeyEncode(inst)
	require.NoError(t, err)
	priv, err := scheme.PrivateKeyEncode(inst)
	require.NoError(t, err)

	loaded, err := scheme.Create(scheme.KyberKEM, 0, scheme.Default())
	require.NoError(t, err)
	defer loaded.Destroy()
	require.NoError(t, scheme.PublicKeyLoad(loaded, pub))
	require.NoError(t, scheme.PrivateKeyLoad(loaded, priv))

	ct, key, err := scheme.Encapsulate(inst)
	require.NoError(t, err)
	gotKey, err := scheme.Decapsulate(loaded, ct)
	require.NoError(t, err)
	assert.Equal(t, key, gotKey)
}

func TestDilithiumSignVerifyRoundTrip(t *testing.T) {
	kinds := []scheme.Kind{scheme.Dilithium, scheme.DilithiumG}
	for _, kind := range kinds {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			inst, err := scheme.Create(kind, 0, scheme.Default())
			require.NoError(t, err)
			defer inst.Destroy()
			require.NoError(t, scheme.KeyGen(inst))

			msg := []byte("a message for " + kind.String())
			sig, err := scheme.Sign(inst, msg)
			require.NoError(t, err)
			assert.NoError(t, scheme.Verify(inst, msg, sig))

			tampered := append([]byte{}, sig...)
			tampered[0] ^= 0xff
			assert.Error(t, scheme.Verify(inst, msg, tampered))
		})
	}
}

func TestDilithiumKeyRoundTrip(t *testing.T) {
	inst, err := scheme.Create(scheme.Dilithium, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	require.NoError(t, scheme.KeyGen(inst))

	pub, err := scheme.PublicKeyEncode(inst)
	require.NoError(t, err)
	priv, err := scheme.PrivateKeyEncode(inst)
	require.NoError(t, err)

	loaded, err := scheme.Create(scheme.Dilithium, 0, scheme.Default())
	require.NoError(t, err)
	defer loaded.Destroy()
	require.NoError(t, scheme.PublicKeyLoad(loaded, pub))
	require.NoError(t, scheme.PrivateKeyLoad(loaded, priv))

	rePub, err := scheme.PublicKeyEncode(loaded)
	require.NoError(t, err)
	assert.Equal(t, pub, rePub)

	sig, err := scheme.Sign(inst, []byte("signed by the original instance"))
	require.NoError(t, err)
	assert.NoError(t, scheme.Verify(loaded, []byte("signed by the original instance"), sig))
}
