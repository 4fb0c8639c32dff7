package scheme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/errqueue"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

func TestHelloWorldEncryptDecryptRoundTrip(t *testing.T) {
	inst, err := scheme.Create(scheme.HelloWorld, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()

	require.NoError(t, scheme.KeyGen(inst))

	msg := []byte("round trip through the dispatch table")
	ct, err := scheme.Encrypt(inst, msg)
	require.NoError(t, err)
	pt, err := scheme.Decrypt(inst, ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)
}

func TestHelloWorldDoesNotImplementSign(t *testing.T) {
	inst, err := scheme.Create(scheme.HelloWorld, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	require.NoError(t, scheme.KeyGen(inst))

	_, err = scheme.Sign(inst, []byte("msg"))
	assert.Error(t, err)
	assert.Equal(t, errqueue.InvalidFunctionCall, inst.Errors.Peek())
}

func TestStubSignatureSchemesRoundTrip(t *testing.T) {
	kinds := []scheme.Kind{
		scheme.RingTESLA, scheme.ENSSignature, scheme.DLP, scheme.Falcon,
	}
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

func TestStubRecoverySchemesRoundTrip(t *testing.T) {
	kinds := []scheme.Kind{scheme.ENSWithRecovery, scheme.DLPWithRecovery}
	for _, kind := range kinds {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			inst, err := scheme.Create(kind, 0, scheme.Default())
			require.NoError(t, err)
			defer inst.Destroy()
			require.NoError(t, scheme.KeyGen(inst))

			msg := []byte("recoverable payload")
			sig, err := scheme.SignRecovery(inst, msg)
			require.NoError(t, err)

			recovered, err := scheme.VerifyRecovery(inst, sig)
			require.NoError(t, err)
			assert.Equal(t, msg, recovered)
		})
	}
}

func TestStubEncryptionAndKEMRoundTrip(t *testing.T) {
	inst, err := scheme.Create(scheme.RLWEEncryption, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	require.NoError(t, scheme.KeyGen(inst))

	msg := []byte("rlwe encryption stub payload")
	ct, err := scheme.Encrypt(inst, msg)
	require.NoError(t, err)
	pt, err := scheme.Decrypt(inst, ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)

	kemInst, err := scheme.Create(scheme.ENSKEM, 0, scheme.Default())
	require.NoError(t, err)
	defer kemInst.Destroy()
	require.NoError(t, scheme.KeyGen(kemInst))

	kemCt, key, err := scheme.Encapsulate(kemInst)
	require.NoError(t, err)
	gotKey, err := scheme.Decapsulate(kemInst, kemCt)
	require.NoError(t, err)
	assert.Equal(t, key, gotKey)
}

func TestStubIBERoundTrip(t *testing.T) {
	inst, err := scheme.Create(scheme.DLPIBE, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	require.NoError(t, scheme.KeyGen(inst))

	identity := []byte("alice@example.com")
	_, err = scheme.SecretKey(inst, identity)
	require.NoError(t, err)

	msg := []byte("identity based payload")
	ct, err := scheme.IBEEncrypt(inst, identity, msg)
	require.NoError(t, err)

	pt, err := scheme.IBEDecrypt(inst, ct)
	require.NoError(t, err)
	assert.Equal(t, msg, pt)
}

func TestECDHHasNoRegisteredRow(t *testing.T) {
	_, err := scheme.Create(scheme.ECDH, 0, scheme.Default())
	assert.Error(t, err, "ECDH is a dispatch-guard-only stub with no registered table row")
}
