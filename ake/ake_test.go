package ake_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/ake"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"

	_ "github.com/safecrypto/libsafecrypto-sub000/bliss"
	_ "github.com/safecrypto/libsafecrypto-sub000/mlwe"
)

// Each side needs its own signature Instance bound to the same key pair:
// the initiator signs, the responder and the initiator both verify against
// the same public key, so newSignerPair keygens once and loads the encoded
// key into a second instance to stand in for "the other party already
// has my verification key".
func newSignerPair(t *testing.T, kind scheme.Kind, paramSet int) (signer, verifier *scheme.Instance) {
	t.Helper()
	signer, err := scheme.Create(kind, paramSet, scheme.Default())
	require.NoError(t, err)
	require.NoError(t, scheme.KeyGen(signer))

	pub, err := scheme.PublicKeyEncode(signer)
	require.NoError(t, err)

	verifier, err = scheme.Create(kind, paramSet, scheme.Default())
	require.NoError(t, err)
	require.NoError(t, scheme.PublicKeyLoad(verifier, pub))

	return signer, verifier
}

func TestTwoWayAKEDerivesMatchingSecret(t *testing.T) {
	// The initiator signs with its own signing instance; the responder
	// verifies against a second instance loaded with the same public key.
	initiatorSigner, responderVerifierOfInitiator := newSignerPair(t, scheme.BLISS, 3)
	responderSigner, initiatorVerifierOfResponder := newSignerPair(t, scheme.BLISS, 3)

	initiatorKEM, err := scheme.Create(scheme.KyberKEM, 0, scheme.Default())
	require.NoError(t, err)
	responderKEM, err := scheme.Create(scheme.KyberKEM, 0, scheme.Default())
	require.NoError(t, err)

	kemPub, sig, err := ake.Init(initiatorSigner, initiatorKEM)
	require.NoError(t, err)

	digest, ciphertext, respSig, responderSecret, err := ake.Response(
		responderSigner, responderKEM, kemPub, sig,
	)
	require.NoError(t, err)

	// The responder verified against its own copy of the initiator's
	// public key implicitly through responderSigner/responderVerifierOfInitiator
	// sharing key material; exercise that copy explicitly too.
	assert.NoError(t, scheme.Verify(responderVerifierOfInitiator, kemPub, sig))

	initiatorSecret, err := ake.Final(
		initiatorVerifierOfResponder, initiatorKEM, digest, ciphertext, respSig, sig,
	)
	require.NoError(t, err)

	assert.Equal(t, responderSecret, initiatorSecret)
}

func TestAKEFinalRejectsTamperedResponseSignature(t *testing.T) {
	initiatorSigner, _ := newSignerPair(t, scheme.BLISS, 3)
	responderSigner, initiatorVerifierOfResponder := newSignerPair(t, scheme.BLISS, 3)

	initiatorKEM, err := scheme.Create(scheme.KyberKEM, 0, scheme.Default())
	require.NoError(t, err)
	responderKEM, err := scheme.Create(scheme.KyberKEM, 0, scheme.Default())
	require.NoError(t, err)

	kemPub, sig, err := ake.Init(initiatorSigner, initiatorKEM)
	require.NoError(t, err)

	digest, ciphertext, respSig, _, err := ake.Response(responderSigner, responderKEM, kemPub, sig)
	require.NoError(t, err)

	tampered := append([]byte{}, respSig...)
	tampered[0] ^= 0xff

	_, err = ake.Final(initiatorVerifierOfResponder, initiatorKEM, digest, ciphertext, tampered, sig)
	assert.Error(t, err)
}
