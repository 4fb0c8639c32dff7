// Package ake implements the two-way authenticated key exchange that
// composes a signature scheme.Instance with a KEM scheme.Instance: the
// initiator signs its freshly generated KEM public key, the responder
// verifies it, encapsulates a secret under it and signs the transcript
// hash, and the initiator verifies that response and decapsulates to
// recover the same shared secret both sides now hold. Three messages,
// mutual authentication, one shared secret.
package ake

import (
	"crypto/hmac"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

// transcriptHash folds parts together the same way every step below does:
// SHA3-256 over the concatenation of parts, in order.
func transcriptHash(parts ...[]byte) []byte {
	h := sha3.New256()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Init runs the initiator's half of message 1: generate a fresh KEM key
// pair on kemInst, encode the public half, and sign it with sigInst. The
// caller transmits (kemPub, sig) to the responder.
func Init(sigInst, kemInst *scheme.Instance) (kemPub, sig []byte, err error) {
	if err = scheme.KeyGen(kemInst); err != nil {
		return nil, nil, fmt.Errorf("ake: init: kem keygen: %w", err)
	}

	kemPub, err = scheme.PublicKeyEncode(kemInst)
	if err != nil {
		return nil, nil, fmt.Errorf("ake: init: encode kem public key: %w", err)
	}

	sig, err = scheme.Sign(sigInst, kemPub)
	if err != nil {
		return nil, nil, fmt.Errorf("ake: init: sign kem public key: %w", err)
	}
	return kemPub, sig, nil
}

// Response is the responder's half of message 2: verify the initiator's
// signature over kemPub, load it into kemInst, encapsulate a fresh secret
// under it, sign the transcript hash of (sig, ciphertext, encapsulated
// key), and derive the session secret. The caller transmits
// (transcriptDigest, ciphertext, respSig) back to the initiator.
func Response(sigInst, kemInst *scheme.Instance, kemPub, sig []byte) (transcriptDigest, ciphertext, respSig, secret []byte, err error) {
	if err = scheme.Verify(sigInst, kemPub, sig); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("ake: response: verify kem public key: %w", err)
	}

	if err = scheme.PublicKeyLoad(kemInst, kemPub); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("ake: response: load kem public key: %w", err)
	}

	ciphertext, key, err := scheme.Encapsulate(kemInst)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("ake: response: encapsulate: %w", err)
	}

	transcriptDigest = transcriptHash(sig, ciphertext, key)

	respSig, err = scheme.Sign(sigInst, transcriptDigest)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("ake: response: sign transcript: %w", err)
	}

	secret = transcriptHash(sig, respSig, key)
	return transcriptDigest, ciphertext, respSig, secret, nil
}

// Final is the initiator's half of message 3: verify the responder's
// signature over the transcript digest, decapsulate the KEM ciphertext,
// recompute the digest to confirm it matches, and derive the same session
// secret Response produced.
func Final(sigInst, kemInst *scheme.Instance, transcriptDigest, ciphertext, respSig, sig []byte) (secret []byte, err error) {
	if err = scheme.Verify(sigInst, transcriptDigest, respSig); err != nil {
		return nil, fmt.Errorf("ake: final: verify transcript signature: %w", err)
	}

	key, err := scheme.Decapsulate(kemInst, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("ake: final: decapsulate: %w", err)
	}

	want := transcriptHash(sig, ciphertext, key)
	if !hmac.Equal(want, transcriptDigest) {
		return nil, fmt.Errorf("ake: final: transcript digest mismatch")
	}

	return transcriptHash(sig, respSig, key), nil
}
