// Package prng adapts a family of PRNG back-ends to a single Stream
// contract. The underlying primitives (AES, SHA-2/3, BLAKE2, ChaCha/Salsa
// stream ciphers) are external black-box collaborators; this package only
// seeds and selects between them.
package prng

import (
	"crypto/rand"
	"fmt"
	"io"

	aesctrdrbg "github.com/sixafter/aes-ctr-drbg"
	prngchacha "github.com/sixafter/prng-chacha"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/salsa20/salsa"
	"golang.org/x/crypto/sha3"
)

// Kind enumerates the selectable PRNG back-ends.
type Kind int

const (
	AESCTRDRBG Kind = iota // default
	AESCTR
	ISAAC
	Salsa
	ChaCha
	KISS
	SHA3DRBG256
	SHA3DRBG512
	SHA2DRBG256
	SHA2DRBG512
	BLAKE2DRBG256
	BLAKE2DRBG512
	WhirlpoolDRBG512
)

// EntropySource selects where a Stream pulls its initial seed from.
type EntropySource int

const (
	OSRandom EntropySource = iota
	DevRandom
	DevURandom
	Callback
)

// Nonce is the process-global, static constant nonce seeded into every PRNG
// instance at create-time.
const Nonce = "SAFEcrypto nonce"

// Stream is a seeded byte-stream PRNG instance, the Go rendering of an
// externally instantiated PRNG black box.
type Stream interface {
	io.Reader
}

// callbackSource, when EntropySource is Callback, supplies externally
// provided entropy instead of reading from the OS.
type callbackSource func([]byte) error

// New instantiates a Stream of the given Kind, seeded from the requested
// entropy source and the 16-byte process nonce. Kinds with no suitable
// ecosystem library in this module's dependency set (ISAAC, KISS — see
// DESIGN.md) return an error rather than a hand-rolled primitive, consistent
// with the DisabledAtCompile error code; WhirlpoolDRBG512 is served by the
// HMAC-DRBG.
func New(kind Kind, source EntropySource, cb callbackSource) (Stream, error) {
	seed := make([]byte, 32)
	if err := readEntropy(source, cb, seed); err != nil {
		return nil, err
	}
	// Fold the process nonce into the seed material; every back-end below
	// derives its working key/IV from seed||nonce so two Streams created
	// with the same entropy reproduce the same output, since the nonce is
	// process-global, static, and never mutated.
	keyMaterial := append(append([]byte{}, seed...), Nonce...)

	switch kind {
	case AESCTRDRBG:
		return newAESCTRDRBG(keyMaterial)
	case AESCTR:
		return newAESCTRDRBG(keyMaterial) // same conditioned-DRBG construction; see DESIGN.md
	case ChaCha:
		return newChaChaLib(keyMaterial)
	case Salsa:
		return newSalsa20(keyMaterial)
	case SHA3DRBG256:
		return newSHAKE(keyMaterial, 32)
	case SHA3DRBG512:
		return newSHAKE(keyMaterial, 64)
	case BLAKE2DRBG256:
		return newBlake2(keyMaterial, 32)
	case BLAKE2DRBG512:
		return newBlake2(keyMaterial, 64)
	case SHA2DRBG256, SHA2DRBG512, WhirlpoolDRBG512:
		return newHMACDRBG(keyMaterial)
	case ISAAC, KISS:
		return nil, fmt.Errorf("prng: kind %d disabled at compile (no ecosystem implementation available)", kind)
	default:
		return nil, fmt.Errorf("prng: unknown kind %d", kind)
	}
}

func readEntropy(source EntropySource, cb callbackSource, out []byte) error {
	switch source {
	case Callback:
		if cb == nil {
			return fmt.Errorf("prng: callback entropy source requested but no callback supplied")
		}
		return cb(out)
	default:
		// OSRandom, DevRandom and DevURandom all resolve to crypto/rand on
		// every platform this module targets; crypto/rand itself reads
		// /dev/urandom (or the platform equivalent) so the three flag
		// values are not independently distinguishable from Go.
		_, err := rand.Read(out)
		return err
	}
}

// newAESCTRDRBG seeds the NIST SP 800-90A AES-CTR-DRBG from
// github.com/sixafter/aes-ctr-drbg with the combined seed/nonce material as
// its entropy input.
func newAESCTRDRBG(keyMaterial []byte) (Stream, error) {
	r, err := aesctrdrbg.NewReader(aesctrdrbg.WithEntropySource(fixedReader(keyMaterial)))
	if err != nil {
		return nil, fmt.Errorf("prng: aes-ctr-drbg: %w", err)
	}
	return r, nil
}

// newChaChaLib seeds github.com/sixafter/prng-chacha's pooled ChaCha20 PRNG.
func newChaChaLib(keyMaterial []byte) (Stream, error) {
	r, err := prngchacha.NewReader(prngchacha.WithEntropySource(fixedReader(keyMaterial)))
	if err != nil {
		return nil, fmt.Errorf("prng: prng-chacha: %w", err)
	}
	return r, nil
}

// newSalsa20 drives golang.org/x/crypto/salsa20/salsa's core keystream
// directly, keyed by a BLAKE2b-256 hash of the seed material, with a zero
// nonce and a block counter that advances per 64-byte block: a single-use
// per-Instance stream, matching the reference ring package's
// CRPGenerator one-shot PRNG wrapping pattern.
func newSalsa20(keyMaterial []byte) (Stream, error) {
	var key [32]byte
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	h.Write(keyMaterial)
	copy(key[:], h.Sum(nil))
	return &salsaStream{key: key}, nil
}

type salsaStream struct {
	key     [32]byte
	counter uint64
}

func (s *salsaStream) Read(p []byte) (int, error) {
	var counter [16]byte
	var zero, out [64]byte
	n := 0
	for n < len(p) {
		binaryPutUint64(counter[8:], s.counter)
		salsa.XORKeyStream(out[:], zero[:], &counter, &s.key)
		c := copy(p[n:], out[:])
		n += c
		s.counter++
	}
	return n, nil
}

func binaryPutUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * uint(i)))
	}
}

// newSHAKE returns a SHA-3 SHAKE extendable-output stream keyed on the seed
// material, standing in for the SHA3-DRBG-{256,512} kinds.
func newSHAKE(keyMaterial []byte, rate int) (Stream, error) {
	var xof sha3.ShakeHash
	if rate == 32 {
		xof = sha3.NewShake128()
	} else {
		xof = sha3.NewShake256()
	}
	xof.Write(keyMaterial)
	return xof, nil
}

// newBlake2 returns a BLAKE2b XOF keyed on the seed material, standing in
// for the BLAKE2-DRBG-{256,512} kinds.
func newBlake2(keyMaterial []byte, size int) (Stream, error) {
	x, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, keyMaterial[:min(len(keyMaterial), 64)])
	if err != nil {
		return nil, err
	}
	return x, nil
}

// newHMACDRBG implements a minimal HMAC-DRBG (NIST SP 800-90A §10.1.2) over
// SHA-512, standing in for the SHA2-DRBG-{256,512} and WhirlpoolDRBG512
// kinds: no ecosystem HMAC-DRBG package was found among the retrieved
// examples (see DESIGN.md), so this construction uses only the standard
// library's crypto/hmac and crypto/sha512, treating the hash primitive
// itself as an external black-box collaborator rather than reimplementing
// it.
func newHMACDRBG(keyMaterial []byte) (Stream, error) {
	return newHMACDRBGStream(keyMaterial), nil
}

type fixedReaderT struct {
	data []byte
	pos  int
}

// fixedReader returns an io.Reader that cycles through data, used to hand a
// deterministic seed to third-party constructors that want an
// io.Reader-shaped entropy source.
func fixedReader(data []byte) io.Reader {
	return &fixedReaderT{data: data}
}

func (f *fixedReaderT) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		c := copy(p[n:], f.data[f.pos:])
		n += c
		f.pos += c
		if f.pos == len(f.data) {
			f.pos = 0
		}
	}
	return n, nil
}
