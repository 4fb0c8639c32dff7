package scheme

import (
	"crypto/hmac"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
)

// This file carries the public-contract rows for the signature, encryption,
// KEM and IBE kinds whose internal lattice algorithm is out of scope
// (ring-TESLA, ENS/DLP, Falcon, RLWE-encryption, ENS-KEM, DLP-IBE — see
// DESIGN.md). Each row still walks a real Create/KeyGen/operate lifecycle so
// dispatch, the error queue and an Instance's state machine all see a live
// scheme, keyed by a per-instance secret and standing in with an HMAC-SHA3
// construction for the signature/encryption primitive itself. None of this
// is meant to carry any cryptographic weight; it exists so the table row is
// never a nil function pointer.

// keyedStream derives a deterministic prng.Stream from secret and context,
// the same "fold context into a seed, hand it to a registered PRNG kind"
// shape internal/prng.New itself uses via its EntropySource(Callback) path,
// just driven by a keyed hash instead of the OS entropy source.
func keyedStream(secret, context []byte) (prng.Stream, error) {
	cb := func(out []byte) error {
		mac := tag(secret, context)
		for i := range out {
			out[i] = mac[i%len(mac)]
		}
		return nil
	}
	return prng.New(prng.ChaCha, prng.Callback, cb)
}

func xorWithStream(s prng.Stream, data []byte) ([]byte, error) {
	ks := make([]byte, len(data))
	if _, err := s.Read(ks); err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ ks[i]
	}
	return out, nil
}

const nonceLen = 16

// tag computes a keyed SHA3-256 hash of msg under key, the building block
// every stub row below uses in place of its out-of-scope lattice primitive.
func tag(key, msg []byte) []byte {
	h := hmac.New(sha3.New256, key)
	h.Write(msg)
	return h.Sum(nil)
}

// stubSigner is the shared state behind every plain/recovery signature stub
// row: a random per-instance secret and a keyed-hash tag standing in for
// the lattice signature itself.
type stubSigner struct {
	kind   Kind
	secret []byte
}

func newStubSigner(kind Kind) Factory {
	return func() Scheme { return &stubSigner{kind: kind} }
}

func (s *stubSigner) Kind() Kind { return s.kind }

func (s *stubSigner) Create(inst *Instance, paramSet int) error {
	inst.State = &stubSigner{kind: s.kind}
	return nil
}

func (s *stubSigner) Destroy(inst *Instance) error { return nil }

func (s *stubSigner) KeyGen(inst *Instance) error {
	st := inst.State.(*stubSigner)
	secret := make([]byte, 32)
	if _, err := inst.PRNGs[0].Read(secret); err != nil {
		return fmt.Errorf("scheme: %s keygen: %w", s.kind, err)
	}
	st.secret = secret
	inst.Keys.PrivateRaw = secret
	inst.Keys.PublicRaw = secret
	return nil
}

func (s *stubSigner) Sign(inst *Instance, msg []byte) ([]byte, error) {
	st := inst.State.(*stubSigner)
	if st.secret == nil {
		return nil, fmt.Errorf("scheme: %s sign: no key", s.kind)
	}
	return tag(st.secret, msg), nil
}

func (s *stubSigner) Verify(inst *Instance, msg, sig []byte) error {
	st := inst.State.(*stubSigner)
	if !hmac.Equal(tag(st.secret, msg), sig) {
		return fmt.Errorf("scheme: %s verify: mismatch", s.kind)
	}
	return nil
}

// SignRecovery/VerifyRecovery append the message behind the tag instead of
// requiring the caller to supply it separately, the message-recovery
// contract ENS-with-recovery/DLP-with-recovery need at the table-row level.
func (s *stubSigner) SignRecovery(inst *Instance, msg []byte) ([]byte, error) {
	st := inst.State.(*stubSigner)
	if st.secret == nil {
		return nil, fmt.Errorf("scheme: %s sign-with-recovery: no key", s.kind)
	}
	out := make([]byte, 0, sha3.New256().Size()+len(msg))
	out = append(out, tag(st.secret, msg)...)
	out = append(out, msg...)
	return out, nil
}

func (s *stubSigner) VerifyRecovery(inst *Instance, sig []byte) ([]byte, error) {
	st := inst.State.(*stubSigner)
	tagLen := sha3.New256().Size()
	if len(sig) < tagLen {
		return nil, fmt.Errorf("scheme: %s verify-with-recovery: truncated signature", s.kind)
	}
	gotTag, msg := sig[:tagLen], sig[tagLen:]
	if !hmac.Equal(tag(st.secret, msg), gotTag) {
		return nil, fmt.Errorf("scheme: %s verify-with-recovery: mismatch", s.kind)
	}
	return msg, nil
}

// stubCipher is the shared state behind RLWE-encryption and ENS-KEM: a
// random per-instance secret feeding keyedStream, a nonce-prefixed
// ciphertext taking the place of the real lattice ciphertext.
type stubCipher struct {
	kind   Kind
	secret []byte
}

func newStubCipher(kind Kind) Factory {
	return func() Scheme { return &stubCipher{kind: kind} }
}

func (s *stubCipher) Kind() Kind { return s.kind }

func (s *stubCipher) Create(inst *Instance, paramSet int) error {
	inst.State = &stubCipher{kind: s.kind}
	return nil
}

func (s *stubCipher) Destroy(inst *Instance) error { return nil }

func (s *stubCipher) KeyGen(inst *Instance) error {
	st := inst.State.(*stubCipher)
	secret := make([]byte, 32)
	if _, err := inst.PRNGs[0].Read(secret); err != nil {
		return fmt.Errorf("scheme: %s keygen: %w", s.kind, err)
	}
	st.secret = secret
	inst.Keys.PrivateRaw = secret
	inst.Keys.PublicRaw = secret
	return nil
}

func (s *stubCipher) Encrypt(inst *Instance, msg []byte) ([]byte, error) {
	st := inst.State.(*stubCipher)
	nonce := make([]byte, nonceLen)
	if _, err := inst.PRNGs[0].Read(nonce); err != nil {
		return nil, fmt.Errorf("scheme: %s encrypt: %w", s.kind, err)
	}
	stream, err := keyedStream(st.secret, nonce)
	if err != nil {
		return nil, err
	}
	ct, err := xorWithStream(stream, msg)
	if err != nil {
		return nil, err
	}
	return append(nonce, ct...), nil
}

func (s *stubCipher) Decrypt(inst *Instance, ciphertext []byte) ([]byte, error) {
	st := inst.State.(*stubCipher)
	if len(ciphertext) < nonceLen {
		return nil, fmt.Errorf("scheme: %s decrypt: truncated ciphertext", s.kind)
	}
	nonce, ct := ciphertext[:nonceLen], ciphertext[nonceLen:]
	stream, err := keyedStream(st.secret, nonce)
	if err != nil {
		return nil, err
	}
	return xorWithStream(stream, ct)
}

func (s *stubCipher) Encapsulate(inst *Instance) (ciphertext, key []byte, err error) {
	key = make([]byte, 32)
	if _, err = inst.PRNGs[0].Read(key); err != nil {
		return nil, nil, fmt.Errorf("scheme: %s encapsulate: %w", s.kind, err)
	}
	ciphertext, err = s.Encrypt(inst, key)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, key, nil
}

func (s *stubCipher) Decapsulate(inst *Instance, ciphertext []byte) ([]byte, error) {
	return s.Decrypt(inst, ciphertext)
}

// stubIBE is the shared state behind DLP-IBE: a master secret plus the set
// of per-identity keys this instance has extracted so far, letting the same
// Instance play both the extracting authority and a decrypting user in a
// single demo flow.
type stubIBE struct {
	master     []byte
	identities map[string][]byte
}

func init() {
	Register(RingTESLA, newStubSigner(RingTESLA))
	Register(ENSSignature, newStubSigner(ENSSignature))
	Register(ENSWithRecovery, newStubSigner(ENSWithRecovery))
	Register(DLP, newStubSigner(DLP))
	Register(DLPWithRecovery, newStubSigner(DLPWithRecovery))
	Register(Falcon, newStubSigner(Falcon))

	Register(RLWEEncryption, newStubCipher(RLWEEncryption))
	Register(ENSKEM, newStubCipher(ENSKEM))

	Register(DLPIBE, func() Scheme { return &stubIBE{} })
}

func (s *stubIBE) Kind() Kind { return DLPIBE }

func (s *stubIBE) Create(inst *Instance, paramSet int) error {
	inst.State = &stubIBE{identities: make(map[string][]byte)}
	return nil
}

func (s *stubIBE) Destroy(inst *Instance) error { return nil }

func (s *stubIBE) KeyGen(inst *Instance) error {
	st := inst.State.(*stubIBE)
	master := make([]byte, 32)
	if _, err := inst.PRNGs[0].Read(master); err != nil {
		return fmt.Errorf("scheme: dlp-ibe keygen: %w", err)
	}
	st.master = master
	inst.Keys.PrivateRaw = master
	inst.Keys.PublicRaw = master
	return nil
}

// SecretKey extracts the identity's private key (a keyed hash of the master
// secret and the identity string) and caches it so IBEDecrypt can use it.
func (s *stubIBE) SecretKey(inst *Instance, identity []byte) ([]byte, error) {
	st := inst.State.(*stubIBE)
	if st.master == nil {
		return nil, fmt.Errorf("scheme: dlp-ibe secret key: no master key")
	}
	userKey := tag(st.master, identity)
	st.identities[string(identity)] = userKey
	return userKey, nil
}

func (s *stubIBE) IBEEncrypt(inst *Instance, identity, msg []byte) ([]byte, error) {
	st := inst.State.(*stubIBE)
	if st.master == nil {
		return nil, fmt.Errorf("scheme: dlp-ibe encrypt: no master key")
	}
	userKey := tag(st.master, identity)
	nonce := make([]byte, nonceLen)
	if _, err := inst.PRNGs[0].Read(nonce); err != nil {
		return nil, err
	}
	stream, err := keyedStream(userKey, nonce)
	if err != nil {
		return nil, err
	}
	ct, err := xorWithStream(stream, msg)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, nonceLen+1+len(identity)+len(ct))
	out = append(out, nonce...)
	out = append(out, byte(len(identity)))
	out = append(out, identity...)
	out = append(out, ct...)
	return out, nil
}

func (s *stubIBE) IBEDecrypt(inst *Instance, ciphertext []byte) ([]byte, error) {
	st := inst.State.(*stubIBE)
	if len(ciphertext) < nonceLen+1 {
		return nil, fmt.Errorf("scheme: dlp-ibe decrypt: truncated ciphertext")
	}
	nonce := ciphertext[:nonceLen]
	idLen := int(ciphertext[nonceLen])
	rest := ciphertext[nonceLen+1:]
	if len(rest) < idLen {
		return nil, fmt.Errorf("scheme: dlp-ibe decrypt: truncated identity")
	}
	identity, ct := rest[:idLen], rest[idLen:]

	userKey, ok := st.identities[string(identity)]
	if !ok {
		return nil, fmt.Errorf("scheme: dlp-ibe decrypt: no extracted key for identity")
	}
	stream, err := keyedStream(userKey, nonce)
	if err != nil {
		return nil, err
	}
	return xorWithStream(stream, ct)
}
