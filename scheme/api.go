package scheme

import (
	"fmt"

	"github.com/safecrypto/libsafecrypto-sub000/errqueue"
)

// invalidCall records InvalidFunctionCall on inst and returns a matching
// error, the shared path every dispatch function below takes when the
// instance's scheme doesn't implement the requested capability.
func invalidCall(inst *Instance, op string) error {
	inst.Errors.Add(errqueue.InvalidFunctionCall, "api.go", 0)
	return fmt.Errorf("scheme: %s does not support %s", inst.kind, op)
}

// KeyGen runs the instance's keygen hook.
func KeyGen(inst *Instance) error {
	if err := inst.checkReady(); err != nil {
		return err
	}
	kg, ok := inst.scheme.(KeyGenerator)
	if !ok {
		return invalidCall(inst, "key generation")
	}
	if err := kg.KeyGen(inst); err != nil {
		return err
	}
	inst.markKeyed()
	return nil
}

// PublicKeyEncode/PublicKeyLoad/PrivateKeyEncode/PrivateKeyLoad expose the
// wire-codec hooks.
func PublicKeyEncode(inst *Instance) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	kc, ok := inst.scheme.(KeyCoder)
	if !ok {
		return nil, invalidCall(inst, "public key encode")
	}
	return kc.PublicKeyEncode(inst)
}

func PublicKeyLoad(inst *Instance, data []byte) error {
	if err := inst.checkReady(); err != nil {
		return err
	}
	kc, ok := inst.scheme.(KeyCoder)
	if !ok {
		return invalidCall(inst, "public key load")
	}
	if err := kc.PublicKeyLoad(inst, data); err != nil {
		return err
	}
	inst.markKeyed()
	return nil
}

func PrivateKeyEncode(inst *Instance) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	kc, ok := inst.scheme.(KeyCoder)
	if !ok {
		return nil, invalidCall(inst, "private key encode")
	}
	return kc.PrivateKeyEncode(inst)
}

func PrivateKeyLoad(inst *Instance, data []byte) error {
	if err := inst.checkReady(); err != nil {
		return err
	}
	kc, ok := inst.scheme.(KeyCoder)
	if !ok {
		return invalidCall(inst, "private key load")
	}
	if err := kc.PrivateKeyLoad(inst, data); err != nil {
		return err
	}
	inst.markKeyed()
	return nil
}

// Sign / Verify dispatch the signature-scheme capability.
func Sign(inst *Instance, msg []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	s, ok := inst.scheme.(Signer)
	if !ok {
		return nil, invalidCall(inst, "sign")
	}
	return s.Sign(inst, msg)
}

func Verify(inst *Instance, msg, sig []byte) error {
	if err := inst.checkReady(); err != nil {
		return err
	}
	v, ok := inst.scheme.(Verifier)
	if !ok {
		return invalidCall(inst, "verify")
	}
	return v.Verify(inst, msg, sig)
}

// SignRecovery / VerifyRecovery dispatch message-recovery signing.
func SignRecovery(inst *Instance, msg []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	s, ok := inst.scheme.(RecoverySigner)
	if !ok {
		return nil, invalidCall(inst, "sign-with-recovery")
	}
	return s.SignRecovery(inst, msg)
}

func VerifyRecovery(inst *Instance, sig []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	v, ok := inst.scheme.(RecoveryVerifier)
	if !ok {
		return nil, invalidCall(inst, "verify-with-recovery")
	}
	return v.VerifyRecovery(inst, sig)
}

// Encrypt / Decrypt dispatch the public-key-encryption capability.
func Encrypt(inst *Instance, msg []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	e, ok := inst.scheme.(Encrypter)
	if !ok {
		return nil, invalidCall(inst, "encrypt")
	}
	return e.Encrypt(inst, msg)
}

func Decrypt(inst *Instance, ciphertext []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	d, ok := inst.scheme.(Decrypter)
	if !ok {
		return nil, invalidCall(inst, "decrypt")
	}
	return d.Decrypt(inst, ciphertext)
}

// Encapsulate / Decapsulate dispatch the KEM capability.
func Encapsulate(inst *Instance) (ciphertext, key []byte, err error) {
	if err = inst.checkReady(); err != nil {
		return nil, nil, err
	}
	e, ok := inst.scheme.(Encapsulator)
	if !ok {
		return nil, nil, invalidCall(inst, "encapsulate")
	}
	return e.Encapsulate(inst)
}

func Decapsulate(inst *Instance, ciphertext []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	d, ok := inst.scheme.(Decapsulator)
	if !ok {
		return nil, invalidCall(inst, "decapsulate")
	}
	return d.Decapsulate(inst, ciphertext)
}

// SecretKey / IBEEncrypt / IBEDecrypt dispatch the IBE capability.
func SecretKey(inst *Instance, identity []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	x, ok := inst.scheme.(IBEExtractor)
	if !ok {
		return nil, invalidCall(inst, "ibe secret key extraction")
	}
	return x.SecretKey(inst, identity)
}

func IBEEncrypt(inst *Instance, identity, msg []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	e, ok := inst.scheme.(IBEEncrypter)
	if !ok {
		return nil, invalidCall(inst, "ibe encrypt")
	}
	return e.IBEEncrypt(inst, identity, msg)
}

func IBEDecrypt(inst *Instance, ciphertext []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	d, ok := inst.scheme.(IBEDecrypter)
	if !ok {
		return nil, invalidCall(inst, "ibe decrypt")
	}
	return d.IBEDecrypt(inst, ciphertext)
}

// DiffieHellmanInit / DiffieHellmanFinal dispatch the DH capability. No
// scheme in this module implements DHInitiator/DHFinalizer (see DESIGN.md
// for why ECDH/ECDSA remain dispatch-guard-only stubs), so these two always
// report InvalidFunctionCall today — kept so a future row can register
// against the same public surface without touching callers.
func DiffieHellmanInit(inst *Instance) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	d, ok := inst.scheme.(DHInitiator)
	if !ok {
		return nil, invalidCall(inst, "diffie-hellman init")
	}
	return d.DiffieHellmanInit(inst)
}

func DiffieHellmanFinal(inst *Instance, peer []byte) ([]byte, error) {
	if err := inst.checkReady(); err != nil {
		return nil, err
	}
	d, ok := inst.scheme.(DHFinalizer)
	if !ok {
		return nil, invalidCall(inst, "diffie-hellman final")
	}
	return d.DiffieHellmanFinal(inst, peer)
}

// ProcessingStats returns the scheme's own StatsReporter report when the
// scheme provides one, and otherwise the instance's accumulated Stats report.
func ProcessingStats(inst *Instance) (string, error) {
	if err := inst.checkReady(); err != nil {
		return "", err
	}
	if r, ok := inst.scheme.(StatsReporter); ok {
		return r.ProcessingStats(inst), nil
	}
	return inst.lastStats, nil
}
