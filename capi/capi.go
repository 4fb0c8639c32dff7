package capi

import (
	"fmt"

	"github.com/safecrypto/libsafecrypto-sub000/errqueue"
	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"

	// Blank-imported so every scheme row registers itself against the
	// scheme package's table via init() before any capi call runs.
	_ "github.com/safecrypto/libsafecrypto-sub000/bliss"
	_ "github.com/safecrypto/libsafecrypto-sub000/mlwe"
)

const (
	versionMajor = 0
	versionMinor = 5
	versionBuild = 0
	versionPatch = 0
)

// Version packs the library's release number the way get_version does:
// major<<24 | minor<<16 | build<<8 | patch.
func Version() uint32 {
	return versionMajor<<24 | versionMinor<<16 | versionBuild<<8 | versionPatch
}

// VersionString renders the same release number as get_version_string does.
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d.%d", versionMajor, versionMinor, versionBuild, versionPatch)
}

// SignatureSchemes, EncryptionSchemes, KEMSchemes, and IBESchemes mirror
// get_signature_schemes/get_encryption_schemes/get_kem_schemes/get_ibe_schemes:
// each returns the Kind values registered under its category.
func SignatureSchemes() []scheme.Kind  { return scheme.Schemes(scheme.CategorySignature) }
func EncryptionSchemes() []scheme.Kind { return scheme.Schemes(scheme.CategoryEncryption) }
func KEMSchemes() []scheme.Kind        { return scheme.Schemes(scheme.CategoryKEM) }
func IBESchemes() []scheme.Kind        { return scheme.Schemes(scheme.CategoryIBE) }

// Create mirrors create(scheme, set, flags[]): flagWords is the raw
// zero-terminated three-word array; Destroy is the paired release call.
func Create(kind scheme.Kind, paramSet int, flagWords []uint32) (*scheme.Instance, error) {
	f, err := DecodeFlags(flagWords)
	if err != nil {
		return nil, err
	}
	return scheme.Create(kind, paramSet, f)
}

func Destroy(inst *scheme.Instance) error { return inst.Destroy() }

func KeyGen(inst *scheme.Instance) error { return scheme.KeyGen(inst) }

// SetKeyCoding / GetKeyCoding mirror set_key_coding/get_key_coding. The
// library table keeps a single entropy coder per instance (Flags.Coder)
// rather than independent public/private selections, so both parameters of
// SetKeyCoding are folded onto that one field and GetKeyCoding reports the
// same value back for both.
func SetKeyCoding(inst *scheme.Instance, pubType, privType packer.Coder) error {
	if pubType != privType {
		return fmt.Errorf("capi: set key coding: public/private coder must match, got %v/%v", pubType, privType)
	}
	inst.Flags.Coder = pubType
	return nil
}

func GetKeyCoding(inst *scheme.Instance) (pubType, privType packer.Coder) {
	return inst.Flags.Coder, inst.Flags.Coder
}

// PublicKeyLoad / PrivateKeyLoad take the data to load directly; there is no
// output buffer to size.
func PublicKeyLoad(inst *scheme.Instance, data []byte) error {
	return scheme.PublicKeyLoad(inst, data)
}

func PrivateKeyLoad(inst *scheme.Instance, data []byte) error {
	return scheme.PrivateKeyLoad(inst, data)
}

// PublicKeyEncode / PrivateKeyEncode follow the in/out byte-buffer
// convention: dst == nil asks for a freshly allocated result sized exactly
// to the encoding; a non-nil dst must have enough capacity or the call
// fails rather than silently truncating.
func PublicKeyEncode(inst *scheme.Instance, dst []byte) ([]byte, error) {
	src, err := scheme.PublicKeyEncode(inst)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

func PrivateKeyEncode(inst *scheme.Instance, dst []byte) ([]byte, error) {
	src, err := scheme.PrivateKeyEncode(inst)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

// Sign / Verify / SignRecovery / VerifyRecovery dispatch the signature
// capability, Sign and SignRecovery following the in/out buffer convention.
func Sign(inst *scheme.Instance, msg []byte, dst []byte) ([]byte, error) {
	src, err := scheme.Sign(inst, msg)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

func Verify(inst *scheme.Instance, msg, sig []byte) error {
	return scheme.Verify(inst, msg, sig)
}

func SignRecovery(inst *scheme.Instance, msg []byte, dst []byte) ([]byte, error) {
	src, err := scheme.SignRecovery(inst, msg)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

func VerifyRecovery(inst *scheme.Instance, sig []byte, dst []byte) ([]byte, error) {
	src, err := scheme.VerifyRecovery(inst, sig)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

// Encrypt / Decrypt dispatch public-key encryption, following the in/out
// buffer convention on their outputs.
func Encrypt(inst *scheme.Instance, msg []byte, dst []byte) ([]byte, error) {
	src, err := scheme.Encrypt(inst, msg)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

func Decrypt(inst *scheme.Instance, ciphertext []byte, dst []byte) ([]byte, error) {
	src, err := scheme.Decrypt(inst, ciphertext)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

// Encapsulate / Decapsulate mirror encapsulation/decapsulation; Encapsulate
// fills two in/out buffers, one for the ciphertext and one for the shared
// secret.
func Encapsulate(inst *scheme.Instance, ctDst, keyDst []byte) (ciphertext, key []byte, err error) {
	ctSrc, keySrc, err := scheme.Encapsulate(inst)
	if err != nil {
		return nil, nil, err
	}
	ciphertext, err = fillBuffer(ctDst, ctSrc)
	if err != nil {
		return nil, nil, err
	}
	key, err = fillBuffer(keyDst, keySrc)
	if err != nil {
		return nil, nil, err
	}
	return ciphertext, key, nil
}

func Decapsulate(inst *scheme.Instance, ciphertext []byte, dst []byte) ([]byte, error) {
	src, err := scheme.Decapsulate(inst, ciphertext)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

// SecretKey / IBEPublicEncrypt / IBEDecrypt mirror ibe_extract /
// ibe_public_encrypt / the IBE decrypt path.
func SecretKey(inst *scheme.Instance, identity []byte, dst []byte) ([]byte, error) {
	src, err := scheme.SecretKey(inst, identity)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

func IBEPublicEncrypt(inst *scheme.Instance, identity, msg []byte, dst []byte) ([]byte, error) {
	src, err := scheme.IBEEncrypt(inst, identity, msg)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

func IBEDecrypt(inst *scheme.Instance, ciphertext []byte, dst []byte) ([]byte, error) {
	src, err := scheme.IBEDecrypt(inst, ciphertext)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

// DiffieHellmanInit / DiffieHellmanFinal mirror the DH pair; no registered
// scheme implements either capability (see DESIGN.md), so both always
// report InvalidFunctionCall through scheme.DiffieHellmanInit/Final today.
func DiffieHellmanInit(inst *scheme.Instance, dst []byte) ([]byte, error) {
	src, err := scheme.DiffieHellmanInit(inst)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

func DiffieHellmanFinal(inst *scheme.Instance, peer []byte, dst []byte) ([]byte, error) {
	src, err := scheme.DiffieHellmanFinal(inst, peer)
	if err != nil {
		return nil, err
	}
	return fillBuffer(dst, src)
}

// ScratchExternal mirrors scratch_external: the caller hands the instance a
// buffer to use as scratch space instead of one it allocates itself.
func ScratchExternal(inst *scheme.Instance, mem []byte) error {
	inst.Scratch = mem
	inst.Flags.ScratchExternal = true
	return nil
}

// ScratchSize mirrors scratch_size: the scheme's declared requirement, not
// whatever buffer (if any) happens to be installed yet — callers query this
// before their first scratch_external call to learn how large a buffer to
// allocate.
func ScratchSize(inst *scheme.Instance) int { return inst.TempSize() }

// ProcessingStats mirrors processing_stats/get_stats, both backed by the
// same accumulated report string.
func ProcessingStats(inst *scheme.Instance) (string, error) {
	return scheme.ProcessingStats(inst)
}

// Error-queue helpers mirror err_get_error / err_peek_error /
// err_get_error_line / err_peek_error_line / err_clear_error.
func GetError(inst *scheme.Instance) errqueue.Code { return inst.Errors.Get() }
func PeekError(inst *scheme.Instance) errqueue.Code { return inst.Errors.Peek() }

func GetErrorLine(inst *scheme.Instance) (errqueue.Code, string, int) {
	return inst.Errors.GetLine()
}

func PeekErrorLine(inst *scheme.Instance) (errqueue.Code, string, int) {
	return inst.Errors.PeekLine()
}

func ClearError(inst *scheme.Instance) { inst.Errors.Clear() }

// fillBuffer implements the in/out byte-buffer convention in Go terms: a
// nil dst asks for a freshly allocated, exactly-sized copy of src; a
// non-nil dst must already have room for len(src) or the call fails
// instead of silently truncating the result.
func fillBuffer(dst []byte, src []byte) ([]byte, error) {
	if dst == nil {
		out := make([]byte, len(src))
		copy(out, src)
		return out, nil
	}
	if len(dst) < len(src) {
		return nil, fmt.Errorf("capi: output buffer too small: need %d bytes, have %d", len(src), len(dst))
	}
	n := copy(dst, src)
	return dst[:n], nil
}
