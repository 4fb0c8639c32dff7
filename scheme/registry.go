package scheme

import "fmt"

// Scheme is the row every SchemeKind registers in the scheme table.
// Concrete schemes embed optional capability interfaces below (Signer,
// Verifier, Encrypter, ...); an Instance whose Scheme does not implement the
// capability needed by a given public API call fails that call with
// InvalidFunctionCall, exactly as a nil function pointer would in the
// original C table — composing interfaces this way keeps the "row"
// exhaustively checkable at compile time instead of a struct of nilable
// func fields.
type Scheme interface {
	Kind() Kind
	// Create runs the scheme's create-hook: validates the parameter set,
	// initialises NTT/sampler/hash handles and any scheme-specific state,
	// storing it on inst.State. Failure must leave inst unmodified.
	Create(inst *Instance, paramSet int) error
	// Destroy releases the scheme-specific state created by Create.
	Destroy(inst *Instance) error
}

// KeyGenerator is implemented by every scheme with a keygen hook.
type KeyGenerator interface {
	Scheme
	KeyGen(inst *Instance) error
}

// KeyCoder is implemented by every scheme that can load/encode its own key
// wire format.
type KeyCoder interface {
	Scheme
	PublicKeyEncode(inst *Instance) ([]byte, error)
	PublicKeyLoad(inst *Instance, data []byte) error
	PrivateKeyEncode(inst *Instance) ([]byte, error)
	PrivateKeyLoad(inst *Instance, data []byte) error
}

// Signer / Verifier implement sign/verify.
type Signer interface {
	Scheme
	Sign(inst *Instance, msg []byte) ([]byte, error)
}
type Verifier interface {
	Scheme
	Verify(inst *Instance, msg, sig []byte) error
}

// RecoverySigner / RecoveryVerifier implement sign_with_recovery /
// verify_with_recovery, where the message is embedded in the signature.
type RecoverySigner interface {
	Scheme
	SignRecovery(inst *Instance, msg []byte) ([]byte, error)
}
type RecoveryVerifier interface {
	Scheme
	VerifyRecovery(inst *Instance, sig []byte) (msg []byte, err error)
}

// Encrypter / Decrypter implement public_encrypt/private_decrypt.
type Encrypter interface {
	Scheme
	Encrypt(inst *Instance, msg []byte) ([]byte, error)
}
type Decrypter interface {
	Scheme
	Decrypt(inst *Instance, ciphertext []byte) ([]byte, error)
}

// Encapsulator / Decapsulator implement the KEM operations.
type Encapsulator interface {
	Scheme
	Encapsulate(inst *Instance) (ciphertext, key []byte, err error)
}
type Decapsulator interface {
	Scheme
	Decapsulate(inst *Instance, ciphertext []byte) (key []byte, err error)
}

// IBEExtractor / IBEEncrypter implement the IBE operations.
type IBEExtractor interface {
	Scheme
	SecretKey(inst *Instance, identity []byte) ([]byte, error)
}
type IBEEncrypter interface {
	Scheme
	IBEEncrypt(inst *Instance, identity, msg []byte) ([]byte, error)
}
type IBEDecrypter interface {
	Scheme
	IBEDecrypt(inst *Instance, ciphertext []byte) ([]byte, error)
}

// DHInitiator / DHFinalizer implement diffie_hellman_init/_final. The
// ECDH/ECDSA rows are kept as dispatch-guard-only stubs (see DESIGN.md); no
// type in this module implements these two interfaces.
type DHInitiator interface {
	Scheme
	DiffieHellmanInit(inst *Instance) ([]byte, error)
}
type DHFinalizer interface {
	Scheme
	DiffieHellmanFinal(inst *Instance, peer []byte) ([]byte, error)
}

// StatsReporter implements processing_stats.
type StatsReporter interface {
	Scheme
	ProcessingStats(inst *Instance) string
}

// Factory constructs a fresh, empty Scheme value for a Kind. The registry
// below is the Go rendering of a process-wide constant table of rows —
// immutable once built, safe for concurrent reads.
type Factory func() Scheme

var registry = map[Kind]Factory{}

// Register installs the Factory for kind. Called from each scheme package's
// init(), mirroring the table's static initialisation.
func Register(kind Kind, factory Factory) {
	registry[kind] = factory
}

// newScheme resolves row kind and instantiates a fresh Scheme, or returns a
// plain error (nothing is pushed to an error queue) if no row is registered
// for kind.
func newScheme(kind Kind) (Scheme, error) {
	factory, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("scheme: no table row registered for %s", kind)
	}
	return factory(), nil
}
