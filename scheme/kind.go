// Package scheme implements the scheme-dispatch architecture: the
// SchemeKind registry, the per-instance state machine, and the public
// operation surface every concrete scheme (bliss, mlwe, ...) registers
// itself against. Grounded on the reference implementation's separation
// between a generic rlwe.Parameters/rlwe.Ciphertext substrate and per-scheme
// packages (schemes/bfv, schemes/bgv, schemes/ckks) that plug into it.
package scheme

import "fmt"

// Kind is the SchemeKind enumeration.
type Kind int

const (
	HelloWorld Kind = iota
	BLISS
	Dilithium
	DilithiumG
	RingTESLA
	ENSSignature
	ENSWithRecovery
	DLP
	DLPWithRecovery
	Falcon
	RLWEEncryption
	KyberCPAEncryption
	ENSKEM
	KyberKEM
	DLPIBE
	ECDH
	ECDSA

	numKinds
)

var kindNames = map[Kind]string{
	HelloWorld:          "helloworld",
	BLISS:               "BLISS-B",
	Dilithium:           "Dilithium",
	DilithiumG:          "Dilithium-G",
	RingTESLA:           "ring-TESLA",
	ENSSignature:        "ENS-signature",
	ENSWithRecovery:     "ENS-with-recovery",
	DLP:                 "DLP",
	DLPWithRecovery:     "DLP-with-recovery",
	Falcon:              "Falcon",
	RLWEEncryption:      "RLWE-encryption",
	KyberCPAEncryption:  "Kyber-CPA-encryption",
	ENSKEM:              "ENS-KEM",
	KyberKEM:            "Kyber-KEM",
	DLPIBE:              "DLP-IBE",
	ECDH:                "ECDH",
	ECDSA:               "ECDSA",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Category groups SchemeKinds the way get_signature_schemes /
// get_encryption_schemes / get_kem_schemes / get_ibe_schemes do in the C
// library this module's surface mirrors: singly-linked lists over static
// arrays.
type Category int

const (
	CategorySignature Category = iota
	CategoryEncryption
	CategoryKEM
	CategoryIBE
)

var categoryMembers = map[Category][]Kind{
	CategorySignature:  {BLISS, Dilithium, DilithiumG, RingTESLA, ENSSignature, ENSWithRecovery, DLP, DLPWithRecovery, Falcon, ECDSA},
	CategoryEncryption: {RLWEEncryption, KyberCPAEncryption},
	CategoryKEM:        {ENSKEM, KyberKEM},
	CategoryIBE:        {DLPIBE},
}

// Schemes returns the linked-list (here, a slice) of SchemeKind values
// belonging to category, mirroring the C library's get_*_schemes functions.
func Schemes(category Category) []Kind {
	out := make([]Kind, len(categoryMembers[category]))
	copy(out, categoryMembers[category])
	return out
}
