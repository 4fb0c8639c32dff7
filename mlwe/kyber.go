package mlwe

import (
	"bytes"
	"fmt"

	intmlwe "github.com/safecrypto/libsafecrypto-sub000/internal/mlwe"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
	"golang.org/x/crypto/sha3"
)

// kyberCore holds the Module-LWE key material and ring shared by
// kyberCPA and kyberKEM: a Kyber-KEM instance is a Kyber-CPA encryption
// instance plus a Fujisaki-Okamoto re-encryption check.
type kyberCore struct {
	ps ParamSet
	r  *ring.Ring

	seedA []byte
	tHat  []ring.Poly // public, NTT domain, length K
	sHat  []ring.Poly // private, NTT domain, length L
}

func (k *kyberCore) keyGen(src prng.Stream) error {
	seedA, err := randomSeed(src, 32)
	if err != nil {
		return err
	}
	cbd := sampler.NewCenteredBinomial(k.r, k.ps.Eta)

	s := make([]ring.Poly, k.ps.L)
	for i := range s {
		s[i] = k.r.NewPoly()
		if err := cbd.Read(src, s[i]); err != nil {
			return err
		}
	}
	e := make([]ring.Poly, k.ps.K)
	for i := range e {
		e[i] = k.r.NewPoly()
		if err := cbd.Read(src, e[i]); err != nil {
			return err
		}
	}

	tHat, err := intmlwe.CreateRandProduct(k.r, seedA, s, k.ps.K, k.ps.L, false, false)
	if err != nil {
		return fmt.Errorf("mlwe: kyber keygen: %w", err)
	}
	eHat := forwardVector(k.r, e)
	for i := range tHat {
		k.r.Add(tHat[i], eHat[i], tHat[i])
	}

	k.seedA = seedA
	k.tHat = tHat
	k.sHat = forwardVector(k.r, s)
	return nil
}

// encryptWithCoins runs CPA encryption deterministically from whatever
// randomness coins yields, the shape kyberKEM needs to re-derive a
// ciphertext during decapsulation's re-encryption check.
func (k *kyberCore) encryptWithCoins(coins prng.Stream, msg []byte) ([]byte, error) {
	cbd1 := sampler.NewCenteredBinomial(k.r, k.ps.Eta)
	cbd2 := sampler.NewCenteredBinomial(k.r, k.ps.Eta2)

	rVec := make([]ring.Poly, k.ps.L)
	for i := range rVec {
		rVec[i] = k.r.NewPoly()
		if err := cbd1.Read(coins, rVec[i]); err != nil {
			return nil, err
		}
	}
	e1 := make([]ring.Poly, k.ps.K)
	for i := range e1 {
		e1[i] = k.r.NewPoly()
		if err := cbd2.Read(coins, e1[i]); err != nil {
			return nil, err
		}
	}
	e2 := k.r.NewPoly()
	if err := cbd2.Read(coins, e2); err != nil {
		return nil, err
	}

	uHat, err := intmlwe.CreateRandProduct(k.r, k.seedA, rVec, k.ps.K, k.ps.L, true, false)
	if err != nil {
		return nil, fmt.Errorf("mlwe: kyber encrypt: %w", err)
	}
	e1Hat := forwardVector(k.r, e1)
	uStd := make([]ring.Poly, k.ps.K)
	for i := range uHat {
		k.r.Add(uHat[i], e1Hat[i], uHat[i])
		uStd[i] = k.r.NewPoly()
		k.r.Inverse(uHat[i], uStd[i])
	}

	rHat := forwardVector(k.r, rVec)
	vHat := dotProductNTT(k.r, k.tHat, rHat)
	e2Hat := k.r.NewPoly()
	k.r.Forward(e2, e2Hat)
	k.r.Add(vHat, e2Hat, vHat)
	vStd := k.r.NewPoly()
	k.r.Inverse(vHat, vStd)
	m := messageToPoly(k.r, msg)
	k.r.Add(vStd, m, vStd)

	uBytes := encodeCompressedVector(k.r, uStd, k.ps.Du)
	vBytes := encodeCompressedVector(k.r, []ring.Poly{vStd}, k.ps.Dv)
	return append(uBytes, vBytes...), nil
}

func (k *kyberCore) decrypt(ciphertext []byte) ([]byte, error) {
	uLen := (k.ps.K*k.r.N*k.ps.Du + 7) / 8
	if len(ciphertext) < uLen {
		return nil, fmt.Errorf("mlwe: kyber decrypt: ciphertext too short")
	}
	uStd := decodeCompressedVector(k.r, ciphertext[:uLen], k.ps.K, k.ps.Du)
	vStd := decodeCompressedVector(k.r, ciphertext[uLen:], 1, k.ps.Dv)[0]

	uHat := forwardVector(k.r, uStd)
	dot := dotProductNTT(k.r, k.sHat, uHat)
	dotStd := k.r.NewPoly()
	k.r.Inverse(dot, dotStd)

	noisy := k.r.NewPoly()
	k.r.Sub(vStd, dotStd, noisy)
	return polyToMessage(k.r, noisy), nil
}

// kyberCPA is the public-key encryption scheme row (KyberCPAEncryption).
type kyberCPA struct{ core *kyberCore }

func init() {
	scheme.Register(scheme.KyberCPAEncryption, func() scheme.Scheme { return &kyberCPA{} })
	scheme.Register(scheme.KyberKEM, func() scheme.Scheme { return &kyberKEM{} })
}

func (s *kyberCPA) Kind() scheme.Kind { return scheme.KyberCPAEncryption }

func (s *kyberCPA) Create(inst *scheme.Instance, paramSet int) error {
	ps, err := kyberParamSet(paramSet)
	if err != nil {
		return err
	}
	r, err := newRing(ps)
	if err != nil {
		return err
	}
	inst.State = &kyberCPA{core: &kyberCore{ps: ps, r: r}}
	return nil
}

func (s *kyberCPA) Destroy(inst *scheme.Instance) error { return nil }

// TempSize mirrors kyber_enc.c's create-time scratch sizing:
// 6*k*n*sizeof(SINT32).
func (s *kyberCPA) TempSize(inst *scheme.Instance) int {
	core := inst.State.(*kyberCPA).core
	return 6 * core.ps.K * core.r.N * 4
}

func (s *kyberCPA) KeyGen(inst *scheme.Instance) error {
	core := inst.State.(*kyberCPA).core
	if err := core.keyGen(inst.PRNGs[0]); err != nil {
		return err
	}
	inst.Keys.PublicRaw = struct {
		SeedA []byte
		THat  []ring.Poly
	}{core.seedA, core.tHat}
	inst.Keys.PrivateRaw = core.sHat
	return nil
}

func (s *kyberCPA) Encrypt(inst *scheme.Instance, msg []byte) ([]byte, error) {
	core := inst.State.(*kyberCPA).core
	return core.encryptWithCoins(inst.PRNGs[0], msg)
}

func (s *kyberCPA) Decrypt(inst *scheme.Instance, ciphertext []byte) ([]byte, error) {
	core := inst.State.(*kyberCPA).core
	return core.decrypt(ciphertext)
}

// kyberKEM is the key-encapsulation scheme row (KyberKEM), a
// Fujisaki-Okamoto transform over kyberCPA: the encapsulated message seeds
// a deterministic re-encryption, and decapsulation falls back to a
// per-instance implicit-rejection secret when that re-encryption doesn't
// reproduce the received ciphertext.
type kyberKEM struct {
	core *kyberCore
	z    []byte
}

func (s *kyberKEM) Kind() scheme.Kind { return scheme.KyberKEM }

func (s *kyberKEM) Create(inst *scheme.Instance, paramSet int) error {
	ps, err := kyberParamSet(paramSet)
	if err != nil {
		return err
	}
	r, err := newRing(ps)
	if err != nil {
		return err
	}
	inst.State = &kyberKEM{core: &kyberCore{ps: ps, r: r}}
	return nil
}

func (s *kyberKEM) Destroy(inst *scheme.Instance) error { return nil }

// TempSize mirrors kyber_kem.c's create-time scratch sizing:
// (5*k+2)*n*sizeof(SINT32) + 6*32.
func (s *kyberKEM) TempSize(inst *scheme.Instance) int {
	core := inst.State.(*kyberKEM).core
	return (5*core.ps.K+2)*core.r.N*4 + 6*32
}

func (s *kyberKEM) KeyGen(inst *scheme.Instance) error {
	st := inst.State.(*kyberKEM)
	if err := st.core.keyGen(inst.PRNGs[0]); err != nil {
		return err
	}
	z, err := randomSeed(inst.PRNGs[0], 32)
	if err != nil {
		return err
	}
	st.z = z
	inst.Keys.PublicRaw = struct {
		SeedA []byte
		THat  []ring.Poly
	}{st.core.seedA, st.core.tHat}
	inst.Keys.PrivateRaw = st.core.sHat
	return nil
}

func coinStream(seed []byte) prng.Stream {
	x := sha3.NewShake256()
	x.Write(seed)
	return x
}

func kdf(a, b []byte) []byte {
	h := sha3.New256()
	h.Write(a)
	h.Write(b)
	return h.Sum(nil)
}

// gExpand is the FO-transform's G: it binds the public key (rho, t) into the
// derivation of a candidate message so encapsulate/decapsulate can't be
// fooled by a ciphertext re-encrypted under a different key. It returns
// Kbar (the pre-key), r (the coin seed driving encryptWithCoins) and d (a
// key-confirmation tag carried alongside the ciphertext), all independent
// 32-byte outputs of one SHAKE256 stream seeded with rho || pk || m.
func (k *kyberCore) gExpand(m []byte) (kbar, r, d []byte) {
	x := sha3.NewShake256()
	x.Write(k.seedA)
	x.Write(k.encodePublicKey())
	x.Write(m)
	out := make([]byte, 96)
	if _, err := x.Read(out); err != nil {
		panic(err) // SHAKE256 XOF reads never fail
	}
	return out[:32], out[32:64], out[64:96]
}

func (s *kyberKEM) Encapsulate(inst *scheme.Instance) (ciphertext, key []byte, err error) {
	st := inst.State.(*kyberKEM)
	m, err := randomSeed(inst.PRNGs[0], 32)
	if err != nil {
		return nil, nil, err
	}
	kbar, r, d := st.core.gExpand(m)
	ctCore, err := st.core.encryptWithCoins(coinStream(r), m)
	if err != nil {
		return nil, nil, err
	}
	ct := append(append([]byte{}, ctCore...), d...)
	return ct, kdf(kbar, ct), nil
}

func (s *kyberKEM) Decapsulate(inst *scheme.Instance, ciphertext []byte) ([]byte, error) {
	st := inst.State.(*kyberKEM)
	if len(ciphertext) < 32 {
		return nil, fmt.Errorf("mlwe: kyber decapsulate: ciphertext too short")
	}
	ctCore := ciphertext[:len(ciphertext)-32]

	mPrime, err := st.core.decrypt(ctCore)
	if err != nil {
		return nil, err
	}
	kbarPrime, rPrime, dPrime := st.core.gExpand(mPrime)
	ctCorePrime, err := st.core.encryptWithCoins(coinStream(rPrime), mPrime)
	if err != nil {
		return nil, err
	}
	ctPrime := append(append([]byte{}, ctCorePrime...), dPrime...)

	if bytes.Equal(ciphertext, ctPrime) {
		return kdf(kbarPrime, ciphertext), nil
	}
	return kdf(st.z, ciphertext), nil
}
