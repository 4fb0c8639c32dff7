package bliss

import (
	"fmt"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

// blissScheme is the public-contract row registered for scheme.BLISS: a
// thin wrapper translating scheme.Instance calls onto blissCore plus the
// instance's configured entropy coder.
type blissScheme struct {
	core  *blissCore
	coder packer.Coder
}

func init() {
	scheme.Register(scheme.BLISS, func() scheme.Scheme { return &blissScheme{} })
}

func (s *blissScheme) Kind() scheme.Kind { return scheme.BLISS }

func (s *blissScheme) Create(inst *scheme.Instance, paramSetIdx int) error {
	ps, err := paramSet(paramSetIdx)
	if err != nil {
		return err
	}
	core, err := newCore(ps)
	if err != nil {
		return err
	}
	inst.State = &blissScheme{core: core, coder: inst.Flags.Coder}
	return nil
}

func (s *blissScheme) Destroy(inst *scheme.Instance) error { return nil }

// TempSize mirrors bliss_b.c's create-time scratch sizing:
// (6*n + kappa) * sizeof(SINT32).
func (s *blissScheme) TempSize(inst *scheme.Instance) int {
	st := inst.State.(*blissScheme)
	return (6*st.core.ps.N + st.core.ps.Kappa) * 4
}

func (s *blissScheme) KeyGen(inst *scheme.Instance) error {
	st := inst.State.(*blissScheme)
	if err := st.core.keyGen(inst.PRNGs[0]); err != nil {
		return err
	}
	inst.Keys.PublicRaw = st.core.a
	inst.Keys.PrivateRaw = struct{ F, G interface{} }{st.core.f, st.core.g}
	return nil
}

func (s *blissScheme) Sign(inst *scheme.Instance, msg []byte) ([]byte, error) {
	st := inst.State.(*blissScheme)
	return st.core.sign(inst.PRNGs[0], msg)
}

func (s *blissScheme) Verify(inst *scheme.Instance, msg, sig []byte) error {
	st := inst.State.(*blissScheme)
	return st.core.verify(msg, sig)
}

func (s *blissScheme) PublicKeyEncode(inst *scheme.Instance) ([]byte, error) {
	st := inst.State.(*blissScheme)
	coeffs := st.core.r.Center(st.core.a)
	return encodePublicKey(st.coder, st.core.ps.Q, coeffs), nil
}

func (s *blissScheme) PublicKeyLoad(inst *scheme.Instance, data []byte) error {
	st := inst.State.(*blissScheme)
	coeffs, err := decodePublicKey(st.coder, data, st.core.ps.Q, st.core.ps.N)
	if err != nil {
		return err
	}
	st.core.a = fromCenteredPoly(st.core.r, coeffs)
	st.core.a.Domain = ring.NTT
	return nil
}

func (s *blissScheme) PrivateKeyEncode(inst *scheme.Instance) ([]byte, error) {
	st := inst.State.(*blissScheme)
	fBytes := encodeKey(st.coder, st.core.r.Center(st.core.f))
	gBytes := encodeKey(st.coder, st.core.r.Center(st.core.g))
	out := make([]byte, 0, len(fBytes)+len(gBytes)+4)
	out = append(out, byte(len(fBytes)>>8), byte(len(fBytes)))
	out = append(out, fBytes...)
	out = append(out, gBytes...)
	return out, nil
}

func (s *blissScheme) PrivateKeyLoad(inst *scheme.Instance, data []byte) error {
	st := inst.State.(*blissScheme)
	if len(data) < 2 {
		return fmt.Errorf("bliss: private key load: truncated")
	}
	fLen := int(data[0])<<8 | int(data[1])
	if len(data) < 2+fLen {
		return fmt.Errorf("bliss: private key load: truncated")
	}
	fCoeffs, err := decodeKey(st.coder, data[2:2+fLen], st.core.ps.N)
	if err != nil {
		return err
	}
	gCoeffs, err := decodeKey(st.coder, data[2+fLen:], st.core.ps.N)
	if err != nil {
		return err
	}
	st.core.f = fromCenteredPoly(st.core.r, fCoeffs)
	st.core.g = fromCenteredPoly(st.core.r, gCoeffs)
	return nil
}
