package scheme

import (
	"fmt"
	"sync"

	"github.com/safecrypto/libsafecrypto-sub000/errqueue"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
)

// Lifecycle tracks an Instance through its create/keys/operate/destroy path.
type Lifecycle int

const (
	LifecycleCreated Lifecycle = iota
	LifecycleKeyed
	LifecycleReady
	LifecycleDestroyed
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleCreated:
		return "created"
	case LifecycleKeyed:
		return "keyed"
	case LifecycleReady:
		return "ready"
	case LifecycleDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// KeyPair holds a key's encoded and decoded representations. Concrete
// schemes populate Private/Public with whatever shape they need (coefficient
// vectors, NTT-domain polynomials, ...). The encoded byte slices are not
// filled in by this package or by KeyCoder.*Encode, which return the
// encoding to the caller instead.
type KeyPair struct {
	PrivateRaw interface{}
	PublicRaw  interface{}

	PrivateEncoded []byte
	PublicEncoded  []byte
}

// Instance is the per-handle state of an active scheme use, the Go rendering
// of the opaque safecrypto_t the C surface hands callers a pointer to. One
// Instance is bound to exactly one Kind and one parameter set for its entire
// life; operations after Destroy are rejected by checkAlive with a
// NullPointer error.
type Instance struct {
	mu sync.Mutex

	kind     Kind
	paramSet int
	scheme   Scheme
	state    Lifecycle

	// State is scheme-private data stashed by Scheme.Create (NTT tables,
	// sampler handles, oracle seeds, ...); schemes type-assert their own
	// concrete type back out of it.
	State interface{}

	PRNGs   []prng.Stream
	Flags   Flags
	Keys    KeyPair
	Errors  *errqueue.Queue
	Scratch []byte

	lastStats string
}

// Create allocates a fresh Instance bound to kind/paramSet, running the
// scheme's create hook. A create-hook error is recorded on the Instance's
// error queue alongside being returned, matching the dual reporting
// convention (return code + push_error) the C surface uses; an unknown kind
// or a PRNG set-up failure is only returned, with a nil Instance.
func Create(kind Kind, paramSet int, flags Flags) (*Instance, error) {
	s, err := newScheme(kind)
	if err != nil {
		return nil, err
	}

	inst := &Instance{
		kind:     kind,
		paramSet: paramSet,
		scheme:   s,
		state:    LifecycleCreated,
		Flags:    flags,
		Errors:   errqueue.New(),
	}

	src, err := prng.New(flags.PRNGKind, flags.EntropySrc, nil)
	if err != nil {
		return nil, fmt.Errorf("scheme: create %s: %w", kind, err)
	}
	inst.PRNGs = []prng.Stream{src}

	if err := s.Create(inst, paramSet); err != nil {
		inst.Errors.Add(errqueue.General, "instance.go", 0)
		return nil, fmt.Errorf("scheme: create %s: %w", kind, err)
	}
	return inst, nil
}

// Destroy releases the scheme's state and marks inst unusable.
func (inst *Instance) Destroy() error {
	inst.mu.Lock()
	defer inst.mu.Unlock()
	if inst.state == LifecycleDestroyed {
		return nil
	}
	err := inst.scheme.Destroy(inst)
	inst.state = LifecycleDestroyed
	inst.State = nil
	inst.Scratch = nil
	return err
}

// Kind reports the scheme this Instance was created against.
func (inst *Instance) Kind() Kind { return inst.kind }

// checkAlive guards every public operation against use-after-destroy,
// reporting NullPointer the way the C surface treats a dangling handle.
func (inst *Instance) checkAlive() error {
	if inst.state == LifecycleDestroyed {
		inst.Errors.Add(errqueue.NullPointer, "instance.go", 0)
		return fmt.Errorf("scheme: instance %s already destroyed", inst.kind)
	}
	return nil
}

// TempSizer is implemented by schemes whose scratch-buffer requirement
// depends on the parameter set; TempSize reports that requirement in bytes.
// A scheme that doesn't implement it is treated as needing only a non-nil
// buffer, not a specific size.
type TempSizer interface {
	Scheme
	TempSize(inst *Instance) int
}

// tempSize reports the scratch-buffer size this Instance's scheme declares,
// the value scratch_size() hands back to a caller before it ever supplies a
// buffer via scratch_external.
func (inst *Instance) tempSize() int {
	if ts, ok := inst.scheme.(TempSizer); ok {
		return ts.TempSize(inst)
	}
	return 0
}

// TempSize is the exported form of tempSize, backing capi's scratch_size.
func (inst *Instance) TempSize() int { return inst.tempSize() }

// checkScratch enforces temp_ready: when Flags.ScratchExternal is set, every
// operation is gated on scratch_external having already supplied a buffer of
// at least the scheme's declared size. Internally-allocated scratch (the
// default) is always ready.
func (inst *Instance) checkScratch() error {
	if !inst.Flags.ScratchExternal {
		return nil
	}
	need := inst.tempSize()
	if inst.Scratch == nil || len(inst.Scratch) < need {
		inst.Errors.Add(errqueue.General, "instance.go", 0)
		return fmt.Errorf("scheme: %s: scratch buffer not ready, call scratch_external first (need %d bytes, have %d)",
			inst.kind, need, len(inst.Scratch))
	}
	return nil
}

// checkReady combines the liveness and scratch-readiness guards every public
// operation runs through before reaching its scheme's capability hook.
func (inst *Instance) checkReady() error {
	if err := inst.checkAlive(); err != nil {
		return err
	}
	return inst.checkScratch()
}

// markKeyed records that a key-producing or key-loading call has completed.
func (inst *Instance) markKeyed() {
	if inst.state == LifecycleCreated {
		inst.state = LifecycleKeyed
	}
}
