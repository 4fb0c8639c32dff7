package scheme

import (
	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
)

// SamplerPrecision selects the sampler's working precision.
type SamplerPrecision int

const (
	Precision32 SamplerPrecision = 32 << iota
	Precision64
	Precision128
	Precision192
	Precision256
)

// Flags is the typed, Go-native rendering of a C library's zero-terminated
// 32-bit flag-word array (word 0: entropy coder / hash / sampler / sampler
// precision / reduction back-end; word 1: PRNG kind / entropy source /
// threading; word 2: sampler blinding / shuffle / discard / cache-access
// obfuscation / masking / external scratch). The capi package is the only
// place that actually marshals/unmarshals the three-word wire form, keeping
// the Go-facing constructors ergonomic (functional options) while staying
// byte-for-byte faithful to that wire form at the C-API boundary.
type Flags struct {
	Coder            packer.Coder
	ReductionBackend ring.Backend
	SamplerBackend   sampler.Backend
	SamplerPrecision SamplerPrecision

	PRNGKind   prng.Kind
	EntropySrc prng.EntropySource
	Threading  bool

	Blinding        bool
	Shuffle         bool
	DiscardRate     int
	CacheObfuscate  bool
	NonConstantTime bool
	ScratchExternal bool

	DebugVerbosity int
}

// Option configures a Flags value; Default applies the default
// flag set (blinding off, pattern-masking off, debug at the compile-time
// default) before any Option is applied.
type Option func(*Flags)

// Default returns the baseline Flags value every Instance starts from.
func Default() Flags {
	return Flags{
		Coder:            packer.None,
		ReductionBackend: ring.AVX,
		SamplerBackend:   sampler.CDF,
		SamplerPrecision: Precision64,
		PRNGKind:         prng.AESCTRDRBG,
		EntropySrc:       prng.OSRandom,
	}
}

func NewFlags(opts ...Option) Flags {
	f := Default()
	for _, o := range opts {
		o(&f)
	}
	return f
}

func WithCoder(c packer.Coder) Option            { return func(f *Flags) { f.Coder = c } }
func WithReduction(b ring.Backend) Option        { return func(f *Flags) { f.ReductionBackend = b } }
func WithSampler(b sampler.Backend) Option       { return func(f *Flags) { f.SamplerBackend = b } }
func WithPRNG(k prng.Kind) Option                { return func(f *Flags) { f.PRNGKind = k } }
func WithEntropySource(s prng.EntropySource) Option { return func(f *Flags) { f.EntropySrc = s } }
func WithBlinding() Option                       { return func(f *Flags) { f.Blinding = true } }
func WithShuffle() Option                        { return func(f *Flags) { f.Shuffle = true } }
func WithCacheObfuscation() Option               { return func(f *Flags) { f.CacheObfuscate = true } }
func WithScratchExternal() Option                { return func(f *Flags) { f.ScratchExternal = true } }
func WithDebugVerbosity(v int) Option            { return func(f *Flags) { f.DebugVerbosity = v } }

// samplerKnobs projects the three side-channel toggles into a sampler.Knobs.
func (f Flags) samplerKnobs() sampler.Knobs {
	return sampler.Knobs{Blinding: f.Blinding, Shuffle: f.Shuffle, LUTCache: f.CacheObfuscate}
}
