// Package capi is the C-API-shaped shim over the scheme package: the in/out
// byte-buffer calling convention, the three-word flag wire format, and the
// flat function surface a cgo or FFI boundary would bind against. Nothing
// outside this package marshals or unmarshals the flag words directly.
package capi

import (
	"fmt"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/internal/prng"
	"github.com/safecrypto/libsafecrypto-sub000/internal/ring"
	"github.com/safecrypto/libsafecrypto-sub000/internal/sampler"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

// Word layout:
//
//	word0: coder[0:4) | reduction[4:8) | sampler backend[8:12) | sampler precision index[12:15)
//	word1: PRNG kind[0:4) | entropy source[4:6) | threading[6:7)
//	word2: blinding[0:1) | shuffle[1:2) | cache-obfuscate[2:3) | non-constant-time[3:4) |
//	       scratch-external[4:5) | discard rate[8:16) | debug verbosity[16:24)
//
// FlagWords is always exactly 3 words; a caller-visible create() still takes
// a zero-terminated array, so EncodeFlags appends the trailing 0 sentinel
// and DecodeFlags ignores anything past the first 3 words.
const numFlagWords = 3

var precisionTable = []scheme.SamplerPrecision{
	scheme.Precision32,
	scheme.Precision64,
	scheme.Precision128,
	scheme.Precision192,
	scheme.Precision256,
}

func precisionIndex(p scheme.SamplerPrecision) uint32 {
	for i, v := range precisionTable {
		if v == p {
			return uint32(i)
		}
	}
	return 1 // Precision64
}

// EncodeFlags renders f as its zero-terminated three-word wire form.
func EncodeFlags(f scheme.Flags) []uint32 {
	word0 := uint32(f.Coder) |
		uint32(f.ReductionBackend)<<4 |
		uint32(f.SamplerBackend)<<8 |
		precisionIndex(f.SamplerPrecision)<<12

	word1 := uint32(f.PRNGKind) | uint32(f.EntropySrc)<<4
	if f.Threading {
		word1 |= 1 << 6
	}

	word2 := uint32(f.DiscardRate&0xff)<<8 | uint32(f.DebugVerbosity&0xff)<<16
	if f.Blinding {
		word2 |= 1 << 0
	}
	if f.Shuffle {
		word2 |= 1 << 1
	}
	if f.CacheObfuscate {
		word2 |= 1 << 2
	}
	if f.NonConstantTime {
		word2 |= 1 << 3
	}
	if f.ScratchExternal {
		word2 |= 1 << 4
	}

	return []uint32{word0, word1, word2, 0}
}

// DecodeFlags parses a zero-terminated (or bare three-word) flag array back
// into a Flags value, starting from scheme.Default() for any field the
// array's first three words don't cover. A nil or empty array selects
// scheme.Default() unchanged.
func DecodeFlags(words []uint32) (scheme.Flags, error) {
	if len(words) == 0 {
		return scheme.Default(), nil
	}
	if len(words) < numFlagWords {
		return scheme.Flags{}, fmt.Errorf("capi: decode flags: need %d words, got %d", numFlagWords, len(words))
	}
	word0, word1, word2 := words[0], words[1], words[2]

	f := scheme.Default()
	f.Coder = packer.Coder(word0 & 0xf)
	f.ReductionBackend = ring.Backend((word0 >> 4) & 0xf)
	f.SamplerBackend = sampler.Backend((word0 >> 8) & 0xf)
	idx := (word0 >> 12) & 0x7
	if int(idx) < len(precisionTable) {
		f.SamplerPrecision = precisionTable[idx]
	}

	f.PRNGKind = prng.Kind(word1 & 0xf)
	f.EntropySrc = prng.EntropySource((word1 >> 4) & 0x3)
	f.Threading = word1&(1<<6) != 0

	f.Blinding = word2&(1<<0) != 0
	f.Shuffle = word2&(1<<1) != 0
	f.CacheObfuscate = word2&(1<<2) != 0
	f.NonConstantTime = word2&(1<<3) != 0
	f.ScratchExternal = word2&(1<<4) != 0
	f.DiscardRate = int((word2 >> 8) & 0xff)
	f.DebugVerbosity = int((word2 >> 16) & 0xff)

	return f, nil
}
