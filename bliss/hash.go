package bliss

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// commitmentSeed hashes msg together with the rounded commitment vector w,
// the binding step that turns (message, first-response commitment) into the
// sparse challenge's oracle seed. BLAKE3 is this scheme's oracle hash choice
// (SHA3/SHAKE back the Module-LWE family's oracle instead).
func commitmentSeed(msg []byte, w []int64) []byte {
	h := blake3.New()
	h.Write(msg)
	for _, c := range w {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(c))
		h.Write(b[:])
	}
	var out [32]byte
	h.Digest().Read(out[:])
	return out[:]
}
