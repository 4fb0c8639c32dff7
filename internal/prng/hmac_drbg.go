package prng

import (
	"crypto/hmac"
	"crypto/sha512"
	"hash"
)

// hmacDRBGStream is a minimal HMAC-DRBG (NIST SP 800-90A §10.1.2) generate
// step over SHA-512, reseeded from the caller-supplied seed material once at
// construction. See prng.go's newHMACDRBG for why this exists instead of a
// third-party dependency.
type hmacDRBGStream struct {
	k []byte
	v []byte
	h func() hash.Hash
}

func newHMACDRBGStream(seed []byte) *hmacDRBGStream {
	s := &hmacDRBGStream{
		k: make([]byte, sha512.Size),
		v: make([]byte, sha512.Size),
		h: sha512.New,
	}
	for i := range s.v {
		s.v[i] = 0x01
	}
	s.update(seed)
	return s
}

func (s *hmacDRBGStream) update(providedData []byte) {
	mac := hmac.New(s.h, s.k)
	mac.Write(s.v)
	mac.Write([]byte{0x00})
	mac.Write(providedData)
	s.k = mac.Sum(nil)

	mac = hmac.New(s.h, s.k)
	mac.Write(s.v)
	s.v = mac.Sum(nil)

	if len(providedData) > 0 {
		mac = hmac.New(s.h, s.k)
		mac.Write(s.v)
		mac.Write([]byte{0x01})
		mac.Write(providedData)
		s.k = mac.Sum(nil)

		mac = hmac.New(s.h, s.k)
		mac.Write(s.v)
		s.v = mac.Sum(nil)
	}
}

// Read fills p with DRBG output, matching io.Reader.
func (s *hmacDRBGStream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		mac := hmac.New(s.h, s.k)
		mac.Write(s.v)
		s.v = mac.Sum(nil)
		n += copy(p[n:], s.v)
	}
	s.update(nil)
	return n, nil
}
