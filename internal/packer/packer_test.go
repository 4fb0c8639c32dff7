package packer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
)

func TestWriteReadBitFieldsRoundTrip(t *testing.T) {
	w := packer.NewWriter(4, packer.None)
	require.NoError(t, w.Write(0b101, 3))
	require.NoError(t, w.Write(0xABCD, 16))
	require.NoError(t, w.Write(1, 1))
	require.NoError(t, w.Flush())

	r := packer.NewReader(w.GetBuffer(), packer.None)
	var a, b, c uint32
	require.NoError(t, r.Read(&a, 3))
	require.NoError(t, r.Read(&b, 16))
	require.NoError(t, r.Read(&c, 1))

	assert.Equal(t, uint32(0b101), a)
	assert.Equal(t, uint32(0xABCD), b)
	assert.Equal(t, uint32(1), c)
}

func TestReadPastEndErrors(t *testing.T) {
	r := packer.NewReader([]byte{0xFF}, packer.None)
	var v uint32
	assert.NoError(t, r.Read(&v, 8))
	assert.Error(t, r.Read(&v, 1))
}

func TestEncodeDecodePolySignedNone(t *testing.T) {
	coeffs := []int64{-5, -1, 0, 1, 5, 7}
	w := packer.NewWriter(8, packer.None)
	require.NoError(t, packer.EncodePoly(w, coeffs, 5, true))
	require.NoError(t, w.Flush())

	r := packer.NewReader(w.GetBuffer(), packer.None)
	out, err := packer.DecodePoly(r, len(coeffs), 5, true)
	require.NoError(t, err)
	assert.Equal(t, coeffs, out)
}

func TestEncodeDecodePolyUnsigned(t *testing.T) {
	coeffs := []int64{0, 1, 2, 3329 - 1}
	w := packer.NewWriter(8, packer.None)
	require.NoError(t, packer.EncodePoly(w, coeffs, 13, false))
	require.NoError(t, w.Flush())

	r := packer.NewReader(w.GetBuffer(), packer.None)
	out, err := packer.DecodePoly(r, len(coeffs), 13, false)
	require.NoError(t, err)
	assert.Equal(t, coeffs, out)
}

func TestCodedBackendsRoundTripAndCompressSmallValues(t *testing.T) {
	coeffs := []int64{0, 1, -1, 2, -2, 0, 1, 0, 0, -1}
	for _, coder := range []packer.Coder{packer.BAC, packer.BACRLE, packer.HuffmanStatic, packer.StrongSwan} {
		coder := coder
		t.Run("", func(t *testing.T) {
			w := packer.NewWriter(8, coder)
			require.NoError(t, packer.EncodePoly(w, coeffs, 13, true))
			require.NoError(t, w.Flush())

			r := packer.NewReader(w.GetBuffer(), coder)
			out, err := packer.DecodePoly(r, len(coeffs), 13, true)
			require.NoError(t, err)
			assert.Equal(t, coeffs, out)

			none := packer.NewWriter(8, packer.None)
			require.NoError(t, packer.EncodePoly(none, coeffs, 13, true))
			require.NoError(t, none.Flush())
			assert.Less(t, len(w.GetBuffer()), len(none.GetBuffer()))
		})
	}
}

func TestWriteOnReadModeAndReadOnWriteModeError(t *testing.T) {
	w := packer.NewWriter(4, packer.None)
	var v uint32
	assert.Error(t, w.Read(&v, 1))

	r := packer.NewReader([]byte{0}, packer.None)
	assert.Error(t, r.Write(1, 1))
}
