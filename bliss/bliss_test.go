package bliss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/internal/packer"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"

	_ "github.com/safecrypto/libsafecrypto-sub000/bliss"
)

// BLISS-B parameter set index 3 (BLISS-IV, the fourth row) with default
// flags: keygen, sign "hello", verify against the right and a tampered
// message.
func TestBLISSParamSet4DefaultFlagsSignAndVerify(t *testing.T) {
	inst, err := scheme.Create(scheme.BLISS, 3, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()

	require.NoError(t, scheme.KeyGen(inst))

	pub, err := scheme.PublicKeyEncode(inst)
	require.NoError(t, err)
	require.NotEmpty(t, pub)

	priv, err := scheme.PrivateKeyEncode(inst)
	require.NoError(t, err)
	require.NotEmpty(t, priv)

	sig, err := scheme.Sign(inst, []byte("hello"))
	require.NoError(t, err)

	assert.NoError(t, scheme.Verify(inst, []byte("hello"), sig))
	assert.Error(t, scheme.Verify(inst, []byte("hellp"), sig))
}

// BLISS-B parameter set index 3 with Huffman-static coding selected: the
// coded private key must come out strictly shorter than the uncoded one.
func TestBLISSParamSet4HuffmanCodingShrinksKey(t *testing.T) {
	uncoded, err := scheme.Create(scheme.BLISS, 3, scheme.Default())
	require.NoError(t, err)
	defer uncoded.Destroy()
	require.NoError(t, scheme.KeyGen(uncoded))
	uncodedPriv, err := scheme.PrivateKeyEncode(uncoded)
	require.NoError(t, err)

	coded, err := scheme.Create(scheme.BLISS, 3, scheme.NewFlags(scheme.WithCoder(packer.HuffmanStatic)))
	require.NoError(t, err)
	defer coded.Destroy()
	require.NoError(t, scheme.KeyGen(coded))
	codedPriv, err := scheme.PrivateKeyEncode(coded)
	require.NoError(t, err)

	assert.Less(t, len(codedPriv), len(uncodedPriv))
}

func TestBLISSKeyRoundTripsAcrossAllParamSets(t *testing.T) {
	for idx := 0; idx < 4; idx++ {
		idx := idx
		inst, err := scheme.Create(scheme.BLISS, idx, scheme.Default())
		require.NoError(t, err)
		require.NoError(t, scheme.KeyGen(inst))

		pub, err := scheme.PublicKeyEncode(inst)
		require.NoError(t, err)
		priv, err := scheme.PrivateKeyEncode(inst)
		require.NoError(t, err)

		loaded, err := scheme.Create(scheme.BLISS, idx, scheme.Default())
		require.NoError(t, err)
		require.NoError(t, scheme.PublicKeyLoad(loaded, pub))
		require.NoError(t, scheme.PrivateKeyLoad(loaded, priv))

		rePub, err := scheme.PublicKeyEncode(loaded)
		require.NoError(t, err)
		assert.Equal(t, pub, rePub)

		inst.Destroy()
		loaded.Destroy()
	}
}
