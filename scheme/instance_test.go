package scheme_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safecrypto/libsafecrypto-sub000/errqueue"
	"github.com/safecrypto/libsafecrypto-sub000/scheme"
)

func TestCreateUnregisteredKindFails(t *testing.T) {
	_, err := scheme.Create(scheme.ECDH, 0, scheme.Default())
	assert.Error(t, err)
}

func TestOperationsAfterDestroyFailWithNullPointer(t *testing.T) {
	inst, err := scheme.Create(scheme.HelloWorld, 0, scheme.Default())
	require.NoError(t, err)
	require.NoError(t, inst.Destroy())

	_, err = scheme.Encrypt(inst, []byte("x"))
	assert.Error(t, err)
	assert.Equal(t, errqueue.NullPointer, inst.Errors.Peek())
}

func TestDestroyIsIdempotent(t *testing.T) {
	inst, err := scheme.Create(scheme.HelloWorld, 0, scheme.Default())
	require.NoError(t, err)
	require.NoError(t, inst.Destroy())
	require.NoError(t, inst.Destroy())
}

func TestKindReportsCreateKind(t *testing.T) {
	inst, err := scheme.Create(scheme.HelloWorld, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	assert.Equal(t, scheme.HelloWorld, inst.Kind())
}

func TestUnsupportedCapabilityReportsInvalidFunctionCall(t *testing.T) {
	inst, err := scheme.Create(scheme.HelloWorld, 0, scheme.Default())
	require.NoError(t, err)
	defer inst.Destroy()
	require.NoError(t, scheme.KeyGen(inst))

	_, err = scheme.SignRecovery(inst, []byte("x"))
	assert.Error(t, err)
	assert.Equal(t, errqueue.InvalidFunctionCall, inst.Errors.Peek())
}
