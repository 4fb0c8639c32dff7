package errqueue_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safecrypto/libsafecrypto-sub000/errqueue"
)

func TestEmptyQueueReportsOK(t *testing.T) {
	q := errqueue.New()
	assert.Equal(t, errqueue.OK, q.Get())
	assert.Equal(t, errqueue.OK, q.Peek())
	assert.Equal(t, 0, q.Len())
}

func TestPeekDoesNotConsume(t *testing.T) {
	q := errqueue.New()
	q.Add(errqueue.General, "foo.go", 42)

	assert.Equal(t, errqueue.General, q.Peek())
	assert.Equal(t, errqueue.General, q.Peek())
	assert.Equal(t, 1, q.Len())

	assert.Equal(t, errqueue.General, q.Get())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, errqueue.OK, q.Get())
}

func TestFIFOOrder(t *testing.T) {
	q := errqueue.New()
	q.Add(errqueue.NullPointer, "a.go", 1)
	q.Add(errqueue.OutOfBounds, "b.go", 2)
	q.Add(errqueue.General, "c.go", 3)

	assert.Equal(t, errqueue.NullPointer, q.Get())
	assert.Equal(t, errqueue.OutOfBounds, q.Get())
	assert.Equal(t, errqueue.General, q.Get())
}

func TestOverflowIsSilentlyDiscarded(t *testing.T) {
	q := errqueue.New()
	for i := 0; i < errqueue.Depth+4; i++ {
		q.Add(errqueue.General, "f.go", i)
	}
	assert.Equal(t, errqueue.Depth, q.Len())

	code, _, line := q.GetLine()
	assert.Equal(t, errqueue.General, code)
	assert.Equal(t, 0, line, "the oldest entry (index 0) must survive overflow, not be overwritten")
}

func TestInvalidAddsAreDropped(t *testing.T) {
	q := errqueue.New()
	q.Add(errqueue.Code(9999), "f.go", 1) // out of range
	q.Add(errqueue.General, "f.go", -1)   // negative line
	assert.Equal(t, 0, q.Len())
}

func TestLongFilenameIsTruncatedFromTheFront(t *testing.T) {
	q := errqueue.New()
	long := ""
	for i := 0; i < 200; i++ {
		long += "x"
	}
	q.Add(errqueue.General, long, 1)
	_, file, _ := q.GetLine()
	assert.LessOrEqual(t, len(file), 120)
}

func TestClearResetsQueue(t *testing.T) {
	q := errqueue.New()
	q.Add(errqueue.General, "f.go", 1)
	q.Add(errqueue.General, "f.go", 2)
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, errqueue.OK, q.Get())
}
