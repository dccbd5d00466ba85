package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGetRelease(t *testing.T) {
	r := NewRegistry()
	data := []byte{0xff, 0xd8, 0xff}

	h := r.Create("image/jpeg", data)
	assert.NotEmpty(t, h)
	assert.Equal(t, 1, r.Live())

	b, err := r.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", b.ContentType)
	assert.Equal(t, data, b.Data)

	require.NoError(t, r.Release(h))
	assert.Equal(t, 0, r.Live())

	_, err = r.Get(h)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestReleaseTwiceFails(t *testing.T) {
	r := NewRegistry()
	h := r.Create("image/png", []byte("png"))

	require.NoError(t, r.Release(h))
	assert.ErrorIs(t, r.Release(h), ErrUnknownHandle)
	assert.ErrorIs(t, r.Release("never-created"), ErrUnknownHandle)
}

func TestCreateCopiesInput(t *testing.T) {
	r := NewRegistry()
	data := []byte("original")
	h := r.Create("image/png", data)
	data[0] = 'X'

	b, err := r.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "original", string(b.Data))
}

func TestHandlesAreDistinct(t *testing.T) {
	r := NewRegistry()
	a := r.Create("image/png", []byte("a"))
	b := r.Create("image/png", []byte("a"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, r.Live())
}
