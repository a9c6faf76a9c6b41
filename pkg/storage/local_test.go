package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocal(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	require.NoError(t, d.Put(ctx, "products/a.png", strings.NewReader("pixels"), "image/png"))

	ok, err := d.Exists(ctx, "products/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := d.Open(ctx, "products/a.png")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "pixels", string(b))

	assert.Equal(t, "http://localhost:8080/uploads/products/a.png", d.URL("/products/a.png"))

	require.NoError(t, d.Delete(ctx, "products/a.png"))
	require.NoError(t, d.Delete(ctx, "products/a.png"))

	_, err = d.Open(ctx, "products/a.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalDiskStaysInsideRoot(t *testing.T) {
	ctx := context.Background()
	d, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	// ".." is cleaned against the root, so this lands at <root>/escape.png.
	require.NoError(t, d.Put(ctx, "../escape.png", strings.NewReader("x"), ""))
	ok, _ := d.Exists(ctx, "escape.png")
	assert.True(t, ok)

	assert.Error(t, d.Put(ctx, "/", strings.NewReader("x"), ""))
}

func TestLocalDiskHonoursCancelledContext(t *testing.T) {
	d, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Put(ctx, "a.png", strings.NewReader("x"), ""), context.Canceled)

	ok, _ := d.Exists(context.Background(), "a.png")
	assert.False(t, ok)
}
