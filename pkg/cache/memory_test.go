package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func frozen() (*MemoryStore, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = c.now
	return m, c
}

func TestMemoryExpiresEntries(t *testing.T) {
	ctx := context.Background()
	m, c := frozen()

	require.NoError(t, Set(ctx, m, "cart:u1", []string{"a", "b"}, time.Minute))
	require.NoError(t, Set(ctx, m, "forever", 1, 0))

	var got []string
	assert.True(t, Get(ctx, m, "cart:u1", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	c.advance(61 * time.Second)
	assert.False(t, Get(ctx, m, "cart:u1", &got))
	_, err := m.GetRaw(ctx, "cart:u1")
	assert.ErrorIs(t, err, ErrMiss)

	var n int
	assert.True(t, Get(ctx, m, "forever", &n))
}

func TestMemoryIncrKeepsFirstTTL(t *testing.T) {
	ctx := context.Background()
	m, c := frozen()

	n, _ := m.Incr(ctx, "k", time.Minute)
	assert.EqualValues(t, 1, n)

	c.advance(40 * time.Second)
	n, _ = m.Incr(ctx, "k", time.Minute)
	assert.EqualValues(t, 2, n)

	// The window started at the first Incr, not the second.
	c.advance(30 * time.Second)
	n, _ = m.Incr(ctx, "k", time.Minute)
	assert.EqualValues(t, 1, n)
}

func TestMemoryDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SetRaw(ctx, "a", []byte("1"), 0))
	require.NoError(t, m.SetRaw(ctx, "b", []byte("2"), 0))
	require.NoError(t, m.Del(ctx, "a", "b", "missing"))

	_, err := m.GetRaw(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestGetRejectsUndecodableValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.SetRaw(ctx, "k", []byte("not json"), 0))

	var v map[string]int
	assert.False(t, Get(ctx, m, "k", &v))
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"Black", "White"}, nil
	}

	v, err := Remember(ctx, m, "colors", time.Hour, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Black", "White"}, v)

	v, err = Remember(ctx, m, "colors", time.Hour, load)
	require.NoError(t, err)
	assert.Equal(t, []string{"Black", "White"}, v)
	assert.Equal(t, 1, calls)
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	boom := errors.New("store down")

	_, err := Remember(ctx, m, "sizes", time.Hour, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	_, err = m.GetRaw(ctx, "sizes")
	assert.ErrorIs(t, err, ErrMiss)
}
