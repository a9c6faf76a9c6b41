package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type item struct {
	val     []byte
	expires time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expires.IsZero() && now.After(i.expires)
}

// MemoryStore keeps entries in a map. Expired entries are dropped lazily.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]item
	now   func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{items: make(map[string]item), now: time.Now}
}

func (m *MemoryStore) GetRaw(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok || it.expired(m.now()) {
		delete(m.items, key)
		return nil, ErrMiss
	}
	return append([]byte(nil), it.val...), nil
}

func (m *MemoryStore) SetRaw(_ context.Context, key string, val []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	it := item{val: append([]byte(nil), val...)}
	if ttl > 0 {
		it.expires = m.now().Add(ttl)
	}
	m.items[key] = it
	return nil
}

func (m *MemoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	it, ok := m.items[key]
	var n int64
	if ok && !it.expired(now) {
		n, _ = strconv.ParseInt(string(it.val), 10, 64)
	} else {
		it = item{}
		if ttl > 0 {
			it.expires = now.Add(ttl)
		}
	}
	n++
	it.val = []byte(strconv.FormatInt(n, 10))
	m.items[key] = it
	return n, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
func (m *MemoryStore) Close() error               { return nil }
