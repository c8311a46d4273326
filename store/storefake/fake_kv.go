// Package storefake provides an in-memory store.KV for tests.
package storefake

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"github.com/userhub/go-token-service/store"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no TTL
}

// FakeKV is an in-memory KV with TTL bookkeeping. The clock is injectable so
// tests can move time forward, and any call can be made to fail via FailWith
// to simulate a store outage.
type FakeKV struct {
	mu      sync.Mutex
	entries map[string]entry

	// NowFunc supplies the clock used for TTL eviction. Defaults to time.Now.
	NowFunc func() time.Time

	// FailWith, when non-nil, is returned by every operation.
	FailWith error
}

var _ store.KV = (*FakeKV)(nil)

func NewFakeKV() *FakeKV {
	return &FakeKV{
		entries: make(map[string]entry),
		NowFunc: time.Now,
	}
}

func (f *FakeKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return f.FailWith
	}
	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = f.NowFunc().Add(ttl)
	}
	f.entries[key] = e
	return nil
}

func (f *FakeKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return nil, f.FailWith
	}
	e, ok := f.live(key)
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

func (f *FakeKV) GetDel(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return nil, f.FailWith
	}
	e, ok := f.live(key)
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	delete(f.entries, key)
	return e.value, nil
}

func (f *FakeKV) Delete(_ context.Context, keys ...string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailWith != nil {
		return 0, f.FailWith
	}
	var removed int64
	for _, key := range keys {
		if _, ok := f.live(key); ok {
			removed++
		}
		delete(f.entries, key)
	}
	return removed, nil
}

func (f *FakeKV) Scan(_ context.Context, pattern string, batchSize int64, fn func(keys []string) error) error {
	f.mu.Lock()
	if f.FailWith != nil {
		f.mu.Unlock()
		return f.FailWith
	}
	var matched []string
	for key := range f.entries {
		if _, ok := f.live(key); !ok {
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			matched = append(matched, key)
		}
	}
	f.mu.Unlock()

	sort.Strings(matched)
	if batchSize <= 0 {
		batchSize = 10
	}
	for len(matched) > 0 {
		n := int64(len(matched))
		if n > batchSize {
			n = batchSize
		}
		if err := fn(matched[:n]); err != nil {
			return err
		}
		matched = matched[n:]
	}
	return nil
}

func (f *FakeKV) Ping(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.FailWith
}

// TTL returns the remaining lifetime of key, or false if the key is absent
// or has no TTL. Test helper.
func (f *FakeKV) TTL(key string) (time.Duration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.live(key)
	if !ok || e.expiresAt.IsZero() {
		return 0, false
	}
	return e.expiresAt.Sub(f.NowFunc()), true
}

// Len reports the number of live keys. Test helper.
func (f *FakeKV) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for key := range f.entries {
		if _, ok := f.live(key); ok {
			n++
		}
	}
	return n
}

// live returns the entry for key, evicting it first if its TTL has passed.
// Callers must hold the mutex.
func (f *FakeKV) live(key string) (entry, bool) {
	e, ok := f.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !f.NowFunc().Before(e.expiresAt) {
		delete(f.entries, key)
		return entry{}, false
	}
	return e, true
}
