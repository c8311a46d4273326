package store

import (
	"context"
	"time"
)

// WithTimeout wraps a KV so that every call carries a bounded deadline in
// addition to whatever deadline the caller's context already has.
func WithTimeout(kv KV, timeout time.Duration) KV {
	if timeout <= 0 {
		return kv
	}
	return &timeoutKV{kv: kv, timeout: timeout}
}

type timeoutKV struct {
	kv      KV
	timeout time.Duration
}

func (t *timeoutKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.Set(ctx, key, value, ttl)
}

func (t *timeoutKV) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.Get(ctx, key)
}

func (t *timeoutKV) GetDel(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.GetDel(ctx, key)
}

func (t *timeoutKV) Delete(ctx context.Context, keys ...string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.Delete(ctx, keys...)
}

func (t *timeoutKV) Scan(ctx context.Context, pattern string, batchSize int64, fn func(keys []string) error) error {
	// A sweep may legitimately take longer than a single round-trip; the
	// per-batch callbacks still run under the caller's context.
	return t.kv.Scan(ctx, pattern, batchSize, fn)
}

func (t *timeoutKV) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.kv.Ping(ctx)
}
