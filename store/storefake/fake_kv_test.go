package storefake_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/userhub/go-token-service/store"
	"github.com/userhub/go-token-service/store/storefake"
)

func TestTTLEviction(t *testing.T) {
	current := time.Now()
	kv := storefake.NewFakeKV()
	kv.NowFunc = func() time.Time { return current }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, kv.Set(ctx, "b", []byte("2"), 0))

	_, err := kv.Get(ctx, "a")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	_, err = kv.Get(ctx, "a")
	require.ErrorIs(t, err, store.ErrKeyNotFound)

	// No TTL means no eviction
	_, err = kv.Get(ctx, "b")
	require.NoError(t, err)
}

func TestGetDelIsSingleShot(t *testing.T) {
	kv := storefake.NewFakeKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "a", []byte("1"), 0))

	val, err := kv.GetDel(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), val)

	_, err = kv.GetDel(ctx, "a")
	require.ErrorIs(t, err, store.ErrKeyNotFound)
}

func TestScanBatches(t *testing.T) {
	kv := storefake.NewFakeKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "otp:a", []byte("1"), 0))
	require.NoError(t, kv.Set(ctx, "otp:b", []byte("2"), 0))
	require.NoError(t, kv.Set(ctx, "otp:c", []byte("3"), 0))
	require.NoError(t, kv.Set(ctx, "revoked:x", []byte("1"), 0))

	var batches int
	var seen []string
	err := kv.Scan(ctx, "otp:*", 2, func(keys []string) error {
		batches++
		seen = append(seen, keys...)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, batches)
	require.ElementsMatch(t, []string{"otp:a", "otp:b", "otp:c"}, seen)
}
