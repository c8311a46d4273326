package revocation_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	apperrors "github.com/userhub/go-token-service/internal/errors"
	"github.com/userhub/go-token-service/store/storefake"
	"github.com/userhub/go-token-service/token/revocation"
	"github.com/userhub/go-token-service/token/signing"
)

const (
	secretStr   = "access-secret-1234"
	issuer      = "com.userhub"
	audience    = "userhub-api"
	testSubject = "user-1"
	testEmail   = "john.doe@example.com"
	tokenTTL    = 30 * time.Minute
)

type testFixture struct {
	kv       *storefake.FakeKV
	registry *revocation.Registry
	signer   *signing.HMACSigner
	current  time.Time
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	f := &testFixture{
		kv:      storefake.NewFakeKV(),
		current: time.Now().Truncate(time.Second),
	}
	nowFunc := func() time.Time { return f.current }
	f.kv.NowFunc = nowFunc
	f.registry = revocation.New(f.kv, revocation.WithNowFunc(nowFunc))
	f.signer = signing.NewHMACSigner(secretStr, signing.KindAccess, tokenTTL, issuer, audience,
		signing.WithNowFunc(nowFunc))
	return f
}

func TestBlacklistAndCheck(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	rawToken, err := f.signer.Sign(testSubject, testEmail, true)
	require.NoError(t, err)
	require.False(t, f.registry.IsBlacklisted(ctx, rawToken))

	require.NoError(t, f.registry.Blacklist(ctx, rawToken))
	require.True(t, f.registry.IsBlacklisted(ctx, rawToken))

	// The entry's TTL never exceeds the token's remaining validity
	ttl, ok := f.kv.TTL(revocation.Key(rawToken))
	require.True(t, ok)
	require.LessOrEqual(t, ttl, tokenTTL)
	require.Greater(t, ttl, time.Duration(0))
}

func TestBlacklistEntryEvictedWithTokenExpiry(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	rawToken, err := f.signer.Sign(testSubject, testEmail, false)
	require.NoError(t, err)
	require.NoError(t, f.registry.Blacklist(ctx, rawToken))

	f.current = f.current.Add(tokenTTL + time.Minute)

	// Past natural expiry the entry is gone; the signature check rejects
	// the token from here on anyway.
	require.False(t, f.registry.IsBlacklisted(ctx, rawToken))
	require.Equal(t, 0, f.kv.Len())
}

func TestBlacklistExpiredTokenIsNoop(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	rawToken, err := f.signer.Sign(testSubject, testEmail, false)
	require.NoError(t, err)

	f.current = f.current.Add(tokenTTL + time.Minute)

	require.NoError(t, f.registry.Blacklist(ctx, rawToken))
	require.Equal(t, 0, f.kv.Len())
}

func TestBlacklistMalformedToken(t *testing.T) {
	f := setupTestFixture(t)

	err := f.registry.Blacklist(context.Background(), "not-a-token")
	require.ErrorIs(t, err, apperrors.ErrMalformedToken)
}

func TestBlacklistStoreDown(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	rawToken, err := f.signer.Sign(testSubject, testEmail, false)
	require.NoError(t, err)

	f.kv.FailWith = errors.New("connection refused")

	err = f.registry.Blacklist(ctx, rawToken)
	require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
}

func TestIsBlacklistedFailsOpenOnStoreOutage(t *testing.T) {
	f := setupTestFixture(t)
	ctx := context.Background()

	rawToken, err := f.signer.Sign(testSubject, testEmail, false)
	require.NoError(t, err)
	require.NoError(t, f.registry.Blacklist(ctx, rawToken))

	f.kv.FailWith = errors.New("connection refused")

	// Availability over strictness: an unanswerable check is not revoked
	require.False(t, f.registry.IsBlacklisted(ctx, rawToken))
}
