// Package revocation maintains the blacklist of signed tokens invalidated
// before their natural expiry (logout). Entries live in the shared key-value
// store, never in a process-local cache, so every service instance sees the
// same revocation set.
package revocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	apperrors "github.com/userhub/go-token-service/internal/errors"
	"github.com/userhub/go-token-service/store"
	"github.com/userhub/go-token-service/token/signing"
)

const keyPrefix = "revoked:"

// Registry records and checks revoked tokens.
type Registry struct {
	kv      store.KV
	nowFunc func() time.Time
}

type RegistryOption func(*Registry)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.nowFunc = now
	}
}

func New(kv store.KV, options ...RegistryOption) *Registry {
	r := &Registry{
		kv:      kv,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Key returns the store key for a revoked token: a one-way digest of the raw
// token string, so the store never holds raw bearer tokens.
func Key(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// KeyPattern matches every revocation entry. Used by the cleanup sweeper.
func KeyPattern() string {
	return keyPrefix + "*"
}

// Blacklist marks a token revoked until its natural expiry. The entry's TTL
// is the token's remaining lifetime; an already-expired token is a no-op.
func (r *Registry) Blacklist(ctx context.Context, rawToken string) error {
	claims := signing.Decode(rawToken)
	if claims == nil {
		return apperrors.ErrMalformedToken
	}

	ttl := claims.ExpiresAt.Sub(r.nowFunc())
	if ttl <= 0 {
		return nil
	}

	if err := r.kv.Set(ctx, Key(rawToken), []byte("1"), ttl); err != nil {
		return errors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
	}
	return nil
}

// IsBlacklisted reports whether a token has been revoked. On store
// unavailability it fails open: an outage must not turn into a global
// logout, so an unanswerable check is treated as not revoked.
func (r *Registry) IsBlacklisted(ctx context.Context, rawToken string) bool {
	_, err := r.kv.Get(ctx, Key(rawToken))
	if err == nil {
		return true
	}
	if !errors.Is(err, store.ErrKeyNotFound) {
		log.Warn().Err(err).Msg("blacklist check failed, treating token as not revoked")
	}
	return false
}
