// Package token is the public surface of the token subsystem. The Manager
// combines the signing engine, the one-time token manager, and the
// revocation registry into the operations the user-facing services call.
package token

import (
	"context"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/userhub/go-token-service/internal/errors"
	"github.com/userhub/go-token-service/store"
	"github.com/userhub/go-token-service/token/onetime"
	"github.com/userhub/go-token-service/token/revocation"
	"github.com/userhub/go-token-service/token/signing"
)

// Pair holds a freshly issued access/refresh token pair.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager orchestrates the token lifecycle. It owns no state of its own;
// all persistence is in the key-value store and all trust is in signatures.
type Manager struct {
	kv                   store.KV
	accessSigner         signing.Signer
	refreshSigner        signing.Signer
	oneTimeTokens        *onetime.Manager
	revocations          *revocation.Registry
	magicLinkTTL         time.Duration
	emailVerificationTTL time.Duration
	sweepBatchSize       int64
	nowFunc              func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithOneTimeTokenTTLs sets the magic-link and email-verification TTLs.
func WithOneTimeTokenTTLs(magicLink, emailVerification time.Duration) ManagerOption {
	return func(m *Manager) {
		m.magicLinkTTL = magicLink
		m.emailVerificationTTL = emailVerification
	}
}

// WithSweepBatchSize bounds the number of keys the cleanup sweep touches
// per store round-trip.
func WithSweepBatchSize(n int64) ManagerOption {
	return func(m *Manager) {
		m.sweepBatchSize = n
	}
}

// New creates a Manager. The access and refresh signers must use distinct
// secrets; the store is shared across all service instances.
func New(kv store.KV, accessSigner, refreshSigner signing.Signer, options ...ManagerOption) (*Manager, error) {
	if kv == nil {
		return nil, errors.New("[token.New] store is required")
	}
	if accessSigner == nil || refreshSigner == nil {
		return nil, errors.New("[token.New] access and refresh signers are required")
	}

	m := &Manager{
		kv:                   kv,
		accessSigner:         accessSigner,
		refreshSigner:        refreshSigner,
		magicLinkTTL:         15 * time.Minute,
		emailVerificationTTL: 24 * time.Hour,
		sweepBatchSize:       100,
		nowFunc:              time.Now,
	}
	for _, opt := range options {
		opt(m)
	}

	m.oneTimeTokens = onetime.New(kv, onetime.WithNowFunc(m.nowFunc))
	m.revocations = revocation.New(kv, revocation.WithNowFunc(m.nowFunc))
	return m, nil
}

// GenerateTokenPair issues an access and a refresh token for the subject.
// If either signing call fails, neither token is returned.
func (m *Manager) GenerateTokenPair(subject, email string, emailVerified bool) (*Pair, error) {
	accessToken, err := m.accessSigner.Sign(subject, email, emailVerified)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.GenerateTokenPair access")
	}
	refreshToken, err := m.refreshSigner.Sign(subject, email, emailVerified)
	if err != nil {
		return nil, errors.Wrap(err, "Manager.GenerateTokenPair refresh")
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// ValidateToken checks revocation first (cheap, skips signature work on
// known-revoked tokens), then signature, expiry, and issuer/audience, then
// the token kind.
func (m *Manager) ValidateToken(ctx context.Context, rawToken string, expectedKind signing.Kind) (*signing.Claims, error) {
	if m.revocations.IsBlacklisted(ctx, rawToken) {
		return nil, apperrors.ErrTokenRevoked
	}

	claims, err := m.signerFor(expectedKind).Verify(rawToken)
	if err != nil {
		return nil, err
	}
	if claims.Kind != expectedKind {
		return nil, apperrors.ErrWrongTokenKind
	}
	return claims, nil
}

// BlacklistToken revokes a token until its natural expiry.
func (m *Manager) BlacklistToken(ctx context.Context, rawToken string) error {
	return m.revocations.Blacklist(ctx, rawToken)
}

// IssueMagicLink creates a single-use passwordless login token for the
// subject, bound to the email it will be sent to.
func (m *Manager) IssueMagicLink(ctx context.Context, email, subject string) (*onetime.IssuedToken, error) {
	return m.oneTimeTokens.Issue(ctx, onetime.PurposeMagicLink, subject, email, m.magicLinkTTL)
}

// ConsumeMagicLink redeems a magic-link token, returning the subject it was
// issued for. At most one consumption succeeds per token.
func (m *Manager) ConsumeMagicLink(ctx context.Context, rawToken, email string) (string, error) {
	return m.oneTimeTokens.Consume(ctx, onetime.PurposeMagicLink, rawToken, email)
}

// IssueEmailVerification creates a single-use email verification token.
func (m *Manager) IssueEmailVerification(ctx context.Context, email, subject string) (*onetime.IssuedToken, error) {
	return m.oneTimeTokens.Issue(ctx, onetime.PurposeEmailVerification, subject, email, m.emailVerificationTTL)
}

// ConsumeEmailVerification redeems an email verification token.
func (m *Manager) ConsumeEmailVerification(ctx context.Context, rawToken, email string) (string, error) {
	return m.oneTimeTokens.Consume(ctx, onetime.PurposeEmailVerification, rawToken, email)
}

// CleanupExpired sweeps the one-time token and revocation keyspaces in
// bounded batches and reports how many keys were removed. Best effort: the
// store TTL already evicts expired entries, this reclaims space when TTL
// eviction is unavailable or a manual housekeeping pass is wanted.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	var removed int64
	for _, pattern := range []string{onetime.KeyPattern(), revocation.KeyPattern()} {
		err := m.kv.Scan(ctx, pattern, m.sweepBatchSize, func(keys []string) error {
			n, err := m.kv.Delete(ctx, keys...)
			removed += n
			return err
		})
		if err != nil {
			return removed, errors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
		}
	}
	return removed, nil
}

func (m *Manager) signerFor(kind signing.Kind) signing.Signer {
	if kind == signing.KindRefresh {
		return m.refreshSigner
	}
	return m.accessSigner
}
