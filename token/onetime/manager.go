// Package onetime issues and consumes single-use tokens for magic-link login
// and email verification. Records live in the key-value store under a
// composite key with a TTL; explicit deletion on consumption is the primary
// single-use mechanism, the TTL is the backstop.
package onetime

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	apperrors "github.com/userhub/go-token-service/internal/errors"
	"github.com/userhub/go-token-service/store"
)

// Purpose identifies the flow a one-time token belongs to. Tokens issued for
// one purpose never validate for another.
type Purpose string

const (
	PurposeMagicLink         Purpose = "magic_link"
	PurposeEmailVerification Purpose = "email_verification"
)

const keyPrefix = "otp:"

// Record is the stored value of a live one-time token.
type Record struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	Purpose   Purpose   `json:"purpose"`
}

// IssuedToken is returned to the caller on issuance. RawToken is the only
// copy of the credential; it is never stored outside its own key.
type IssuedToken struct {
	RawToken  string
	ExpiresAt time.Time
}

// Manager issues, validates, and consumes one-time tokens.
type Manager struct {
	kv          store.KV
	tokenLength int
	nowFunc     func() time.Time
}

type ManagerOption func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithTokenLength sets the number of random bytes per token (default 32).
func WithTokenLength(n int) ManagerOption {
	return func(m *Manager) {
		m.tokenLength = n
	}
}

func New(kv store.KV, options ...ManagerOption) *Manager {
	m := &Manager{
		kv:          kv,
		tokenLength: 32, // 256 bits
		nowFunc:     time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Key returns the store key for a one-time token. The email is part of the
// key so lookups are bound to the claimed identity and never require a
// namespace scan.
func Key(purpose Purpose, email, rawToken string) string {
	return fmt.Sprintf("%s%s:%s:%s", keyPrefix, purpose, email, rawToken)
}

// KeyPattern matches every one-time token key. Used by the cleanup sweeper.
func KeyPattern() string {
	return keyPrefix + "*"
}

// Issue generates a random URL-safe token, stores its record with the given
// TTL, and returns the raw token to the caller.
func (m *Manager) Issue(ctx context.Context, purpose Purpose, subject, email string, ttl time.Duration) (*IssuedToken, error) {
	if ttl <= 0 {
		return nil, errors.New("one-time token ttl must be positive")
	}

	tokenBytes := make([]byte, m.tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, errors.Wrap(err, "Manager.Issue rand.Read")
	}
	rawToken := base64.RawURLEncoding.EncodeToString(tokenBytes)

	expiresAt := m.nowFunc().Add(ttl)
	record, err := json.Marshal(Record{
		Subject:   subject,
		Email:     email,
		ExpiresAt: expiresAt,
		Purpose:   purpose,
	})
	if err != nil {
		return nil, errors.Wrap(err, "Manager.Issue marshal record")
	}

	if err := m.kv.Set(ctx, Key(purpose, email, rawToken), record, ttl); err != nil {
		// Fail closed: issuance without a stored record would produce a
		// token that can never be consumed.
		return nil, errors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
	}

	return &IssuedToken{RawToken: rawToken, ExpiresAt: expiresAt}, nil
}

// Validate checks a one-time token without consuming it and returns the
// associated subject.
func (m *Manager) Validate(ctx context.Context, purpose Purpose, rawToken, email string) (string, error) {
	key := Key(purpose, email, rawToken)
	value, err := m.kv.Get(ctx, key)
	if err != nil {
		return "", m.lookupError(err)
	}

	record, err := m.checkRecord(value, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			// Eager cleanup; the store TTL is only a backstop.
			_, _ = m.kv.Delete(ctx, key)
		}
		return "", err
	}
	return record.Subject, nil
}

// Consume validates a one-time token and deletes it, guaranteeing at most
// one successful consumption. The read and delete are a single atomic
// get-and-delete against the store, so racing consumers cannot both succeed.
func (m *Manager) Consume(ctx context.Context, purpose Purpose, rawToken, email string) (string, error) {
	key := Key(purpose, email, rawToken)
	value, err := m.kv.GetDel(ctx, key)
	if err != nil {
		return "", m.lookupError(err)
	}

	record, err := m.checkRecord(value, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailMismatch) {
			// The record itself was valid; restore it with its remaining
			// lifetime so a mismatched probe does not burn the token.
			if ttl := record.ExpiresAt.Sub(m.nowFunc()); ttl > 0 {
				_ = m.kv.Set(ctx, key, value, ttl)
			}
		}
		return "", err
	}
	return record.Subject, nil
}

// checkRecord verifies expiry and email binding of a fetched record.
func (m *Manager) checkRecord(value []byte, email string) (*Record, error) {
	var record Record
	if err := json.Unmarshal(value, &record); err != nil {
		return nil, errors.Wrap(apperrors.ErrNotFoundOrExpired, "corrupt record")
	}

	if !m.nowFunc().Before(record.ExpiresAt) {
		return &record, apperrors.ErrTokenExpired
	}

	// Timing-safe comparison: the stored email must match the supplied one
	// byte for byte, without leaking where a mismatch occurs.
	if !hmac.Equal([]byte(record.Email), []byte(email)) {
		return &record, apperrors.ErrEmailMismatch
	}
	return &record, nil
}

// lookupError maps store errors for validation paths. Unlike blacklist
// checks, one-time token lookups fail closed: an unreachable store means the
// claim cannot be verified.
func (m *Manager) lookupError(err error) error {
	if errors.Is(err, store.ErrKeyNotFound) {
		return apperrors.ErrNotFoundOrExpired
	}
	return errors.Wrap(apperrors.ErrStoreUnavailable, err.Error())
}
