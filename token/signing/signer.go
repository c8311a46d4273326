// Package signing creates and verifies the compact signed tokens issued by
// the token service. HS256 with a per-kind secret; issuer, audience, and
// expiry are embedded as claims and checked on verification.
package signing

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	apperrors "github.com/userhub/go-token-service/internal/errors"
)

// Signer signs and verifies tokens of a single kind.
type Signer interface {
	// Sign creates a signed token for the subject with the signer's kind,
	// TTL, issuer, and audience.
	Sign(subject, email string, emailVerified bool) (string, error)

	// Verify parses and validates a token, returning its claims.
	Verify(rawToken string) (*Claims, error)

	// Kind returns the token kind this signer produces.
	Kind() Kind
}

// HMACSigner implements Signer using symmetric HMAC-SHA256
type HMACSigner struct {
	secret   []byte
	kind     Kind
	ttl      time.Duration
	issuer   string
	audience string
	nowFunc  func() time.Time
}

var _ Signer = (*HMACSigner)(nil)

type HMACSignerOption func(*HMACSigner)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) HMACSignerOption {
	return func(h *HMACSigner) {
		h.nowFunc = now
	}
}

// NewHMACSigner creates a signer for one token kind with its own secret.
func NewHMACSigner(secret string, kind Kind, ttl time.Duration, issuer, audience string, options ...HMACSignerOption) *HMACSigner {
	h := &HMACSigner{
		secret:   []byte(secret),
		kind:     kind,
		ttl:      ttl,
		issuer:   issuer,
		audience: audience,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

func (h *HMACSigner) Kind() Kind {
	return h.kind
}

func (h *HMACSigner) Sign(subject, email string, emailVerified bool) (string, error) {
	if len(h.secret) == 0 {
		return "", errors.Wrap(apperrors.ErrSigning, "empty secret")
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.Wrap(apperrors.ErrSigning, "missing subject")
	}

	now := h.nowFunc()
	claims := jwt.MapClaims{
		"iss":            h.issuer,
		"aud":            h.audience,
		"sub":            subject,
		"email":          email,
		"email_verified": emailVerified,
		"kind":           string(h.kind),
		"iat":            now.Unix(),
		"exp":            now.Add(h.ttl).Unix(),
		"jti":            uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

func (h *HMACSigner) Verify(rawToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(rawToken, jwt.MapClaims{}, h.getVerificationKey,
		jwt.WithTimeFunc(h.nowFunc),
		jwt.WithIssuer(h.issuer),
		jwt.WithAudience(h.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, apperrors.ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, apperrors.ErrClaimMismatch
		default:
			return nil, errors.Wrap(apperrors.ErrInvalidToken, err.Error())
		}
	}
	if !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "error extracting claims from token")
	}
	return claimsFromMap(mc), nil
}

func (h *HMACSigner) getVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}
