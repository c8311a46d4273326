package signing

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind distinguishes access from refresh tokens. Each kind is signed and
// verified with its own secret.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the structured payload embedded in a signed token. A signed
// token is fully self-describing; nothing about it is persisted.
type Claims struct {
	Subject       string
	Email         string
	EmailVerified bool
	Kind          Kind
	IssuedAt      time.Time
	ExpiresAt     time.Time
	Issuer        string
	Audience      string
	ID            string // jti, for log correlation
}

func claimsFromMap(mc jwt.MapClaims) *Claims {
	sub, _ := mc["sub"].(string)
	email, _ := mc["email"].(string)
	verified, _ := mc["email_verified"].(bool)
	kind, _ := mc["kind"].(string)
	iss, _ := mc["iss"].(string)
	aud, _ := mc["aud"].(string)
	jti, _ := mc["jti"].(string)
	iat, _ := mc["iat"].(float64)
	exp, _ := mc["exp"].(float64)

	return &Claims{
		Subject:       sub,
		Email:         email,
		EmailVerified: verified,
		Kind:          Kind(kind),
		IssuedAt:      time.Unix(int64(iat), 0),
		ExpiresAt:     time.Unix(int64(exp), 0),
		Issuer:        iss,
		Audience:      aud,
		ID:            jti,
	}
}
