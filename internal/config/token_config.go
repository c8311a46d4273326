package config

import (
	"os"
	"time"
)

type TokenConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	IsRefreshSecretDerived() bool
	GetIssuer() string
	GetAudience() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetMagicLinkExpiry() time.Duration
	GetEmailVerificationExpiry() time.Duration
	GetOneTimeTokenLength() int
}

type Tokens struct{}

var _ TokenConfig = Tokens{}

func (Tokens) GetAccessTokenSecret() string {
	return GetEnv("ACCESS_TOKEN_SECRET", "")
}

// GetRefreshTokenSecret returns the refresh token secret. When
// REFRESH_TOKEN_SECRET is unset, a secret is derived from the access token
// secret. Derivation is a development convenience only; production
// deployments must set both secrets independently (enforced by Validate).
func (t Tokens) GetRefreshTokenSecret() string {
	if secret := os.Getenv("REFRESH_TOKEN_SECRET"); secret != "" {
		return secret
	}
	return DeriveRefreshSecret(t.GetAccessTokenSecret())
}

func (Tokens) IsRefreshSecretDerived() bool {
	return os.Getenv("REFRESH_TOKEN_SECRET") == ""
}

func (Tokens) GetIssuer() string {
	return GetEnv("TOKEN_ISSUER", "userhub")
}

func (Tokens) GetAudience() string {
	return GetEnv("TOKEN_AUDIENCE", "userhub-api")
}

func (Tokens) GetAccessTokenExpiry() time.Duration {
	return GetDurationEnv("ACCESS_TOKEN_TTL", 15*time.Minute)
}

func (Tokens) GetRefreshTokenExpiry() time.Duration {
	return GetDurationEnv("REFRESH_TOKEN_TTL", 7*24*time.Hour)
}

func (Tokens) GetMagicLinkExpiry() time.Duration {
	return GetDurationEnv("MAGIC_LINK_TTL", 15*time.Minute)
}

func (Tokens) GetEmailVerificationExpiry() time.Duration {
	return GetDurationEnv("EMAIL_VERIFICATION_TTL", 24*time.Hour)
}

func (Tokens) GetOneTimeTokenLength() int {
	return GetIntEnv("ONE_TIME_TOKEN_LENGTH", 32) // 32 bytes = 256 bits
}
