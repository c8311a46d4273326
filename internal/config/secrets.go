package config

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveRefreshSecret expands the access token secret into a distinct
// refresh token secret using HKDF-SHA256. The two secrets differ, so an
// access token never verifies against the refresh secret, but the refresh
// secret carries no independent entropy. Development fallback only.
func DeriveRefreshSecret(accessSecret string) string {
	if accessSecret == "" {
		return ""
	}
	r := hkdf.New(sha256.New, []byte(accessSecret), nil, []byte("refresh-token-secret"))
	derived := make([]byte, 32)
	if _, err := io.ReadFull(r, derived); err != nil {
		return ""
	}
	return hex.EncodeToString(derived)
}
