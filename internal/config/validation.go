package config

import (
	"strings"

	"github.com/pkg/errors"
)

// Validate checks the configuration at startup. Secrets are immutable after
// this point.
func Validate(c Config) error {
	if strings.TrimSpace(c.GetAccessTokenSecret()) == "" {
		return errors.New("ACCESS_TOKEN_SECRET must be set")
	}
	if c.GetEnv() == "PROD" && c.IsRefreshSecretDerived() {
		return errors.New("REFRESH_TOKEN_SECRET must be set independently in production")
	}
	if c.GetAccessTokenExpiry() <= 0 || c.GetRefreshTokenExpiry() <= 0 {
		return errors.New("token expiries must be positive")
	}
	return nil
}
