package signing

import "github.com/golang-jwt/jwt/v5"

// Decode parses a token without verifying its signature and returns its
// claims, or nil when the token is malformed. Inspection only; never use the
// result for trust decisions.
func Decode(rawToken string) *Claims {
	token, _, err := jwt.NewParser().ParseUnverified(rawToken, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claimsFromMap(mc)
}
