// Package claimsx decodes identity claims from the bearer credentials issued
// by the booking API. Decoding is deliberately unverified: the issuer is
// already trusted via TLS, and the gateway never acts as a verification
// authority for its own credentials.
package claimsx

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrDecode reports a credential whose payload could not be interpreted.
// Callers must treat the credential as invalid, not merely claims-less.
var ErrDecode = errors.New("claimsx: invalid credential")

// Claims are the identity and authorization attributes carried in the payload
// segment of an access or refresh credential.
type Claims struct {
	UserID    int64
	UserName  string
	RoleID    int64
	IsAdmin   bool
	IsActive  bool
	ExpiresAt int64 // epoch seconds; 0 when the credential carries no expiry
}

// Decode splits the three dot-separated base64url segments of credential and
// extracts the recognised claim fields from the payload segment. No signature
// verification is performed. A payload without a user_id marks the whole
// credential invalid, even if every other field is well formed.
func Decode(credential string) (Claims, error) {
	payload := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, payload); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	userID, ok := intClaim(payload, "user_id")
	if !ok {
		return Claims{}, fmt.Errorf("%w: missing user_id", ErrDecode)
	}

	c := Claims{
		UserID:   userID,
		UserName: stringClaim(payload, "user_name"),
		IsAdmin:  boolClaim(payload, "is_admin"),
		IsActive: boolClaim(payload, "is_active"),
	}
	if roleID, ok := intClaim(payload, "role_id"); ok {
		c.RoleID = roleID
	}
	if exp, ok := intClaim(payload, "exp"); ok {
		c.ExpiresAt = exp
	}

	return c, nil
}

// Expired reports whether the credential's validity window has closed. A
// credential expiring exactly now is already expired; only an exp strictly in
// the future keeps it valid. Credentials without an exp claim never expire.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == 0 {
		return false
	}
	return c.ExpiresAt <= now.Unix()
}

func intClaim(m jwt.MapClaims, key string) (int64, bool) {
	switch v := m[key].(type) {
	case float64:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

func stringClaim(m jwt.MapClaims, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// boolClaim defaults to false for absent or non-boolean values.
func boolClaim(m jwt.MapClaims, key string) bool {
	b, ok := m[key].(bool)
	return ok && b
}
