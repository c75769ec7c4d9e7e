// Package claims reads the payload of a bearer credential.
//
// Nothing here verifies a signature. A forged but well-formed token decodes
// fine and its role is trusted for display. Claims must only ever drive what
// the console shows, never what the backend allows.
package claims

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is returned for anything that is not three dot-separated
// segments with a JSON object in the middle one.
var ErrMalformedToken = errors.New("malformed token")

// Claims is the decoded token payload
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode splits token and parses its payload segment.
func Decode(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, ErrMalformedToken
	}

	var raw jwt.MapClaims
	if err := json.Unmarshal(payload, &raw); err != nil || raw == nil {
		return nil, ErrMalformedToken
	}
	return fromMap(raw), nil
}

// fromMap reads the claims it knows. A claim of an unexpected type is
// left empty instead of failing the whole payload.
func fromMap(raw jwt.MapClaims) *Claims {
	c := &Claims{}
	c.Role, _ = raw["role"].(string)
	c.UserID, _ = raw["user_id"].(string)

	if sub, err := raw.GetSubject(); err == nil {
		c.RegisteredClaims.Subject = sub
	}
	if iss, err := raw.GetIssuer(); err == nil {
		c.Issuer = iss
	}
	if aud, err := raw.GetAudience(); err == nil {
		c.Audience = aud
	}
	if exp, err := raw.GetExpirationTime(); err == nil {
		c.ExpiresAt = exp
	}
	if iat, err := raw.GetIssuedAt(); err == nil {
		c.IssuedAt = iat
	}
	if nbf, err := raw.GetNotBefore(); err == nil {
		c.NotBefore = nbf
	}
	return c
}

// decodeSegment accepts the URL-safe alphabet JWTs use and, failing that,
// the standard alphabet with or without padding.
func decodeSegment(seg string) ([]byte, error) {
	if data, err := segmentParser.DecodeSegment(seg); err == nil {
		return data, nil
	}
	std := strings.TrimRight(seg, "=")
	return base64.RawStdEncoding.DecodeString(std)
}

// Role returns the role claim of token, or "" when it cannot be decoded.
func Role(token string) string {
	c, err := Decode(token)
	if err != nil {
		return ""
	}
	return c.Role
}

// Identity returns the best user identifier carried by the claims
func (c *Claims) Identity() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}
