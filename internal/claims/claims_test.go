package claims

import (
	"encoding/base64"
	"errors"
	"testing"
)

func token(payload string, enc *base64.Encoding) string {
	return "eyJhbGciOiJIUzI1NiJ9." + enc.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecodeSegmentCount(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"a.b",
		"a.b.c.d",
		"....",
	}

	for _, tok := range tests {
		c, err := Decode(tok)
		if !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Decode(%q) err = %v, want ErrMalformedToken", tok, err)
		}
		if c != nil {
			t.Errorf("Decode(%q) returned claims %+v", tok, c)
		}
	}
}

func TestDecodeRole(t *testing.T) {
	encodings := map[string]*base64.Encoding{
		"raw url":  base64.RawURLEncoding,
		"url":      base64.URLEncoding,
		"standard": base64.StdEncoding,
		"raw std":  base64.RawStdEncoding,
	}

	for name, enc := range encodings {
		t.Run(name, func(t *testing.T) {
			c, err := Decode(token(`{"role":"ADMIN"}`, enc))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if c.Role != "ADMIN" {
				t.Errorf("Role = %q, want ADMIN", c.Role)
			}
		})
	}
}

func TestDecodeIgnoresSignature(t *testing.T) {
	// unsigned and nonsense header: still decodes
	tok := "not-a-header." + base64.RawURLEncoding.EncodeToString([]byte(`{"role":"MANAGER","user_id":"u1"}`)) + "."
	c, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.Role != "MANAGER" || c.Identity() != "u1" {
		t.Errorf("claims = %+v", c)
	}
}

func TestDecodeBadPayload(t *testing.T) {
	tests := []string{
		"h.!!!.s",
		token("not json", base64.RawURLEncoding),
		token(`["array"]`, base64.RawURLEncoding),
		token(`null`, base64.RawURLEncoding),
	}

	for _, tok := range tests {
		if _, err := Decode(tok); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Decode(%q) err = %v, want ErrMalformedToken", tok, err)
		}
	}
}

func TestRole(t *testing.T) {
	if got := Role(token(`{"role":"EDITOR"}`, base64.RawURLEncoding)); got != "EDITOR" {
		t.Errorf("Role() = %q", got)
	}
	if got := Role("garbage"); got != "" {
		t.Errorf("Role(garbage) = %q", got)
	}
}

func TestDecodeToleratesOddClaimTypes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"numeric sub", `{"role":"ADMIN","sub":42}`},
		{"string exp", `{"role":"ADMIN","exp":"tomorrow"}`},
		{"object iat", `{"role":"ADMIN","iat":{"when":"now"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(token(tt.payload, base64.RawURLEncoding))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if c.Role != "ADMIN" {
				t.Errorf("Role = %q, want ADMIN", c.Role)
			}
			if c.ExpiresAt != nil || c.IssuedAt != nil || c.Identity() != "" {
				t.Errorf("odd claims kept: %+v", c)
			}
		})
	}
}

func TestDecodeRegisteredClaims(t *testing.T) {
	c, err := Decode(token(`{"role":"EDITOR","sub":"u7","exp":1700000000,"iat":1600000000}`, base64.RawURLEncoding))
	if err != nil {
		t.Fatal(err)
	}
	if c.Identity() != "u7" {
		t.Errorf("Identity() = %q", c.Identity())
	}
	if c.ExpiresAt == nil || c.ExpiresAt.Unix() != 1700000000 {
		t.Errorf("ExpiresAt = %v", c.ExpiresAt)
	}
	if c.IssuedAt == nil || c.IssuedAt.Unix() != 1600000000 {
		t.Errorf("IssuedAt = %v", c.IssuedAt)
	}
}

func TestDecodeNonStringRole(t *testing.T) {
	c, err := Decode(token(`{"role":7}`, base64.RawURLEncoding))
	if err != nil {
		t.Fatal(err)
	}
	if c.Role != "" {
		t.Errorf("Role = %q, want empty", c.Role)
	}
}
