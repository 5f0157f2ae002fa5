package jwtissuer

import (
	"testing"
	"time"

	"github.com/go-jose/go-jose/v3/jwt"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

func TestIssuer_MintCarriesClaims(t *testing.T) {
	t.Parallel()

	secret := []byte("s3cret")
	iss, err := New(secret, time.Hour)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	now := time.Unix(1700000000, 0)
	tok, err := iss.Mint(domain.Identity{UserID: "user-1", Name: "Ada"}, now)
	if err != nil {
		t.Fatalf("Mint() err=%v", err)
	}

	parsed, err := jwt.ParseSigned(tok)
	if err != nil {
		t.Fatalf("ParseSigned() err=%v", err)
	}
	if typ := parsed.Headers[0].ExtraHeaders["typ"]; typ != "JWT" {
		t.Fatalf("typ=%v, want JWT", typ)
	}
	var (
		std    jwt.Claims
		custom identityClaims
	)
	if err := parsed.Claims(secret, &std, &custom); err != nil {
		t.Fatalf("Claims() err=%v", err)
	}
	if custom.UserID != "user-1" || custom.Name != "Ada" {
		t.Fatalf("unexpected claims: %+v", custom)
	}
	if !std.Expiry.Time().Equal(now.Add(time.Hour)) {
		t.Fatalf("exp=%v, want %v", std.Expiry.Time(), now.Add(time.Hour))
	}
}

func TestNew_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}
