package jwtissuer

import (
	"errors"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

// Issuer mints HS256 tokens in the format jwtverifier accepts.
// It is used by the dev token endpoint and by tests.
type Issuer struct {
	signer   jose.Signer
	lifetime time.Duration
}

func New(secret []byte, lifetime time.Duration) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtissuer: empty secret")
	}
	sig, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return nil, err
	}
	return &Issuer{signer: sig, lifetime: lifetime}, nil
}

type identityClaims struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
}

// Mint signs a token for id, valid from now for the issuer's lifetime.
func (i *Issuer) Mint(id domain.Identity, now time.Time) (string, error) {
	return i.MintWithExpiry(id, now, now.Add(i.lifetime))
}

// MintWithExpiry signs a token with an explicit expiry.
func (i *Issuer) MintWithExpiry(id domain.Identity, issuedAt, expiresAt time.Time) (string, error) {
	std := jwt.Claims{
		IssuedAt: jwt.NewNumericDate(issuedAt),
		Expiry:   jwt.NewNumericDate(expiresAt),
	}
	return jwt.Signed(i.signer).
		Claims(std).
		Claims(identityClaims{UserID: string(id.UserID), Name: id.Name}).
		CompactSerialize()
}
