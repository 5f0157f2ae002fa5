package jwtverifier

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v3"
	"github.com/go-jose/go-jose/v3/jwt"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	"github.com/Overland-East-Bay/job-tracker-api/internal/platform/config"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Verifier checks HS256 bearer tokens signed with the shared secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	cfg   config.JWTConfig
	clock Clock
}

func New(cfg config.JWTConfig) *Verifier {
	return NewWithOptions(cfg, nil)
}

func NewWithOptions(cfg config.JWTConfig, clock Clock) *Verifier {
	if clock == nil {
		clock = realClock{}
	}
	return &Verifier{cfg: cfg, clock: clock}
}

// identityClaims are the private claims carried next to the registered ones.
type identityClaims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Verify verifies a JWT and returns the identity from its `userId` and `name` claims.
//
// Verification:
// - HS256 signature using the configured secret
// - exp (required) and nbf (when present), within the configured clock skew
// - iat is not checked
func (v *Verifier) Verify(ctx context.Context, token string) (domain.Identity, error) {
	_ = ctx
	if len(v.cfg.Secret) == 0 || strings.TrimSpace(token) == "" {
		return domain.Identity{}, ErrUnauthorized
	}

	tok, err := jwt.ParseSigned(token)
	if err != nil {
		return domain.Identity{}, ErrUnauthorized
	}
	if len(tok.Headers) != 1 || tok.Headers[0].Algorithm != string(jose.HS256) {
		return domain.Identity{}, ErrUnauthorized
	}

	var (
		std    jwt.Claims
		custom identityClaims
	)
	if err := tok.Claims(v.cfg.Secret, &std, &custom); err != nil {
		return domain.Identity{}, ErrUnauthorized
	}
	if std.Expiry == nil {
		return domain.Identity{}, ErrUnauthorized
	}
	// iat is informational; a token minted by a host whose clock runs ahead is still valid.
	std.IssuedAt = nil
	if err := std.ValidateWithLeeway(jwt.Expected{Time: v.clock.Now()}, v.cfg.ClockSkew); err != nil {
		return domain.Identity{}, ErrUnauthorized
	}
	if custom.UserID == "" {
		return domain.Identity{}, ErrUnauthorized
	}
	return domain.Identity{
		UserID: domain.UserID(custom.UserID),
		Name:   custom.Name,
	}, nil
}
