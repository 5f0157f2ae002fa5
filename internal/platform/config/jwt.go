package config

import (
	"fmt"
	"os"
	"time"
)

// JWTConfig configures HS256 JWT verification with a shared secret.
type JWTConfig struct {
	Secret []byte

	ClockSkew time.Duration
	// Lifetime is the validity window of tokens minted by the dev issuer.
	Lifetime time.Duration
}

func LoadJWTConfigFromEnv() (JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return JWTConfig{}, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg := JWTConfig{
		Secret:    []byte(secret),
		ClockSkew: 0,
		Lifetime:  30 * 24 * time.Hour,
	}

	if v := os.Getenv("JWT_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return JWTConfig{}, fmt.Errorf("JWT_CLOCK_SKEW must be a duration (e.g. 30s): %w", err)
		}
		if d < 0 {
			return JWTConfig{}, fmt.Errorf("JWT_CLOCK_SKEW must not be negative")
		}
		cfg.ClockSkew = d
	}
	if v := os.Getenv("JWT_LIFETIME"); v != "" {
		d, err := parseLifetime(v)
		if err != nil {
			return JWTConfig{}, fmt.Errorf("JWT_LIFETIME must be a duration (e.g. 24h or 30d): %w", err)
		}
		if d <= 0 {
			return JWTConfig{}, fmt.Errorf("JWT_LIFETIME must be positive")
		}
		cfg.Lifetime = d
	}

	return cfg, nil
}

// parseLifetime extends time.ParseDuration with a whole-day "Nd" form.
func parseLifetime(s string) (time.Duration, error) {
	var days int
	if n, err := fmt.Sscanf(s, "%dd", &days); err == nil && n == 1 && fmt.Sprintf("%dd", days) == s {
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}
