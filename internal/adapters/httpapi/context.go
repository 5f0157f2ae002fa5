package httpapi

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
)

type identityKey struct{}

// WithIdentity attaches a verified identity to ctx. Only the auth middleware calls it.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	v, ok := ctx.Value(identityKey{}).(domain.Identity)
	return v, ok && v.UserID != ""
}

type loggerKey struct{}

func withLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFromContext(ctx context.Context) logrus.FieldLogger {
	if l, ok := ctx.Value(loggerKey{}).(logrus.FieldLogger); ok && l != nil {
		return l
	}
	return logrus.StandardLogger()
}
