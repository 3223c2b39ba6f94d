package auth

import (
	"context"

	"github.com/dmitrijs2005/tutorhub/internal/server/models"
)

// Session is the authenticated caller of a request.
type Session struct {
	UserID string
	Role   models.Role
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the Session stored by WithSession.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
