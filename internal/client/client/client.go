package client

import (
	"context"

	"github.com/dmitrijs2005/tutorhub/internal/client/models"
)

// Client is the API surface used by the CLI. Calls that need a caller take
// the bearer token from the context (see WithToken).
type Client interface {
	Ping(ctx context.Context) error

	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
	UpdatePhone(ctx context.Context, phone string) (*models.User, error)
	UpdatePassword(ctx context.Context, current, next string) error

	ListPosts(ctx context.Context, f models.PostFilter) ([]models.Post, error)
	MyPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, in models.PostInput) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ExpressInterest(ctx context.Context, id string) (*models.Post, error)
	InterestedTutors(ctx context.Context, id string) ([]models.User, error)
	SelectTutor(ctx context.Context, id, tutorID string) (*models.Post, error)
}

type tokenKey struct{}

// WithToken returns ctx carrying the bearer token for authenticated calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token set by WithToken, or "".
func TokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}
