// Package services contains application services for the TutorHub CLI.
// This file defines the session service: register, login, logout and the
// locally cached session the other commands authenticate with.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/client/client"
	"github.com/dmitrijs2005/tutorhub/internal/client/models"
	"github.com/dmitrijs2005/tutorhub/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/dbx"
	"github.com/golang-jwt/jwt/v5"
)

// ErrNotLoggedIn means there is no usable session: none was saved, or the
// saved token has expired and was discarded.
var ErrNotLoggedIn = errors.New("not logged in")

const (
	keyToken     = "token"
	keyUser      = "user"
	keyExpiresAt = "expires_at"
)

// Session is the signed-in user and their bearer token.
type Session struct {
	Token     string
	User      models.User
	ExpiresAt time.Time
}

func (s *Session) Context(ctx context.Context) context.Context {
	return client.WithToken(ctx, s.Token)
}

type AuthService interface {
	Register(ctx context.Context, in models.RegisterInput, password []byte) (*Session, error)
	Login(ctx context.Context, email string, password []byte) (*Session, error)
	Logout(ctx context.Context) error
	// Current returns the cached session, discarding it once expired.
	Current(ctx context.Context) (*Session, error)
	// WhoAmI fetches the profile from the server and refreshes the cache.
	WhoAmI(ctx context.Context) (*models.User, error)
	UpdatePhone(ctx context.Context, phone string) (*models.User, error)
	UpdatePassword(ctx context.Context, current, next []byte) error
	Ping(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
	now    func() time.Time
}

func NewAuthService(c client.Client, db *sql.DB) AuthService {
	return &authService{client: c, db: db, now: time.Now}
}

func (a *authService) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

// tokenExpiry reads exp without verifying the signature; the client does not
// hold the server's key and only needs to know when to drop the token.
func tokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

func (a *authService) save(ctx context.Context, res *models.AuthResult) (*Session, error) {
	exp, err := tokenExpiry(res.Token)
	if err != nil {
		return nil, err
	}
	user, err := json.Marshal(res.User)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, keyToken, res.Token); err != nil {
			return err
		}
		if err := repo.Set(ctx, keyUser, string(user)); err != nil {
			return err
		}
		return repo.Set(ctx, keyExpiresAt, exp.UTC().Format(time.RFC3339))
	})
	if err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}
	return &Session{Token: res.Token, User: res.User, ExpiresAt: exp}, nil
}

func (a *authService) Register(ctx context.Context, in models.RegisterInput, password []byte) (*Session, error) {
	in.Password = string(password)
	res, err := a.client.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return a.save(ctx, res)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*Session, error) {
	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, err
	}
	return a.save(ctx, res)
}

func (a *authService) Logout(ctx context.Context) error {
	return a.repo().Clear(ctx)
}

func (a *authService) Current(ctx context.Context) (*Session, error) {
	repo := a.repo()

	token, ok, err := repo.Get(ctx, keyToken)
	if err != nil {
		return nil, err
	}
	if !ok || token == "" {
		return nil, ErrNotLoggedIn
	}

	exp, err := tokenExpiry(token)
	if err != nil || !a.now().Before(exp) {
		if err := repo.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNotLoggedIn
	}

	s := &Session{Token: token, ExpiresAt: exp}
	if raw, ok, err := repo.Get(ctx, keyUser); err != nil {
		return nil, err
	} else if ok {
		if err := json.Unmarshal([]byte(raw), &s.User); err != nil {
			return nil, fmt.Errorf("decode cached user: %w", err)
		}
	}
	return s, nil
}

// withSession runs fn with the session token and drops the session when
// the server no longer accepts it.
func withSession(ctx context.Context, auth AuthService, fn func(ctx context.Context) error) error {
	s, err := auth.Current(ctx)
	if err != nil {
		return err
	}
	err = fn(s.Context(ctx))
	if errors.Is(err, client.ErrUnauthorized) {
		if clearErr := auth.Logout(ctx); clearErr != nil {
			return clearErr
		}
		return ErrNotLoggedIn
	}
	return err
}

func (a *authService) cacheUser(ctx context.Context, u *models.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return a.repo().Set(ctx, keyUser, string(raw))
}

func (a *authService) WhoAmI(ctx context.Context) (*models.User, error) {
	var u *models.User
	err := withSession(ctx, a, func(ctx context.Context) error {
		var err error
		u, err = a.client.Me(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, a.cacheUser(ctx, u)
}

func (a *authService) UpdatePhone(ctx context.Context, phone string) (*models.User, error) {
	var u *models.User
	err := withSession(ctx, a, func(ctx context.Context) error {
		var err error
		u, err = a.client.UpdatePhone(ctx, phone)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, a.cacheUser(ctx, u)
}

func (a *authService) UpdatePassword(ctx context.Context, current, next []byte) error {
	defer common.WipeByteArray(current)
	defer common.WipeByteArray(next)
	return withSession(ctx, a, func(ctx context.Context) error {
		return a.client.UpdatePassword(ctx, string(current), string(next))
	})
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
