// Package users is the credential store: user records keyed by id with a
// unique, lowercased email. Postgres, MongoDB and in-memory implementations
// share the Repository contract.
package users

import (
	"context"

	"github.com/dmitrijs2005/tutorhub/internal/server/models"
)

type Repository interface {
	// Create inserts user, filling ID and timestamps. A taken email yields
	// common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDs returns the users that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	UpdatePhone(ctx context.Context, id, phone string) (*models.User, error)
	// ReplacePasswordHash swaps the hash only while the stored one still
	// equals oldHash; otherwise it returns common.ErrVersionConflict.
	ReplacePasswordHash(ctx context.Context, id, oldHash, newHash string) error
}
