package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	u, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "alice@x.io", PasswordHash: "h1", Role: models.RoleStudent})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)

	_, err = repo.Create(ctx, &models.User{Name: "Other", Email: "ALICE@x.io"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	got, err := repo.GetByEmail(ctx, "Alice@X.io")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByEmail(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	updated, err := repo.UpdatePhone(ctx, u.ID, "01712345678")
	require.NoError(t, err)
	assert.Equal(t, "01712345678", updated.Phone)

	_, err = repo.UpdatePhone(ctx, "missing", "01712345678")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, repo.ReplacePasswordHash(ctx, u.ID, "h1", "h2"))
	assert.ErrorIs(t, repo.ReplacePasswordHash(ctx, u.ID, "h1", "h3"), common.ErrVersionConflict)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", byID.PasswordHash)
}

func TestMemoryRepository_GetByIDs_SkipsMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	a, err := repo.Create(ctx, &models.User{Email: "a@x.io"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, &models.User{Email: "b@x.io"})
	require.NoError(t, err)

	got, err := repo.GetByIDs(ctx, []string{a.ID, "missing", b.ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	u, err := repo.Create(ctx, &models.User{Email: "a@x.io", Name: "A"})
	require.NoError(t, err)
	u.Name = "mutated"

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}
