// Package repomanager selects the storage backend and vends its repositories.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tutorhub/internal/server/config"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/posts"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/users"
)

type RepositoryManager interface {
	// RunMigrations prepares the schema: SQL migrations or collection indexes.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Posts() posts.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New connects to the backend named by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StorageBackend {
	case config.BackendMongo:
		return ConnectMongo(ctx, cfg.DatabaseDSN, cfg.DatabaseName)
	case config.BackendPostgres:
		return ConnectPostgres(ctx, cfg.DatabaseDSN)
	case config.BackendMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
