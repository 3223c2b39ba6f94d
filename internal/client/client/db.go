package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tutorhub/internal/client/migrations"

	_ "modernc.org/sqlite"
)

// InitDatabase opens the SQLite session file at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; also keeps ":memory:" databases on a single connection
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
