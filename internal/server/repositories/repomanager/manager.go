package repomanager

import (
	"context"
	"database/sql"

	"homecloud/internal/dbx"
	"homecloud/internal/server/repositories/shares"
	"homecloud/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations for one database
// flavor and exposes the schema migration hook.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Shares(db dbx.DBTX) shares.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
