package repomanager

import (
	"context"
	"database/sql"

	"cvkeeper/internal/dbx"
	"cvkeeper/internal/server/repositories/backups"
	"cvkeeper/internal/server/repositories/documents"
	"cvkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
	Backups(db dbx.DBTX) backups.Repository
}
