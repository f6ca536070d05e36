package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/weatherdash/internal/dbx"
	"github.com/dmitrijs2005/weatherdash/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/weatherdash/internal/server/repositories/favourites"
)

// RepositoryManager constructs repositories over a plain connection or a
// transaction handle, so services can run related statements atomically.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Favourites(db dbx.DBTX) favourites.Repository
}
