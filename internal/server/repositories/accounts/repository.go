package accounts

import (
	"context"

	"github.com/dmitrijs2005/weatherdash/internal/server/models"
)

// Repository persists accounts. Implementations must enforce username
// uniqueness and keep (salt, password_hash) updates atomic.
type Repository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	UpdateCredentials(ctx context.Context, username string, salt, passwordHash []byte) error
	DeleteAll(ctx context.Context) error
}
