package favourites

import "context"

// Repository persists per-account favourite location sets. Membership is
// structurally unique (one row per account/location pair); Insert and Delete
// are single atomic statements, so no read-modify-write is needed and
// concurrent mutations on the same account cannot lose updates.
type Repository interface {
	Insert(ctx context.Context, accountID, location string) error
	Delete(ctx context.Context, accountID, location string) error
	DeleteAll(ctx context.Context, accountID string) error
	List(ctx context.Context, accountID string) ([]string, error)
	Count(ctx context.Context, accountID string) (int, error)
	Exists(ctx context.Context, accountID, location string) (bool, error)
}
