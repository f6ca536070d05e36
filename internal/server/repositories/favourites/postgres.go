package favourites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/weatherdash/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Insert adds the location to the account's set. Re-adding an existing
// favourite is a no-op thanks to ON CONFLICT, which keeps add idempotent
// without a prior membership read.
func (r *PostgresRepository) Insert(ctx context.Context, accountID, location string) error {

	query :=
		`INSERT INTO favourites (account_id, location)
		 VALUES ($1, $2)
		 ON CONFLICT (account_id, location) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, accountID, location); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// Delete removes the location from the account's set. Removing a non-member
// deletes zero rows and is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, accountID, location string) error {

	query :=
		`DELETE FROM favourites
		 WHERE account_id = $1 AND location = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, accountID, location); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context, accountID string) error {

	query :=
		`DELETE FROM favourites
		 WHERE account_id = $1
		 `

	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// List returns the account's favourites in insertion order.
func (r *PostgresRepository) List(ctx context.Context, accountID string) ([]string, error) {

	query :=
		`SELECT location FROM favourites
		 WHERE account_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	locations := make([]string, 0)
	for rows.Next() {
		var location string
		if err := rows.Scan(&location); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return locations, nil
}

func (r *PostgresRepository) Count(ctx context.Context, accountID string) (int, error) {

	query :=
		`SELECT count(*) FROM favourites
		 WHERE account_id = $1
		 `

	var count int
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) Exists(ctx context.Context, accountID, location string) (bool, error) {

	query :=
		`SELECT EXISTS (
		     SELECT 1 FROM favourites
		     WHERE account_id = $1 AND location = $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountID, location).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
