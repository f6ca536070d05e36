package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/weatherdash/internal/common"
	"github.com/dmitrijs2005/weatherdash/internal/dbx"
	"github.com/dmitrijs2005/weatherdash/internal/logging"
	"github.com/dmitrijs2005/weatherdash/internal/server/models"
	"github.com/dmitrijs2005/weatherdash/internal/server/observability"
	"github.com/dmitrijs2005/weatherdash/internal/server/repositories/repomanager"
)

// FavouriteService is the favourites registry: it owns each account's set of
// favourite location names. Every operation resolves the account first and
// fails with ErrNotFound when it does not exist.
type FavouriteService struct {
	db      *sql.DB
	rm      repomanager.RepositoryManager
	metrics *observability.Metrics
	logger  logging.Logger
}

func NewFavouriteService(db *sql.DB, rm repomanager.RepositoryManager, m *observability.Metrics, logger logging.Logger) *FavouriteService {
	return &FavouriteService{
		db:      db,
		rm:      rm,
		metrics: m,
		logger:  logger.With("module", "favourites"),
	}
}

func (s *FavouriteService) resolveAccount(ctx context.Context, username string) (*models.Account, error) {
	if username == "" {
		return nil, common.ErrInvalidInput
	}

	account, err := s.rm.Accounts(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error resolving account: %w", err)
	}
	return account, nil
}

// Add puts the location into the account's favourite set and returns the
// resulting set. Adding an existing favourite is idempotent: the set comes
// back unchanged with exactly one occurrence of the location.
func (s *FavouriteService) Add(ctx context.Context, username, location string) ([]string, error) {

	if location == "" {
		return nil, common.ErrInvalidInput
	}

	account, err := s.resolveAccount(ctx, username)
	if err != nil {
		return nil, err
	}

	// Insert and snapshot in one transaction so the returned set reflects
	// exactly the mutation applied.
	var locations []string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Favourites(tx)
		if err := repo.Insert(ctx, account.ID, location); err != nil {
			return err
		}
		var listErr error
		locations, listErr = repo.List(ctx, account.ID)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.FavouriteMutations.WithLabelValues("add").Inc()
	s.logger.Info(ctx, "favourite added", "username", username, "location", location)
	return locations, nil
}

// Remove takes the location out of the account's favourite set and returns
// the resulting set. Removing a non-member is a no-op, not an error.
func (s *FavouriteService) Remove(ctx context.Context, username, location string) ([]string, error) {

	if location == "" {
		return nil, common.ErrInvalidInput
	}

	account, err := s.resolveAccount(ctx, username)
	if err != nil {
		return nil, err
	}

	var locations []string
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Favourites(tx)
		if err := repo.Delete(ctx, account.ID, location); err != nil {
			return err
		}
		var listErr error
		locations, listErr = repo.List(ctx, account.ID)
		return listErr
	})
	if err != nil {
		return nil, err
	}

	s.metrics.FavouriteMutations.WithLabelValues("remove").Inc()
	s.logger.Info(ctx, "favourite removed", "username", username, "location", location)
	return locations, nil
}

// Clear empties the account's favourite set.
func (s *FavouriteService) Clear(ctx context.Context, username string) error {

	account, err := s.resolveAccount(ctx, username)
	if err != nil {
		return err
	}

	if err := s.rm.Favourites(s.db).DeleteAll(ctx, account.ID); err != nil {
		return err
	}

	s.metrics.FavouriteMutations.WithLabelValues("clear").Inc()
	s.logger.Info(ctx, "favourites cleared", "username", username)
	return nil
}

// List returns the account's favourite set, possibly empty, in insertion order.
func (s *FavouriteService) List(ctx context.Context, username string) ([]string, error) {

	account, err := s.resolveAccount(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.rm.Favourites(s.db).List(ctx, account.ID)
}

// Count returns the cardinality of the account's favourite set.
func (s *FavouriteService) Count(ctx context.Context, username string) (int, error) {

	account, err := s.resolveAccount(ctx, username)
	if err != nil {
		return 0, err
	}

	return s.rm.Favourites(s.db).Count(ctx, account.ID)
}

// IsFavourite reports whether the location is a current member of the
// account's favourite set.
func (s *FavouriteService) IsFavourite(ctx context.Context, username, location string) (bool, error) {

	account, err := s.resolveAccount(ctx, username)
	if err != nil {
		return false, err
	}

	return s.rm.Favourites(s.db).Exists(ctx, account.ID, location)
}
