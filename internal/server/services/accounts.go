// Package services contains the server-side business logic: the credential
// store, the favourites registry, and the dashboard orchestrator that binds
// favourites to weather lookups.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/weatherdash/internal/common"
	"github.com/dmitrijs2005/weatherdash/internal/cryptox"
	"github.com/dmitrijs2005/weatherdash/internal/logging"
	"github.com/dmitrijs2005/weatherdash/internal/server/models"
	"github.com/dmitrijs2005/weatherdash/internal/server/repositories/repomanager"
)

// AccountService is the credential store: it owns salted-hash generation and
// verification and account lifecycle.
type AccountService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	logger logging.Logger
}

func NewAccountService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *AccountService {
	return &AccountService{
		db:     db,
		rm:     rm,
		logger: logger.With("module", "accounts"),
	}
}

// Create registers a new account with a fresh random salt and the argon2id
// hash of (salt, password). Returns ErrDuplicateAccount when the username is
// taken and ErrInvalidInput when either field is empty.
func (s *AccountService) Create(ctx context.Context, username, password string) (*models.Account, error) {

	if username == "" || password == "" {
		return nil, common.ErrInvalidInput
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("error generating salt: %w", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Salt:         salt,
		PasswordHash: cryptox.HashPassword(password, salt),
	}

	repo := s.rm.Accounts(s.db)
	if err := repo.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrDuplicateAccount) {
			s.logger.Warn(ctx, "registration attempt with taken username", "username", username)
			return nil, err
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account created", "username", username)
	return account, nil
}

// VerifyLogin checks the password against the stored salt and hash. Absent
// accounts yield ErrNotFound; a mismatch yields ErrInvalidCredentials. The
// hash comparison is constant-time.
func (s *AccountService) VerifyLogin(ctx context.Context, username, password string) error {

	if username == "" || password == "" {
		return common.ErrInvalidInput
	}

	repo := s.rm.Accounts(s.db)
	account, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("error looking up account: %w", err)
	}

	if !cryptox.VerifyPassword(account.PasswordHash, account.Salt, password) {
		s.logger.Warn(ctx, "incorrect password", "username", username)
		return common.ErrInvalidCredentials
	}

	return nil
}

// UpdatePassword replaces the account's salt and hash with a freshly salted
// hash of the new password. The old salt is never reused; the pair is
// written in one atomic statement.
func (s *AccountService) UpdatePassword(ctx context.Context, username, newPassword string) error {

	if username == "" || newPassword == "" {
		return common.ErrInvalidInput
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return fmt.Errorf("error generating salt: %w", err)
	}

	repo := s.rm.Accounts(s.db)
	if err := repo.UpdateCredentials(ctx, username, salt, cryptox.HashPassword(newPassword, salt)); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return err
		}
		return fmt.Errorf("error updating password: %w", err)
	}

	s.logger.Info(ctx, "password updated", "username", username)
	return nil
}

// ClearAll removes every account and, via the schema's cascade, every
// favourite set. Idempotent; only storage failures surface.
func (s *AccountService) ClearAll(ctx context.Context) error {

	repo := s.rm.Accounts(s.db)
	if err := repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	s.logger.Info(ctx, "all accounts cleared")
	return nil
}
