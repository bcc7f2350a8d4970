package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/ledgerbook/ledgerbook/internal/core/ports/services"
	"github.com/ledgerbook/ledgerbook/internal/dto"
	"github.com/ledgerbook/ledgerbook/internal/middleware"
)

// AccountService implements account creation with reactivation semantics,
// partial updates and active listing.
type AccountService struct {
	accountRepo portsrepo.AccountRepository
}

func NewAccountService(repo portsrepo.AccountRepository) *AccountService {
	return &AccountService{accountRepo: repo}
}

var _ portssvc.AccountService = (*AccountService)(nil)

// CreateOrReactivateAccount creates a new account under the given name, or
// flips an inactive account with that name back to active, preserving its ID.
// An already-active holder of the name is a conflict. The partial unique
// index on active names backstops the pre-check under concurrency.
func (s *AccountService) CreateOrReactivateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name must not be blank", apperrors.ErrValidation)
	}

	existing, err := s.accountRepo.FindAccountByName(ctx, name)
	if err == nil {
		if existing.IsActive {
			return nil, fmt.Errorf("%w: account name already exists", apperrors.ErrConflict)
		}

		existing.IsActive = true
		if err := s.accountRepo.UpdateAccount(ctx, *existing); err != nil {
			if !errors.Is(err, apperrors.ErrConflict) {
				logger.Error("Failed to reactivate account", slog.String("error", err.Error()), slog.String("account_id", existing.AccountID))
			}
			return nil, err
		}

		logger.Info("Account reactivated", slog.String("account_id", existing.AccountID), slog.String("name", name))
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      name,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("name", name))
	return &account, nil
}

// UpdateAccount applies the supplied name and/or active flag to an existing
// account. A rename into a name held by another active account is a conflict,
// whether caught by the pre-check or by the unique index during the write.
func (s *AccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account for update", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	if req.Name != nil {
		newName := strings.TrimSpace(*req.Name)
		if newName == "" {
			return nil, fmt.Errorf("%w: account name must not be blank", apperrors.ErrValidation)
		}
		if newName != account.Name {
			_, err := s.accountRepo.FindActiveAccountByName(ctx, newName)
			if err == nil {
				return nil, fmt.Errorf("%w: account name already exists", apperrors.ErrConflict)
			}
			if !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			account.Name = newName
		}
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// ListActiveAccounts returns all active accounts ordered by name ascending.
func (s *AccountService) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListActiveAccounts(ctx)
	if err != nil {
		logger.Error("Failed to list active accounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}
