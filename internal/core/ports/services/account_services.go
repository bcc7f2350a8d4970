package services

import (
	"context"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/ledgerbook/ledgerbook/internal/dto"
)

// AccountService exposes account lifecycle operations.
type AccountService interface {
	// CreateOrReactivateAccount creates a new account, or reactivates an
	// inactive one carrying the same name (preserving its ID). An active
	// account already holding the name is apperrors.ErrConflict.
	CreateOrReactivateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// UpdateAccount applies a partial update to name and/or active flag.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)

	// ListActiveAccounts returns all active accounts ordered by name.
	ListActiveAccounts(ctx context.Context) ([]domain.Account, error)
}
