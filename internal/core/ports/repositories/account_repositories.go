package repositories

import (
	"context"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName retrieves the account with the given name regardless of
	// its active flag. When several inactive accounts share the name, the most
	// recently created one is returned.
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// FindActiveAccountByName retrieves the single active account holding the
	// exact name, if any.
	FindActiveAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// ListActiveAccounts returns all active accounts ordered by name ascending.
	ListActiveAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. A violation of the active-name
	// uniqueness constraint is reported as apperrors.ErrConflict.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount applies name/is_active changes to an existing account.
	// Constraint violations from concurrent renames map to apperrors.ErrConflict.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepository combines account read and write operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
