package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	"github.com/ledgerbook/ledgerbook/internal/models"
	"github.com/ledgerbook/ledgerbook/internal/utils/mapping"
)

// uqAccountsActiveName is the partial unique index over accounts(name) WHERE
// is_active. It is what actually guarantees at most one active account per
// name; the service-level existence check is only a fast path.
const uqAccountsActiveName = "uq_accounts_active_name"

type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

const accountColumns = "account_id, name, is_active, created_at"

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.Name, &m.IsActive, &m.CreatedAt)
	return m, err
}

// SaveAccount inserts a new account. A collision on the active-name index is
// reported as apperrors.ErrConflict.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, name, is_active, created_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err := r.Pool.Exec(ctx, query, m.AccountID, m.Name, m.IsActive, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, uqAccountsActiveName) {
			return fmt.Errorf("%w: account name already exists", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID regardless of active flag.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindAccountByName retrieves the account with the given name in any state,
// preferring the active one, then the most recently created.
func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE name = $1
		ORDER BY is_active DESC, created_at DESC
		LIMIT 1;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by name %q: %w", name, err)
	}

	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// FindActiveAccountByName retrieves the single active account holding the
// exact name, if any.
func (r *PgxAccountRepository) FindActiveAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1 AND is_active = TRUE;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active account by name %q: %w", name, err)
	}

	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// ListActiveAccounts returns all active accounts ordered by name ascending.
// The "C" collation gives case-sensitive ordinal ordering independent of the
// database locale.
func (r *PgxAccountRepository) ListActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE is_active = TRUE
		ORDER BY name COLLATE "C" ASC;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active accounts: %w", err)
	}
	defer rows.Close()

	ms := []models.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		ms = append(ms, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccount applies name/is_active changes. A rename or reactivation that
// races with another write into the same active name is rejected by the
// partial unique index and mapped to apperrors.ErrConflict.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, is_active = $3
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.AccountID, m.Name, m.IsActive)
	if err != nil {
		if isUniqueViolation(err, uqAccountsActiveName) {
			return fmt.Errorf("%w: account name already exists", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
