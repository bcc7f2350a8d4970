package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	"github.com/ledgerbook/ledgerbook/internal/models"
	"github.com/ledgerbook/ledgerbook/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

// uqLedgerEntriesIdempotencyKey is the unique index over
// ledger_entries(idempotency_key). Under concurrent creates with the same key
// this constraint, not the service pre-check, decides the winner.
const uqLedgerEntriesIdempotencyKey = "uq_ledger_entries_idempotency_key"

type PgxEntryRepository struct {
	BaseRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepository {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepository = (*PgxEntryRepository)(nil)

// entryColumns selects the full joined row: entry fields plus account name.
const entryColumns = `
	e.entry_id, e.account_id, a.name, e.entry_date, e.entry_type, e.amount,
	e.currency, e.description, e.idempotency_key, e.is_deleted, e.version,
	e.created_at, e.updated_at`

func scanEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var m models.LedgerEntry
	var accountName string
	var description sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&accountName,
		&m.EntryDate,
		&m.EntryType,
		&m.Amount,
		&m.Currency,
		&description,
		&m.IdempotencyKey,
		&m.IsDeleted,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return domain.LedgerEntry{}, err
	}

	if description.Valid {
		m.Description = description.String
	}
	return mapping.ToDomainLedgerEntry(m, accountName), nil
}

// nullableText stores empty strings as NULL so that the "empty equals null"
// description rule holds at the storage boundary.
func nullableText(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// SaveEntry inserts a new entry with version 1. An idempotency key collision
// raised by the unique index maps to apperrors.ErrConflict; the service
// re-reads the winning row to decide between replay and rejection.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)

	query := `
		INSERT INTO ledger_entries (
			entry_id, account_id, entry_date, entry_type, amount, currency,
			description, idempotency_key, is_deleted, version, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EntryID,
		m.AccountID,
		m.EntryDate,
		m.EntryType,
		m.Amount,
		m.Currency,
		nullableText(m.Description),
		m.IdempotencyKey,
		m.IsDeleted,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, uqLedgerEntriesIdempotencyKey) {
			return fmt.Errorf("%w: idempotency key already used", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to save ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

// FindEntryByID retrieves a non-deleted entry with its account name resolved.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE e.entry_id = $1 AND e.is_deleted = FALSE;
	`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry by ID %s: %w", entryID, err)
	}
	return &entry, nil
}

// FindEntryByIdempotencyKey retrieves the entry holding the key, deleted or not.
func (r *PgxEntryRepository) FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE e.idempotency_key = $1;
	`
	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, key))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find ledger entry by idempotency key: %w", err)
	}
	return &entry, nil
}

// ListEntries returns the requested page plus the total count of the full
// filtered set. The count runs before limit/offset so pagination metadata
// always reflects the whole result, and both queries share the same rendered
// filter predicates.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) ([]domain.LedgerEntry, int64, error) {
	conds := []string{"e.is_deleted = FALSE"}
	args := []any{}
	conds, args = appendEntryFilter(filter, conds, args)
	where := strings.Join(conds, " AND ")

	countQuery := `
		SELECT COUNT(*)
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE ` + where + `;`

	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	pageArgs := append(args, limit, offset)
	pageQuery := fmt.Sprintf(`
		SELECT `+entryColumns+`
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		WHERE `+where+`
		ORDER BY e.entry_date DESC, e.created_at DESC, e.entry_id
		LIMIT $%d OFFSET $%d;`, len(args)+1, len(args)+2)

	rows, err := r.Pool.Query(ctx, pageQuery, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.LedgerEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	return entries, total, nil
}

// UpdateEntry persists new amount/description via compare-and-swap on the
// version column. The update only lands when the row is still live and its
// version matches what the caller read; anything else is resolved to
// ErrNotFound (gone or deleted) or ErrConflict (version moved).
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entryID string, amount decimal.Decimal, description string, expectedVersion int64, now time.Time) error {
	query := `
		UPDATE ledger_entries
		SET amount = $2, description = $3, updated_at = $4, version = version + 1
		WHERE entry_id = $1 AND is_deleted = FALSE AND version = $5;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, amount, nullableText(description), now, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update ledger entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.resolveMutationMiss(ctx, entryID)
	}
	return nil
}

// SoftDeleteEntry marks an active entry deleted under the same CAS discipline.
func (r *PgxEntryRepository) SoftDeleteEntry(ctx context.Context, entryID string, expectedVersion int64, now time.Time) error {
	query := `
		UPDATE ledger_entries
		SET is_deleted = TRUE, updated_at = $2, version = version + 1
		WHERE entry_id = $1 AND is_deleted = FALSE AND version = $3;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, entryID, now, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to soft delete ledger entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return r.resolveMutationMiss(ctx, entryID)
	}
	return nil
}

// resolveMutationMiss distinguishes why a CAS write touched zero rows: the
// entry never existed or was soft-deleted (ErrNotFound), or a concurrent
// mutation bumped the version between the caller's read and this write
// (ErrConflict).
func (r *PgxEntryRepository) resolveMutationMiss(ctx context.Context, entryID string) error {
	var isDeleted bool
	err := r.Pool.QueryRow(ctx, `SELECT is_deleted FROM ledger_entries WHERE entry_id = $1;`, entryID).Scan(&isDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check ledger entry %s after mutation miss: %w", entryID, err)
	}
	if isDeleted {
		return apperrors.ErrNotFound
	}
	return fmt.Errorf("%w: ledger entry %s was modified concurrently", apperrors.ErrConflict, entryID)
}
