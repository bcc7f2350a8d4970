package repositories

import (
	"context"
	"time"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryReader defines read operations for ledger entries.
type EntryReader interface {
	// FindEntryByID retrieves a non-deleted entry by ID with its account name
	// resolved. Unknown and soft-deleted IDs both yield apperrors.ErrNotFound.
	FindEntryByID(ctx context.Context, entryID string) (*domain.LedgerEntry, error)

	// FindEntryByIdempotencyKey retrieves the entry holding the given key,
	// deleted or not. Returns apperrors.ErrNotFound when the key is unused.
	FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)

	// ListEntries returns the page of non-deleted entries matching the filter,
	// ordered by entry date descending, plus the total count of the full
	// filtered set computed before limit/offset are applied.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) ([]domain.LedgerEntry, int64, error)
}

// EntryWriter defines write operations for ledger entries. Update and delete
// are compare-and-swap on the version column; a CAS miss on a live row is
// apperrors.ErrConflict, a missing or already-deleted row apperrors.ErrNotFound.
type EntryWriter interface {
	// SaveEntry inserts a new entry. An idempotency key collision raised by
	// the unique index is reported as apperrors.ErrConflict so the caller can
	// re-read the winning row.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) error

	// UpdateEntry persists new amount/description for an active entry,
	// bumping version from expectedVersion to expectedVersion+1.
	UpdateEntry(ctx context.Context, entryID string, amount decimal.Decimal, description string, expectedVersion int64, now time.Time) error

	// SoftDeleteEntry marks an active entry deleted, bumping the version.
	SoftDeleteEntry(ctx context.Context, entryID string, expectedVersion int64, now time.Time) error
}

// EntryRepository combines entry read and write operations.
type EntryRepository interface {
	EntryReader
	EntryWriter
}
