package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry mirrors a row of the ledger_entries table.
type LedgerEntry struct {
	EntryID        string          `db:"entry_id"`
	AccountID      string          `db:"account_id"`
	EntryDate      time.Time       `db:"entry_date"`
	EntryType      string          `db:"entry_type"`
	Amount         decimal.Decimal `db:"amount"`
	Currency       string          `db:"currency"`
	Description    string          `db:"description"` // Stored as NULL when empty
	IdempotencyKey string          `db:"idempotency_key"`
	IsDeleted      bool            `db:"is_deleted"`
	Version        int64           `db:"version"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}
