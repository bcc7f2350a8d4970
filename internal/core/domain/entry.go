package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType indicates whether a ledger entry is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "debit"
	Credit EntryType = "credit"
)

// ParseEntryType converts a raw string into the canonical EntryType.
// All internal code operates on EntryType exclusively; conversion from raw
// strings happens once, at the boundary.
func ParseEntryType(raw string) (EntryType, error) {
	switch EntryType(strings.ToLower(strings.TrimSpace(raw))) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	default:
		return "", fmt.Errorf("invalid entry type %q", raw)
	}
}

// LedgerEntry is a single debit or credit recorded against an account.
//
// Lifecycle: Active (IsDeleted=false) -> Deleted (IsDeleted=true, terminal).
// Version starts at 1 and increments by exactly one on every mutation,
// including the soft delete. Only Amount and Description are mutable; account,
// type, currency and date are fixed at creation.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"`     // Primary Key (UUID)
	AccountID      string          `json:"accountID"`   // FK -> accounts.account_id
	AccountName    string          `json:"accountName"` // Resolved on read, not stored
	EntryDate      time.Time       `json:"date"`
	EntryType      EntryType       `json:"entryType"`
	Amount         decimal.Decimal `json:"amount"` // Non-negative, 2 decimal places
	Currency       string          `json:"currency"`
	Description    string          `json:"description"` // Empty string and NULL are equivalent
	IdempotencyKey string          `json:"idempotencyKey"`
	IsDeleted      bool            `json:"isDeleted"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
