package dto

import (
	"time"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryRequest defines the data needed to record a new ledger entry.
// Amount bounds and idempotency key length are enforced in the service layer
// (the key is trimmed before its length is checked).
type CreateEntryRequest struct {
	AccountName    string          `json:"accountName" binding:"required"`
	EntryType      string          `json:"entryType" binding:"required,oneof=debit credit"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Currency       string          `json:"currency"` // Defaults to USD
	Date           *time.Time      `json:"date"`     // Defaults to now (UTC)
	Description    *string         `json:"description"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"required"`
}

// UpdateEntryRequest defines the mutable fields of a ledger entry. All other
// fields are immutable after creation.
type UpdateEntryRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
}

// EntryResponse defines the data returned for a ledger entry, enriched with
// the converted display amount.
type EntryResponse struct {
	EntryID        string          `json:"entryID"`
	AccountID      string          `json:"accountID"`
	AccountName    string          `json:"accountName"`
	Date           time.Time       `json:"date"`
	EntryType      string          `json:"entryType"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Description    string          `json:"description"`
	IsDeleted      bool            `json:"isDeleted"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	CanadianAmount decimal.Decimal `json:"canadianAmount"`
}

// EntryDeletedResponse confirms a soft delete.
type EntryDeletedResponse struct {
	EntryID   string `json:"entryID"`
	IsDeleted bool   `json:"isDeleted"`
	Version   int64  `json:"version"`
}

// ListEntriesParams defines the query parameters accepted when listing entries.
// Dates arrive as strings so that parse failures can be reported as validation
// errors rather than binding failures with opaque messages.
type ListEntriesParams struct {
	AccountName string `form:"account_name"`
	Currency    string `form:"currency"`
	EntryType   string `form:"entry_type" binding:"omitempty,oneof=debit credit"`
	StartDate   string `form:"start_date"`
	EndDate     string `form:"end_date"`
	Limit       int    `form:"limit,default=100" binding:"omitempty,min=1,max=1000"`
	Offset      int    `form:"offset,default=0" binding:"omitempty,min=0"`
}

// ListEntriesResponse wraps one page of entries. Total counts the full
// filtered set, not the page.
type ListEntriesResponse struct {
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	Entries []EntryResponse `json:"entries"`
}

// ToEntryResponse converts a domain entry plus its converted amount to the
// response DTO.
func ToEntryResponse(entry *domain.LedgerEntry, cadAmount decimal.Decimal) EntryResponse {
	return EntryResponse{
		EntryID:        entry.EntryID,
		AccountID:      entry.AccountID,
		AccountName:    entry.AccountName,
		Date:           entry.EntryDate,
		EntryType:      string(entry.EntryType),
		Amount:         entry.Amount,
		Currency:       entry.Currency,
		Description:    entry.Description,
		IsDeleted:      entry.IsDeleted,
		Version:        entry.Version,
		CreatedAt:      entry.CreatedAt,
		UpdatedAt:      entry.UpdatedAt,
		CanadianAmount: cadAmount,
	}
}

// ToEntryDeletedResponse builds the soft delete confirmation.
func ToEntryDeletedResponse(entryID string, version int64) EntryDeletedResponse {
	return EntryDeletedResponse{
		EntryID:   entryID,
		IsDeleted: true,
		Version:   version,
	}
}
