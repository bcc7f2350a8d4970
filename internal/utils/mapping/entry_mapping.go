package mapping

import (
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/ledgerbook/ledgerbook/internal/models"
)

// ToModelLedgerEntry converts a domain.LedgerEntry to its DB representation.
// AccountName is resolved via join on read and is not part of the row.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		AccountID:      d.AccountID,
		EntryDate:      d.EntryDate,
		EntryType:      string(d.EntryType),
		Amount:         d.Amount,
		Currency:       d.Currency,
		Description:    d.Description,
		IdempotencyKey: d.IdempotencyKey,
		IsDeleted:      d.IsDeleted,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// ToDomainLedgerEntry converts a DB row back to the domain representation.
// accountName comes from the join against accounts.
func ToDomainLedgerEntry(m models.LedgerEntry, accountName string) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		AccountID:      m.AccountID,
		AccountName:    accountName,
		EntryDate:      m.EntryDate,
		EntryType:      domain.EntryType(m.EntryType),
		Amount:         m.Amount,
		Currency:       m.Currency,
		Description:    m.Description,
		IdempotencyKey: m.IdempotencyKey,
		IsDeleted:      m.IsDeleted,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
