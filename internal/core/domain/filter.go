package domain

import (
	"strings"
	"time"
)

// EntryFilter narrows entry listing and summary aggregation. Zero-value fields
// are ignored. Soft-deleted entries are always excluded regardless of filter.
type EntryFilter struct {
	AccountName string     // Case-insensitive exact match
	Currency    string     // Normalized to upper case
	EntryType   *EntryType // nil means both debit and credit
	StartDate   *time.Time // Inclusive
	EndDate     *time.Time // Inclusive
}

// Normalize applies the canonical casing rules to the filter fields.
func (f EntryFilter) Normalize() EntryFilter {
	f.AccountName = strings.TrimSpace(f.AccountName)
	f.Currency = strings.ToUpper(strings.TrimSpace(f.Currency))
	return f
}
