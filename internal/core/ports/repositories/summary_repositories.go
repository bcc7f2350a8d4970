package repositories

import (
	"context"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryTypeTotal is one aggregation group: the count and amount sum of all
// non-deleted entries of a single type matching a filter.
type EntryTypeTotal struct {
	EntryType domain.EntryType
	Count     int64
	Total     decimal.Decimal
}

// SummaryRepository defines the aggregation query backing the ledger summary.
type SummaryRepository interface {
	// AggregateEntries groups non-deleted entries matching the filter by entry
	// type. Groups with no rows are simply absent from the result.
	AggregateEntries(ctx context.Context, filter domain.EntryFilter) ([]EntryTypeTotal, error)
}
