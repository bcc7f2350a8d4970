package services

import (
	"context"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
)

// SummaryService computes aggregate debit/credit totals over non-deleted
// entries. A filter naming an unknown account yields the zero summary rather
// than an error.
type SummaryService interface {
	GetSummary(ctx context.Context, filter domain.EntryFilter) (domain.LedgerSummary, error)
}
