package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/ledgerbook/ledgerbook/internal/core/ports/services"
	"github.com/ledgerbook/ledgerbook/internal/middleware"
)

// SummaryService computes the grouped debit/credit totals over non-deleted
// entries.
type SummaryService struct {
	summaryRepo portsrepo.SummaryRepository
	accountRepo portsrepo.AccountReader
}

func NewSummaryService(summaryRepo portsrepo.SummaryRepository, accountRepo portsrepo.AccountReader) *SummaryService {
	return &SummaryService{summaryRepo: summaryRepo, accountRepo: accountRepo}
}

var _ portssvc.SummaryService = (*SummaryService)(nil)

// GetSummary aggregates entries matching the filter. Unlike the entry
// endpoints, a filter naming an account with no active match short-circuits
// to the zero summary instead of failing: zero debits equal zero credits, so
// the result is balanced. Groups with no rows keep count 0 and total 0.00.
func (s *SummaryService) GetSummary(ctx context.Context, filter domain.EntryFilter) (domain.LedgerSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	filter = filter.Normalize()

	if filter.AccountName != "" {
		_, err := s.accountRepo.FindActiveAccountByName(ctx, filter.AccountName)
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.ZeroLedgerSummary(), nil
		}
		if err != nil {
			return domain.LedgerSummary{}, err
		}
	}

	totals, err := s.summaryRepo.AggregateEntries(ctx, filter)
	if err != nil {
		logger.Error("Failed to aggregate ledger entries", slog.String("error", err.Error()))
		return domain.LedgerSummary{}, err
	}

	summary := domain.ZeroLedgerSummary()
	for _, row := range totals {
		switch row.EntryType {
		case domain.Debit:
			summary.NumDebits = row.Count
			summary.TotalDebitAmount = row.Total
		case domain.Credit:
			summary.NumCredits = row.Count
			summary.TotalCreditAmount = row.Total
		}
	}
	summary.IsBalanced = summary.TotalDebitAmount.Equal(summary.TotalCreditAmount)

	return summary, nil
}
