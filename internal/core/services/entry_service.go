package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/ledgerbook/ledgerbook/internal/core/ports/gateways"
	portsrepo "github.com/ledgerbook/ledgerbook/internal/core/ports/repositories"
	portssvc "github.com/ledgerbook/ledgerbook/internal/core/ports/services"
	"github.com/ledgerbook/ledgerbook/internal/dto"
	"github.com/ledgerbook/ledgerbook/internal/events"
	"github.com/ledgerbook/ledgerbook/internal/middleware"
	"github.com/shopspring/decimal"
)

// supportedCurrency is the only currency entries can currently be recorded in.
const supportedCurrency = "USD"

const (
	idempotencyKeyMinLen = 8
	idempotencyKeyMaxLen = 64
)

// EntryService implements the ledger entry lifecycle. All cross-record
// invariants (idempotency key uniqueness, version increments) are enforced by
// the storage layer; this service's pre-checks are fast paths only.
//
// Enrichment policy: a gateway failure propagates as apperrors.ErrGateway on
// every read and write path, even when the storage write already committed.
// The committed row stays durable; only the response is withheld.
type EntryService struct {
	entryRepo   portsrepo.EntryRepository
	accountRepo portsrepo.AccountReader
	rates       gateways.RateProvider
	publisher   events.Publisher
}

func NewEntryService(entryRepo portsrepo.EntryRepository, accountRepo portsrepo.AccountReader, rates gateways.RateProvider, publisher events.Publisher) *EntryService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &EntryService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		rates:       rates,
		publisher:   publisher,
	}
}

var _ portssvc.EntryService = (*EntryService)(nil)

// CreateEntry records a new debit or credit. A replay carrying an idempotency
// key already bound to an identical payload returns the stored row unchanged;
// the same key with any differing field is a conflict. Under concurrent
// creates the unique index on the key decides the winner and the loser
// re-reads the winning row.
func (s *EntryService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*dto.EntryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	key := strings.TrimSpace(req.IdempotencyKey)
	if len(key) < idempotencyKeyMinLen || len(key) > idempotencyKeyMaxLen {
		return nil, fmt.Errorf("%w: idempotency key must be between %d and %d characters", apperrors.ErrValidation, idempotencyKeyMinLen, idempotencyKeyMaxLen)
	}

	entryType, err := domain.ParseEntryType(req.EntryType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must be non-negative", apperrors.ErrValidation)
	}
	amount := req.Amount.Round(2)

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = supportedCurrency
	}
	if currency != supportedCurrency {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrValidation, currency)
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	// Account must be active at creation time; later deactivation does not
	// retroactively invalidate entries.
	account, err := s.accountRepo.FindActiveAccountByName(ctx, req.AccountName)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account not found or inactive", apperrors.ErrNotFound)
		}
		return nil, err
	}

	// Fast-path idempotency check before attempting the insert.
	existing, err := s.entryRepo.FindEntryByIdempotencyKey(ctx, key)
	if err == nil {
		return s.replayOrConflict(ctx, existing, account.AccountID, entryType, amount, currency, description)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	entryDate := now
	if req.Date != nil {
		entryDate = req.Date.UTC()
	}

	entry := domain.LedgerEntry{
		EntryID:        uuid.NewString(),
		AccountID:      account.AccountID,
		AccountName:    account.Name,
		EntryDate:      entryDate,
		EntryType:      entryType,
		Amount:         amount,
		Currency:       currency,
		Description:    description,
		IdempotencyKey: key,
		IsDeleted:      false,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.entryRepo.SaveEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost a concurrent create on the same key. The constraint is the
			// source of truth; re-read the winning row and compare against it.
			winner, findErr := s.entryRepo.FindEntryByIdempotencyKey(ctx, key)
			if findErr != nil {
				return nil, fmt.Errorf("failed to re-read entry after idempotency collision: %w", findErr)
			}
			return s.replayOrConflict(ctx, winner, account.AccountID, entryType, amount, currency, description)
		}
		logger.Error("Failed to save ledger entry", slog.String("error", err.Error()), slog.String("entry_id", entry.EntryID))
		return nil, err
	}

	logger.Info("Ledger entry created", slog.String("entry_id", entry.EntryID), slog.String("account_id", entry.AccountID))
	s.publish(ctx, events.EntryEvent{Type: events.EntryCreated, EntryID: entry.EntryID, AccountID: entry.AccountID, Version: entry.Version})

	return s.enrich(ctx, &entry)
}

// replayOrConflict decides the fate of a create whose idempotency key is
// already bound: an identical payload is replayed as-is (no write, no version
// bump), anything else is rejected. Empty and absent descriptions compare
// equal; stored descriptions are already normalized to "".
func (s *EntryService) replayOrConflict(ctx context.Context, existing *domain.LedgerEntry, accountID string, entryType domain.EntryType, amount decimal.Decimal, currency, description string) (*dto.EntryResponse, error) {
	if existing.AccountID != accountID ||
		existing.EntryType != entryType ||
		!existing.Amount.Equal(amount) ||
		existing.Currency != currency ||
		existing.Description != description {
		return nil, fmt.Errorf("%w: idempotency key already used with different data", apperrors.ErrConflict)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Idempotent replay of ledger entry", slog.String("entry_id", existing.EntryID))
	return s.enrich(ctx, existing)
}

// GetEntryByID fetches a non-deleted entry. Unknown and soft-deleted IDs are
// indistinguishable to the caller.
func (s *EntryService) GetEntryByID(ctx context.Context, entryID string) (*dto.EntryResponse, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger entry not found", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return s.enrich(ctx, entry)
}

// UpdateEntry applies new amount and/or description to an active entry. A
// call that supplies no fields, or supplies values identical to the stored
// ones, is rejected before any write so no-op calls can never inflate the
// version counter.
func (s *EntryService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*dto.EntryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount == nil && req.Description == nil {
		return nil, fmt.Errorf("%w: no fields provided to update", apperrors.ErrValidation)
	}
	if req.Amount != nil && req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must be non-negative", apperrors.ErrValidation)
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger entry not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	newAmount := entry.Amount
	newDescription := entry.Description
	changed := false

	if req.Amount != nil && !req.Amount.Equal(entry.Amount) {
		newAmount = req.Amount.Round(2)
		changed = true
	}
	if req.Description != nil && *req.Description != entry.Description {
		newDescription = *req.Description
		changed = true
	}
	if !changed {
		return nil, fmt.Errorf("%w: no changes detected in update", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.entryRepo.UpdateEntry(ctx, entryID, newAmount, newDescription, entry.Version, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to update ledger entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	entry.Amount = newAmount
	entry.Description = newDescription
	entry.UpdatedAt = now
	entry.Version++

	logger.Info("Ledger entry updated", slog.String("entry_id", entryID), slog.Int64("version", entry.Version))
	s.publish(ctx, events.EntryEvent{Type: events.EntryUpdated, EntryID: entry.EntryID, AccountID: entry.AccountID, Version: entry.Version})

	return s.enrich(ctx, entry)
}

// DeleteEntry soft-deletes an active entry: the row is retained, flagged
// deleted, and its version bumped. Deleted is terminal; any later update or
// delete against the same ID reports not found.
func (s *EntryService) DeleteEntry(ctx context.Context, entryID string) (*dto.EntryDeletedResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ledger entry not found", apperrors.ErrNotFound)
		}
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.entryRepo.SoftDeleteEntry(ctx, entryID, entry.Version, now); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrConflict) {
			logger.Error("Failed to soft delete ledger entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, err
	}

	newVersion := entry.Version + 1
	logger.Info("Ledger entry soft deleted", slog.String("entry_id", entryID), slog.Int64("version", newVersion))
	s.publish(ctx, events.EntryEvent{Type: events.EntryDeleted, EntryID: entryID, AccountID: entry.AccountID, Version: newVersion})

	resp := dto.ToEntryDeletedResponse(entryID, newVersion)
	return &resp, nil
}

// ListEntries returns the filtered page ordered by entry date descending,
// with the total of the full filtered set. The conversion rate is fetched
// once and applied to every row of the page.
func (s *EntryService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) (*dto.ListEntriesResponse, error) {
	entries, total, err := s.entryRepo.ListEntries(ctx, filter.Normalize(), limit, offset)
	if err != nil {
		return nil, err
	}

	rate, err := s.rates.UsdToCadRate(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i], convertAmount(entries[i].Amount, rate))
	}

	return &dto.ListEntriesResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Entries: responses,
	}, nil
}

// enrich attaches the converted display amount to a single entry response.
func (s *EntryService) enrich(ctx context.Context, entry *domain.LedgerEntry) (*dto.EntryResponse, error) {
	rate, err := s.rates.UsdToCadRate(ctx)
	if err != nil {
		return nil, err
	}
	resp := dto.ToEntryResponse(entry, convertAmount(entry.Amount, rate))
	return &resp, nil
}

// convertAmount computes amount x rate at 2 decimal places, rounding half
// away from zero.
func convertAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

// publish is best-effort: a failed publish is logged and never fails the
// request that produced the event.
func (s *EntryService) publish(ctx context.Context, event events.EntryEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to publish entry event",
			slog.String("type", event.Type),
			slog.String("entry_id", event.EntryID),
			slog.String("error", err.Error()),
		)
	}
}
