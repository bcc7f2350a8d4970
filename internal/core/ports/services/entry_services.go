package services

import (
	"context"

	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	"github.com/ledgerbook/ledgerbook/internal/dto"
)

// EntryService exposes the ledger entry lifecycle: idempotent creation, reads,
// partial updates and soft deletion. Responses carry the converted display
// amount supplied by the exchange rate gateway.
type EntryService interface {
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest) (*dto.EntryResponse, error)
	GetEntryByID(ctx context.Context, entryID string) (*dto.EntryResponse, error)
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest) (*dto.EntryResponse, error)
	DeleteEntry(ctx context.Context, entryID string) (*dto.EntryDeletedResponse, error)
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit, offset int) (*dto.ListEntriesResponse, error)
}
