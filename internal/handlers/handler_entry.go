package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbook/ledgerbook/internal/apperrors"
	"github.com/ledgerbook/ledgerbook/internal/core/domain"
	portssvc "github.com/ledgerbook/ledgerbook/internal/core/ports/services"
	"github.com/ledgerbook/ledgerbook/internal/dto"
	"github.com/ledgerbook/ledgerbook/internal/middleware"
)

// entryHandler handles HTTP requests related to ledger entries.
type entryHandler struct {
	entryService portssvc.EntryService
}

func newEntryHandler(es portssvc.EntryService) *entryHandler {
	return &entryHandler{entryService: es}
}

// registerEntryRoutes registers routes related to ledger entries.
func registerEntryRoutes(rg *gin.RouterGroup, entryService portssvc.EntryService) {
	h := newEntryHandler(entryService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.PATCH("/:id", h.updateEntry)
		entries.DELETE("/:id", h.deleteEntry)
	}
}

// parseFilterDate accepts RFC3339 timestamps and plain dates. Plain dates
// resolve to midnight UTC, so an end_date of "2024-01-31" bounds the range at
// the start of that day, matching the inclusive <= comparison downstream.
func parseFilterDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("%w: invalid date format %q", apperrors.ErrValidation, raw)
}

// buildEntryFilter converts raw query values into a domain.EntryFilter.
func buildEntryFilter(accountName, currency, entryType, startDate, endDate string) (domain.EntryFilter, error) {
	filter := domain.EntryFilter{
		AccountName: accountName,
		Currency:    currency,
	}

	if entryType != "" {
		et, err := domain.ParseEntryType(entryType)
		if err != nil {
			return domain.EntryFilter{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		filter.EntryType = &et
	}

	start, err := parseFilterDate(startDate)
	if err != nil {
		return domain.EntryFilter{}, err
	}
	filter.StartDate = start

	end, err := parseFilterDate(endDate)
	if err != nil {
		return domain.EntryFilter{}, err
	}
	filter.EndDate = end

	return filter.Normalize(), nil
}

// createEntry godoc
// @Summary Create a new ledger entry
// @Description Records a new debit or credit. Replaying an identical request with the same idempotency key returns the stored entry unchanged.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found or inactive"
// @Failure 409 {object} map[string]string "Idempotency key already used with different data"
// @Failure 502 {object} map[string]string "Exchange rate gateway failure"
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// listEntries godoc
// @Summary List ledger entries
// @Description Retrieves non-deleted entries, optionally filtered by account name, currency, entry type or date range, newest first.
// @Tags entries
// @Produce  json
// @Param   account_name query string false "Account name (case-insensitive exact match)"
// @Param   currency query string false "Currency code"
// @Param   entry_type query string false "debit or credit"
// @Param   start_date query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param   end_date query string false "Inclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Param   limit query int false "Page size" default(100)
// @Param   offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 502 {object} map[string]string "Exchange rate gateway failure"
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter, err := buildEntryFilter(params.AccountName, params.Currency, params.EntryType, params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.entryService.ListEntries(c.Request.Context(), filter, params.Limit, params.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Retrieve a specific ledger entry
// @Description Fetches a single non-deleted entry by its ID.
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Ledger entry not found"
// @Failure 502 {object} map[string]string "Exchange rate gateway failure"
// @Router /entries/{id} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	entry, err := h.entryService.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// updateEntry godoc
// @Summary Update a ledger entry
// @Description Updates the amount and/or description of an entry. All other fields are immutable.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "No fields provided or no changes detected"
// @Failure 404 {object} map[string]string "Ledger entry not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 502 {object} map[string]string "Exchange rate gateway failure"
// @Router /entries/{id} [patch]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Description Soft-deletes an entry: the row is retained, flagged deleted and its version bumped.
// @Tags entries
// @Produce  json
// @Param   id path string true "Entry ID"
// @Success 200 {object} dto.EntryDeletedResponse
// @Failure 404 {object} map[string]string "Ledger entry not found"
// @Router /entries/{id} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	resp, err := h.entryService.DeleteEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
