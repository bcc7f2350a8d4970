package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/ledgerbook/ledgerbook/internal/core/ports/services"
	"github.com/ledgerbook/ledgerbook/internal/dto"
	"github.com/ledgerbook/ledgerbook/internal/middleware"
)

// summaryHandler handles HTTP requests for the ledger summary.
type summaryHandler struct {
	summaryService portssvc.SummaryService
}

func newSummaryHandler(ss portssvc.SummaryService) *summaryHandler {
	return &summaryHandler{summaryService: ss}
}

// registerSummaryRoutes registers the summary route.
func registerSummaryRoutes(rg *gin.RouterGroup, summaryService portssvc.SummaryService) {
	h := newSummaryHandler(summaryService)
	rg.GET("/summary", h.getSummary)
}

// getSummary godoc
// @Summary Aggregate ledger totals
// @Description Returns debit/credit counts and totals over non-deleted entries, optionally filtered. An unknown account yields an empty, balanced summary.
// @Tags summary
// @Produce  json
// @Param   account_name query string false "Account name"
// @Param   currency query string false "Currency code"
// @Param   start_date query string false "Inclusive lower bound (RFC3339 or YYYY-MM-DD)"
// @Param   end_date query string false "Inclusive upper bound (RFC3339 or YYYY-MM-DD)"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /summary [get]
func (h *summaryHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for getSummary", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter, err := buildEntryFilter(params.AccountName, params.Currency, "", params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.summaryService.GetSummary(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSummaryResponse(summary))
}
