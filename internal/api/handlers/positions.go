package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/api/response"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/service"
)

// PositionHandler serves position summaries and currency totals.
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new PositionHandler
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

func parsePositionQuery(r *http.Request) (request.PositionQuery, error) {
	q := r.URL.Query()
	return request.ParsePositionQuery(q.Get("account_name"), q.Get("status_filter"))
}

// Positions handles GET requests for position summaries sorted by opening date.
//
// Endpoint: GET /api/positions?account_name=&status_filter=all|open|closed
// Response: 200 OK with array of PositionSummary
// Error: 400 Bad Request for an unknown status filter
// Error: 404 Not Found for an unknown account
func (h *PositionHandler) Positions(w http.ResponseWriter, r *http.Request) {
	query, err := parsePositionQuery(r)
	if err != nil {
		respondServiceError(w, "invalid query", err)
		return
	}

	summaries, err := h.positionService.GetPositionsSummary(r.Context(), query.AccountName, query.Filter)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrievePositions.Error(), err)
		return
	}
	response.RespondJSON(w, http.StatusOK, summaries)
}

// Totals handles GET requests for invested capital and PnL per currency.
//
// Endpoint: GET /api/positions/totals?account_name=&status_filter=
// Response: 200 OK with array of CurrencyTotal
func (h *PositionHandler) Totals(w http.ResponseWriter, r *http.Request) {
	query, err := parsePositionQuery(r)
	if err != nil {
		respondServiceError(w, "invalid query", err)
		return
	}

	totals, err := h.positionService.GetPositionsTotals(r.Context(), query.AccountName, query.Filter)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrievePositions.Error(), err)
		return
	}
	response.RespondJSON(w, http.StatusOK, totals)
}

// Report handles GET requests for summaries, totals and per-position errors in one response.
//
// Endpoint: GET /api/positions/report?account_name=&status_filter=
// Response: 200 OK with PositionsReport
func (h *PositionHandler) Report(w http.ResponseWriter, r *http.Request) {
	query, err := parsePositionQuery(r)
	if err != nil {
		respondServiceError(w, "invalid query", err)
		return
	}

	report, err := h.positionService.GetPositionsReport(r.Context(), query.AccountName, query.Filter)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrievePositions.Error(), err)
		return
	}
	response.RespondJSON(w, http.StatusOK, report)
}

// Position handles GET requests for a single position summary.
//
// Endpoint: GET /api/positions/{uuid}
// Response: 200 OK with PositionSummary
// Error: 404 Not Found if the position does not exist
// Error: 422 Unprocessable Entity if its trades oversell
func (h *PositionHandler) Position(w http.ResponseWriter, r *http.Request) {
	summary, err := h.positionService.GetPositionSummary(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, "failed to summarize position", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, summary)
}
