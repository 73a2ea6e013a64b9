package handlers

import (
	"net/http"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/api/response"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/service"
	"github.com/pip-tracker/pip-backend/internal/validation"
)

// maxHistoryDays bounds a single history backfill.
const maxHistoryDays = 3650

// PriceHandler handles market price endpoints.
type PriceHandler struct {
	priceService *service.PriceService
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(priceService *service.PriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
	}
}

// LatestPrices handles GET /api/prices/latest.
func (h *PriceHandler) LatestPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.priceService.GetLatestPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePrices.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, prices)
}

// RefreshPrices handles POST requests to fetch the latest closes of all instruments.
//
// Endpoint: POST /api/prices/refresh
// Response: 200 OK with PriceRefreshResult, also when single instruments failed
// Error: 500 Internal Server Error if the instruments cannot be loaded
func (h *PriceHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceService.RefreshLatestPrices(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrices.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// LoadHistory handles POST requests to backfill daily prices of one instrument.
//
// Endpoint: POST /api/prices/history
// Request Body: LoadPriceHistoryRequest (instrumentId, days)
// Response: 200 OK with the number of prices added
// Error: 400 Bad Request if validation fails or the instrument has no ticker
// Error: 404 Not Found if the instrument or its symbol does not exist
func (h *PriceHandler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.LoadPriceHistoryRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	fields := make(map[string]string)
	if err := validation.ValidateUUID(req.InstrumentID); err != nil {
		fields["instrumentId"] = err.Error()
	}
	if req.Days <= 0 || req.Days > maxHistoryDays {
		fields["days"] = "days must be between 1 and 3650"
	}
	if len(fields) > 0 {
		respondServiceError(w, "validation failed", &validation.Error{Fields: fields})
		return
	}

	added, err := h.priceService.LoadHistory(r.Context(), req.InstrumentID, req.Days)
	if err != nil {
		respondServiceError(w, "failed to load price history", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, map[string]int{"pricesAdded": added})
}
