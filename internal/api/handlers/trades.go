package handlers

import (
	"net/http"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/api/response"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/service"
	"github.com/pip-tracker/pip-backend/internal/validation"
)

// TradeHandler handles HTTP requests for trade endpoints.
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// Trades handles GET requests to list trades, newest first.
//
// Endpoint: GET /api/trades?account_name=
// Response: 200 OK with array of TradeResponse
// Error: 404 Not Found for an unknown account
func (h *TradeHandler) Trades(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParsePositionQuery(r.URL.Query().Get("account_name"), "")
	if err != nil {
		respondServiceError(w, "invalid query", err)
		return
	}

	trades, err := h.tradeService.GetTrades(r.Context(), query.AccountName)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveTrades.Error(), err)
		return
	}
	response.RespondJSON(w, http.StatusOK, trades)
}

// CreateTrade handles POST requests to record a buy or sell.
//
// Endpoint: POST /api/trades
// Request Body: CreateTradeRequest (accountId, instrumentId, date, type, quantity, price)
// Response: 201 Created with Trade
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the account or instrument does not exist
// Error: 409 Conflict if a sell exceeds the open quantity
func (h *TradeHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTrade(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	trade, err := h.tradeService.CreateTrade(r.Context(), req)
	if err != nil {
		respondServiceError(w, "failed to create trade", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, trade)
}
