package handlers

import (
	"net/http"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/api/response"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/service"
	"github.com/pip-tracker/pip-backend/internal/validation"
)

// AccountHandler handles accounts and instruments.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Accounts handles GET /api/accounts.
func (h *AccountHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.GetAccounts(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, accounts)
}

// CreateAccount handles POST requests to create an account.
//
// Endpoint: POST /api/accounts
// Request Body: CreateAccountRequest (name, description)
// Response: 201 Created with Account
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the name is taken
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAccount(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), req)
	if err != nil {
		respondServiceError(w, "failed to create account", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, account)
}

// Instruments handles GET /api/instruments.
func (h *AccountHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.accountService.GetInstruments(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInstruments.Error(), err.Error())
		return
	}
	response.RespondJSON(w, http.StatusOK, instruments)
}

// CreateInstrument handles POST requests to create an instrument.
//
// Endpoint: POST /api/instruments
// Request Body: CreateInstrumentRequest (isin, ticker, name, category, currency, ...)
// Response: 201 Created with Instrument
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the ISIN is taken
func (h *AccountHandler) CreateInstrument(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateInstrumentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateInstrument(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	instrument, err := h.accountService.CreateInstrument(r.Context(), req)
	if err != nil {
		respondServiceError(w, "failed to create instrument", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, instrument)
}
