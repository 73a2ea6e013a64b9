package handlers

import (
	"net/http"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/api/response"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/service"
	"github.com/pip-tracker/pip-backend/internal/validation"
)

// TransactionHandler handles HTTP requests for cash transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Transactions handles GET requests to list dividends, taxes and fees, newest first.
//
// Endpoint: GET /api/transactions?account_name=
// Response: 200 OK with array of Transaction
// Error: 404 Not Found for an unknown account
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	query, err := request.ParsePositionQuery(r.URL.Query().Get("account_name"), "")
	if err != nil {
		respondServiceError(w, "invalid query", err)
		return
	}

	transactions, err := h.transactionService.GetTransactions(r.Context(), query.AccountName)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveTransactions.Error(), err)
		return
	}
	response.RespondJSON(w, http.StatusOK, transactions)
}

// CreateTransaction handles POST requests to create a new cash transaction.
//
// Endpoint: POST /api/transactions
// Request Body: CreateTransactionRequest (accountId, positionId, date, type, amount)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the account or position does not exist
// Error: 422 Unprocessable Entity if the position belongs to another account
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		respondServiceError(w, "failed to create transaction", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, transaction)
}
