package validation

import (
	"strings"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
)

// ValidateCreateTransaction validates a cash transaction creation request.
// The amount is unsigned; the type decides whether it adds to or subtracts
// from the position's cash contribution.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.AccountID); err != nil {
		errors["accountId"] = err.Error()
	}
	if req.PositionID != "" {
		if err := ValidateUUID(req.PositionID); err != nil {
			errors["positionId"] = err.Error()
		}
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := ParseTime(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	switch model.TransactionKind(req.Type) {
	case model.TransactionDividend, model.TransactionTax, model.TransactionFee:
	default:
		errors["type"] = "type must be dividend, tax or fee"
	}

	if req.Amount.IsNegative() {
		errors["amount"] = apperrors.ErrNegativeAmount.Error()
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
