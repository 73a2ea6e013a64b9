package validation

import (
	"strings"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/model"
)

// ValidateCreateTrade validates a trade creation request.
//
// Required fields:
//   - accountId, instrumentId: Must be valid UUIDs
//   - date: YYYY-MM-DD or RFC3339
//   - type: buy or sell
//   - quantity: Must be positive
//   - price: Must be positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTrade(req request.CreateTradeRequest) error {
	errors := make(map[string]string)

	if err := ValidateUUID(req.AccountID); err != nil {
		errors["accountId"] = err.Error()
	}
	if err := ValidateUUID(req.InstrumentID); err != nil {
		errors["instrumentId"] = err.Error()
	}

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := ParseTime(req.Date); err != nil {
		errors["date"] = err.Error()
	}

	switch model.TradeSide(req.Type) {
	case model.TradeBuy, model.TradeSell:
	default:
		errors["type"] = "type must be buy or sell"
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}
	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
