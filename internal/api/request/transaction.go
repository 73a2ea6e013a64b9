package request

import "github.com/shopspring/decimal"

// CreateTransactionRequest represents the request body for recording a
// dividend, tax or fee. PositionID is optional.
type CreateTransactionRequest struct {
	AccountID   string          `json:"accountId"`
	PositionID  string          `json:"positionId"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}
