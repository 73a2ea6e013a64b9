package request

import "github.com/shopspring/decimal"

// CreateTradeRequest represents the request body for recording a trade.
// The position is resolved from the account and instrument.
type CreateTradeRequest struct {
	AccountID    string          `json:"accountId"`
	InstrumentID string          `json:"instrumentId"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Description  string          `json:"description"`
}
