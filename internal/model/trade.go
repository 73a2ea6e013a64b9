package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade execution.
type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

// Trade represents a single buy or sell execution belonging to a position.
// Quantity is a whole number of units; Price is the unit price in the
// instrument's currency.
type Trade struct {
	ID          string          `json:"id"`
	PositionID  string          `json:"positionId"`
	Date        time.Time       `json:"date"`
	Type        TradeSide       `json:"type"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt,omitempty"`
}

// TradeResponse represents a trade enriched with account and instrument
// information for listing endpoints.
type TradeResponse struct {
	Trade
	AccountID      string `json:"accountId"`
	AccountName    string `json:"accountName"`
	InstrumentID   string `json:"instrumentId"`
	InstrumentName string `json:"instrumentName"`
	Currency       string `json:"currency"`
}
