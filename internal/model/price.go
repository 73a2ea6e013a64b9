package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GranularityDaily is the granularity used for daily closing prices.
const GranularityDaily = "1d"

// Price represents a historical price point for an instrument.
type Price struct {
	ID           string          `json:"id"`
	InstrumentID string          `json:"instrumentId"`
	Date         time.Time       `json:"date"`
	Price        decimal.Decimal `json:"price"`
	Granularity  string          `json:"granularity"`
}

// LatestPrice is the most recent known price of an instrument.
type LatestPrice struct {
	InstrumentID string          `json:"instrumentId"`
	Price        decimal.Decimal `json:"price"`
	Date         time.Time       `json:"date"`
}

// PriceRefreshResult represents the outcome of a bulk price refresh.
// Success is true if at least one instrument was refreshed.
type PriceRefreshResult struct {
	Success      bool                     `json:"success"`
	Updated      []UpdatedInstrument      `json:"updated"`
	Errors       []UpdatedInstrumentError `json:"errors"`
	TotalUpdated int                      `json:"totalUpdated"`
	TotalErrors  int                      `json:"totalErrors"`
}

// UpdatedInstrument represents an instrument whose prices were refreshed.
type UpdatedInstrument struct {
	InstrumentID string `json:"instrumentId"`
	Ticker       string `json:"ticker"`
	PricesAdded  int    `json:"pricesAdded"`
}

// UpdatedInstrumentError represents an instrument that failed to refresh.
type UpdatedInstrumentError struct {
	InstrumentID string `json:"instrumentId"`
	Ticker       string `json:"ticker"`
	Error        string `json:"error"`
}
