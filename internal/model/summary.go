package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionSummary is the fully derived state of one position, computed from
// its trades, cash transactions and the latest known price of its instrument.
//
// Percentages RealizedPnLPercent and UnrealizedPnLPercent are expressed in
// percent (x100). PnLPercent is a plain ratio.
type PositionSummary struct {
	PositionID         string `json:"position_id"`
	AccountID          string `json:"account_id"`
	InstrumentID       string `json:"instrument_id"`
	InstrumentName     string `json:"instrument_name"`
	InstrumentISIN     string `json:"instrument_isin"`
	InstrumentTicker   string `json:"instrument_ticker"`
	InstrumentCurrency string `json:"instrument_currency"`
	InstrumentSymbol   string `json:"instrument_currency_symbol"`

	OpeningDate *time.Time `json:"opening_date"`
	ClosingDate *time.Time `json:"closing_date"`

	TotalInvested      decimal.Decimal `json:"total_invested"`
	TransactionsNet    decimal.Decimal `json:"transactions_net"`
	RemainingQuantity  int64           `json:"remaining_quantity"`
	RemainingCostBasis decimal.Decimal `json:"remaining_cost_basis"`

	RealizedPnL          decimal.Decimal `json:"realized_pnl"`
	UnrealizedPnL        decimal.Decimal `json:"unrealized_pnl"`
	RealizedPnLPercent   decimal.Decimal `json:"realized_pnl_percent"`
	UnrealizedPnLPercent decimal.Decimal `json:"unrealized_pnl_percent"`

	LatestPrice     decimal.Decimal `json:"latest_price"`
	LatestPriceDate *time.Time      `json:"latest_price_date"`
	Priced          bool            `json:"priced"`

	Status     string          `json:"status"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent decimal.Decimal `json:"pnl_percent"`
}

// IsClosed reports whether the position has no open quantity left after its
// last sell.
func (s PositionSummary) IsClosed() bool {
	return s.ClosingDate != nil
}

// CurrencyTotal rolls up invested capital and PnL for all summarized positions
// whose instrument is priced in Currency.
type CurrencyTotal struct {
	Currency      string          `json:"currency"`
	Symbol        string          `json:"symbol"`
	TotalInvested decimal.Decimal `json:"total_invested"`
	TotalPnL      decimal.Decimal `json:"total_pnl"`
}

// PositionError reports a position that could not be summarized.
type PositionError struct {
	PositionID string `json:"position_id"`
	TradeID    string `json:"trade_id,omitempty"`
	Error      string `json:"error"`
}

// PositionsReport bundles summaries, their currency totals and the positions
// that failed to summarize.
type PositionsReport struct {
	Positions []PositionSummary `json:"positions"`
	Totals    []CurrencyTotal   `json:"totals"`
	Errors    []PositionError   `json:"errors"`
}
