package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a cash transaction.
type TransactionKind string

const (
	TransactionDividend TransactionKind = "dividend"
	TransactionTax      TransactionKind = "tax"
	TransactionFee      TransactionKind = "fee"
)

// Transaction represents a cash movement (dividend, tax or fee) on an account.
// PositionID is empty when the transaction is not tied to a position; such
// transactions never count towards a position's totals.
//
// Amount is stored unsigned. Dividends add to a position's net cash
// contribution, taxes and fees subtract from it.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	PositionID  string          `json:"positionId,omitempty"`
	Date        time.Time       `json:"date"`
	Type        TransactionKind `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}
