package pnl

import (
	"fmt"
	"time"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
)

// OversellError is returned when a sell trade requests more units than the
// position holds at that point of its history.
type OversellError struct {
	PositionID string
	TradeID    string
	Date       time.Time
	Requested  int64
	Available  int64
}

func (e *OversellError) Error() string {
	return fmt.Sprintf("position %s: sell trade %s on %s requests %d units, only %d open",
		e.PositionID, e.TradeID, e.Date.Format(time.DateOnly), e.Requested, e.Available)
}

// Unwrap lets errors.Is match apperrors.ErrMalformedInput.
func (e *OversellError) Unwrap() error {
	return apperrors.ErrMalformedInput
}

// TradeError reports a trade that is malformed for reasons other than
// overselling, such as an unknown side or a non-positive quantity.
type TradeError struct {
	PositionID string
	TradeID    string
	Reason     string
}

func (e *TradeError) Error() string {
	return fmt.Sprintf("position %s: trade %s: %s", e.PositionID, e.TradeID, e.Reason)
}

func (e *TradeError) Unwrap() error {
	return apperrors.ErrMalformedInput
}
