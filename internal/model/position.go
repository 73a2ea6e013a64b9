package model

import (
	"time"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
)

// Position is the holding of one instrument within one account.
//
// Closed and ClosingDate are persisted for convenience only. They are
// recomputed from the trade history on every summary and may be stale.
type Position struct {
	ID           string     `json:"id"`
	AccountID    string     `json:"accountId"`
	InstrumentID string     `json:"instrumentId"`
	Closed       bool       `json:"closed"`
	ClosingDate  *time.Time `json:"closingDate,omitempty"`
	Instrument   Instrument `json:"instrument"`
}

// PositionFilter selects positions by their derived open/closed status.
type PositionFilter struct {
	IncludeOpen   bool
	IncludeClosed bool
}

// Status filter values accepted by the API and the CLI.
const (
	StatusFilterAll    = "all"
	StatusFilterOpen   = "open"
	StatusFilterClosed = "closed"
)

// PositionFilterFromStatus converts an all/open/closed status string into a
// PositionFilter. An empty string is treated as "all".
func PositionFilterFromStatus(status string) (PositionFilter, error) {
	switch status {
	case "", StatusFilterAll:
		return PositionFilter{IncludeOpen: true, IncludeClosed: true}, nil
	case StatusFilterOpen:
		return PositionFilter{IncludeOpen: true}, nil
	case StatusFilterClosed:
		return PositionFilter{IncludeClosed: true}, nil
	default:
		return PositionFilter{}, apperrors.ErrInvalidStatusFilter
	}
}
