package pnl

import (
	"fmt"
	"slices"
	"time"

	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/shopspring/decimal"
)

// MatchResult is the outcome of FIFO matching one position's trades.
type MatchResult struct {
	RealizedPnL        decimal.Decimal
	TotalInvested      decimal.Decimal
	OpeningDate        *time.Time
	ClosingDate        *time.Time
	RemainingQuantity  int64
	RemainingCostBasis decimal.Decimal
}

// ledger is the running state of the FIFO fold over a trade sequence.
type ledger struct {
	lots      lotQueue
	openQty   int64
	realized  decimal.Decimal
	invested  decimal.Decimal
	openingAt *time.Time
	closingAt *time.Time
}

// apply returns the ledger after processing t. The receiver is left unchanged.
func (l ledger) apply(t model.Trade) (ledger, error) {
	if t.Quantity <= 0 {
		return l, &TradeError{PositionID: t.PositionID, TradeID: t.ID,
			Reason: fmt.Sprintf("quantity must be positive, got %d", t.Quantity)}
	}

	qty := decimal.NewFromInt(t.Quantity)

	switch t.Type {
	case model.TradeBuy:
		l.lots = l.lots.push(lot{quantity: t.Quantity, costPerUnit: t.Price})
		l.openQty += t.Quantity
		l.invested = l.invested.Add(qty.Mul(t.Price))
		if l.openingAt == nil {
			date := t.Date
			l.openingAt = &date
		}
		// a buy reopens the position
		l.closingAt = nil
		return l, nil

	case model.TradeSell:
		if t.Quantity > l.openQty {
			return l, &OversellError{
				PositionID: t.PositionID,
				TradeID:    t.ID,
				Date:       t.Date,
				Requested:  t.Quantity,
				Available:  l.openQty,
			}
		}
		remaining := t.Quantity
		for remaining > 0 {
			head := l.lots.front()
			matched := min(head.quantity, remaining)
			l.realized = l.realized.Add(decimal.NewFromInt(matched).Mul(t.Price.Sub(head.costPerUnit)))
			l.lots = l.lots.consume(matched)
			remaining -= matched
		}
		l.openQty -= t.Quantity
		if l.openQty == 0 {
			date := t.Date
			l.closingAt = &date
		}
		return l, nil

	default:
		return l, &TradeError{PositionID: t.PositionID, TradeID: t.ID,
			Reason: fmt.Sprintf("unknown trade type %q", t.Type)}
	}
}

// Match runs FIFO lot matching over the trades of a single position.
//
// Trades are processed in ascending date order; trades sharing a date keep
// the order in which they were supplied. The input slice is not modified.
// A sell exceeding the open quantity aborts matching with an *OversellError.
func Match(trades []model.Trade) (MatchResult, error) {
	ordered := slices.Clone(trades)
	slices.SortStableFunc(ordered, func(a, b model.Trade) int {
		return a.Date.Compare(b.Date)
	})

	l := ledger{realized: decimal.Zero, invested: decimal.Zero}
	for _, t := range ordered {
		var err error
		if l, err = l.apply(t); err != nil {
			return MatchResult{}, err
		}
	}

	qty, cost := l.lots.open()
	return MatchResult{
		RealizedPnL:        l.realized,
		TotalInvested:      l.invested,
		OpeningDate:        l.openingAt,
		ClosingDate:        l.closingAt,
		RemainingQuantity:  qty,
		RemainingCostBasis: cost,
	}, nil
}
