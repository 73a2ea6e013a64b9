package pnl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/currency"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/shopspring/decimal"
)

// StatusNoOpenQuantity is the status of a position without any trade.
const StatusNoOpenQuantity = "No open quantity"

var hundred = decimal.NewFromInt(100)

// PositionInput is everything needed to summarize one position. Trades and
// Transactions must belong to Position; LatestPrice is nil when the
// instrument has never been priced.
type PositionInput struct {
	Position     model.Position
	Trades       []model.Trade
	Transactions []model.Transaction
	LatestPrice  *model.LatestPrice
}

// Summarize computes the PositionSummary of a single position.
//
// It returns an error wrapping apperrors.ErrMalformedInput when the trades
// cannot be matched or a transaction has an unknown kind.
func Summarize(in PositionInput) (model.PositionSummary, error) {
	m, err := Match(in.Trades)
	if err != nil {
		return model.PositionSummary{}, err
	}

	net, err := transactionsNet(in.Position.ID, in.Transactions)
	if err != nil {
		return model.PositionSummary{}, err
	}

	inst := in.Position.Instrument
	s := model.PositionSummary{
		PositionID:         in.Position.ID,
		AccountID:          in.Position.AccountID,
		InstrumentID:       in.Position.InstrumentID,
		InstrumentName:     inst.Name,
		InstrumentISIN:     inst.ISIN,
		InstrumentTicker:   inst.Ticker,
		InstrumentCurrency: inst.Currency,
		InstrumentSymbol:   currency.Symbol(inst.Currency),
		OpeningDate:        m.OpeningDate,
		ClosingDate:        m.ClosingDate,
		TotalInvested:      m.TotalInvested,
		TransactionsNet:    net,
		RemainingQuantity:  m.RemainingQuantity,
		RemainingCostBasis: m.RemainingCostBasis,
		RealizedPnL:        m.RealizedPnL,
		UnrealizedPnL:      decimal.Zero,
		LatestPrice:        decimal.Zero,
	}

	if in.LatestPrice != nil {
		date := in.LatestPrice.Date
		s.Priced = true
		s.LatestPrice = in.LatestPrice.Price
		s.LatestPriceDate = &date
		value := in.LatestPrice.Price.Mul(decimal.NewFromInt(m.RemainingQuantity))
		s.UnrealizedPnL = value.Sub(m.RemainingCostBasis)
	}

	s.RealizedPnLPercent = percentOf(s.RealizedPnL, s.TotalInvested).Mul(hundred)
	s.UnrealizedPnLPercent = percentOf(s.UnrealizedPnL, s.RemainingCostBasis).Mul(hundred)

	s.PnL = s.RealizedPnL.Add(s.UnrealizedPnL).Add(s.TransactionsNet)
	// plain ratio, unlike the component percentages
	s.PnLPercent = percentOf(s.PnL, s.TotalInvested)

	s.Status = status(s.RemainingQuantity, s.ClosingDate)
	return s, nil
}

// percentOf returns part/whole, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole)
}

func transactionsNet(positionID string, txs []model.Transaction) (decimal.Decimal, error) {
	net := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case model.TransactionDividend:
			net = net.Add(tx.Amount)
		case model.TransactionTax, model.TransactionFee:
			net = net.Sub(tx.Amount)
		default:
			return decimal.Zero, fmt.Errorf("position %s: transaction %s has unknown type %q: %w",
				positionID, tx.ID, tx.Type, apperrors.ErrMalformedInput)
		}
	}
	return net, nil
}

func status(remaining int64, closingDate *time.Time) string {
	switch {
	case remaining > 0:
		return strconv.FormatInt(remaining, 10)
	case closingDate == nil:
		return StatusNoOpenQuantity
	default:
		return "Closed on " + closingDate.Format(time.DateOnly)
	}
}
