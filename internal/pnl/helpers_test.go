package pnl

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pip-tracker/pip-backend/internal/model"
)

const testPositionID = "pos-1"

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

var tradeSeq int

func trade(side model.TradeSide, date time.Time, qty int64, price string) model.Trade {
	tradeSeq++
	return model.Trade{
		ID:         fmt.Sprintf("t%d", tradeSeq),
		PositionID: testPositionID,
		Date:       date,
		Type:       side,
		Quantity:   qty,
		Price:      dec(price),
	}
}

func buy(date time.Time, qty int64, price string) model.Trade {
	return trade(model.TradeBuy, date, qty, price)
}

func sell(date time.Time, qty int64, price string) model.Trade {
	return trade(model.TradeSell, date, qty, price)
}

func position(id, currency string) model.Position {
	return model.Position{
		ID:           id,
		AccountID:    "acc-1",
		InstrumentID: "inst-" + currency,
		Instrument: model.Instrument{
			ID:       "inst-" + currency,
			Name:     "Instrument " + currency,
			ISIN:     "US0378331005",
			Ticker:   "T" + currency,
			Currency: currency,
		},
	}
}
