package pnl

import (
	"errors"
	"runtime"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/pip-tracker/pip-backend/internal/model"
)

// Join pairs every position with its own trades, its own cash transactions
// and the latest price of its instrument. Trades and transactions keep their
// relative order. Transactions without a position are dropped.
func Join(
	positions []model.Position,
	trades []model.Trade,
	transactions []model.Transaction,
	prices map[string]model.LatestPrice,
) []PositionInput {
	tradesByPosition := make(map[string][]model.Trade, len(positions))
	for _, t := range trades {
		tradesByPosition[t.PositionID] = append(tradesByPosition[t.PositionID], t)
	}

	txByPosition := make(map[string][]model.Transaction, len(positions))
	for _, tx := range transactions {
		if tx.PositionID == "" {
			continue
		}
		txByPosition[tx.PositionID] = append(txByPosition[tx.PositionID], tx)
	}

	inputs := make([]PositionInput, 0, len(positions))
	for _, p := range positions {
		in := PositionInput{
			Position:     p,
			Trades:       tradesByPosition[p.ID],
			Transactions: txByPosition[p.ID],
		}
		if price, ok := prices[p.InstrumentID]; ok {
			in.LatestPrice = &price
		}
		inputs = append(inputs, in)
	}
	return inputs
}

// Result holds the summaries that passed the filter, sorted by opening date,
// and one error per position that could not be summarized.
type Result struct {
	Summaries []model.PositionSummary
	Errors    []model.PositionError
}

// Aggregate summarizes inputs on up to workers goroutines, then filters the
// summaries by open/closed status and sorts them by opening date. Positions
// without an opening date sort first; equal dates keep input order.
//
// A position that fails to summarize is reported in Result.Errors and does
// not affect the others. workers <= 0 uses GOMAXPROCS.
func Aggregate(inputs []PositionInput, filter model.PositionFilter, workers int) Result {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	summaries := make([]model.PositionSummary, len(inputs))
	failures := make([]error, len(inputs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range inputs {
		g.Go(func() error {
			summaries[i], failures[i] = Summarize(inputs[i])
			return nil
		})
	}
	_ = g.Wait()

	var res Result
	for i, s := range summaries {
		if err := failures[i]; err != nil {
			res.Errors = append(res.Errors, positionError(inputs[i].Position.ID, err))
			continue
		}
		if s.IsClosed() && !filter.IncludeClosed || !s.IsClosed() && !filter.IncludeOpen {
			continue
		}
		res.Summaries = append(res.Summaries, s)
	}

	SortByOpeningDate(res.Summaries)
	return res
}

// SortByOpeningDate stably sorts summaries by ascending opening date.
func SortByOpeningDate(summaries []model.PositionSummary) {
	slices.SortStableFunc(summaries, func(a, b model.PositionSummary) int {
		return openedAt(a).Compare(openedAt(b))
	})
}

func openedAt(s model.PositionSummary) time.Time {
	if s.OpeningDate == nil {
		return time.Time{}
	}
	return *s.OpeningDate
}

func positionError(positionID string, err error) model.PositionError {
	pe := model.PositionError{PositionID: positionID, Error: err.Error()}

	var oversell *OversellError
	var malformed *TradeError
	switch {
	case errors.As(err, &oversell):
		pe.TradeID = oversell.TradeID
	case errors.As(err, &malformed):
		pe.TradeID = malformed.TradeID
	}
	return pe
}

// Totals groups summaries by instrument currency and sums invested capital
// and PnL per group. Groups are emitted in the order their currency is first
// seen in summaries. Amounts in different currencies are never combined.
func Totals(summaries []model.PositionSummary) []model.CurrencyTotal {
	index := make(map[string]int)
	var totals []model.CurrencyTotal

	for _, s := range summaries {
		i, ok := index[s.InstrumentCurrency]
		if !ok {
			i = len(totals)
			index[s.InstrumentCurrency] = i
			totals = append(totals, model.CurrencyTotal{
				Currency:      s.InstrumentCurrency,
				Symbol:        s.InstrumentSymbol,
				TotalInvested: decimal.Zero,
				TotalPnL:      decimal.Zero,
			})
		}
		totals[i].TotalInvested = totals[i].TotalInvested.Add(s.TotalInvested)
		totals[i].TotalPnL = totals[i].TotalPnL.Add(s.PnL)
	}
	return totals
}
