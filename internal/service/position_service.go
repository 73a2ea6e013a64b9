package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/pnl"
)

// AccountFinder resolves accounts by name.
type AccountFinder interface {
	GetAccountByName(ctx context.Context, name string) (model.Account, error)
}

// PositionStore loads positions and stores their derived status.
type PositionStore interface {
	GetPositions(ctx context.Context, accountID string) ([]model.Position, error)
	GetPositionOnID(ctx context.Context, positionID string) (model.Position, error)
	UpdatePositionStatus(ctx context.Context, positionID string, closed bool, closingDate *time.Time) error
}

// TradeSource loads the trades of a set of positions.
type TradeSource interface {
	GetTradesForPositions(ctx context.Context, positionIDs []string) ([]model.Trade, error)
}

// TransactionSource loads the cash transactions of a set of positions.
type TransactionSource interface {
	GetTransactionsForPositions(ctx context.Context, positionIDs []string) ([]model.Transaction, error)
}

// PriceSource loads the latest price of a set of instruments.
type PriceSource interface {
	GetLatestPrices(ctx context.Context, instrumentIDs []string) (map[string]model.LatestPrice, error)
}

// PositionService computes position summaries and currency totals.
// It loads positions with their trades, cash transactions and latest prices
// and hands them to the pnl engine.
type PositionService struct {
	accounts     AccountFinder
	positions    PositionStore
	trades       TradeSource
	transactions TransactionSource
	prices       PriceSource
	workers      int
	log          zerolog.Logger
}

// NewPositionService creates a new PositionService.
// workers bounds the goroutines used to summarize positions.
func NewPositionService(
	accounts AccountFinder,
	positions PositionStore,
	trades TradeSource,
	transactions TransactionSource,
	prices PriceSource,
	workers int,
	log zerolog.Logger,
) *PositionService {
	return &PositionService{
		accounts:     accounts,
		positions:    positions,
		trades:       trades,
		transactions: transactions,
		prices:       prices,
		workers:      workers,
		log:          log.With().Str("service", "positions").Logger(),
	}
}

// GetPositionsReport summarizes the positions of an account (or all accounts
// when accountName is empty) and rolls them up per currency.
//
// Returns apperrors.ErrAccountNotFound for an unknown account name. Positions
// whose trades cannot be matched are listed in the report's Errors and left
// out of the summaries and totals.
func (s *PositionService) GetPositionsReport(ctx context.Context, accountName string, filter model.PositionFilter) (model.PositionsReport, error) {
	inputs, err := s.loadInputs(ctx, accountName)
	if err != nil {
		return model.PositionsReport{}, err
	}

	res := pnl.Aggregate(inputs, filter, s.workers)
	for _, pe := range res.Errors {
		s.log.Warn().
			Str("position_id", pe.PositionID).
			Str("trade_id", pe.TradeID).
			Msg(pe.Error)
	}

	report := model.PositionsReport{
		Positions: res.Summaries,
		Totals:    pnl.Totals(res.Summaries),
		Errors:    res.Errors,
	}
	if report.Positions == nil {
		report.Positions = []model.PositionSummary{}
	}
	if report.Totals == nil {
		report.Totals = []model.CurrencyTotal{}
	}
	if report.Errors == nil {
		report.Errors = []model.PositionError{}
	}
	return report, nil
}

// GetPositionsSummary returns the filtered position summaries sorted by opening date.
func (s *PositionService) GetPositionsSummary(ctx context.Context, accountName string, filter model.PositionFilter) ([]model.PositionSummary, error) {
	report, err := s.GetPositionsReport(ctx, accountName, filter)
	if err != nil {
		return nil, err
	}
	return report.Positions, nil
}

// GetPositionsTotals returns invested capital and PnL per instrument currency
// for the same selection as GetPositionsSummary.
func (s *PositionService) GetPositionsTotals(ctx context.Context, accountName string, filter model.PositionFilter) ([]model.CurrencyTotal, error) {
	report, err := s.GetPositionsReport(ctx, accountName, filter)
	if err != nil {
		return nil, err
	}
	return report.Totals, nil
}

// GetPositionSummary summarizes a single position.
// Returns apperrors.ErrPositionNotFound for an unknown ID and an error
// wrapping apperrors.ErrMalformedInput when its trades cannot be matched.
func (s *PositionService) GetPositionSummary(ctx context.Context, positionID string) (model.PositionSummary, error) {
	position, err := s.positions.GetPositionOnID(ctx, positionID)
	if err != nil {
		return model.PositionSummary{}, err
	}

	inputs, err := s.join(ctx, []model.Position{position})
	if err != nil {
		return model.PositionSummary{}, err
	}
	return pnl.Summarize(inputs[0])
}

// ReconcilePositionStatus recomputes every position and stores its closed
// flag and closing date where the stored values are stale.
// Returns the number of positions updated.
func (s *PositionService) ReconcilePositionStatus(ctx context.Context) (int, error) {
	inputs, err := s.loadInputs(ctx, "")
	if err != nil {
		return 0, err
	}

	stored := make(map[string]model.Position, len(inputs))
	for _, in := range inputs {
		stored[in.Position.ID] = in.Position
	}

	res := pnl.Aggregate(inputs, model.PositionFilter{IncludeOpen: true, IncludeClosed: true}, s.workers)

	updated := 0
	for _, summary := range res.Summaries {
		p := stored[summary.PositionID]
		if p.Closed == summary.IsClosed() && sameTime(p.ClosingDate, summary.ClosingDate) {
			continue
		}
		if err := s.positions.UpdatePositionStatus(ctx, p.ID, summary.IsClosed(), summary.ClosingDate); err != nil {
			return updated, fmt.Errorf("failed to reconcile position %s: %w", p.ID, err)
		}
		updated++
	}

	for _, pe := range res.Errors {
		s.log.Warn().Str("position_id", pe.PositionID).Msg("skipped reconciling malformed position")
	}
	return updated, nil
}

// loadInputs resolves the account and loads every position with its data.
func (s *PositionService) loadInputs(ctx context.Context, accountName string) ([]pnl.PositionInput, error) {
	id, err := accountID(ctx, s.accounts, accountName)
	if err != nil {
		return nil, err
	}

	positions, err := s.positions.GetPositions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePositions, err)
	}
	return s.join(ctx, positions)
}

// join fetches trades, transactions and latest prices for positions
// concurrently and pairs them per position.
func (s *PositionService) join(ctx context.Context, positions []model.Position) ([]pnl.PositionInput, error) {
	if len(positions) == 0 {
		return nil, nil
	}

	positionIDs := make([]string, 0, len(positions))
	instrumentIDs := make([]string, 0, len(positions))
	seen := make(map[string]bool, len(positions))
	for _, p := range positions {
		positionIDs = append(positionIDs, p.ID)
		if !seen[p.InstrumentID] {
			seen[p.InstrumentID] = true
			instrumentIDs = append(instrumentIDs, p.InstrumentID)
		}
	}

	var (
		trades       []model.Trade
		transactions []model.Transaction
		prices       map[string]model.LatestPrice
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if trades, err = s.trades.GetTradesForPositions(gctx, positionIDs); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTrades, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if transactions, err = s.transactions.GetTransactionsForPositions(gctx, positionIDs); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if prices, err = s.prices.GetLatestPrices(gctx, instrumentIDs); err != nil {
			return fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrievePrices, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return pnl.Join(positions, trades, transactions, prices), nil
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
