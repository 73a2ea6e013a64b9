package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/repository"
	"github.com/pip-tracker/pip-backend/internal/testutil"
)

var allPositions = model.PositionFilter{IncludeOpen: true, IncludeClosed: true}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

// TestPositionService_GetPositionsReport tests summaries and totals computed from stored data.
//
// WHY: The report is the main read path. It has to join trades, cash
// transactions and latest prices per position and roll the results up per
// currency exactly as the engine would on in-memory data.
func TestPositionService_GetPositionsReport(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slices when no positions exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		report, err := svc.GetPositionsReport(ctx, "", allPositions)
		require.NoError(t, err)

		assert.NotNil(t, report.Positions)
		assert.Empty(t, report.Positions)
		assert.NotNil(t, report.Totals)
		assert.Empty(t, report.Errors)
	})

	t.Run("summarizes a partially sold position with price and dividend", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")
		instrument := testutil.CreateInstrument(t, db, "EUR")
		position := testutil.CreatePosition(t, db, account.ID, instrument.ID)

		testutil.NewTrade(position.ID).WithDate(day(1)).Buy(10).WithPrice("100").Build(t, db)
		testutil.NewTrade(position.ID).WithDate(day(2)).Buy(5).WithPrice("120").Build(t, db)
		testutil.NewTrade(position.ID).WithDate(day(3)).Sell(12).WithPrice("130").Build(t, db)
		testutil.NewCashTransaction(account.ID, position.ID).WithAmount("15").Build(t, db)
		testutil.NewCashTransaction(account.ID, position.ID).WithType(model.TransactionTax).WithAmount("5").Build(t, db)
		testutil.CreatePrice(t, db, instrument.ID, day(4), "140")

		report, err := svc.GetPositionsReport(ctx, "Broker", allPositions)
		require.NoError(t, err)
		require.Len(t, report.Positions, 1)

		s := report.Positions[0]
		assert.Equal(t, position.ID, s.PositionID)
		assert.Equal(t, int64(3), s.RemainingQuantity)
		assertDecimal(t, "1600", s.TotalInvested, "total invested")
		assertDecimal(t, "320", s.RealizedPnL, "realized")
		assertDecimal(t, "360", s.RemainingCostBasis, "remaining cost basis")
		assertDecimal(t, "60", s.UnrealizedPnL, "unrealized")
		assertDecimal(t, "10", s.TransactionsNet, "transactions net")
		assertDecimal(t, "390", s.PnL, "pnl")
		assert.True(t, s.Priced)
		assert.Equal(t, "3", s.Status)
		assert.Equal(t, "€", s.InstrumentSymbol)
		require.NotNil(t, s.OpeningDate)
		assert.True(t, s.OpeningDate.Equal(day(1)))
		assert.Nil(t, s.ClosingDate)

		require.Len(t, report.Totals, 1)
		assert.Equal(t, "EUR", report.Totals[0].Currency)
		assertDecimal(t, "1600", report.Totals[0].TotalInvested, "totals invested")
		assertDecimal(t, "390", report.Totals[0].TotalPnL, "totals pnl")
	})

	t.Run("filters on account and status", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		broker := testutil.CreateAccount(t, db, "Broker")
		other := testutil.CreateAccount(t, db, "Other")
		eur := testutil.CreateInstrument(t, db, "EUR")
		usd := testutil.CreateInstrument(t, db, "USD")

		open := testutil.CreatePosition(t, db, broker.ID, eur.ID)
		testutil.NewTrade(open.ID).WithDate(day(2)).Buy(10).Build(t, db)

		closed := testutil.CreatePosition(t, db, broker.ID, usd.ID)
		testutil.NewTrade(closed.ID).WithDate(day(1)).Buy(4).Build(t, db)
		testutil.NewTrade(closed.ID).WithDate(day(5)).Sell(4).WithPrice("110").Build(t, db)

		foreign := testutil.CreatePosition(t, db, other.ID, eur.ID)
		testutil.NewTrade(foreign.ID).WithDate(day(1)).Buy(1).Build(t, db)

		report, err := svc.GetPositionsReport(ctx, "Broker", allPositions)
		require.NoError(t, err)
		require.Len(t, report.Positions, 2)
		// sorted by opening date
		assert.Equal(t, closed.ID, report.Positions[0].PositionID)
		assert.Equal(t, open.ID, report.Positions[1].PositionID)
		require.Len(t, report.Totals, 2)

		openOnly, err := svc.GetPositionsSummary(ctx, "Broker", model.PositionFilter{IncludeOpen: true})
		require.NoError(t, err)
		require.Len(t, openOnly, 1)
		assert.Equal(t, open.ID, openOnly[0].PositionID)

		closedOnly, err := svc.GetPositionsSummary(ctx, "Broker", model.PositionFilter{IncludeClosed: true})
		require.NoError(t, err)
		require.Len(t, closedOnly, 1)
		assert.Equal(t, "Closed on 2024-01-05", closedOnly[0].Status)

		everything, err := svc.GetPositionsSummary(ctx, "", allPositions)
		require.NoError(t, err)
		assert.Len(t, everything, 3)
	})

	t.Run("reports malformed positions without failing the others", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")
		good := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)
		testutil.NewTrade(good.ID).WithDate(day(1)).Buy(10).Build(t, db)

		bad := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)
		testutil.NewTrade(bad.ID).WithDate(day(1)).Buy(2).Build(t, db)
		sell := testutil.NewTrade(bad.ID).WithDate(day(2)).Sell(3).Build(t, db)

		report, err := svc.GetPositionsReport(ctx, "", allPositions)
		require.NoError(t, err)

		require.Len(t, report.Positions, 1)
		assert.Equal(t, good.ID, report.Positions[0].PositionID)
		require.Len(t, report.Errors, 1)
		assert.Equal(t, bad.ID, report.Errors[0].PositionID)
		assert.Equal(t, sell.ID, report.Errors[0].TradeID)
		require.Len(t, report.Totals, 1)
		assertDecimal(t, "1000", report.Totals[0].TotalInvested, "totals exclude malformed")
	})

	t.Run("unpriced positions have zero unrealized pnl", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")
		position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "GBP").ID)
		testutil.NewTrade(position.ID).Buy(10).Build(t, db)

		summaries, err := svc.GetPositionsSummary(ctx, "", allPositions)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.False(t, summaries[0].Priced)
		assert.True(t, summaries[0].UnrealizedPnL.IsZero())
		assert.Nil(t, summaries[0].LatestPriceDate)
	})

	t.Run("unknown account returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		_, err := svc.GetPositionsReport(ctx, "Nope", allPositions)
		assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
	})

	t.Run("closed database returns an error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)
		db.Close()

		_, err := svc.GetPositionsReport(ctx, "", allPositions)
		assert.ErrorIs(t, err, apperrors.ErrFailedToRetrievePositions)
	})
}

// TestPositionService_GetPositionSummary tests single position lookup.
//
// WHY: The detail endpoint must surface matching failures as errors instead
// of an empty summary, and unknown IDs as not found.
func TestPositionService_GetPositionSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("summarizes one position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")
		position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)
		testutil.NewTrade(position.ID).Buy(7).Build(t, db)

		s, err := svc.GetPositionSummary(ctx, position.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), s.RemainingQuantity)
	})

	t.Run("unknown position returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		_, err := svc.GetPositionSummary(ctx, testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrPositionNotFound)
	})

	t.Run("oversold position returns malformed input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")
		position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)
		testutil.NewTrade(position.ID).Sell(1).Build(t, db)

		_, err := svc.GetPositionSummary(ctx, position.ID)
		assert.ErrorIs(t, err, apperrors.ErrMalformedInput)
	})
}

// TestPositionService_ReconcilePositionStatus tests that stored closed flags follow the trades.
//
// WHY: Trades inserted outside the trade service (imports, seeds) leave the
// stored status stale. Reconciliation must fix it and be a no-op afterwards.
func TestPositionService_ReconcilePositionStatus(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPositionService(t, db)

	account := testutil.CreateAccount(t, db, "Broker")
	position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)
	testutil.NewTrade(position.ID).WithDate(day(1)).Buy(3).Build(t, db)
	testutil.NewTrade(position.ID).WithDate(day(9)).Sell(3).Build(t, db)

	updated, err := svc.ReconcilePositionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	stored, err := repository.NewPositionRepository(db).GetPositionOnID(ctx, position.ID)
	require.NoError(t, err)
	assert.True(t, stored.Closed)
	require.NotNil(t, stored.ClosingDate)
	assert.True(t, stored.ClosingDate.Equal(day(9)))

	updated, err = svc.ReconcilePositionStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}
