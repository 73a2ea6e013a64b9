package repository_test

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

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)

	id := testutil.MakeID()
	testutil.NewAccount().WithID(id).WithName("Broker").Build(t, db)

	got, err := repo.GetAccountByName(ctx, "Broker")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)

	_, err = repo.GetAccountByName(ctx, "broker")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound, "names are case sensitive")

	_, err = repo.GetAccountOnID(ctx, testutil.MakeID())
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestInstrumentRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewInstrumentRepository(db)

	apple := testutil.NewInstrument().
		WithISIN("US0378331005").
		WithTicker("AAPL").
		WithName("Apple Inc.").
		WithCurrency("USD").
		Build(t, db)
	testutil.NewInstrument().WithTicker("").Build(t, db)

	got, err := repo.GetInstrumentByTicker(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, apple.ID, got.ID)
	assert.Equal(t, "Apple Inc.", got.Name)
	assert.Equal(t, "USD", got.Currency)

	_, err = repo.GetInstrumentByTicker(ctx, "MSFT")
	assert.ErrorIs(t, err, apperrors.ErrInstrumentNotFound)

	withTicker, err := repo.GetInstrumentsWithTicker(ctx)
	require.NoError(t, err)
	require.Len(t, withTicker, 1)
	assert.Equal(t, "US0378331005", withTicker[0].ISIN)

	all, err := repo.GetInstruments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// TestPositionRepository tests position lookup and status persistence.
//
// WHY: A position is unique per account and instrument. Recording a second
// trade must reuse it, and the derived closing date must survive a round trip.
func TestPositionRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("GetOrCreatePosition is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)
		account := testutil.CreateAccount(t, db, "Broker")
		instrument := testutil.CreateInstrument(t, db, "EUR")

		first, err := repo.GetOrCreatePosition(ctx, account.ID, instrument.ID)
		require.NoError(t, err)
		second, err := repo.GetOrCreatePosition(ctx, account.ID, instrument.ID)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.False(t, first.Closed)
		assert.Equal(t, instrument.ISIN, first.Instrument.ISIN)
		testutil.AssertRowCount(t, db, "position", 1)
	})

	t.Run("status round trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)
		account := testutil.CreateAccount(t, db, "Broker")
		position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)

		closedOn := date(2024, 3, 1)
		require.NoError(t, repo.UpdatePositionStatus(ctx, position.ID, true, &closedOn))

		got, err := repo.GetPositionOnID(ctx, position.ID)
		require.NoError(t, err)
		assert.True(t, got.Closed)
		require.NotNil(t, got.ClosingDate)
		assert.True(t, closedOn.Equal(*got.ClosingDate))

		require.NoError(t, repo.UpdatePositionStatus(ctx, position.ID, false, nil))
		got, err = repo.GetPositionOnID(ctx, position.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ClosingDate)
	})

	t.Run("unknown position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)

		err := repo.UpdatePositionStatus(ctx, testutil.MakeID(), true, nil)
		assert.ErrorIs(t, err, apperrors.ErrPositionNotFound)
	})

	t.Run("filters by account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPositionRepository(db)
		a := testutil.CreateAccount(t, db, "A")
		b := testutil.CreateAccount(t, db, "B")
		testutil.CreatePosition(t, db, a.ID, testutil.CreateInstrument(t, db, "EUR").ID)
		testutil.CreatePosition(t, db, b.ID, testutil.CreateInstrument(t, db, "USD").ID)

		all, err := repo.GetPositions(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		onlyA, err := repo.GetPositions(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, onlyA, 1)
		assert.Equal(t, a.ID, onlyA[0].AccountID)
	})
}

// TestTradeRepository_GetTradesForPositions tests the order trades are replayed in.
//
// WHY: FIFO matching depends on it. Trades on the same date must come back
// in insertion order, even when inserted after a later-dated trade.
func TestTradeRepository_GetTradesForPositions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewTradeRepository(db)
	account := testutil.CreateAccount(t, db, "Broker")
	position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)

	late := testutil.NewTrade(position.ID).WithDate(date(2024, 2, 1)).Sell(5).Build(t, db)
	first := testutil.NewTrade(position.ID).WithDate(date(2024, 1, 1)).Buy(3).WithPrice("10.123456").Build(t, db)
	second := testutil.NewTrade(position.ID).WithDate(date(2024, 1, 1)).Buy(2).Build(t, db)

	trades, err := repo.GetTradesForPositions(ctx, []string{position.ID})
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, []string{first.ID, second.ID, late.ID}, []string{trades[0].ID, trades[1].ID, trades[2].ID})
	assert.Equal(t, "10.123456", trades[0].Price.String())
	assert.Equal(t, model.TradeSell, trades[2].Type)

	empty, err := repo.GetTradesForPositions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCashTransactionRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewCashTransactionRepository(db)
	account := testutil.CreateAccount(t, db, "Broker")
	position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)

	testutil.NewCashTransaction(account.ID, position.ID).WithAmount("4.5").Build(t, db)
	testutil.NewCashTransaction(account.ID, "").WithType(model.TransactionFee).Build(t, db)

	forPosition, err := repo.GetTransactionsForPositions(ctx, []string{position.ID})
	require.NoError(t, err)
	require.Len(t, forPosition, 1)
	assert.True(t, decimal.RequireFromString("4.5").Equal(forPosition[0].Amount))

	all, err := repo.GetTransactions(ctx, account.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2, "account listing includes transactions without a position")
}

// TestPriceRepository tests price ingestion and latest price lookup.
//
// WHY: Refreshes overlap the days already stored. Duplicates must be skipped
// without an error, and the latest price must be the newest date.
func TestPriceRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	repo := repository.NewPriceRepository(db)
	withPrices := testutil.CreateInstrument(t, db, "EUR")
	withoutPrices := testutil.CreateInstrument(t, db, "USD")

	prices := []model.Price{
		{InstrumentID: withPrices.ID, Date: date(2024, 1, 2), Price: decimal.RequireFromString("10")},
		{InstrumentID: withPrices.ID, Date: date(2024, 1, 3), Price: decimal.RequireFromString("11.5")},
	}
	added, err := repo.InsertPrices(ctx, prices)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = repo.InsertPrices(ctx, append(prices, model.Price{
		InstrumentID: withPrices.ID, Date: date(2024, 1, 4), Price: decimal.RequireFromString("12"),
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, added, "existing dates are skipped")

	latest, err := repo.GetLatestPrices(ctx, []string{withPrices.ID, withoutPrices.ID})
	require.NoError(t, err)
	require.Contains(t, latest, withPrices.ID)
	assert.NotContains(t, latest, withoutPrices.ID)
	assert.Equal(t, "12", latest[withPrices.ID].Price.String())
	assert.True(t, date(2024, 1, 4).Equal(latest[withPrices.ID].Date))
}
