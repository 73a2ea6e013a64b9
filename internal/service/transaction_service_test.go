package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/testutil"
)

// TestTransactionService_CreateTransaction tests cash transaction recording.
//
// WHY: Cash transactions feed the transactions net of a position. One booked
// against a position of another account would silently inflate the wrong PnL.
func TestTransactionService_CreateTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("records a dividend on a position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")
		position := testutil.CreatePosition(t, db, account.ID, testutil.CreateInstrument(t, db, "EUR").ID)

		tx, err := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			AccountID:  account.ID,
			PositionID: position.ID,
			Date:       "2024-03-01",
			Type:       "dividend",
			Amount:     decimal.RequireFromString("12.34"),
		})
		require.NoError(t, err)
		assert.Equal(t, model.TransactionDividend, tx.Type)

		listed, err := svc.GetTransactions(ctx, "Broker")
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.True(t, listed[0].Amount.Equal(decimal.RequireFromString("12.34")))
		assert.Equal(t, position.ID, listed[0].PositionID)
	})

	t.Run("records an account level fee", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")

		tx, err := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			AccountID: account.ID,
			Date:      "2024-03-01",
			Type:      "fee",
			Amount:    decimal.NewFromInt(3),
		})
		require.NoError(t, err)
		assert.Empty(t, tx.PositionID)
	})

	t.Run("position of another account is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		broker := testutil.CreateAccount(t, db, "Broker")
		other := testutil.CreateAccount(t, db, "Other")
		position := testutil.CreatePosition(t, db, other.ID, testutil.CreateInstrument(t, db, "EUR").ID)

		_, err := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			AccountID:  broker.ID,
			PositionID: position.ID,
			Date:       "2024-03-01",
			Type:       "tax",
			Amount:     decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, apperrors.ErrDataInconsistency)
		testutil.AssertRowCount(t, db, "cash_transaction", 0)
	})

	t.Run("unknown position returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestTransactionService(t, db)

		account := testutil.CreateAccount(t, db, "Broker")
		_, err := svc.CreateTransaction(ctx, request.CreateTransactionRequest{
			AccountID:  account.ID,
			PositionID: testutil.MakeID(),
			Date:       "2024-03-01",
			Type:       "tax",
			Amount:     decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, apperrors.ErrPositionNotFound)
	})
}
