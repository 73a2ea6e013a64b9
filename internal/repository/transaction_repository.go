package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pip-tracker/pip-backend/internal/model"
)

// CashTransactionRepository provides data access methods for the
// cash_transaction table (dividends, taxes and fees).
type CashTransactionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCashTransactionRepository creates a new CashTransactionRepository with the provided database connection.
func NewCashTransactionRepository(db *sql.DB) *CashTransactionRepository {
	return &CashTransactionRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *CashTransactionRepository) WithTx(tx *sql.Tx) *CashTransactionRepository {
	return &CashTransactionRepository{db: r.db, tx: tx}
}

func (r *CashTransactionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const transactionColumns = `id, account_id, position_id, date, type, amount, description`

// GetTransactionsForPositions retrieves the cash transactions of the given
// positions sorted by date. If positionIDs is empty, returns an empty slice.
func (r *CashTransactionRepository) GetTransactionsForPositions(ctx context.Context, positionIDs []string) ([]model.Transaction, error) {
	if len(positionIDs) == 0 {
		return []model.Transaction{}, nil
	}

	placeholders, args := inClause(positionIDs)
	query := `
		SELECT ` + transactionColumns + `
		FROM cash_transaction
		WHERE position_id IN (` + placeholders + `)
		ORDER BY date ASC, rowid ASC
	`
	return r.queryTransactions(ctx, query, args...)
}

// GetTransactions retrieves cash transactions newest first, optionally
// restricted to one account. Transactions without a position are included.
func (r *CashTransactionRepository) GetTransactions(ctx context.Context, accountID string) ([]model.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM cash_transaction`
	var args []any
	if accountID != "" {
		query += ` WHERE account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY date DESC, rowid DESC`
	return r.queryTransactions(ctx, query, args...)
}

// InsertTransaction stores a new cash transaction.
func (r *CashTransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO cash_transaction (` + transactionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.AccountID,
		nullString(t.PositionID),
		FormatTime(t.Date),
		t.Type,
		ToMicros(t.Amount),
		nullString(t.Description),
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash transaction: %w", err)
	}
	return nil
}

func (r *CashTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var positionID, description sql.NullString
		var dateStr string
		var amount int64

		err := rows.Scan(
			&t.ID,
			&t.AccountID,
			&positionID,
			&dateStr,
			&t.Type,
			&amount,
			&description,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash_transaction table results: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction date: %w", err)
		}
		t.PositionID = positionID.String
		t.Amount = FromMicros(amount)
		t.Description = description.String

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_transaction table: %w", err)
	}

	return transactions, nil
}
