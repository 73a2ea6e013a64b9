package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pip-tracker/pip-backend/internal/model"
)

// TradeRepository provides data access methods for the trade table.
type TradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *TradeRepository) WithTx(tx *sql.Tx) *TradeRepository {
	return &TradeRepository{db: r.db, tx: tx}
}

func (r *TradeRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetTradesForPositions retrieves the trades of the given positions.
// Trades are sorted by date and, within a date, by insertion order so that
// the FIFO tie-break is stable across calls. If positionIDs is empty, returns
// an empty slice.
func (r *TradeRepository) GetTradesForPositions(ctx context.Context, positionIDs []string) ([]model.Trade, error) {
	if len(positionIDs) == 0 {
		return []model.Trade{}, nil
	}

	placeholders, args := inClause(positionIDs)
	query := `
		SELECT id, position_id, date, type, quantity, price, description, created_at
		FROM trade
		WHERE position_id IN (` + placeholders + `)
		ORDER BY date ASC, rowid ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}

	return trades, nil
}

// GetTrades retrieves trades with their account and instrument, newest first.
// An empty accountID returns the trades of every account.
func (r *TradeRepository) GetTrades(ctx context.Context, accountID string) ([]model.TradeResponse, error) {
	query := `
		SELECT t.id, t.position_id, t.date, t.type, t.quantity, t.price, t.description, t.created_at,
		       a.id, a.name, i.id, i.name, i.currency
		FROM trade t
		JOIN position p ON p.id = t.position_id
		JOIN account a ON a.id = p.account_id
		JOIN instrument i ON i.id = p.instrument_id
	`
	var args []any
	if accountID != "" {
		query += ` WHERE a.id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY t.date DESC, t.rowid DESC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.TradeResponse{}
	for rows.Next() {
		var tr model.TradeResponse
		var dateStr, createdAtStr string
		var price int64
		var description sql.NullString

		err := rows.Scan(
			&tr.ID,
			&tr.PositionID,
			&dateStr,
			&tr.Type,
			&tr.Quantity,
			&price,
			&description,
			&createdAtStr,
			&tr.AccountID,
			&tr.AccountName,
			&tr.InstrumentID,
			&tr.InstrumentName,
			&tr.Currency,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade table results: %w", err)
		}
		if err := fillTrade(&tr.Trade, dateStr, createdAtStr, price, description); err != nil {
			return nil, err
		}
		trades = append(trades, tr)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}

	return trades, nil
}

// InsertTrade stores a new trade. CreatedAt is set to the current time when zero.
func (r *TradeRepository) InsertTrade(ctx context.Context, t *model.Trade) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO trade (id, position_id, date, type, quantity, price, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.PositionID,
		FormatTime(t.Date),
		t.Type,
		t.Quantity,
		ToMicros(t.Price),
		nullString(t.Description),
		FormatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

func scanTrade(row rowScanner) (model.Trade, error) {
	var t model.Trade
	var dateStr, createdAtStr string
	var price int64
	var description sql.NullString

	err := row.Scan(
		&t.ID,
		&t.PositionID,
		&dateStr,
		&t.Type,
		&t.Quantity,
		&price,
		&description,
		&createdAtStr,
	)
	if err != nil {
		return model.Trade{}, fmt.Errorf("failed to scan trade table results: %w", err)
	}

	if err := fillTrade(&t, dateStr, createdAtStr, price, description); err != nil {
		return model.Trade{}, err
	}
	return t, nil
}

func fillTrade(t *model.Trade, dateStr, createdAtStr string, price int64, description sql.NullString) error {
	var err error
	if t.Date, err = ParseTime(dateStr); err != nil {
		return fmt.Errorf("failed to parse trade date: %w", err)
	}
	if t.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return fmt.Errorf("failed to parse trade created_at: %w", err)
	}
	t.Price = FromMicros(price)
	t.Description = description.String
	return nil
}
