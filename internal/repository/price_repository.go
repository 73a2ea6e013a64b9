package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pip-tracker/pip-backend/internal/model"
)

// PriceRepository provides data access methods for the price table.
type PriceRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *PriceRepository) WithTx(tx *sql.Tx) *PriceRepository {
	return &PriceRepository{db: r.db, tx: tx}
}

func (r *PriceRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetLatestPrices returns the most recent price of each given instrument.
// Instruments without any price are absent from the map.
func (r *PriceRepository) GetLatestPrices(ctx context.Context, instrumentIDs []string) (map[string]model.LatestPrice, error) {
	latest := make(map[string]model.LatestPrice, len(instrumentIDs))
	if len(instrumentIDs) == 0 {
		return latest, nil
	}

	placeholders, args := inClause(instrumentIDs)
	query := `
		SELECT p.instrument_id, p.price, p.date
		FROM price p
		JOIN (
			SELECT instrument_id, MAX(date) AS max_date
			FROM price
			WHERE instrument_id IN (` + placeholders + `)
			GROUP BY instrument_id
		) m ON m.instrument_id = p.instrument_id AND m.max_date = p.date
		ORDER BY p.rowid ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var lp model.LatestPrice
		var price int64
		var dateStr string

		if err := rows.Scan(&lp.InstrumentID, &price, &dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan price table results: %w", err)
		}
		if lp.Date, err = ParseTime(dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse price date: %w", err)
		}
		lp.Price = FromMicros(price)
		latest[lp.InstrumentID] = lp
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price table: %w", err)
	}

	return latest, nil
}

// InsertPrices stores prices, skipping any instrument/date/granularity that
// already exists. Returns the number of rows actually inserted.
func (r *PriceRepository) InsertPrices(ctx context.Context, prices []model.Price) (int, error) {
	query := `
		INSERT INTO price (id, instrument_id, date, price, granularity)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (instrument_id, date, granularity) DO NOTHING
	`

	inserted := 0
	for _, p := range prices {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		if p.Granularity == "" {
			p.Granularity = model.GranularityDaily
		}

		result, err := r.getQuerier().ExecContext(ctx, query,
			p.ID,
			p.InstrumentID,
			FormatTime(p.Date),
			ToMicros(p.Price),
			p.Granularity,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert price: %w", err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += int(n)
	}

	return inserted, nil
}
