package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
)

// InstrumentRepository provides data access methods for the instrument table.
type InstrumentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInstrumentRepository creates a new InstrumentRepository with the provided database connection.
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *InstrumentRepository) WithTx(tx *sql.Tx) *InstrumentRepository {
	return &InstrumentRepository{db: r.db, tx: tx}
}

func (r *InstrumentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const instrumentColumns = `id, isin, ticker, name, name_long, category, description, currency`

// GetInstruments retrieves all instruments ordered by name.
func (r *InstrumentRepository) GetInstruments(ctx context.Context) ([]model.Instrument, error) {
	return r.queryInstruments(ctx, `SELECT `+instrumentColumns+` FROM instrument ORDER BY name ASC`)
}

// GetInstrumentsWithTicker retrieves the instruments that have a market data ticker.
func (r *InstrumentRepository) GetInstrumentsWithTicker(ctx context.Context) ([]model.Instrument, error) {
	return r.queryInstruments(ctx, `
		SELECT `+instrumentColumns+`
		FROM instrument
		WHERE ticker IS NOT NULL AND ticker != ''
		ORDER BY name ASC
	`)
}

// GetInstrumentOnID retrieves a single instrument by ID.
// Returns apperrors.ErrInstrumentNotFound if it does not exist.
func (r *InstrumentRepository) GetInstrumentOnID(ctx context.Context, instrumentID string) (model.Instrument, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT `+instrumentColumns+` FROM instrument WHERE id = ?`, instrumentID)
	return scanInstrumentRow(row)
}

// GetInstrumentByTicker retrieves a single instrument by its ticker.
// Returns apperrors.ErrInstrumentNotFound if it does not exist.
func (r *InstrumentRepository) GetInstrumentByTicker(ctx context.Context, ticker string) (model.Instrument, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT `+instrumentColumns+` FROM instrument WHERE ticker = ? LIMIT 1`, ticker)
	return scanInstrumentRow(row)
}

// InsertInstrument stores a new instrument.
func (r *InstrumentRepository) InsertInstrument(ctx context.Context, i *model.Instrument) error {
	query := `
		INSERT INTO instrument (` + instrumentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		i.ID,
		i.ISIN,
		nullString(i.Ticker),
		i.Name,
		nullString(i.NameLong),
		nullString(i.Category),
		nullString(i.Description),
		i.Currency,
	)
	if err != nil {
		return fmt.Errorf("failed to insert instrument: %w", err)
	}
	return nil
}

func (r *InstrumentRepository) queryInstruments(ctx context.Context, query string, args ...any) ([]model.Instrument, error) {
	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query instrument table: %w", err)
	}
	defer rows.Close()

	instruments := []model.Instrument{}
	for rows.Next() {
		i, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument table results: %w", err)
		}
		instruments = append(instruments, i)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument table: %w", err)
	}

	return instruments, nil
}

func scanInstrument(row rowScanner) (model.Instrument, error) {
	var i model.Instrument
	var ticker, nameLong, category, description sql.NullString
	err := row.Scan(
		&i.ID,
		&i.ISIN,
		&ticker,
		&i.Name,
		&nameLong,
		&category,
		&description,
		&i.Currency,
	)
	if err != nil {
		return model.Instrument{}, err
	}
	i.Ticker = ticker.String
	i.NameLong = nameLong.String
	i.Category = category.String
	i.Description = description.String
	return i, nil
}

func scanInstrumentRow(row *sql.Row) (model.Instrument, error) {
	i, err := scanInstrument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, apperrors.ErrInstrumentNotFound
	}
	if err != nil {
		return model.Instrument{}, fmt.Errorf("failed to query instrument: %w", err)
	}
	return i, nil
}
