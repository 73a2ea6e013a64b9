package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
)

// PositionRepository provides data access methods for the position table.
// Positions are always returned together with their instrument.
type PositionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *PositionRepository) WithTx(tx *sql.Tx) *PositionRepository {
	return &PositionRepository{db: r.db, tx: tx}
}

func (r *PositionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const positionSelect = `
	SELECT p.id, p.account_id, p.instrument_id, p.closed, p.closing_date,
	       i.id, i.isin, i.ticker, i.name, i.name_long, i.category, i.description, i.currency
	FROM position p
	JOIN instrument i ON i.id = p.instrument_id
`

// GetPositions retrieves all positions, optionally restricted to one account.
// An empty accountID returns the positions of every account.
func (r *PositionRepository) GetPositions(ctx context.Context, accountID string) ([]model.Position, error) {
	query := positionSelect
	var args []any
	if accountID != "" {
		query += ` WHERE p.account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY p.rowid ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}
		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// GetPositionOnID retrieves a single position by ID.
// Returns apperrors.ErrPositionNotFound if it does not exist.
func (r *PositionRepository) GetPositionOnID(ctx context.Context, positionID string) (model.Position, error) {
	row := r.getQuerier().QueryRowContext(ctx, positionSelect+` WHERE p.id = ?`, positionID)
	return scanPositionRow(row)
}

// GetPositionFor retrieves the position of an instrument within an account.
// Returns apperrors.ErrPositionNotFound if it does not exist.
func (r *PositionRepository) GetPositionFor(ctx context.Context, accountID, instrumentID string) (model.Position, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		positionSelect+` WHERE p.account_id = ? AND p.instrument_id = ?`, accountID, instrumentID)
	return scanPositionRow(row)
}

// GetOrCreatePosition returns the position of an instrument within an account,
// creating an open position when none exists yet.
func (r *PositionRepository) GetOrCreatePosition(ctx context.Context, accountID, instrumentID string) (model.Position, error) {
	p, err := r.GetPositionFor(ctx, accountID, instrumentID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, apperrors.ErrPositionNotFound) {
		return model.Position{}, err
	}

	query := `
		INSERT INTO position (id, account_id, instrument_id, closed)
		VALUES (?, ?, ?, FALSE)
	`
	if _, err := r.getQuerier().ExecContext(ctx, query, uuid.New().String(), accountID, instrumentID); err != nil {
		return model.Position{}, fmt.Errorf("failed to insert position: %w", err)
	}

	return r.GetPositionFor(ctx, accountID, instrumentID)
}

// UpdatePositionStatus stores the derived closed flag and closing date of a position.
func (r *PositionRepository) UpdatePositionStatus(ctx context.Context, positionID string, closed bool, closingDate *time.Time) error {
	query := `UPDATE position SET closed = ?, closing_date = ? WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, closed, nullTime(closingDate), positionID)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.ErrPositionNotFound
	}

	return nil
}

func scanPosition(row rowScanner) (model.Position, error) {
	var p model.Position
	var closingDate sql.NullString
	var ticker, nameLong, category, description sql.NullString

	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.InstrumentID,
		&p.Closed,
		&closingDate,
		&p.Instrument.ID,
		&p.Instrument.ISIN,
		&ticker,
		&p.Instrument.Name,
		&nameLong,
		&category,
		&description,
		&p.Instrument.Currency,
	)
	if err != nil {
		return model.Position{}, err
	}

	p.Instrument.Ticker = ticker.String
	p.Instrument.NameLong = nameLong.String
	p.Instrument.Category = category.String
	p.Instrument.Description = description.String

	if p.ClosingDate, err = parseNullTime(closingDate); err != nil {
		return model.Position{}, err
	}
	return p, nil
}

func scanPositionRow(row *sql.Row) (model.Position, error) {
	p, err := scanPosition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to query position: %w", err)
	}
	return p, nil
}
