package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
)

// AccountRepository provides data access methods for the account table.
type AccountRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewAccountRepository creates a new AccountRepository with the provided database connection.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx returns a copy of the repository that runs its statements inside tx.
func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{db: r.db, tx: tx}
}

func (r *AccountRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetAccounts retrieves all accounts ordered by name.
func (r *AccountRepository) GetAccounts(ctx context.Context) ([]model.Account, error) {
	query := `
		SELECT id, name, description
		FROM account
		ORDER BY name ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query account table: %w", err)
	}
	defer rows.Close()

	accounts := []model.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account table: %w", err)
	}

	return accounts, nil
}

// GetAccountOnID retrieves a single account by ID.
// Returns apperrors.ErrAccountNotFound if it does not exist.
func (r *AccountRepository) GetAccountOnID(ctx context.Context, accountID string) (model.Account, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, name, description FROM account WHERE id = ?`, accountID)
	return scanAccountRow(row)
}

// GetAccountByName retrieves a single account by its unique name.
// Returns apperrors.ErrAccountNotFound if it does not exist.
func (r *AccountRepository) GetAccountByName(ctx context.Context, name string) (model.Account, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT id, name, description FROM account WHERE name = ?`, name)
	return scanAccountRow(row)
}

// InsertAccount stores a new account.
func (r *AccountRepository) InsertAccount(ctx context.Context, a *model.Account) error {
	query := `
		INSERT INTO account (id, name, description)
		VALUES (?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query, a.ID, a.Name, nullString(a.Description))
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(rows rowScanner) (model.Account, error) {
	var a model.Account
	var description sql.NullString
	if err := rows.Scan(&a.ID, &a.Name, &description); err != nil {
		return model.Account{}, fmt.Errorf("failed to scan account table results: %w", err)
	}
	a.Description = description.String
	return a, nil
}

func scanAccountRow(row *sql.Row) (model.Account, error) {
	var a model.Account
	var description sql.NullString
	err := row.Scan(&a.ID, &a.Name, &description)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	a.Description = description.String
	return a, nil
}
