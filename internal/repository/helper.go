package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// microUnits is the number of decimal places kept for monetary columns.
// Amounts are stored as integers scaled by 1,000,000.
const microUnits = 6

// dbTimeFormat is the storage format for every DATETIME column.
// All values are UTC, so lexical order equals chronological order.
const dbTimeFormat = "2006-01-02T15:04:05Z"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// SQLite's CURRENT_TIMESTAMP format "2006-01-02 15:04:05" is accepted as well.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly, time.DateTime} {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// FormatTime converts t to the storage format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(dbTimeFormat)
}

// ToMicros converts a decimal amount to its stored integer representation.
func ToMicros(d decimal.Decimal) int64 {
	return d.Shift(microUnits).Round(0).IntPart()
}

// FromMicros converts a stored integer amount back to a decimal.
func FromMicros(v int64) decimal.Decimal {
	return decimal.New(v, -microUnits)
}

// inClause returns "?,?,?" for n placeholders and the ids as query args.
func inClause(ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return strings.Join(placeholders, ","), args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
