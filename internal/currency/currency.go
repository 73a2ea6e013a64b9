// Package currency resolves ISO 4217 currency metadata through go-money.
package currency

import (
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
)

// Normalize upper-cases and trims a currency code.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate returns apperrors.ErrInvalidCurrency for codes go-money does not know.
func Validate(code string) error {
	if money.GetCurrency(Normalize(code)) == nil {
		return apperrors.ErrInvalidCurrency
	}
	return nil
}

// Symbol returns the display symbol for code, or the code itself when the
// currency is unknown.
func Symbol(code string) string {
	c := money.GetCurrency(Normalize(code))
	if c == nil || c.Grapheme == "" {
		return code
	}
	return c.Grapheme
}
