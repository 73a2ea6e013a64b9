package validation

import (
	"regexp"
	"strings"

	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/currency"
)

var isinPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{9}[0-9]$`)

// ValidISIN reports whether isin is a well-formed ISIN with a correct check digit.
// Spaces are ignored and letters are case-insensitive.
func ValidISIN(isin string) bool {
	s := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(isin), " ", ""))
	if !isinPattern.MatchString(s) {
		return false
	}

	// letters expand to two digits: A=10 ... Z=35
	var digits []int
	for _, ch := range s {
		if ch >= 'A' && ch <= 'Z' {
			v := int(ch-'A') + 10
			digits = append(digits, v/10, v%10)
		} else {
			digits = append(digits, int(ch-'0'))
		}
	}

	// Luhn, doubling every second digit from the right
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := digits[i]
		if (len(digits)-1-i)%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// ValidateCreateInstrument validates an instrument creation request.
func ValidateCreateInstrument(req request.CreateInstrumentRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	}

	if !ValidISIN(req.ISIN) {
		errors["isin"] = apperrors.ErrInvalidISIN.Error()
	}

	if err := currency.Validate(req.Currency); err != nil {
		errors["currency"] = err.Error()
	}

	if len(req.Ticker) > 20 {
		errors["ticker"] = "ticker must be 20 characters or less"
	}

	switch req.Category {
	case "", "acc", "dist":
	default:
		errors["category"] = "category must be acc or dist"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
