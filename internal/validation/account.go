package validation

import (
	"strings"

	"github.com/pip-tracker/pip-backend/internal/api/request"
)

func ValidateCreateAccount(req request.CreateAccountRequest) error {
	errors := make(map[string]string)

	// Required field
	if strings.TrimSpace(req.Name) == "" {
		errors["name"] = "name is required"
	} else if len(req.Name) > 100 {
		errors["name"] = "name must be 100 characters or less"
	} else if strings.EqualFold(strings.TrimSpace(req.Name), request.AllAccounts) {
		errors["name"] = "name is reserved"
	}

	// Optional but has constraints
	if len(req.Description) > 500 {
		errors["description"] = "description must be 500 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
