package service

import (
	"context"
	"strings"
)

// accountID resolves an optional account name to its ID.
// An empty name means every account and resolves to "".
func accountID(ctx context.Context, accounts AccountFinder, accountName string) (string, error) {
	if accountName == "" {
		return "", nil
	}
	account, err := accounts.GetAccountByName(ctx, accountName)
	if err != nil {
		return "", err
	}
	return account.ID, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
