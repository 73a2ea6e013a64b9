package request

import (
	"strings"

	"github.com/pip-tracker/pip-backend/internal/model"
)

// AllAccounts is the account name meaning "no account filter".
const AllAccounts = "All"

// PositionQuery is the parsed query string of the position endpoints.
type PositionQuery struct {
	AccountName string // empty means every account
	Filter      model.PositionFilter
}

// ParsePositionQuery validates the account_name and status_filter query parameters.
// An empty account name or "All" selects every account; the status defaults to "all".
func ParsePositionQuery(accountNameParam, statusParam string) (PositionQuery, error) {
	accountName := strings.TrimSpace(accountNameParam)
	if strings.EqualFold(accountName, AllAccounts) {
		accountName = ""
	}

	filter, err := model.PositionFilterFromStatus(strings.ToLower(strings.TrimSpace(statusParam)))
	if err != nil {
		return PositionQuery{}, err
	}

	return PositionQuery{AccountName: accountName, Filter: filter}, nil
}
