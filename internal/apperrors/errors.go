package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrAccountNotFound indicates that an account with the given ID or name does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInstrumentNotFound indicates that an instrument with the given ID does not exist.
	ErrInstrumentNotFound = errors.New("instrument not found")

	// ErrPositionNotFound indicates that a position with the given ID does not exist.
	ErrPositionNotFound = errors.New("position not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell trade cannot be recorded
	// because the position does not hold enough open quantity at the trade date.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidStatusFilter indicates a status filter other than all, open or closed.
	ErrInvalidStatusFilter = errors.New("status filter must be one of all, open, closed")

	ErrInvalidCurrency = errors.New("unknown currency code")
	ErrInvalidISIN     = errors.New("invalid ISIN")
	ErrInvalidTicker   = errors.New("ticker is required")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	ErrFailedToRetrieveAccounts     = errors.New("failed to retrieve accounts")
	ErrFailedToRetrieveInstruments  = errors.New("failed to retrieve instruments")
	ErrFailedToRetrievePositions    = errors.New("failed to retrieve positions")
	ErrFailedToRetrieveTrades       = errors.New("failed to retrieve trades")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrievePrices       = errors.New("failed to retrieve prices")
	ErrFailedToRefreshPrices        = errors.New("failed to refresh prices")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrMalformedInput indicates trade or transaction data that cannot be
	// processed, such as a sell exceeding the open quantity or an unknown trade side.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., a position exists but its instrument doesn't).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
