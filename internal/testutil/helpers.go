package testutil

import (
	"database/sql"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pip-tracker/pip-backend/internal/repository"
	"github.com/pip-tracker/pip-backend/internal/service"
	"github.com/pip-tracker/pip-backend/internal/validation"
	"github.com/pip-tracker/pip-backend/internal/yahoo"
)

// TestWorkers is the engine worker count used by test services.
const TestWorkers = 2

func NewTestPositionService(t *testing.T, db *sql.DB) *service.PositionService {
	t.Helper()

	return service.NewPositionService(
		repository.NewAccountRepository(db),
		repository.NewPositionRepository(db),
		repository.NewTradeRepository(db),
		repository.NewCashTransactionRepository(db),
		repository.NewPriceRepository(db),
		TestWorkers,
		zerolog.Nop(),
	)
}

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()

	return service.NewTradeService(
		db,
		repository.NewAccountRepository(db),
		repository.NewInstrumentRepository(db),
		repository.NewPositionRepository(db),
		repository.NewTradeRepository(db),
		zerolog.Nop(),
	)
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		repository.NewAccountRepository(db),
		repository.NewPositionRepository(db),
		repository.NewCashTransactionRepository(db),
	)
}

func NewTestAccountService(t *testing.T, db *sql.DB) *service.AccountService {
	t.Helper()

	return service.NewAccountService(
		repository.NewAccountRepository(db),
		repository.NewInstrumentRepository(db),
	)
}

// NewTestPriceServiceWithMockYahoo creates a PriceService backed by the given Yahoo client.
func NewTestPriceServiceWithMockYahoo(t *testing.T, db *sql.DB, mockYahoo yahoo.Client) *service.PriceService {
	t.Helper()

	return service.NewPriceService(
		mockYahoo,
		repository.NewInstrumentRepository(db),
		repository.NewPriceRepository(db),
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeISIN generates a random ISIN with a valid check digit.
//
// Example usage:
//
//	isin := testutil.MakeISIN("US")
//	// Returns: "US1A2B3C4D57"
func MakeISIN(prefix string) string {
	if prefix == "" {
		prefix = "US"
	}
	body := prefix + randomAlphanumeric(9)
	for d := 0; d < 10; d++ {
		if isin := body + strconv.Itoa(d); validation.ValidISIN(isin) {
			return isin
		}
	}
	panic("no check digit for " + body)
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakeAccountName generates a unique account name for testing.
func MakeAccountName(base string) string {
	if base == "" {
		base = "Account"
	}
	return base + " " + randomAlphanumeric(6)
}

// MakeInstrumentName generates a unique instrument name for testing.
func MakeInstrumentName(base string) string {
	if base == "" {
		base = "Instrument"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
