package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/repository"
)

// AccountBuilder provides a fluent interface for creating test accounts.
//
// Example usage:
//
//	account := testutil.NewAccount().Build(t, db)
//
//	account := testutil.NewAccount().WithName("Broker").Build(t, db)
type AccountBuilder struct {
	ID          string
	Name        string
	Description string
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	return &AccountBuilder{
		ID:          MakeID(),
		Name:        MakeAccountName("Test Account"),
		Description: "Test description",
	}
}

// WithID sets a custom ID.
func (b *AccountBuilder) WithID(id string) *AccountBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.Name = name
	return b
}

// Build creates the account in the database and returns it.
func (b *AccountBuilder) Build(t *testing.T, db *sql.DB) model.Account {
	t.Helper()

	account := model.Account{ID: b.ID, Name: b.Name, Description: b.Description}
	if err := repository.NewAccountRepository(db).InsertAccount(context.Background(), &account); err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return account
}

// CreateAccount creates an account with the given name.
func CreateAccount(t *testing.T, db *sql.DB, name string) model.Account {
	t.Helper()
	return NewAccount().WithName(name).Build(t, db)
}

// InstrumentBuilder provides a fluent interface for creating test instruments.
//
// Example usage:
//
//	instrument := testutil.NewInstrument().WithCurrency("USD").Build(t, db)
type InstrumentBuilder struct {
	ID       string
	ISIN     string
	Ticker   string
	Name     string
	Category string
	Currency string
}

// NewInstrument creates an InstrumentBuilder with sensible defaults.
func NewInstrument() *InstrumentBuilder {
	return &InstrumentBuilder{
		ID:       MakeID(),
		ISIN:     MakeISIN("IE"),
		Ticker:   MakeSymbol("TST"),
		Name:     MakeInstrumentName("Test ETF"),
		Category: "acc",
		Currency: "EUR",
	}
}

// WithISIN sets a custom ISIN.
func (b *InstrumentBuilder) WithISIN(isin string) *InstrumentBuilder {
	b.ISIN = isin
	return b
}

// WithTicker sets a custom ticker. An empty ticker excludes the instrument from price refreshes.
func (b *InstrumentBuilder) WithTicker(ticker string) *InstrumentBuilder {
	b.Ticker = ticker
	return b
}

// WithName sets a custom name.
func (b *InstrumentBuilder) WithName(name string) *InstrumentBuilder {
	b.Name = name
	return b
}

// WithCurrency sets a custom currency code.
func (b *InstrumentBuilder) WithCurrency(currency string) *InstrumentBuilder {
	b.Currency = currency
	return b
}

// Build creates the instrument in the database and returns it.
func (b *InstrumentBuilder) Build(t *testing.T, db *sql.DB) model.Instrument {
	t.Helper()

	instrument := model.Instrument{
		ID:       b.ID,
		ISIN:     b.ISIN,
		Ticker:   b.Ticker,
		Name:     b.Name,
		Category: b.Category,
		Currency: b.Currency,
	}
	if err := repository.NewInstrumentRepository(db).InsertInstrument(context.Background(), &instrument); err != nil {
		t.Fatalf("Failed to create test instrument: %v", err)
	}
	return instrument
}

// CreateInstrument creates an instrument quoted in the given currency.
func CreateInstrument(t *testing.T, db *sql.DB, currency string) model.Instrument {
	t.Helper()
	return NewInstrument().WithCurrency(currency).Build(t, db)
}

// CreatePosition creates the position of an instrument within an account.
func CreatePosition(t *testing.T, db *sql.DB, accountID, instrumentID string) model.Position {
	t.Helper()

	p, err := repository.NewPositionRepository(db).GetOrCreatePosition(context.Background(), accountID, instrumentID)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}
	return p
}

// TradeBuilder provides a fluent interface for creating test trades.
// Trades are inserted as-is, bypassing the oversell check of the trade service.
//
// Example usage:
//
//	testutil.NewTrade(position.ID).Sell(5).WithPrice("12.50").Build(t, db)
type TradeBuilder struct {
	ID          string
	PositionID  string
	Date        time.Time
	Type        model.TradeSide
	Quantity    int64
	Price       decimal.Decimal
	Description string
}

// NewTrade creates a TradeBuilder for a buy of 10 at 100.
func NewTrade(positionID string) *TradeBuilder {
	return &TradeBuilder{
		ID:         MakeID(),
		PositionID: positionID,
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Type:       model.TradeBuy,
		Quantity:   10,
		Price:      decimal.NewFromInt(100),
	}
}

// WithDate sets a custom trade date.
func (b *TradeBuilder) WithDate(date time.Time) *TradeBuilder {
	b.Date = date
	return b
}

// Buy makes the trade a buy of quantity.
func (b *TradeBuilder) Buy(quantity int64) *TradeBuilder {
	b.Type = model.TradeBuy
	b.Quantity = quantity
	return b
}

// Sell makes the trade a sell of quantity.
func (b *TradeBuilder) Sell(quantity int64) *TradeBuilder {
	b.Type = model.TradeSell
	b.Quantity = quantity
	return b
}

// WithPrice sets the unit price from its decimal string form.
func (b *TradeBuilder) WithPrice(price string) *TradeBuilder {
	b.Price = decimal.RequireFromString(price)
	return b
}

// Build creates the trade in the database and returns it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.Trade {
	t.Helper()

	trade := model.Trade{
		ID:          b.ID,
		PositionID:  b.PositionID,
		Date:        b.Date,
		Type:        b.Type,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Description: b.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := repository.NewTradeRepository(db).InsertTrade(context.Background(), &trade); err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}
	return trade
}

// CashTransactionBuilder provides a fluent interface for creating test cash transactions.
type CashTransactionBuilder struct {
	ID         string
	AccountID  string
	PositionID string
	Date       time.Time
	Type       model.TransactionKind
	Amount     decimal.Decimal
}

// NewCashTransaction creates a CashTransactionBuilder for a dividend of 10.
func NewCashTransaction(accountID, positionID string) *CashTransactionBuilder {
	return &CashTransactionBuilder{
		ID:         MakeID(),
		AccountID:  accountID,
		PositionID: positionID,
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Type:       model.TransactionDividend,
		Amount:     decimal.NewFromInt(10),
	}
}

// WithType sets the transaction kind.
func (b *CashTransactionBuilder) WithType(kind model.TransactionKind) *CashTransactionBuilder {
	b.Type = kind
	return b
}

// WithAmount sets the unsigned amount from its decimal string form.
func (b *CashTransactionBuilder) WithAmount(amount string) *CashTransactionBuilder {
	b.Amount = decimal.RequireFromString(amount)
	return b
}

// Build creates the cash transaction in the database and returns it.
func (b *CashTransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	tx := model.Transaction{
		ID:         b.ID,
		AccountID:  b.AccountID,
		PositionID: b.PositionID,
		Date:       b.Date,
		Type:       b.Type,
		Amount:     b.Amount,
	}
	if err := repository.NewCashTransactionRepository(db).InsertTransaction(context.Background(), &tx); err != nil {
		t.Fatalf("Failed to create test cash transaction: %v", err)
	}
	return tx
}

// CreatePrice stores a daily price of an instrument.
func CreatePrice(t *testing.T, db *sql.DB, instrumentID string, date time.Time, price string) model.Price {
	t.Helper()

	p := model.Price{
		ID:           MakeID(),
		InstrumentID: instrumentID,
		Date:         date,
		Price:        decimal.RequireFromString(price),
		Granularity:  model.GranularityDaily,
	}
	if _, err := repository.NewPriceRepository(db).InsertPrices(context.Background(), []model.Price{p}); err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
	return p
}
