package cli

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/pip-tracker/pip-backend/internal/api"
	"github.com/pip-tracker/pip-backend/internal/api/request"
	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/validation"
)

//go:embed demo.yaml
var demoData []byte

type seedCmd struct {
	reset bool
	file  string
}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "load demo accounts, instruments and trades" }
func (*seedCmd) Usage() string {
	return `pipctl seed [-reset] [-file data.yaml]

  Loads the built-in demo data set, or the one in -file. Fails on a database
  that already holds the same accounts unless -reset is given, which deletes
  all data first.
`
}

func (c *seedCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.reset, "reset", false, "delete all data before seeding")
	f.StringVar(&c.file, "file", "", "YAML data set to load instead of the demo data")
}

func (c *seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	raw := demoData
	if c.file != "" {
		var err error
		if raw, err = os.ReadFile(c.file); err != nil {
			return fail("%v", err)
		}
	}
	data, err := ParseDataSet(raw)
	if err != nil {
		return fail("%v", err)
	}

	a, _, err := openApp(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer a.Close()

	if c.reset {
		if err := Reset(ctx, a.DB); err != nil {
			return fail("%v", err)
		}
	}

	if err := Seed(ctx, a.Services, data); errors.Is(err, apperrors.ErrDuplicateEntry) {
		return fail("database already seeded, use -reset")
	} else if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("seeded %d accounts, %d instruments, %d trades, %d transactions\n",
		len(data.Accounts), len(data.Instruments), len(data.Trades), len(data.Transactions))
	return subcommands.ExitSuccess
}

// seedTables lists the data tables children first.
var seedTables = []string{"price", "cash_transaction", "trade", "position", "instrument", "account"}

// Reset deletes all rows of the data tables in one transaction.
func Reset(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range seedTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// DataSet is a set of accounts, instruments, trades and cash transactions.
// Trades and transactions refer to accounts by name and instruments by ISIN.
type DataSet struct {
	Accounts     []request.CreateAccountRequest    `yaml:"accounts"`
	Instruments  []request.CreateInstrumentRequest `yaml:"instruments"`
	Trades       []DataSetTrade                    `yaml:"trades"`
	Transactions []DataSetTransaction              `yaml:"transactions"`
}

type DataSetTrade struct {
	Account  string `yaml:"account"`
	ISIN     string `yaml:"isin"`
	Date     string `yaml:"date"`
	Type     string `yaml:"type"`
	Quantity int64  `yaml:"quantity"`
	Price    string `yaml:"price"`
}

type DataSetTransaction struct {
	Account string `yaml:"account"`
	ISIN    string `yaml:"isin"` // empty for account-level transactions
	Date    string `yaml:"date"`
	Type    string `yaml:"type"`
	Amount  string `yaml:"amount"`
}

// DemoDataSet returns the built-in demo data.
func DemoDataSet() (DataSet, error) {
	return ParseDataSet(demoData)
}

// ParseDataSet decodes a YAML data set, rejecting unknown keys.
func ParseDataSet(raw []byte) (DataSet, error) {
	var data DataSet
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return DataSet{}, fmt.Errorf("invalid data set: %w", err)
	}
	return data, nil
}

// Seed loads data through validation and the services, the same path a
// request to the API takes.
func Seed(ctx context.Context, svc api.Services, data DataSet) error {
	accounts := make(map[string]string)
	for _, req := range data.Accounts {
		if err := validation.ValidateCreateAccount(req); err != nil {
			return fmt.Errorf("account %s: %w", req.Name, err)
		}
		acc, err := svc.Account.CreateAccount(ctx, req)
		if err != nil {
			return fmt.Errorf("account %s: %w", req.Name, err)
		}
		accounts[acc.Name] = acc.ID
	}

	instruments := make(map[string]string)
	for _, req := range data.Instruments {
		if err := validation.ValidateCreateInstrument(req); err != nil {
			return fmt.Errorf("instrument %s: %w", req.ISIN, err)
		}
		inst, err := svc.Account.CreateInstrument(ctx, req)
		if err != nil {
			return fmt.Errorf("instrument %s: %w", req.ISIN, err)
		}
		instruments[inst.ISIN] = inst.ID
	}

	positions := make(map[[2]string]string)
	for _, st := range data.Trades {
		price, err := decimal.NewFromString(st.Price)
		if err != nil {
			return fmt.Errorf("trade %s %s on %s: price: %w", st.Type, st.ISIN, st.Date, err)
		}
		req := request.CreateTradeRequest{
			AccountID:    accounts[st.Account],
			InstrumentID: instruments[st.ISIN],
			Date:         st.Date,
			Type:         st.Type,
			Quantity:     st.Quantity,
			Price:        price,
		}
		if err := validation.ValidateCreateTrade(req); err != nil {
			return fmt.Errorf("trade %s %s on %s: %w", st.Type, st.ISIN, st.Date, err)
		}
		trade, err := svc.Trade.CreateTrade(ctx, req)
		if err != nil {
			return fmt.Errorf("trade %s %s on %s: %w", st.Type, st.ISIN, st.Date, err)
		}
		positions[[2]string{st.Account, st.ISIN}] = trade.PositionID
	}

	for _, stx := range data.Transactions {
		amount, err := decimal.NewFromString(stx.Amount)
		if err != nil {
			return fmt.Errorf("%s on %s: amount: %w", stx.Type, stx.Date, err)
		}
		req := request.CreateTransactionRequest{
			AccountID: accounts[stx.Account],
			Date:      stx.Date,
			Type:      stx.Type,
			Amount:    amount,
		}
		if stx.ISIN != "" {
			positionID, ok := positions[[2]string{stx.Account, stx.ISIN}]
			if !ok {
				return fmt.Errorf("%s on %s: no trades of %s in %s: %w",
					stx.Type, stx.Date, stx.ISIN, stx.Account, apperrors.ErrPositionNotFound)
			}
			req.PositionID = positionID
		}
		if err := validation.ValidateCreateTransaction(req); err != nil {
			return fmt.Errorf("%s on %s: %w", stx.Type, stx.Date, err)
		}
		if _, err := svc.Transaction.CreateTransaction(ctx, req); err != nil {
			return fmt.Errorf("%s on %s: %w", stx.Type, stx.Date, err)
		}
	}

	return nil
}
