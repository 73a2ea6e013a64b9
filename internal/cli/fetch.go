package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/pip-tracker/pip-backend/internal/repository"
)

type fetchCmd struct {
	ticker string
	days   int
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "load daily price history from Yahoo Finance" }
func (*fetchCmd) Usage() string {
	return `pipctl fetch -ticker <ticker> [-days n]

  Backfills the daily closes of the instrument with the given ticker up to
  yesterday. Days already stored are skipped. -days defaults to PRICE_HISTORY_DAYS.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "ticker of a known instrument")
	f.IntVar(&c.days, "days", 0, "number of days to load")
}

func (c *fetchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker := strings.TrimSpace(c.ticker)
	if ticker == "" {
		fmt.Fprintln(os.Stderr, "Error: -ticker is required")
		return subcommands.ExitUsageError
	}

	a, cfg, err := openApp(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer a.Close()

	days := c.days
	if days <= 0 {
		days = cfg.Market.HistoryDays
	}

	inst, err := repository.NewInstrumentRepository(a.DB).GetInstrumentByTicker(ctx, ticker)
	if err != nil {
		return fail("instrument %q: %v", ticker, err)
	}

	added, err := a.Services.Price.LoadHistory(ctx, inst.ID, days)
	if err != nil {
		return fail("loading %s: %v", ticker, err)
	}
	fmt.Printf("%s: %d prices added\n", inst.Ticker, added)
	return subcommands.ExitSuccess
}
