package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/pip-tracker/pip-backend/internal/api/request"
)

type summaryCmd struct {
	account string
	status  string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display position summaries" }
func (*summaryCmd) Usage() string {
	return `pipctl summary [-account <name>] [-status all|open|closed]

  Displays every matching position with invested capital, realized and
  unrealized PnL, sorted by opening date. Dates are shown in APP_TIMEZONE.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	addFilterFlags(f, &c.account, &c.status)
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query, err := request.ParsePositionQuery(c.account, c.status)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, cfg, err := openApp(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer a.Close()

	report, err := a.Services.Position.GetPositionsReport(ctx, query.AccountName, query.Filter)
	if err != nil {
		return fail("%v", err)
	}

	printMarkdown(SummaryMarkdown(report, cfg.Location()))
	return subcommands.ExitSuccess
}

type totalsCmd struct {
	account string
	status  string
}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "display invested capital and PnL per currency" }
func (*totalsCmd) Usage() string {
	return `pipctl totals [-account <name>] [-status all|open|closed]

  Displays the total invested and total PnL of the matching positions, one
  row per currency.
`
}

func (c *totalsCmd) SetFlags(f *flag.FlagSet) {
	addFilterFlags(f, &c.account, &c.status)
}

func (c *totalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query, err := request.ParsePositionQuery(c.account, c.status)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, _, err := openApp(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer a.Close()

	totals, err := a.Services.Position.GetPositionsTotals(ctx, query.AccountName, query.Filter)
	if err != nil {
		return fail("%v", err)
	}

	printMarkdown(TotalsMarkdown(totals))
	return subcommands.ExitSuccess
}
