package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/pip-tracker/pip-backend/internal/apperrors"
	"github.com/pip-tracker/pip-backend/internal/model"
	"github.com/pip-tracker/pip-backend/internal/service"
	"github.com/pip-tracker/pip-backend/internal/yahoo"
)

type loadCmd struct {
	file string
}

func (*loadCmd) Name() string     { return "load" }
func (*loadCmd) Synopsis() string { return "load prices from a saved Yahoo Finance chart" }
func (*loadCmd) Usage() string {
	return `pipctl load -file <chart.json>

  Stores the daily closes of a Yahoo Finance chart response saved as JSON.
  The chart symbol must be the ticker of a known instrument. Days already
  stored are skipped.
`
}

func (c *loadCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "path of the chart JSON file")
}

func (c *loadCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		return subcommands.ExitUsageError
	}

	a, _, err := openApp(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer a.Close()

	inst, added, err := LoadChartFile(ctx, a.Services.Price, c.file)
	if err != nil {
		return fail("loading %s: %v", c.file, err)
	}
	fmt.Printf("%s: %d prices added\n", inst.Ticker, added)
	return subcommands.ExitSuccess
}

// LoadChartFile decodes the chart saved at path and stores its prices.
func LoadChartFile(ctx context.Context, prices *service.PriceService, path string) (model.Instrument, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Instrument{}, 0, err
	}

	var chart yahoo.Response
	if err := json.Unmarshal(raw, &chart); err != nil {
		return model.Instrument{}, 0, fmt.Errorf("%w: %w", apperrors.ErrMalformedInput, err)
	}
	return prices.LoadChart(ctx, chart)
}
