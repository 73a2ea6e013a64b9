// Package cli implements the pipctl subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/pip-tracker/pip-backend/internal/app"
	"github.com/pip-tracker/pip-backend/internal/config"
	"github.com/pip-tracker/pip-backend/internal/logger"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&migrateCmd{}, "database")
	c.Register(&seedCmd{}, "database")

	c.Register(&summaryCmd{}, "positions")
	c.Register(&totalsCmd{}, "positions")

	c.Register(&fetchCmd{}, "prices")
	c.Register(&loadCmd{}, "prices")
}

// openApp loads the configuration and opens the migrated database.
// Logs go to stderr so that stdout only carries the rendered output.
func openApp(ctx context.Context) (*app.App, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: true, Output: os.Stderr})
	logger.SetGlobalLogger(log)

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return a, cfg, nil
}

func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(160),
	)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

// addFilterFlags binds the account and status flags shared by summary and totals.
func addFilterFlags(f *flag.FlagSet, account, status *string) {
	f.StringVar(account, "account", "All", "account name, All for every account")
	f.StringVar(status, "status", "all", "status filter: all, open or closed")
}
