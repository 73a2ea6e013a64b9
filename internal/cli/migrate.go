package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/pip-tracker/pip-backend/internal/database"
)

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `pipctl migrate

  Applies pending migrations to the database at DB_PATH and prints the schema version.
`
}

func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// openApp migrates on open
	a, _, err := openApp(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer a.Close()

	version, _, err := database.SchemaStatus(ctx, a.DB)
	if err != nil {
		return fail("%v", err)
	}
	fmt.Printf("schema at version %d\n", version)
	return subcommands.ExitSuccess
}
