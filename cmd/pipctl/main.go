package main

import (
	"context"
	"flag"
	"os"
	"path"
	_ "time/tzdata" // APP_TIMEZONE in minimal containers

	"github.com/google/subcommands"

	"github.com/pip-tracker/pip-backend/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cli.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
