// Command ledgerctl manages the portfolio ledger from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/cli"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/config"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	app := cli.NewApp(cfg, logging.New(cfg.Log), os.Stdout)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander, app)
	flag.Parse()

	status := commander.Execute(context.Background())
	if err := app.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(int(status))
}
