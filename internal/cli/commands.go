package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/database"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/validation"
)

// Register adds every ledgerctl command to commander.
func Register(commander *subcommands.Commander, app *App) {
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	commander.Register(&migrateCmd{app: app}, "admin")
	commander.Register(&addFundsCmd{app: app}, "cash")
	commander.Register(&withdrawCmd{app: app}, "cash")
	commander.Register(&tradeCmd{app: app}, "trading")
	commander.Register(&txCmd{app: app}, "reports")
	commander.Register(&snapshotCmd{app: app}, "reports")
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

type migrateCmd struct {
	app *App
}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "apply pending database migrations" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate

  Applies every pending schema migration to DB_PATH and prints the schema version.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (c *migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.app.open(ctx); err != nil {
		return fail(err)
	}
	version, pending, err := database.SchemaStatus(ctx, c.app.db)
	if err != nil {
		return fail(err)
	}
	c.app.printf("schema version %d (pending: %t)\n", version, pending)
	return subcommands.ExitSuccess
}

type addFundsCmd struct {
	app *App
}

func (*addFundsCmd) Name() string     { return "add-funds" }
func (*addFundsCmd) Synopsis() string { return "deposit cash into the account" }
func (*addFundsCmd) Usage() string {
	return `ledgerctl add-funds <amount>

  Deposits amount (up to 2 decimals) into the cash account.
`
}
func (*addFundsCmd) SetFlags(*flag.FlagSet) {}

func (c *addFundsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	amount, status, ok := parseAmount(f)
	if !ok {
		return status
	}
	if err := c.app.open(ctx); err != nil {
		return fail(err)
	}
	result, err := c.app.cash.AddFunds(ctx, amount)
	if err != nil {
		return fail(err)
	}
	c.app.printf("%s. New balance: %s\n", result.Message, formatMoney(result.NewBalance, c.app.cfg.Portfolio.Currency))
	return subcommands.ExitSuccess
}

type withdrawCmd struct {
	app *App
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "withdraw cash from the account" }
func (*withdrawCmd) Usage() string {
	return `ledgerctl withdraw <amount>

  Withdraws amount from the cash account. Fails when the balance is too low.
`
}
func (*withdrawCmd) SetFlags(*flag.FlagSet) {}

func (c *withdrawCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	amount, status, ok := parseAmount(f)
	if !ok {
		return status
	}
	if err := c.app.open(ctx); err != nil {
		return fail(err)
	}
	result, err := c.app.cash.WithdrawFunds(ctx, amount)
	if err != nil {
		return fail(err)
	}
	c.app.printf("%s. New balance: %s\n", result.Message, formatMoney(result.NewBalance, c.app.cfg.Portfolio.Currency))
	return subcommands.ExitSuccess
}

func parseAmount(f *flag.FlagSet) (decimal.Decimal, subcommands.ExitStatus, bool) {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one amount")
		return decimal.Zero, subcommands.ExitUsageError, false
	}
	amount, err := decimal.NewFromString(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q\n", f.Arg(0))
		return decimal.Zero, subcommands.ExitUsageError, false
	}
	if err := validation.ValidateFunds(request.FundsRequest{Amount: amount}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return decimal.Zero, subcommands.ExitUsageError, false
	}
	return amount, subcommands.ExitSuccess, true
}

type tradeCmd struct {
	app  *App
	date string
}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "buy or sell shares at the oracle price" }
func (*tradeCmd) Usage() string {
	return `ledgerctl trade [-d <date>] <buy|sell> <quantity> <symbol>

  Executes a trade priced by the market data provider.
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Trade date (YYYY-MM-DD), defaults to today")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Error: expected <buy|sell> <quantity> <symbol>")
		return subcommands.ExitUsageError
	}

	var quantity int64
	if _, err := fmt.Sscan(f.Arg(1), &quantity); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid quantity %q\n", f.Arg(1))
		return subcommands.ExitUsageError
	}
	req := request.TradeRequest{Type: f.Arg(0), Quantity: quantity, Symbol: f.Arg(2), Date: c.date}
	tradeType, date, err := validation.ValidateTrade(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := c.app.open(ctx); err != nil {
		return fail(err)
	}
	record, err := c.app.trade.ExecuteTrade(ctx, service.TradeRequest{
		Symbol:   req.Symbol,
		Quantity: quantity,
		Type:     tradeType,
		Date:     date,
	})
	if err != nil {
		return fail(err)
	}

	c.app.printf("%s %d %s @ %s = %s (id %s)\n",
		strings.ToLower(string(record.Type)), record.Quantity, record.Symbol,
		formatMoney(record.Price, c.app.cfg.Portfolio.Currency),
		formatMoney(record.Total, c.app.cfg.Portfolio.Currency), record.ID)
	return subcommands.ExitSuccess
}

type txCmd struct {
	app   *App
	limit int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list recent trades" }
func (*txCmd) Usage() string {
	return `ledgerctl tx [-n <count>]

  Lists the most recent trades, newest first.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", request.DefaultLimit, "Number of trades to show, 0 for all")
}

func (c *txCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.app.open(ctx); err != nil {
		return fail(err)
	}
	records, err := c.app.reads.GetRecentTransactions(ctx, c.limit)
	if err != nil {
		return fail(err)
	}
	c.app.printMarkdown(TransactionsMarkdown(records, c.app.cfg.Portfolio.Currency))
	return subcommands.ExitSuccess
}

type snapshotCmd struct {
	app        *App
	numEntries int
	orderBy    string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "display the portfolio valuation" }
func (*snapshotCmd) Usage() string {
	return `ledgerctl snapshot [-n <count>] [-order <symbol|quantity|value|change>]

  Values the portfolio at current prices and prints a report.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.numEntries, "n", 0, "Number of holdings to show, 0 for all")
	f.StringVar(&c.orderBy, "order", "", "Order holdings by symbol, quantity, value or change")
}

func (c *snapshotCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	numEntries := ""
	if c.numEntries > 0 {
		numEntries = fmt.Sprint(c.numEntries)
	}
	query, err := request.ParseSnapshotQuery(numEntries, c.orderBy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	if err := c.app.open(ctx); err != nil {
		return fail(err)
	}
	snapshot, err := c.app.portfolio.GetSnapshot(ctx, service.SnapshotOptions{NumEntries: query.NumEntries, OrderBy: query.OrderBy})
	if err != nil {
		return fail(err)
	}
	c.app.printMarkdown(SnapshotMarkdown(snapshot, c.app.cfg.Portfolio.Currency))
	return subcommands.ExitSuccess
}
