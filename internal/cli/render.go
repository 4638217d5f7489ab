package cli

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// formatMoney renders amount in the minor units of currency, e.g. "$1,234.50".
// Unknown currency codes fall back to a plain two-decimal amount.
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}

func formatPercent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}

// SnapshotMarkdown renders a valuation snapshot as a markdown report.
func SnapshotMarkdown(s model.ValuationSnapshot, currency string) string {
	var b strings.Builder

	b.WriteString("# Portfolio\n\n")
	if s.Degraded {
		b.WriteString("> Ledger unavailable, figures are not reliable.\n\n")
	}
	fmt.Fprintf(&b, "As of %s\n\n", s.AsOf.Format("2006-01-02 15:04 MST"))

	b.WriteString("| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Total value | %s |\n", formatMoney(s.TotalValue, currency))
	fmt.Fprintf(&b, "| Stocks | %s |\n", formatMoney(s.StockValue, currency))
	fmt.Fprintf(&b, "| Cash | %s |\n", formatMoney(s.CashBalance, currency))
	fmt.Fprintf(&b, "| Initial investment | %s |\n", formatMoney(s.InitialInvestment, currency))
	fmt.Fprintf(&b, "| Profit / loss | %s (%s) |\n", formatMoney(s.ProfitLoss, currency), formatPercent(s.TotalReturnPercent))
	fmt.Fprintf(&b, "| Realized gains | %s |\n", formatMoney(s.RealizedGains, currency))
	fmt.Fprintf(&b, "| Unrealized gains | %s |\n", formatMoney(s.UnrealizedGains, currency))
	if s.BestPerformer != nil {
		fmt.Fprintf(&b, "| Best performer | %s (%s) |\n", s.BestPerformer.Symbol, formatPercent(s.BestPerformer.ChangePercent))
	}

	if len(s.Assets) > 0 {
		b.WriteString("\n## Holdings\n\n")
		b.WriteString("| Symbol | Name | Qty | Price | Avg cost | Value | Change |\n")
		b.WriteString("|---|---|---:|---:|---:|---:|---:|\n")
		for _, a := range s.Assets {
			price := formatMoney(a.Price, currency)
			if a.PriceStale {
				price += " *"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				a.Symbol, escapeCell(a.Name), a.Quantity.String(), price,
				formatMoney(a.WeightedAveragePrice, currency), formatMoney(a.CurrentValue, currency),
				formatPercent(a.ChangePercent))
		}
	}

	if len(s.SectorAllocation) > 0 {
		b.WriteString("\n## Sectors\n\n| Sector | Amount | Share |\n|---|---:|---:|\n")
		for _, sa := range s.SectorAllocation {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(sa.Sector), formatMoney(sa.Amount, currency), formatPercent(sa.Percentage))
		}
	}

	if len(s.MonthlyReturns) > 0 {
		b.WriteString("\n## Monthly returns\n\n| Month | Portfolio | Benchmark |\n|---|---:|---:|\n")
		for _, m := range s.MonthlyReturns {
			benchmark := "n/a"
			if m.Benchmark != nil {
				benchmark = formatPercent(*m.Benchmark)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", m.Month, formatPercent(m.Returns), benchmark)
		}
	}

	return b.String()
}

// TransactionsMarkdown renders trades as a markdown table.
func TransactionsMarkdown(records []model.TransactionRecord, currency string) string {
	if len(records) == 0 {
		return "No transactions.\n"
	}

	var b strings.Builder
	b.WriteString("| Date | Type | Symbol | Qty | Price | Total | ID |\n")
	b.WriteString("|---|---|---|---:|---:|---:|---|\n")
	for _, r := range records {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s | %s |\n",
			r.Date.Format("2006-01-02"), r.Type, r.Symbol, r.Quantity,
			formatMoney(r.Price, currency), formatMoney(r.Total, currency), r.ID)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// printMarkdown writes md rendered for the terminal, or as-is when rendering is off or fails.
func (a *App) printMarkdown(md string) {
	if !a.markdownRaw {
		if out, err := glamour.Render(md, "dark"); err == nil {
			fmt.Fprint(a.out, out)
			return
		}
	}
	fmt.Fprint(a.out, md)
}
