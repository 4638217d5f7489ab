package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// RealizedGains returns the total realized gain of the log using FIFO lot matching.
// The result is exact; round it with Round at the output boundary.
func RealizedGains(txs []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, gain := range RealizedGainsBySymbol(txs) {
		total = total.Add(gain)
	}
	return total
}

// RealizedGainsBySymbol replays the log per symbol. Symbols are independent of each other.
func RealizedGainsBySymbol(txs []model.Transaction) map[string]decimal.Decimal {
	bySymbol := make(map[string][]model.Transaction)
	for _, t := range txs {
		bySymbol[t.Symbol] = append(bySymbol[t.Symbol], t)
	}

	gains := make(map[string]decimal.Decimal, len(bySymbol))
	for symbol, trades := range bySymbol {
		gains[symbol] = matchFIFO(trades)
	}
	return gains
}

// matchFIFO consumes the BUY queue from the front for each SELL in order.
// The input is never modified: lot remainders live in a private slice indexed like the BUY queue.
// A SELL larger than every remaining lot is matched as far as possible and the rest is ignored.
func matchFIFO(trades []model.Transaction) decimal.Decimal {
	ordered := sortedChronologically(trades)

	var buys, sells []int
	for i, t := range ordered {
		switch t.Type {
		case model.TradeBuy:
			buys = append(buys, i)
		case model.TradeSell:
			sells = append(sells, i)
		}
	}

	remaining := make([]int64, len(buys))
	for i, idx := range buys {
		remaining[i] = ordered[idx].Quantity
	}

	gain := decimal.Zero
	head := 0
	for _, idx := range sells {
		sell := ordered[idx]
		open := sell.Quantity
		for open > 0 && head < len(buys) {
			matched := min(open, remaining[head])
			buy := ordered[buys[head]]
			gain = gain.Add(sell.Price.Sub(buy.Price).Mul(decimal.NewFromInt(matched)))

			remaining[head] -= matched
			open -= matched
			if remaining[head] == 0 {
				head++
			}
		}
	}
	return gain
}

// sortedChronologically returns a copy ordered by (date, sequence).
func sortedChronologically(txs []model.Transaction) []model.Transaction {
	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, func(a, b model.Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return ordered
}
