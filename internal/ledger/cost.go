package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// ApplyBuy adds quantity shares bought at price to the holding and recomputes the
// weighted-average price: (oldQty*oldAvg + qty*price) / (oldQty+qty).
func ApplyBuy(h model.Holding, quantity int64, price decimal.Decimal) model.Holding {
	q := decimal.NewFromInt(quantity)
	newQty := h.Quantity.Add(q)
	if newQty.IsPositive() {
		h.WeightedAveragePrice = h.Quantity.Mul(h.WeightedAveragePrice).
			Add(q.Mul(price)).
			Div(newQty)
	}
	h.Quantity = newQty
	return h
}

// ApplySell removes quantity shares from the holding. The weighted-average price is left as is.
// Selling more than the held quantity fails with ErrInsufficientHoldings and returns h unchanged.
func ApplySell(h model.Holding, quantity int64) (model.Holding, error) {
	q := decimal.NewFromInt(quantity)
	if q.GreaterThan(h.Quantity) {
		return h, fmt.Errorf("%w: cannot sell %d shares of %s, only %s owned",
			apperrors.ErrInsufficientHoldings, quantity, h.Symbol, h.Quantity)
	}
	h.Quantity = h.Quantity.Sub(q)
	return h, nil
}

// Apply dispatches a trade to ApplyBuy or ApplySell.
func Apply(h model.Holding, t model.Transaction) (model.Holding, error) {
	if t.Type == model.TradeSell {
		return ApplySell(h, t.Quantity)
	}
	return ApplyBuy(h, t.Quantity, t.Price), nil
}

// Replay rebuilds the holding of one symbol from its transaction log.
func Replay(symbol string, txs []model.Transaction) (model.Holding, error) {
	h := model.Holding{Symbol: symbol}
	for _, t := range sortedChronologically(txs) {
		if t.Symbol != symbol {
			continue
		}
		var err error
		if h, err = Apply(h, t); err != nil {
			return h, err
		}
	}
	return h, nil
}

// ChangePercent returns (price - cost) / cost * 100, or zero when cost is zero.
func ChangePercent(price, cost decimal.Decimal) decimal.Decimal {
	return percentOf(price.Sub(cost), cost)
}
