package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// Inputs is everything a snapshot is computed from.
type Inputs struct {
	Holdings []model.Holding
	// Prices maps symbols to their current price. A held symbol without a price is valued at
	// its weighted-average price and flagged PriceStale.
	Prices            map[string]decimal.Decimal
	CashBalance       decimal.Decimal
	RealizedGains     map[string]decimal.Decimal
	InitialInvestment decimal.Decimal
	InceptionDate     time.Time
	AsOf              time.Time
	// Benchmark holds daily closes of the benchmark index, ascending. Optional.
	Benchmark []model.ClosePrice
}

// Valuate aggregates the inputs into a snapshot. All figures are computed exactly and rounded
// to MoneyPlaces only when written into the result.
func Valuate(in Inputs) model.ValuationSnapshot {
	holdings := slices.Clone(in.Holdings)
	slices.SortFunc(holdings, func(a, b model.Holding) int { return cmp.Compare(a.Symbol, b.Symbol) })

	var (
		stockValue = decimal.Zero
		stockCost  = decimal.Zero
		assets     = make([]model.AssetValuation, 0, len(holdings))
	)
	for _, h := range holdings {
		if h.Quantity.IsZero() {
			continue
		}
		a := valuateHolding(h, in.Prices, in.RealizedGains)
		stockValue = stockValue.Add(a.CurrentValue)
		stockCost = stockCost.Add(a.CostBasis)
		assets = append(assets, a)
	}

	realized := decimal.Zero
	for _, g := range in.RealizedGains {
		realized = realized.Add(g)
	}

	totalValue := stockValue.Add(in.CashBalance)
	profitLoss := totalValue.Sub(in.InitialInvestment)

	snapshot := model.ValuationSnapshot{
		AsOf:               in.AsOf,
		TotalValue:         Round(totalValue),
		StockValue:         Round(stockValue),
		StockCostBasis:     Round(stockCost),
		CashBalance:        Round(in.CashBalance),
		InitialInvestment:  Round(in.InitialInvestment),
		ProfitLoss:         Round(profitLoss),
		TotalReturnPercent: Round(percentOf(profitLoss, in.InitialInvestment)),
		RealizedGains:      Round(realized),
		UnrealizedGains:    Round(stockValue.Sub(stockCost)),
		SectorAllocation:   SectorAllocations(assets, stockValue),
	}

	snapshot.History = History(in.InitialInvestment, totalValue, in.InceptionDate, in.AsOf)
	snapshot.MonthlyReturns = MonthlyReturns(snapshot.History, in.Benchmark)

	if best, ok := bestPerformer(assets); ok {
		rounded := roundAsset(best)
		snapshot.BestPerformer = &rounded
	}

	snapshot.Assets = make([]model.AssetValuation, len(assets))
	for i, a := range assets {
		snapshot.Assets[i] = roundAsset(a)
	}
	return snapshot
}

func valuateHolding(h model.Holding, prices, realized map[string]decimal.Decimal) model.AssetValuation {
	price, ok := prices[h.Symbol]
	stale := !ok || !price.IsPositive()
	if stale {
		price = h.WeightedAveragePrice
	}

	sector := h.Sector
	if sector == "" {
		sector = model.UnknownSector
	}
	name := h.CompanyName
	if name == "" {
		name = h.Symbol
	}

	value := price.Mul(h.Quantity)
	cost := h.CostBasis()
	return model.AssetValuation{
		Symbol:               h.Symbol,
		Name:                 name,
		Sector:               sector,
		Industry:             h.Industry,
		Quantity:             h.Quantity,
		Price:                price,
		WeightedAveragePrice: h.WeightedAveragePrice,
		CurrentValue:         value,
		CostBasis:            cost,
		UnrealizedGain:       value.Sub(cost),
		RealizedGain:         realized[h.Symbol],
		ChangePercent:        ChangePercent(price, h.WeightedAveragePrice),
		PriceStale:           stale,
	}
}

// bestPerformer picks the highest ChangePercent; the first asset wins a tie.
func bestPerformer(assets []model.AssetValuation) (model.AssetValuation, bool) {
	if len(assets) == 0 {
		return model.AssetValuation{}, false
	}
	best := assets[0]
	for _, a := range assets[1:] {
		if a.ChangePercent.GreaterThan(best.ChangePercent) {
			best = a
		}
	}
	return best, true
}

func roundAsset(a model.AssetValuation) model.AssetValuation {
	a.Price = Round(a.Price)
	a.WeightedAveragePrice = Round(a.WeightedAveragePrice)
	a.CurrentValue = Round(a.CurrentValue)
	a.CostBasis = Round(a.CostBasis)
	a.UnrealizedGain = Round(a.UnrealizedGain)
	a.RealizedGain = Round(a.RealizedGain)
	a.ChangePercent = Round(a.ChangePercent)
	return a
}

// Asset orderings accepted by SortAssets.
const (
	OrderBySymbol   = "symbol"
	OrderByQuantity = "quantity"
	OrderByValue    = "value"
	OrderByChange   = "change"
)

// SortAssets orders assets in place. Symbol sorts ascending, the other keys descending;
// ties fall back to the symbol.
func SortAssets(assets []model.AssetValuation, orderBy string) {
	key := func(a model.AssetValuation) decimal.Decimal {
		switch orderBy {
		case OrderByQuantity:
			return a.Quantity
		case OrderByValue:
			return a.CurrentValue
		case OrderByChange:
			return a.ChangePercent
		}
		return decimal.Zero
	}
	slices.SortStableFunc(assets, func(a, b model.AssetValuation) int {
		if c := key(b).Cmp(key(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.Symbol, b.Symbol)
	})
}
