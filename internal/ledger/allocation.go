package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Ledger-Backend/internal/model"
)

// SectorAllocations groups asset values by sector as a percentage of stockValue, highest first.
// It returns an empty slice when stockValue is zero.
func SectorAllocations(assets []model.AssetValuation, stockValue decimal.Decimal) []model.SectorAllocation {
	allocations := []model.SectorAllocation{}
	if !stockValue.IsPositive() {
		return allocations
	}

	totals := make(map[string]decimal.Decimal)
	for _, a := range assets {
		sector := a.Sector
		if sector == "" {
			sector = model.UnknownSector
		}
		totals[sector] = totals[sector].Add(a.CurrentValue)
	}

	for sector, amount := range totals {
		allocations = append(allocations, model.SectorAllocation{
			Sector:     sector,
			Amount:     amount,
			Percentage: percentOf(amount, stockValue),
		})
	}

	slices.SortFunc(allocations, func(a, b model.SectorAllocation) int {
		if c := b.Percentage.Cmp(a.Percentage); c != 0 {
			return c
		}
		return cmp.Compare(a.Sector, b.Sector)
	})

	for i := range allocations {
		allocations[i].Amount = Round(allocations[i].Amount)
		allocations[i].Percentage = Round(allocations[i].Percentage)
	}
	return allocations
}
