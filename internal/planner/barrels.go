package planner

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

const (
	// LowStockThreshold is the ml level below which a color is restocked.
	LowStockThreshold = 50
)

// MinMLPerGold is the least efficient barrel worth buying.
var MinMLPerGold = decimal.NewFromInt(1)

// PlanBarrels proposes at most one barrel: a single unit of the most
// gold-efficient pure barrel for the lowest stocked color, when that color is
// below LowStockThreshold. Equally low colors resolve in red, green, blue, dark
// order; equally efficient barrels resolve in catalog order.
func PlanBarrels(gold int, liquid types.LiquidLevels, catalog []types.Barrel) []types.BarrelOrder {
	plan := []types.BarrelOrder{}

	slot, ok := lowestLowColor(liquid)
	if !ok {
		return plan
	}

	var (
		best      *types.Barrel
		bestYield decimal.Decimal
		bestFree  bool
	)
	for i := range catalog {
		barrel := &catalog[i]
		// the offered quantity is not consulted, only purity, price and yield
		if barrel.MLPerBarrel <= 0 {
			continue
		}
		if !isPureFor(barrel.PotionType, slot) || barrel.Price > gold {
			continue
		}

		if barrel.Price <= 0 {
			if !bestFree {
				best, bestFree = barrel, true
			}
			continue
		}
		if bestFree {
			continue
		}

		yield := decimal.NewFromInt(int64(barrel.MLPerBarrel)).Div(decimal.NewFromInt(int64(barrel.Price)))
		if yield.LessThan(MinMLPerGold) {
			continue
		}
		if best == nil || yield.GreaterThan(bestYield) {
			best, bestYield = barrel, yield
		}
	}

	if best != nil {
		plan = append(plan, types.BarrelOrder{SKU: best.SKU, Quantity: 1})
	}
	return plan
}

func lowestLowColor(liquid types.LiquidLevels) (int, bool) {
	slot := -1
	for i, ml := range liquid {
		if ml >= LowStockThreshold {
			continue
		}
		if slot < 0 || ml < liquid[slot] {
			slot = i
		}
	}
	return slot, slot >= 0
}

func isPureFor(ratio [4]float64, slot int) bool {
	for i, v := range ratio {
		if i == slot {
			if v != 1.0 {
				return false
			}
			continue
		}
		if v != 0 {
			return false
		}
	}
	return true
}
