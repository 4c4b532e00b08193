package planner

import (
	"sort"

	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Recipe is the planner's view of a catalog entry.
type Recipe struct {
	SKU        string
	PotionType types.PotionType
	Price      int
}

// PlanBottles greedily fills the remaining capacity from available liquid.
// Recipes are visited once each: those using more colors first, then the
// cheapest, then by sku. Each visit bottles as many as liquid and capacity
// allow and deducts what it consumed before the next recipe is considered.
func PlanBottles(liquid types.LiquidLevels, recipes []Recipe, capacity, current int) []types.PotionMix {
	plan := []types.PotionMix{}

	remaining := capacity - current
	if remaining <= 0 {
		return plan
	}

	ordered := make([]Recipe, len(recipes))
	copy(ordered, recipes)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if na, nb := a.PotionType.NonZero(), b.PotionType.NonZero(); na != nb {
			return na > nb
		}
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return a.SKU < b.SKU
	})

	available := liquid
	for _, recipe := range ordered {
		if remaining <= 0 {
			break
		}
		ratio := recipe.PotionType
		if ratio.IsZero() {
			continue
		}

		qty := remaining
		for slot, need := range ratio {
			if need <= 0 {
				continue
			}
			if craftable := available[slot] / need; craftable < qty {
				qty = craftable
			}
		}
		if qty <= 0 {
			continue
		}

		for slot, need := range ratio {
			available[slot] -= need * qty
		}
		remaining -= qty
		plan = append(plan, types.PotionMix{PotionType: ratio, Quantity: qty})
	}

	return plan
}
