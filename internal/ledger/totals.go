package ledger

import (
	"sort"

	"github.com/angelmondragon/potionshop-backend/pkg/enums"
)

// Totals is the ledger folded into current stock per category and sub type.
type Totals struct {
	gold    int64
	liquid  map[enums.LiquidColor]int64
	potions map[string]int64
}

func newTotals(sums []Sum) Totals {
	t := Totals{
		liquid:  make(map[enums.LiquidColor]int64),
		potions: make(map[string]int64),
	}
	for _, sum := range sums {
		subType := ""
		if sum.SubType != nil {
			subType = *sum.SubType
		}
		switch sum.Category {
		case enums.LedgerCategoryGold:
			t.gold += sum.Quantity
		case enums.LedgerCategoryLiquid:
			t.liquid[enums.LiquidColor(subType)] += sum.Quantity
		case enums.LedgerCategoryPotion:
			t.potions[subType] += sum.Quantity
		}
	}
	return t
}

// Gold sums every gold entry regardless of sub type.
func (t Totals) Gold() int64 {
	return t.gold
}

func (t Totals) Liquid(color enums.LiquidColor) int64 {
	return t.liquid[color]
}

func (t Totals) Potion(sku string) int64 {
	return t.potions[sku]
}

// PotionSKUs returns every sku with ledger history, sorted.
func (t Totals) PotionSKUs() []string {
	skus := make([]string, 0, len(t.potions))
	for sku := range t.potions {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}
