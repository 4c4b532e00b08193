package enums

import "fmt"

// LedgerCategory groups ledger entries by the stock they move.
type LedgerCategory string

const (
	LedgerCategoryGold   LedgerCategory = "gold"
	LedgerCategoryLiquid LedgerCategory = "liquid"
	LedgerCategoryPotion LedgerCategory = "potion"
)

var validLedgerCategories = []LedgerCategory{
	LedgerCategoryGold,
	LedgerCategoryLiquid,
	LedgerCategoryPotion,
}

// String implements fmt.Stringer.
func (c LedgerCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known LedgerCategory.
func (c LedgerCategory) IsValid() bool {
	for _, candidate := range validLedgerCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// RequiresSubType is true for categories keyed by color or sku.
func (c LedgerCategory) RequiresSubType() bool {
	return c == LedgerCategoryLiquid || c == LedgerCategoryPotion
}

// ParseLedgerCategory converts raw input into a LedgerCategory.
func ParseLedgerCategory(value string) (LedgerCategory, error) {
	for _, candidate := range validLedgerCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ledger category %q", value)
}
