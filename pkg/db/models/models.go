package models

// All lists every persisted model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&LedgerEntry{},
		&GoldInventory{},
		&LiquidInventory{},
		&PotionInventory{},
		&CapacityInventory{},
		&PotionRecipe{},
		&ProcessedOrder{},
		&Cart{},
		&CartItem{},
	}
}
