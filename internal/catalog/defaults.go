package catalog

import "github.com/angelmondragon/potionshop-backend/pkg/db/models"

// DefaultRecipes is the starter catalog seeded into fresh databases.
func DefaultRecipes() []models.PotionRecipe {
	return []models.PotionRecipe{
		{SKU: "RED_POTION_0", Name: "red potion", Price: 50, RedPct: 100, Active: true},
		{SKU: "GREEN_POTION_0", Name: "green potion", Price: 50, GreenPct: 100, Active: true},
		{SKU: "BLUE_POTION_0", Name: "blue potion", Price: 50, BluePct: 100, Active: true},
		{SKU: "DARK_POTION_0", Name: "dark potion", Price: 65, DarkPct: 100, Active: true},
		{SKU: "PURPLE_POTION_0", Name: "purple potion", Price: 55, RedPct: 50, BluePct: 50, Active: true},
		{SKU: "YELLOW_POTION_0", Name: "yellow potion", Price: 45, RedPct: 50, GreenPct: 50, Active: true},
		{SKU: "TEAL_POTION_0", Name: "teal potion", Price: 45, GreenPct: 50, BluePct: 50, Active: true},
	}
}
