package models

import (
	"time"

	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// PotionRecipe maps a color ratio to a sellable sku.
type PotionRecipe struct {
	SKU       string    `gorm:"column:sku;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Price     int       `gorm:"column:price;not null;check:chk_potion_catalog_price,price BETWEEN 1 AND 500"`
	RedPct    int       `gorm:"column:red_pct;not null;uniqueIndex:idx_potion_catalog_ratio"`
	GreenPct  int       `gorm:"column:green_pct;not null;uniqueIndex:idx_potion_catalog_ratio"`
	BluePct   int       `gorm:"column:blue_pct;not null;uniqueIndex:idx_potion_catalog_ratio"`
	DarkPct   int       `gorm:"column:dark_pct;not null;uniqueIndex:idx_potion_catalog_ratio;check:chk_potion_catalog_ratio,red_pct + green_pct + blue_pct + dark_pct = 100"`
	Active    bool      `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PotionRecipe) TableName() string { return "potion_catalog" }

// PotionType returns the recipe ratio in slot order.
func (r PotionRecipe) PotionType() types.PotionType {
	return types.PotionType{r.RedPct, r.GreenPct, r.BluePct, r.DarkPct}
}
