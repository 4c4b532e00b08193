package catalog

import (
	"context"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads and seeds the potion catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.PotionRecipe, error)
	ListStorefront(ctx context.Context, limit int) ([]StorefrontRow, error)
	Seed(ctx context.Context, recipes []models.PotionRecipe) (int64, error)
}

// StorefrontRow is an active recipe joined with its finished stock.
type StorefrontRow struct {
	SKU      string `gorm:"column:sku"`
	Name     string `gorm:"column:name"`
	Price    int    `gorm:"column:price"`
	RedPct   int    `gorm:"column:red_pct"`
	GreenPct int    `gorm:"column:green_pct"`
	BluePct  int    `gorm:"column:blue_pct"`
	DarkPct  int    `gorm:"column:dark_pct"`
	Quantity int    `gorm:"column:quantity"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.PotionRecipe, error) {
	var recipes []models.PotionRecipe
	if err := r.db.WithContext(ctx).Order("sku ASC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *repository) ListStorefront(ctx context.Context, limit int) ([]StorefrontRow, error) {
	var rows []StorefrontRow
	if err := r.db.WithContext(ctx).
		Table("potion_catalog AS pc").
		Select("pc.sku, pc.name, pc.price, pc.red_pct, pc.green_pct, pc.blue_pct, pc.dark_pct, pi.quantity").
		Joins("JOIN potion_inventory AS pi ON pi.sku = pc.sku").
		Where("pc.active = ? AND pi.quantity > 0", true).
		Order("pc.sku ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Seed inserts recipes whose sku is not yet present and reports how many were added.
func (r *repository) Seed(ctx context.Context, recipes []models.PotionRecipe) (int64, error) {
	if len(recipes) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&recipes)
	return res.RowsAffected, res.Error
}
