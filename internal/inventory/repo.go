package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInsufficient reports a guarded update that would drive a snapshot negative.
	ErrInsufficient = errors.New("insufficient stock")
	// ErrNotInitialized reports missing singleton snapshot rows.
	ErrNotInitialized = errors.New("inventory baseline missing")
)

// Repository reads and adjusts the snapshot tables. Every Adjust call is a
// single guarded UPDATE that refuses to cross zero.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Gold(ctx context.Context) (int, error)
	AdjustGold(ctx context.Context, delta int) error
	Liquid(ctx context.Context) (types.LiquidLevels, error)
	AdjustLiquid(ctx context.Context, delta types.LiquidLevels) error
	Potions(ctx context.Context) ([]models.PotionInventory, error)
	PotionQuantities(ctx context.Context, skus []string) (map[string]int, error)
	TotalPotions(ctx context.Context) (int, error)
	AdjustPotion(ctx context.Context, sku string, delta int) error
	Capacity(ctx context.Context) (models.CapacityInventory, error)
	AddCapacity(ctx context.Context, potionUnits, mlUnits int) error
	HasBaseline(ctx context.Context) (bool, error)
	ResetSnapshots(ctx context.Context, gold int) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a snapshot repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Gold(ctx context.Context) (int, error) {
	var row models.GoldInventory
	if err := r.db.WithContext(ctx).Where("id = ?", models.SingletonID).Take(&row).Error; err != nil {
		return 0, notInitialized(err)
	}
	return row.Amount, nil
}

func (r *repository) AdjustGold(ctx context.Context, delta int) error {
	if delta == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.GoldInventory{}).
		Where("id = ? AND amount + ? >= 0", models.SingletonID, delta).
		Update("amount", gorm.Expr("amount + ?", delta))
	return guarded(res, "gold")
}

func (r *repository) Liquid(ctx context.Context) (types.LiquidLevels, error) {
	var row models.LiquidInventory
	if err := r.db.WithContext(ctx).Where("id = ?", models.SingletonID).Take(&row).Error; err != nil {
		return types.LiquidLevels{}, notInitialized(err)
	}
	return types.LiquidLevels{row.RedML, row.GreenML, row.BlueML, row.DarkML}, nil
}

func (r *repository) AdjustLiquid(ctx context.Context, delta types.LiquidLevels) error {
	if delta == (types.LiquidLevels{}) {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.LiquidInventory{}).
		Where("id = ?", models.SingletonID).
		Where("red_ml + ? >= 0 AND green_ml + ? >= 0 AND blue_ml + ? >= 0 AND dark_ml + ? >= 0",
			delta[0], delta[1], delta[2], delta[3]).
		Updates(map[string]any{
			"red_ml":   gorm.Expr("red_ml + ?", delta[0]),
			"green_ml": gorm.Expr("green_ml + ?", delta[1]),
			"blue_ml":  gorm.Expr("blue_ml + ?", delta[2]),
			"dark_ml":  gorm.Expr("dark_ml + ?", delta[3]),
		})
	return guarded(res, "liquid")
}

func (r *repository) Potions(ctx context.Context) ([]models.PotionInventory, error) {
	var rows []models.PotionInventory
	if err := r.db.WithContext(ctx).Order("sku ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) PotionQuantities(ctx context.Context, skus []string) (map[string]int, error) {
	out := make(map[string]int, len(skus))
	if len(skus) == 0 {
		return out, nil
	}
	var rows []models.PotionInventory
	if err := r.db.WithContext(ctx).Where("sku IN ?", skus).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.SKU] = row.Quantity
	}
	return out, nil
}

func (r *repository) TotalPotions(ctx context.Context) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.PotionInventory{}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

// AdjustPotion upserts credits and guards debits.
func (r *repository) AdjustPotion(ctx context.Context, sku string, delta int) error {
	switch {
	case delta == 0:
		return nil
	case delta > 0:
		return r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "sku"}},
				DoUpdates: clause.Assignments(map[string]any{
					"quantity": gorm.Expr("potion_inventory.quantity + ?", delta),
				}),
			}).
			Create(&models.PotionInventory{SKU: sku, Quantity: delta}).Error
	default:
		res := r.db.WithContext(ctx).
			Model(&models.PotionInventory{}).
			Where("sku = ? AND quantity + ? >= 0", sku, delta).
			Update("quantity", gorm.Expr("quantity + ?", delta))
		return guarded(res, "potion "+sku)
	}
}

func (r *repository) Capacity(ctx context.Context) (models.CapacityInventory, error) {
	var row models.CapacityInventory
	if err := r.db.WithContext(ctx).Where("id = ?", models.SingletonID).Take(&row).Error; err != nil {
		return models.CapacityInventory{}, notInitialized(err)
	}
	return row, nil
}

func (r *repository) AddCapacity(ctx context.Context, potionUnits, mlUnits int) error {
	if potionUnits == 0 && mlUnits == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.CapacityInventory{}).
		Where("id = ?", models.SingletonID).
		Updates(map[string]any{
			"potion_capacity": gorm.Expr("potion_capacity + ?", potionUnits),
			"ml_capacity":     gorm.Expr("ml_capacity + ?", mlUnits),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotInitialized
	}
	return nil
}

func (r *repository) HasBaseline(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.GoldInventory{}).
		Where("id = ?", models.SingletonID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResetSnapshots empties potion stock and rewrites the singleton rows to the baseline.
func (r *repository) ResetSnapshots(ctx context.Context, gold int) error {
	db := r.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PotionInventory{}).Error; err != nil {
		return fmt.Errorf("clearing potion inventory: %w", err)
	}

	rows := []any{
		&models.GoldInventory{ID: models.SingletonID, Amount: gold},
		&models.LiquidInventory{ID: models.SingletonID},
		&models.CapacityInventory{ID: models.SingletonID, PotionCapacity: 1, MLCapacity: 1},
	}
	for _, row := range rows {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
			return fmt.Errorf("resetting %T: %w", row, err)
		}
	}
	return nil
}

func guarded(res *gorm.DB, what string) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrInsufficient)
	}
	return nil
}

func notInitialized(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotInitialized
	}
	return err
}
