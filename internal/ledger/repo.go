package ledger

import (
	"context"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository manages persistence for ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, entries []models.LedgerEntry) error
	ListByOrderID(ctx context.Context, orderID string) ([]models.LedgerEntry, error)
	SumByKey(ctx context.Context) ([]Sum, error)
	DeleteAll(ctx context.Context) error
}

// Sum is one aggregated (category, sub_type) row.
type Sum struct {
	Category enums.LedgerCategory `gorm:"column:category"`
	SubType  *string              `gorm:"column:sub_type"`
	Quantity int64                `gorm:"column:quantity"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateBatch(ctx context.Context, entries []models.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) ListByOrderID(ctx context.Context, orderID string) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Order("category ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) SumByKey(ctx context.Context) ([]Sum, error) {
	var sums []Sum
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Select("category, sub_type, COALESCE(SUM(quantity), 0) AS quantity").
		Group("category, sub_type").
		Order("category ASC, sub_type ASC").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	return sums, nil
}

func (r *repository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.LedgerEntry{}).Error
}
