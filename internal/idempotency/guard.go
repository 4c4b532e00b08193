package idempotency

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Guard records accepted order ids. Accept must run in the same transaction as
// the mutation it protects: the primary key on processed_orders makes a second
// concurrent insert wait for, then lose to, the first.
type Guard interface {
	Accept(ctx context.Context, tx *gorm.DB, orderID string) (bool, error)
	Seen(ctx context.Context, orderID string) (bool, error)
	Clear(ctx context.Context, tx *gorm.DB) error
}

type guard struct {
	db *gorm.DB
}

// NewGuard binds a guard to the database used for out-of-transaction reads.
func NewGuard(db *gorm.DB) (Guard, error) {
	if db == nil {
		return nil, fmt.Errorf("idempotency guard requires a database")
	}
	return &guard{db: db}, nil
}

// Accept returns true and records orderID on first use, false on any repeat.
func (g *guard) Accept(ctx context.Context, tx *gorm.DB, orderID string) (bool, error) {
	if tx == nil {
		return false, fmt.Errorf("idempotency accept requires a transaction")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return false, fmt.Errorf("order id is required")
	}

	res := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(&models.ProcessedOrder{OrderID: orderID})
	if res.Error != nil {
		return false, fmt.Errorf("recording processed order: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (g *guard) Seen(ctx context.Context, orderID string) (bool, error) {
	var count int64
	if err := g.db.WithContext(ctx).
		Model(&models.ProcessedOrder{}).
		Where("order_id = ?", strings.TrimSpace(orderID)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (g *guard) Clear(ctx context.Context, tx *gorm.DB) error {
	if tx == nil {
		return fmt.Errorf("idempotency clear requires a transaction")
	}
	return tx.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.ProcessedOrder{}).Error
}
