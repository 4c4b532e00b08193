package models

import "time"

// ProcessedOrder marks an order id as already applied.
type ProcessedOrder struct {
	OrderID   string    `gorm:"column:order_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProcessedOrder) TableName() string { return "processed_orders" }
