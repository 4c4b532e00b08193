package models

import "time"

// CartItem is one sku line in a cart; (cart_id, potion_sku) is unique.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CartID    int64     `gorm:"column:cart_id;not null;uniqueIndex:idx_cart_items_cart_sku"`
	PotionSKU string    `gorm:"column:potion_sku;not null;uniqueIndex:idx_cart_items_cart_sku"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }
