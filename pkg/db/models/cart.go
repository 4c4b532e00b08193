package models

import "time"

// Cart is a customer's open or checked out basket.
type Cart struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID     string     `gorm:"column:customer_id;not null"`
	CustomerName   string     `gorm:"column:customer_name;not null;index"`
	CharacterClass string     `gorm:"column:character_class;not null"`
	Level          int        `gorm:"column:level;not null"`
	CheckedOut     bool       `gorm:"column:checked_out;not null;default:false"`
	Items          []CartItem `gorm:"foreignKey:CartID;references:ID"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }
