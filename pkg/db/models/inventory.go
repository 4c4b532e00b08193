package models

import "time"

// SingletonID is the primary key of every one-row snapshot table.
const SingletonID = 1

// GoldInventory is the gold snapshot.
type GoldInventory struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	Amount    int       `gorm:"column:amount;not null;check:chk_gold_inventory_amount,amount >= 0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (GoldInventory) TableName() string { return "gold_inventory" }

// LiquidInventory is the liquid snapshot in millilitres per color.
type LiquidInventory struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	RedML     int       `gorm:"column:red_ml;not null;check:chk_liquid_inventory_red,red_ml >= 0"`
	GreenML   int       `gorm:"column:green_ml;not null;check:chk_liquid_inventory_green,green_ml >= 0"`
	BlueML    int       `gorm:"column:blue_ml;not null;check:chk_liquid_inventory_blue,blue_ml >= 0"`
	DarkML    int       `gorm:"column:dark_ml;not null;check:chk_liquid_inventory_dark,dark_ml >= 0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (LiquidInventory) TableName() string { return "liquid_inventory" }

// PotionInventory holds finished potions per sku.
type PotionInventory struct {
	SKU       string    `gorm:"column:sku;primaryKey"`
	Quantity  int       `gorm:"column:quantity;not null;check:chk_potion_inventory_quantity,quantity >= 0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PotionInventory) TableName() string { return "potion_inventory" }

// CapacityInventory counts purchased storage units.
type CapacityInventory struct {
	ID             int       `gorm:"column:id;primaryKey;autoIncrement:false"`
	PotionCapacity int       `gorm:"column:potion_capacity;not null"`
	MLCapacity     int       `gorm:"column:ml_capacity;not null"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CapacityInventory) TableName() string { return "capacity_inventory" }
