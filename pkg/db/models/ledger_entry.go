package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/potionshop-backend/pkg/enums"
)

// LedgerEntry is one immutable stock delta. Summing Quantity per category and
// sub type reproduces the snapshot tables.
type LedgerEntry struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Category  enums.LedgerCategory `gorm:"column:category;not null;index:idx_ledger_entries_category_sub_type"`
	SubType   *string              `gorm:"column:sub_type;index:idx_ledger_entries_category_sub_type"`
	Quantity  int                  `gorm:"column:quantity;not null"`
	OrderID   *string              `gorm:"column:order_id;index"`
	Source    enums.LedgerSource   `gorm:"column:source;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

func (e *LedgerEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
