package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks the stock count per product. A product is low on
// stock when quantity <= low_stock_threshold.
type InventoryItem struct {
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Quantity          int       `gorm:"column:quantity;not null;default:0"`
	LowStockThreshold int       `gorm:"column:low_stock_threshold;not null;default:5"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the BaaS-era table name.
func (InventoryItem) TableName() string { return "inventory" }
