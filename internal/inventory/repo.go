package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindByProductID(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert sets the absolute quantity and threshold for a product, creating
// the row if the product was seeded without one.
func (r *Repository) Upsert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "low_stock_threshold", "updated_at"}),
		}).
		Create(item).Error
	if err != nil {
		return nil, err
	}
	return item, nil
}

// AdjustQuantity applies a signed delta, clamped at zero in SQL so
// concurrent checkouts never drive stock negative.
func (r *Repository) AdjustQuantity(ctx context.Context, productID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("product_id = ?", productID).
		UpdateColumn("quantity", gorm.Expr("GREATEST(quantity + ?, 0)", delta)).Error
}

// ListLowStock returns inventory rows at or under their threshold, joined
// with the owning product name for admin display.
func (r *Repository) ListLowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).
		Table("inventory").
		Select("inventory.product_id", "products.name AS product_name", "inventory.quantity", "inventory.low_stock_threshold").
		Joins("JOIN products ON products.id = inventory.product_id").
		Where("inventory.quantity <= inventory.low_stock_threshold").
		Where("products.is_active").
		Order("inventory.quantity ASC").
		Scan(&rows).Error
	return rows, err
}

// LowStockRow is the scan target for the low stock report.
type LowStockRow struct {
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
}
