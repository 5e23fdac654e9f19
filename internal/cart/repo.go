package cart

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

// AddOrIncrement merges an add into the existing row for (profile, product),
// bumping quantity by the requested amount. The unique index makes the
// upsert race-safe.
func (r *Repository) AddOrIncrement(ctx context.Context, profileID, productID uuid.UUID, quantity int) error {
	item := models.CartItem{
		ProfileID: profileID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "profile_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
				"updated_at": gorm.Expr("now()"),
			}),
		}).
		Create(&item).Error
}

func (r *Repository) FindLine(ctx context.Context, profileID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "profile_id = ? AND product_id = ?", profileID, productID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetQuantity overwrites the line quantity. Callers must keep quantity >= 1;
// removal goes through DeleteLine.
func (r *Repository) SetQuantity(ctx context.Context, profileID, productID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("profile_id = ? AND product_id = ?", profileID, productID).
		UpdateColumn("quantity", quantity).Error
}

func (r *Repository) DeleteLine(ctx context.Context, profileID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND product_id = ?", profileID, productID).
		Delete(&models.CartItem{}).Error
}

func (r *Repository) Clear(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Delete(&models.CartItem{}).Error
}

// Line joins a cart row with its product for totals and display.
type Line struct {
	Item    models.CartItem
	Product models.Product
}

// ListLines loads the cart with products, oldest line first so the cart
// renders in the order items were added.
func (r *Repository) ListLines(ctx context.Context, profileID uuid.UUID) ([]Line, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	var products []models.Product
	err = r.db.WithContext(ctx).
		Preload("Inventory").
		Where("id IN ?", productIDs).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	lines := make([]Line, 0, len(items))
	for _, item := range items {
		product, ok := byID[item.ProductID]
		if !ok {
			// Product deleted since it was carted; drop the orphan line.
			continue
		}
		lines = append(lines, Line{Item: item, Product: product})
	}
	return lines, nil
}
