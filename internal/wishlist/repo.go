package wishlist

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

// Add inserts a membership row, silently doing nothing if it already
// exists. Repeated adds are therefore idempotent.
func (r *Repository) Add(ctx context.Context, profileID, productID uuid.UUID) error {
	item := models.WishlistItem{ProfileID: profileID, ProductID: productID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "profile_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(&item).Error
}

func (r *Repository) Remove(ctx context.Context, profileID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("profile_id = ? AND product_id = ?", profileID, productID).
		Delete(&models.WishlistItem{}).Error
}

func (r *Repository) Contains(ctx context.Context, profileID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("profile_id = ? AND product_id = ?", profileID, productID).
		Count(&count).Error
	return count > 0, err
}

// ListProducts loads the wishlisted products newest-saved first.
func (r *Repository) ListProducts(ctx context.Context, profileID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Inventory").
		Joins("JOIN wishlist_items ON wishlist_items.product_id = products.id").
		Where("wishlist_items.profile_id = ?", profileID).
		Order("wishlist_items.created_at DESC").
		Find(&products).Error
	return products, err
}
