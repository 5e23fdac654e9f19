package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem marks membership of a product in a customer's wishlist.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID uuid.UUID `gorm:"column:profile_id;type:uuid;not null;uniqueIndex:idx_wishlist_profile_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_wishlist_profile_product"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
