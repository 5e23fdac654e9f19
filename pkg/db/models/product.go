package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product represents a storefront listing. Prices are USD minor units.
type Product struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID          *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	Name                string         `gorm:"column:name;not null"`
	Slug                string         `gorm:"column:slug;not null;uniqueIndex"`
	Description         *string        `gorm:"column:description"`
	PriceCents          int            `gorm:"column:price_cents;not null"`
	CompareAtPriceCents *int           `gorm:"column:compare_at_price_cents"`
	ImageURL            *string        `gorm:"column:image_url"`
	Tags                pq.StringArray `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive            bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured          bool           `gorm:"column:is_featured;not null;default:false"`
	Inventory           *InventoryItem `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
