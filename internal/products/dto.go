package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/currency"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// ProductDTO is the catalog projection returned to both surfaces. Display
// prices are rendered in the store's configured currency.
type ProductDTO struct {
	ID                  uuid.UUID  `json:"id"`
	CategoryID          *uuid.UUID `json:"category_id,omitempty"`
	Name                string     `json:"name"`
	Slug                string     `json:"slug"`
	Description         *string    `json:"description,omitempty"`
	PriceCents          int        `json:"price_cents"`
	PriceDisplay        string     `json:"price_display"`
	CompareAtPriceCents *int       `json:"compare_at_price_cents,omitempty"`
	CompareAtDisplay    *string    `json:"compare_at_display,omitempty"`
	ImageURL            *string    `json:"image_url,omitempty"`
	Tags                []string   `json:"tags"`
	IsActive            bool       `json:"is_active"`
	IsFeatured          bool       `json:"is_featured"`
	InStock             bool       `json:"in_stock"`
	Quantity            *int       `json:"quantity,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// FromModel projects a product row into the API shape using the store's
// display currency and GHS rate.
func FromModel(product *models.Product, cur enums.Currency, ghsRate float64) ProductDTO {
	dto := ProductDTO{
		ID:                  product.ID,
		CategoryID:          product.CategoryID,
		Name:                product.Name,
		Slug:                product.Slug,
		Description:         product.Description,
		PriceCents:          product.PriceCents,
		PriceDisplay:        currency.Display(product.PriceCents, cur, ghsRate),
		CompareAtPriceCents: product.CompareAtPriceCents,
		ImageURL:            product.ImageURL,
		Tags:                append([]string{}, product.Tags...),
		IsActive:            product.IsActive,
		IsFeatured:          product.IsFeatured,
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
	if product.CompareAtPriceCents != nil {
		display := currency.Display(*product.CompareAtPriceCents, cur, ghsRate)
		dto.CompareAtDisplay = &display
	}
	if product.Inventory != nil {
		qty := product.Inventory.Quantity
		dto.Quantity = &qty
		dto.InStock = qty > 0
	}
	return dto
}

// CreateProductDTO is the admin payload for a new catalog entry.
type CreateProductDTO struct {
	CategoryID          *uuid.UUID `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name                string     `json:"name" validate:"required,max=200"`
	Slug                string     `json:"slug,omitempty" validate:"omitempty,max=200"`
	Description         *string    `json:"description,omitempty"`
	PriceCents          int        `json:"price_cents" validate:"required,gt=0"`
	CompareAtPriceCents *int       `json:"compare_at_price_cents,omitempty" validate:"omitempty,gt=0"`
	ImageURL            *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags                []string   `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
	IsActive            *bool      `json:"is_active,omitempty"`
	IsFeatured          *bool      `json:"is_featured,omitempty"`
	InitialQuantity     *int       `json:"initial_quantity,omitempty" validate:"omitempty,gte=0"`
}

// UpdateProductDTO carries partial admin edits. Nil fields are untouched.
type UpdateProductDTO struct {
	CategoryID          *uuid.UUID `json:"category_id,omitempty" validate:"omitempty,uuid"`
	Name                *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Description         *string    `json:"description,omitempty"`
	PriceCents          *int       `json:"price_cents,omitempty" validate:"omitempty,gt=0"`
	CompareAtPriceCents *int       `json:"compare_at_price_cents,omitempty" validate:"omitempty,gt=0"`
	ImageURL            *string    `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags                []string   `json:"tags,omitempty" validate:"omitempty,dive,max=50"`
	IsActive            *bool      `json:"is_active,omitempty"`
	IsFeatured          *bool      `json:"is_featured,omitempty"`
}

// ListResponse is a cursor page of catalog entries.
type ListResponse struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
