package cart

import (
	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/currency"
	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// LineDTO is one rendered cart line. line_total_cents is always
// unit_price_cents * quantity, integer math only.
type LineDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	ImageURL       *string   `json:"image_url,omitempty"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
	LineTotal      string    `json:"line_total"`
	InStock        bool      `json:"in_stock"`
}

// CartDTO is the full cart projection.
type CartDTO struct {
	Lines         []LineDTO `json:"lines"`
	ItemCount     int       `json:"item_count"`
	SubtotalCents int       `json:"subtotal_cents"`
	Subtotal      string    `json:"subtotal"`
	Currency      string    `json:"currency"`
}

// AddItemDTO adds a product to the cart, merging into an existing line.
type AddItemDTO struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=1,lte=99"`
}

func buildCartDTO(lines []Line, cur enums.Currency, ghsRate float64) CartDTO {
	dto := CartDTO{
		Lines:    make([]LineDTO, 0, len(lines)),
		Currency: string(cur),
	}
	for _, line := range lines {
		lineTotal := line.Product.PriceCents * line.Item.Quantity
		inStock := false
		if line.Product.Inventory != nil {
			inStock = line.Product.Inventory.Quantity > 0
		}
		dto.Lines = append(dto.Lines, LineDTO{
			ProductID:      line.Product.ID,
			Name:           line.Product.Name,
			Slug:           line.Product.Slug,
			ImageURL:       line.Product.ImageURL,
			UnitPriceCents: line.Product.PriceCents,
			Quantity:       line.Item.Quantity,
			LineTotalCents: lineTotal,
			LineTotal:      currency.Display(lineTotal, cur, ghsRate),
			InStock:        inStock,
		})
		dto.ItemCount += line.Item.Quantity
		dto.SubtotalCents += lineTotal
	}
	dto.Subtotal = currency.Display(dto.SubtotalCents, cur, ghsRate)
	return dto
}
