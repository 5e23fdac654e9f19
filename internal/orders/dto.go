package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/currency"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// ItemDTO is one snapshotted order line. The name and unit price are frozen
// at checkout so later catalog edits never rewrite history.
type ItemDTO struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int       `json:"unit_price_cents"`
	Quantity       int       `json:"quantity"`
	LineTotalCents int       `json:"line_total_cents"`
	LineTotal      string    `json:"line_total"`
}

// OrderDTO is the order projection shared by the dashboard and back office.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	ProfileID     uuid.UUID         `json:"profile_id"`
	Status        enums.OrderStatus `json:"status"`
	Items         []ItemDTO         `json:"items"`
	SubtotalCents int               `json:"subtotal_cents"`
	Subtotal      string            `json:"subtotal"`
	DiscountCents int               `json:"discount_cents"`
	Discount      string            `json:"discount"`
	TotalCents    int               `json:"total_cents"`
	Total         string            `json:"total"`
	VoucherID     *uuid.UUID        `json:"voucher_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// ListResponse is a cursor page of orders.
type ListResponse struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// UpdateStatusDTO is the admin payload for a fulfillment transition.
type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// FromModel projects an order row with display totals in the store currency.
func FromModel(order *models.Order, cur enums.Currency, ghsRate float64) OrderDTO {
	dto := OrderDTO{
		ID:            order.ID,
		ProfileID:     order.ProfileID,
		Status:        order.Status,
		Items:         make([]ItemDTO, 0, len(order.Items)),
		SubtotalCents: order.SubtotalCents,
		Subtotal:      currency.Display(order.SubtotalCents, cur, ghsRate),
		DiscountCents: order.DiscountCents,
		Discount:      currency.Display(order.DiscountCents, cur, ghsRate),
		TotalCents:    order.TotalCents,
		Total:         currency.Display(order.TotalCents, cur, ghsRate),
		VoucherID:     order.VoucherID,
		CreatedAt:     order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			LineTotalCents: item.LineTotalCents,
			LineTotal:      currency.Display(item.LineTotalCents, cur, ghsRate),
		})
	}
	return dto
}
