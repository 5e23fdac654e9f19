package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// Order is a checkout snapshot of a customer's cart. Totals are USD minor
// units; the voucher discount is applied once at creation and frozen.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProfileID     uuid.UUID         `gorm:"column:profile_id;type:uuid;not null"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalCents int               `gorm:"column:subtotal_cents;not null"`
	DiscountCents int               `gorm:"column:discount_cents;not null;default:0"`
	TotalCents    int               `gorm:"column:total_cents;not null"`
	VoucherID     *uuid.UUID        `gorm:"column:voucher_id;type:uuid"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
