package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// Payment records the amount charged for an order. There is no payment
// service provider integration; the row is the system of record.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null"`
	AmountCents int                 `gorm:"column:amount_cents;not null"`
	Method      string              `gorm:"column:method;not null;default:'card'"`
	Reference   *string             `gorm:"column:reference"`
	Status      enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
