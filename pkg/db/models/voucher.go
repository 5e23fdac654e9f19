package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// Voucher is a discount code redeemable at checkout. Exactly one of
// PercentOff / AmountOffCents is set depending on Kind.
type Voucher struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string            `gorm:"column:code;not null;uniqueIndex"`
	Kind           enums.VoucherKind `gorm:"column:kind;type:text;not null"`
	PercentOff     *int              `gorm:"column:percent_off"`
	AmountOffCents *int              `gorm:"column:amount_off_cents"`
	StartsAt       *time.Time        `gorm:"column:starts_at"`
	ExpiresAt      *time.Time        `gorm:"column:expires_at"`
	MaxRedemptions *int              `gorm:"column:max_redemptions"`
	Redemptions    int               `gorm:"column:redemptions;not null;default:0"`
	IsActive       bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
