package models

import (
	"time"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// SettingsRowID is the primary key of the single settings row.
const SettingsRowID = 1

// Setting is the singleton site configuration row. GHSRate is the static
// USD→GHS display rate; it never rewrites stored prices.
type Setting struct {
	ID           int            `gorm:"column:id;primaryKey"`
	StoreName    string         `gorm:"column:store_name;not null;default:'Joyalure'"`
	SupportEmail string         `gorm:"column:support_email;not null;default:'hello@joyalure.com'"`
	Currency     enums.Currency `gorm:"column:currency;type:text;not null;default:'USD'"`
	GHSRate      float64        `gorm:"column:ghs_rate;type:numeric(12,4);not null;default:12"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the BaaS-era table name.
func (Setting) TableName() string { return "settings" }
