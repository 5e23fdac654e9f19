package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// Campaign is a broadcast email. Recipients holds the custom address list
// when Audience is "custom"; for "subscribers" the list is resolved from
// newsletter_subscribers at send time.
type Campaign struct {
	ID          uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                 `gorm:"column:name;not null"`
	Subject     string                 `gorm:"column:subject;not null"`
	BodyHTML    string                 `gorm:"column:body_html;not null"`
	Audience    enums.CampaignAudience `gorm:"column:audience;type:text;not null;default:'subscribers'"`
	Recipients  pq.StringArray         `gorm:"column:recipients;type:text[];not null;default:ARRAY[]::text[]"`
	Status      enums.CampaignStatus   `gorm:"column:status;type:text;not null;default:'draft'"`
	TemplateID  *uuid.UUID             `gorm:"column:template_id;type:uuid"`
	ScheduledAt *time.Time             `gorm:"column:scheduled_at"`
	SentAt      *time.Time             `gorm:"column:sent_at"`
	SentCount   int                    `gorm:"column:sent_count;not null;default:0"`
	CreatedAt   time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
