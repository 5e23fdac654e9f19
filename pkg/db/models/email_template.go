package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailTemplate is a reusable subject/body pair campaigns can start from.
type EmailTemplate struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Subject   string    `gorm:"column:subject;not null"`
	BodyHTML  string    `gorm:"column:body_html;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
