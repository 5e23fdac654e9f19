package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an article on the storefront blog.
type BlogPost struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string     `gorm:"column:title;not null"`
	Slug          string     `gorm:"column:slug;not null;uniqueIndex"`
	Excerpt       *string    `gorm:"column:excerpt"`
	BodyHTML      string     `gorm:"column:body_html;not null"`
	CoverImageURL *string    `gorm:"column:cover_image_url"`
	Published     bool       `gorm:"column:published;not null;default:false"`
	PublishedAt   *time.Time `gorm:"column:published_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
