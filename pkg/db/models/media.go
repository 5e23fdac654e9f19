package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// Media records every direct upload so orphaned objects can be reaped.
// Rows start as pending and flip to attached when a record references the
// public URL.
type Media struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Bucket      string            `gorm:"column:bucket;not null"`
	ObjectKey   string            `gorm:"column:object_key;not null;uniqueIndex"`
	PublicURL   string            `gorm:"column:public_url;not null"`
	ContentType string            `gorm:"column:content_type;not null"`
	SizeBytes   int64             `gorm:"column:size_bytes;not null;default:0"`
	Status      enums.MediaStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	UploadedBy  *uuid.UUID        `gorm:"column:uploaded_by;type:uuid"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
