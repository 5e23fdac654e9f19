package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsletterSubscriber is one opted-in address. The unique index on email
// is what turns a duplicate signup into an "already subscribed" outcome.
type NewsletterSubscriber struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;type:text;not null;uniqueIndex:idx_newsletter_email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
