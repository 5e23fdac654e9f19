package newsletter

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	subscriber := models.NewsletterSubscriber{Email: strings.ToLower(email)}
	if err := r.db.WithContext(ctx).Create(&subscriber).Error; err != nil {
		return nil, err
	}
	return &subscriber, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.NewsletterSubscriber{}).Error
}

func (r *Repository) DeleteByEmail(ctx context.Context, email string) error {
	return r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		Delete(&models.NewsletterSubscriber{}).Error
}

// ListEmails returns every subscriber address for campaign sends.
func (r *Repository) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.NewsletterSubscriber{}).
		Order("created_at ASC").
		Pluck("email", &emails).Error
	return emails, err
}

func (r *Repository) List(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	var subscribers []models.NewsletterSubscriber
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subscribers).Error
	return subscribers, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NewsletterSubscriber{}).Count(&count).Error
	return count, err
}
