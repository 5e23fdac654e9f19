package media

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

func (r *Repository) MarkAttached(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Media{}).
		Where("id = ?", id).
		UpdateColumn("status", enums.MediaStatusAttached).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{}).Error
}

func (r *Repository) List(ctx context.Context) ([]models.Media, error) {
	var media []models.Media
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&media).Error
	return media, err
}

// ListStalePending returns pending uploads created before the cutoff.
// These were uploaded but never referenced by a product, post, or profile.
func (r *Repository) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Media, error) {
	var media []models.Media
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.MediaStatusPending).
		Where("created_at < ?", cutoff).
		Order("created_at ASC").
		Find(&media).Error
	return media, err
}
