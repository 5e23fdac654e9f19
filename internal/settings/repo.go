package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the singleton settings row seeded by the migrations.
func (r *Repository) Get(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).First(&setting, "id = ?", models.SettingsRowID).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *Repository) Update(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	setting.ID = models.SettingsRowID
	if err := r.db.WithContext(ctx).Save(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}
