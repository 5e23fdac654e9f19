package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

const cacheTTL = 5 * time.Minute

// SettingsDTO is the storefront/admin projection of the singleton row.
type SettingsDTO struct {
	StoreName    string         `json:"store_name"`
	SupportEmail string         `json:"support_email"`
	Currency     enums.Currency `json:"currency"`
	GHSRate      float64        `json:"ghs_rate"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// UpdateSettingsDTO carries partial admin edits.
type UpdateSettingsDTO struct {
	StoreName    *string  `json:"store_name,omitempty" validate:"omitempty,max=200"`
	SupportEmail *string  `json:"support_email,omitempty" validate:"omitempty,email"`
	Currency     *string  `json:"currency,omitempty" validate:"omitempty,oneof=USD GHS"`
	GHSRate      *float64 `json:"ghs_rate,omitempty" validate:"omitempty,gt=0"`
}

// Service owns the store settings with a short redis cache in front so the
// per-request currency lookup stays off the database.
type Service interface {
	Get(ctx context.Context) (SettingsDTO, error)
	Update(ctx context.Context, dto UpdateSettingsDTO) (SettingsDTO, error)
	DisplaySettings(ctx context.Context) (enums.Currency, float64, error)
}

type settingsRepository interface {
	Get(ctx context.Context) (*models.Setting, error)
	Update(ctx context.Context, setting *models.Setting) (*models.Setting, error)
}

type settingsCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	SettingsKey() string
}

type service struct {
	repo  settingsRepository
	cache settingsCache
}

// ServiceParams bundles the dependencies required to build a settings service.
type ServiceParams struct {
	Repo  settingsRepository
	Cache settingsCache
}

// NewService constructs a settings service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("settings repository is required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("settings cache is required")
	}
	return &service{repo: params.Repo, cache: params.Cache}, nil
}

func (s *service) Get(ctx context.Context) (SettingsDTO, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	setting, err := s.repo.Get(ctx)
	if err != nil {
		return SettingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	dto := fromModel(setting)
	s.toCache(ctx, dto)
	return dto, nil
}

func (s *service) Update(ctx context.Context, dto UpdateSettingsDTO) (SettingsDTO, error) {
	setting, err := s.repo.Get(ctx)
	if err != nil {
		return SettingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	if dto.StoreName != nil {
		name := strings.TrimSpace(*dto.StoreName)
		if name == "" {
			return SettingsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		setting.StoreName = name
	}
	if dto.SupportEmail != nil {
		setting.SupportEmail = strings.ToLower(strings.TrimSpace(*dto.SupportEmail))
	}
	if dto.Currency != nil {
		cur, err := enums.ParseCurrency(*dto.Currency)
		if err != nil {
			return SettingsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		setting.Currency = cur
	}
	if dto.GHSRate != nil {
		if *dto.GHSRate <= 0 {
			return SettingsDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "ghs_rate must be positive")
		}
		setting.GHSRate = *dto.GHSRate
	}

	updated, err := s.repo.Update(ctx, setting)
	if err != nil {
		return SettingsDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update settings")
	}

	// Invalidate so the next read repopulates with fresh values.
	_ = s.cache.Del(ctx, s.cache.SettingsKey())

	return fromModel(updated), nil
}

// DisplaySettings is the hot path used by catalog, cart, and order
// projections on every request.
func (s *service) DisplaySettings(ctx context.Context) (enums.Currency, float64, error) {
	dto, err := s.Get(ctx)
	if err != nil {
		return "", 0, err
	}
	return dto.Currency, dto.GHSRate, nil
}

func (s *service) fromCache(ctx context.Context) (SettingsDTO, bool) {
	raw, err := s.cache.Get(ctx, s.cache.SettingsKey())
	if err != nil || raw == "" {
		return SettingsDTO{}, false
	}
	var dto SettingsDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return SettingsDTO{}, false
	}
	return dto, true
}

func (s *service) toCache(ctx context.Context, dto SettingsDTO) {
	raw, err := json.Marshal(dto)
	if err != nil {
		return
	}
	// Cache misses are tolerable; the DB row stays authoritative.
	_ = s.cache.Set(ctx, s.cache.SettingsKey(), string(raw), cacheTTL)
}

func fromModel(setting *models.Setting) SettingsDTO {
	return SettingsDTO{
		StoreName:    setting.StoreName,
		SupportEmail: setting.SupportEmail,
		Currency:     setting.Currency,
		GHSRate:      setting.GHSRate,
		UpdatedAt:    setting.UpdatedAt,
	}
}
