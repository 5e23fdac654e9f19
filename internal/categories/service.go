package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/internal/products"
	"github.com/joyalure/joyalure-backend/pkg/db"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// CategoryDTO is the navigation projection shared by both surfaces.
type CategoryDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCategoryDTO is the admin payload for a new category.
type CreateCategoryDTO struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Slug        string  `json:"slug,omitempty" validate:"omitempty,max=120"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateCategoryDTO carries partial admin edits.
type UpdateCategoryDTO struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=120"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

func fromModel(category *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		ImageURL:    category.ImageURL,
		CreatedAt:   category.CreatedAt,
	}
}

// Service exposes category reads for navigation and CRUD for the back office.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	GetBySlug(ctx context.Context, slug string) (CategoryDTO, error)
	Create(ctx context.Context, dto CreateCategoryDTO) (CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountProducts(ctx context.Context, id uuid.UUID) (int64, error)
}

type service struct {
	repo categoryRepository
}

// ServiceParams bundles the dependencies required to build a categories service.
type ServiceParams struct {
	Repo categoryRepository
}

// NewService constructs a categories service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, fromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (CategoryDTO, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	category, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return fromModel(category), nil
}

func (s *service) Create(ctx context.Context, dto CreateCategoryDTO) (CategoryDTO, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	slug := strings.TrimSpace(strings.ToLower(dto.Slug))
	if slug == "" {
		slug = products.Slugify(name)
	}
	if slug == "" {
		return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "slug could not be derived from name")
	}

	created, err := s.repo.Create(ctx, &models.Category{
		Name:        name,
		Slug:        slug,
		Description: dto.Description,
		ImageURL:    dto.ImageURL,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateCategoryDTO) (CategoryDTO, error) {
	category, err := s.load(ctx, id)
	if err != nil {
		return CategoryDTO{}, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return CategoryDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		category.Name = name
	}
	if dto.Description != nil {
		category.Description = dto.Description
	}
	if dto.ImageURL != nil {
		category.ImageURL = dto.ImageURL
	}

	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return CategoryDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return fromModel(updated), nil
}

// Delete refuses to remove a category that still has products attached so
// the storefront navigation never points at an orphaned slug.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	count, err := s.repo.CountProducts(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}
