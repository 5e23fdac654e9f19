package products

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

// Service exposes catalog reads for the storefront and full CRUD for the
// back office.
type Service interface {
	ListCatalog(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error)
	GetBySlug(ctx context.Context, slug string) (ProductDTO, error)
	ListAdmin(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (ProductDTO, error)
	Create(ctx context.Context, dto CreateProductDTO) (ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (ProductDTO, error)
}

type productRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Product, string, error)
}

// displaySettings surfaces the store currency and GHS rate used to render
// price strings. Implemented by the settings service.
type displaySettings interface {
	DisplaySettings(ctx context.Context) (enums.Currency, float64, error)
}

type service struct {
	repo     productRepository
	settings displaySettings
}

// ServiceParams bundles the dependencies required to build a products service.
type ServiceParams struct {
	Repo     productRepository
	Settings displaySettings
}

// NewService constructs a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("display settings provider is required")
	}
	return &service{repo: params.Repo, settings: params.Settings}, nil
}

// ListCatalog lists active products only, regardless of the caller's filter.
func (s *service) ListCatalog(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error) {
	filter.ActiveOnly = true
	return s.list(ctx, filter, params)
}

// ListAdmin lists the whole catalog, hidden entries included.
func (s *service) ListAdmin(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error) {
	filter.ActiveOnly = false
	return s.list(ctx, filter, params)
}

func (s *service) list(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error) {
	records, nextCursor, err := s.repo.List(ctx, filter, params)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	cur, rate, err := s.displayContext(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProductDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, FromModel(&records[i], cur, rate))
	}
	return &ListResponse{Products: dtos, NextCursor: nextCursor}, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (ProductDTO, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return s.project(ctx, product)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return s.project(ctx, product)
}

func (s *service) Create(ctx context.Context, dto CreateProductDTO) (ProductDTO, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	slug, err := s.resolveSlug(ctx, dto.Slug, name)
	if err != nil {
		return ProductDTO{}, err
	}

	product := &models.Product{
		CategoryID:          dto.CategoryID,
		Name:                name,
		Slug:                slug,
		Description:         dto.Description,
		PriceCents:          dto.PriceCents,
		CompareAtPriceCents: dto.CompareAtPriceCents,
		ImageURL:            dto.ImageURL,
		Tags:                dto.Tags,
		IsActive:            true,
	}
	if dto.IsActive != nil {
		product.IsActive = *dto.IsActive
	}
	if dto.IsFeatured != nil {
		product.IsFeatured = *dto.IsFeatured
	}
	quantity := 0
	if dto.InitialQuantity != nil {
		quantity = *dto.InitialQuantity
	}
	product.Inventory = &models.InventoryItem{Quantity: quantity}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return s.project(ctx, created)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}

	if dto.CategoryID != nil {
		product.CategoryID = dto.CategoryID
	}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return ProductDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if dto.Description != nil {
		product.Description = dto.Description
	}
	if dto.PriceCents != nil {
		product.PriceCents = *dto.PriceCents
	}
	if dto.CompareAtPriceCents != nil {
		product.CompareAtPriceCents = dto.CompareAtPriceCents
	}
	if dto.ImageURL != nil {
		product.ImageURL = dto.ImageURL
	}
	if dto.Tags != nil {
		product.Tags = dto.Tags
	}
	if dto.IsActive != nil {
		product.IsActive = *dto.IsActive
	}
	if dto.IsFeatured != nil {
		product.IsFeatured = *dto.IsFeatured
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.project(ctx, updated)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadProduct(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (ProductDTO, error) {
	product, err := s.loadProduct(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	if err := s.repo.SetFeatured(ctx, id, featured); err != nil {
		return ProductDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set featured")
	}
	product.IsFeatured = featured
	return s.project(ctx, product)
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) project(ctx context.Context, product *models.Product) (ProductDTO, error) {
	cur, rate, err := s.displayContext(ctx)
	if err != nil {
		return ProductDTO{}, err
	}
	return FromModel(product, cur, rate), nil
}

func (s *service) displayContext(ctx context.Context) (enums.Currency, float64, error) {
	cur, rate, err := s.settings.DisplaySettings(ctx)
	if err != nil {
		return "", 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load display settings")
	}
	return cur, rate, nil
}

// resolveSlug honors an explicit slug and otherwise derives one from the
// product name, suffixing on collision.
func (s *service) resolveSlug(ctx context.Context, explicit, name string) (string, error) {
	if explicit = strings.TrimSpace(strings.ToLower(explicit)); explicit != "" {
		taken, err := s.repo.SlugExists(ctx, explicit)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
		}
		if taken {
			return "", pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return explicit, nil
	}

	base := Slugify(name)
	if base == "" {
		base = "product"
	}
	taken, err := s.repo.SlugExists(ctx, base)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if !taken {
		return base, nil
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the input and collapses runs of non-alphanumerics into
// single hyphens.
func Slugify(input string) string {
	slug := slugStripRe.ReplaceAllString(strings.ToLower(input), "-")
	return strings.Trim(slug, "-")
}
