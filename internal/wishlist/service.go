package wishlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/internal/products"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// ToggleResult reports the membership state after a toggle.
type ToggleResult struct {
	ProductID  uuid.UUID `json:"product_id"`
	Wishlisted bool      `json:"wishlisted"`
}

// Service owns per-customer wishlists.
type Service interface {
	List(ctx context.Context, profileID uuid.UUID) ([]products.ProductDTO, error)
	Toggle(ctx context.Context, profileID, productID uuid.UUID) (ToggleResult, error)
	Remove(ctx context.Context, profileID, productID uuid.UUID) error
}

type wishlistRepository interface {
	Add(ctx context.Context, profileID, productID uuid.UUID) error
	Remove(ctx context.Context, profileID, productID uuid.UUID) error
	Contains(ctx context.Context, profileID, productID uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, profileID uuid.UUID) ([]models.Product, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type displaySettings interface {
	DisplaySettings(ctx context.Context) (enums.Currency, float64, error)
}

type service struct {
	repo     wishlistRepository
	products productFinder
	settings displaySettings
}

// ServiceParams bundles the dependencies required to build a wishlist service.
type ServiceParams struct {
	Repo     wishlistRepository
	Products productFinder
	Settings displaySettings
}

// NewService constructs a wishlist service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("wishlist repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("display settings provider is required")
	}
	return &service{repo: params.Repo, products: params.Products, settings: params.Settings}, nil
}

func (s *service) List(ctx context.Context, profileID uuid.UUID) ([]products.ProductDTO, error) {
	if profileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	records, err := s.repo.ListProducts(ctx, profileID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	cur, rate, err := s.settings.DisplaySettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load display settings")
	}
	dtos := make([]products.ProductDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, products.FromModel(&records[i], cur, rate))
	}
	return dtos, nil
}

// Toggle flips membership for the product: absent rows are added, present
// rows are removed. The same call repeated lands back where it started.
func (s *service) Toggle(ctx context.Context, profileID, productID uuid.UUID) (ToggleResult, error) {
	if profileID == uuid.Nil || productID == uuid.Nil {
		return ToggleResult{}, pkgerrors.New(pkgerrors.CodeValidation, "profile and product ids are required")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	present, err := s.repo.Contains(ctx, profileID, productID)
	if err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist")
	}
	if present {
		if err := s.repo.Remove(ctx, profileID, productID); err != nil {
			return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
		}
		return ToggleResult{ProductID: productID, Wishlisted: false}, nil
	}
	if err := s.repo.Add(ctx, profileID, productID); err != nil {
		return ToggleResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	return ToggleResult{ProductID: productID, Wishlisted: true}, nil
}

// Remove deletes membership if present; removing an absent product is a
// no-op, not an error.
func (s *service) Remove(ctx context.Context, profileID, productID uuid.UUID) error {
	if profileID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile and product ids are required")
	}
	if err := s.repo.Remove(ctx, profileID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	return nil
}
