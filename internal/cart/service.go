package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

const maxLineQuantity = 99

// Service owns the persisted per-customer cart.
type Service interface {
	Get(ctx context.Context, profileID uuid.UUID) (CartDTO, error)
	Add(ctx context.Context, profileID uuid.UUID, dto AddItemDTO) (CartDTO, error)
	Increase(ctx context.Context, profileID, productID uuid.UUID) (CartDTO, error)
	Decrease(ctx context.Context, profileID, productID uuid.UUID) (CartDTO, error)
	Remove(ctx context.Context, profileID, productID uuid.UUID) (CartDTO, error)
	Clear(ctx context.Context, profileID uuid.UUID) error
}

type cartRepository interface {
	AddOrIncrement(ctx context.Context, profileID, productID uuid.UUID, quantity int) error
	FindLine(ctx context.Context, profileID, productID uuid.UUID) (*models.CartItem, error)
	SetQuantity(ctx context.Context, profileID, productID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, profileID, productID uuid.UUID) error
	Clear(ctx context.Context, profileID uuid.UUID) error
	ListLines(ctx context.Context, profileID uuid.UUID) ([]Line, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type displaySettings interface {
	DisplaySettings(ctx context.Context) (enums.Currency, float64, error)
}

type service struct {
	repo     cartRepository
	products productFinder
	settings displaySettings
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo     cartRepository
	Products productFinder
	Settings displaySettings
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("display settings provider is required")
	}
	return &service{repo: params.Repo, products: params.Products, settings: params.Settings}, nil
}

func (s *service) Get(ctx context.Context, profileID uuid.UUID) (CartDTO, error) {
	if profileID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.render(ctx, profileID)
}

// Add merges the product into the cart. Re-adding a carted product bumps
// its quantity instead of creating a second line.
func (s *service) Add(ctx context.Context, profileID uuid.UUID, dto AddItemDTO) (CartDTO, error) {
	if profileID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	quantity := dto.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	if quantity > maxLineQuantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-line maximum")
	}

	product, err := s.loadActiveProduct(ctx, dto.ProductID)
	if err != nil {
		return CartDTO{}, err
	}

	if err := s.repo.AddOrIncrement(ctx, profileID, product.ID, quantity); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}
	return s.render(ctx, profileID)
}

func (s *service) Increase(ctx context.Context, profileID, productID uuid.UUID) (CartDTO, error) {
	line, err := s.loadLine(ctx, profileID, productID)
	if err != nil {
		return CartDTO{}, err
	}
	if line.Quantity >= maxLineQuantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds the per-line maximum")
	}
	if err := s.repo.SetQuantity(ctx, profileID, productID, line.Quantity+1); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increase cart line")
	}
	return s.render(ctx, profileID)
}

// Decrease lowers the line by one; at quantity 1 the line is removed
// entirely, so a quantity of zero never persists.
func (s *service) Decrease(ctx context.Context, profileID, productID uuid.UUID) (CartDTO, error) {
	line, err := s.loadLine(ctx, profileID, productID)
	if err != nil {
		return CartDTO{}, err
	}
	if line.Quantity <= 1 {
		if err := s.repo.DeleteLine(ctx, profileID, productID); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return s.render(ctx, profileID)
	}
	if err := s.repo.SetQuantity(ctx, profileID, productID, line.Quantity-1); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrease cart line")
	}
	return s.render(ctx, profileID)
}

func (s *service) Remove(ctx context.Context, profileID, productID uuid.UUID) (CartDTO, error) {
	if profileID == uuid.Nil || productID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "profile and product ids are required")
	}
	if err := s.repo.DeleteLine(ctx, profileID, productID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.render(ctx, profileID)
}

func (s *service) Clear(ctx context.Context, profileID uuid.UUID) error {
	if profileID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	if err := s.repo.Clear(ctx, profileID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) render(ctx context.Context, profileID uuid.UUID) (CartDTO, error) {
	lines, err := s.repo.ListLines(ctx, profileID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	cur, rate, err := s.settings.DisplaySettings(ctx)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load display settings")
	}
	return buildCartDTO(lines, cur, rate), nil
}

func (s *service) loadLine(ctx context.Context, profileID, productID uuid.UUID) (*models.CartItem, error) {
	if profileID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile and product ids are required")
	}
	line, err := s.repo.FindLine(ctx, profileID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return line, nil
}

func (s *service) loadActiveProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return product, nil
}
