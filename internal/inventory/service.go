package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// StockDTO is the admin projection of a single inventory row.
type StockDTO struct {
	ProductID         uuid.UUID `json:"product_id"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	LowStock          bool      `json:"low_stock"`
}

// SetStockDTO is the admin payload to overwrite a product's stock state.
type SetStockDTO struct {
	Quantity          int  `json:"quantity" validate:"gte=0"`
	LowStockThreshold *int `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
}

// Service exposes stock reads and writes for the back office.
type Service interface {
	GetStock(ctx context.Context, productID uuid.UUID) (StockDTO, error)
	SetStock(ctx context.Context, productID uuid.UUID, dto SetStockDTO) (StockDTO, error)
	LowStock(ctx context.Context) ([]LowStockRow, error)
}

type inventoryRepository interface {
	FindByProductID(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error)
	Upsert(ctx context.Context, item *models.InventoryItem) (*models.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]LowStockRow, error)
}

type service struct {
	repo inventoryRepository
}

// ServiceParams bundles the dependencies required to build an inventory service.
type ServiceParams struct {
	Repo inventoryRepository
}

// NewService constructs an inventory service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("inventory repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) GetStock(ctx context.Context, productID uuid.UUID) (StockDTO, error) {
	if productID == uuid.Nil {
		return StockDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	item, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StockDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "inventory not found")
		}
		return StockDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	return fromModel(item), nil
}

func (s *service) SetStock(ctx context.Context, productID uuid.UUID, dto SetStockDTO) (StockDTO, error) {
	if productID == uuid.Nil {
		return StockDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if dto.Quantity < 0 {
		return StockDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	item := &models.InventoryItem{
		ProductID: productID,
		Quantity:  dto.Quantity,
	}
	if dto.LowStockThreshold != nil {
		item.LowStockThreshold = *dto.LowStockThreshold
	} else if existing, err := s.repo.FindByProductID(ctx, productID); err == nil {
		item.LowStockThreshold = existing.LowStockThreshold
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return StockDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	} else {
		item.LowStockThreshold = 5
	}

	updated, err := s.repo.Upsert(ctx, item)
	if err != nil {
		return StockDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert inventory")
	}
	return fromModel(updated), nil
}

func (s *service) LowStock(ctx context.Context) ([]LowStockRow, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	return rows, nil
}

func fromModel(item *models.InventoryItem) StockDTO {
	return StockDTO{
		ProductID:         item.ProductID,
		Quantity:          item.Quantity,
		LowStockThreshold: item.LowStockThreshold,
		LowStock:          item.Quantity <= item.LowStockThreshold,
	}
}
