package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

// allowedTransitions is the fulfillment state machine. Delivered and
// cancelled are terminal.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {enums.OrderStatusPaid, enums.OrderStatusCancelled},
	enums.OrderStatusPaid:    {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped: {enums.OrderStatusDelivered},
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Service exposes order history for customers and fulfillment for admins.
type Service interface {
	ListForProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) (*ListResponse, error)
	GetForProfile(ctx context.Context, profileID, orderID uuid.UUID) (OrderDTO, error)
	ListAdmin(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ListResponse, error)
	GetAdmin(ctx context.Context, orderID uuid.UUID) (OrderDTO, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, dto UpdateStatusDTO) (OrderDTO, error)
	StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error)
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

type displaySettings interface {
	DisplaySettings(ctx context.Context) (enums.Currency, float64, error)
}

type service struct {
	repo     orderRepository
	settings displaySettings
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo     orderRepository
	Settings displaySettings
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository is required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("display settings provider is required")
	}
	return &service{repo: params.Repo, settings: params.Settings}, nil
}

func (s *service) ListForProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	if profileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	return s.list(ctx, ListFilter{ProfileID: &profileID}, params)
}

// GetForProfile loads a single order and enforces ownership. A foreign
// order reads as not found, never as forbidden, so order ids stay opaque.
func (s *service) GetForProfile(ctx context.Context, profileID, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if order.ProfileID != profileID {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.project(ctx, order)
}

func (s *service) ListAdmin(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*ListResponse, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	return s.list(ctx, ListFilter{Status: status}, params)
}

func (s *service) GetAdmin(ctx context.Context, orderID uuid.UUID) (OrderDTO, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	return s.project(ctx, order)
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, dto UpdateStatusDTO) (OrderDTO, error) {
	next, err := enums.ParseOrderStatus(dto.Status)
	if err != nil {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	order, err := s.load(ctx, orderID)
	if err != nil {
		return OrderDTO{}, err
	}
	if !transitionAllowed(order.Status, next) {
		return OrderDTO{}, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = next
	return s.project(ctx, order)
}

func (s *service) StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return counts, nil
}

func (s *service) list(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResponse, error) {
	records, nextCursor, err := s.repo.List(ctx, filter, params)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	cur, rate, err := s.settings.DisplaySettings(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load display settings")
	}

	dtos := make([]OrderDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, FromModel(&records[i], cur, rate))
	}
	return &ListResponse{Orders: dtos, NextCursor: nextCursor}, nil
}

func (s *service) load(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) project(ctx context.Context, order *models.Order) (OrderDTO, error) {
	cur, rate, err := s.settings.DisplaySettings(ctx)
	if err != nil {
		return OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load display settings")
	}
	return FromModel(order, cur, rate), nil
}
