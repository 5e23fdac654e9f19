package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/internal/cart"
	"github.com/joyalure/joyalure-backend/internal/orders"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// CheckoutDTO is the storefront payload to place an order.
type CheckoutDTO struct {
	VoucherCode   *string `json:"voucher_code,omitempty" validate:"omitempty,max=64"`
	PaymentMethod string  `json:"payment_method,omitempty" validate:"omitempty,oneof=card mobile_money"`
}

// Service turns a cart into an order atomically: order, items, payment,
// stock adjustment, voucher redemption, and cart clear commit together or
// not at all.
type Service interface {
	Checkout(ctx context.Context, profileID uuid.UUID, dto CheckoutDTO) (orders.OrderDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	ListLines(ctx context.Context, profileID uuid.UUID) ([]cart.Line, error)
	Clear(ctx context.Context, profileID uuid.UUID) error
}

type orderStore interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error)
}

type inventoryStore interface {
	AdjustQuantity(ctx context.Context, productID uuid.UUID, delta int) error
}

type voucherValidator interface {
	Validate(ctx context.Context, code string, at time.Time) (*models.Voucher, error)
	Discount(voucher *models.Voucher, subtotalCents int) int
}

type voucherStore interface {
	IncrementRedemptions(ctx context.Context, id uuid.UUID) (bool, error)
}

type displaySettings interface {
	DisplaySettings(ctx context.Context) (enums.Currency, float64, error)
}

// Stores builds tx-bound repositories. Calling a factory with a nil tx
// returns the store on the root connection.
type Stores struct {
	Cart      func(tx *gorm.DB) cartStore
	Orders    func(tx *gorm.DB) orderStore
	Inventory func(tx *gorm.DB) inventoryStore
	Vouchers  func(tx *gorm.DB) voucherStore
}

type service struct {
	tx       txRunner
	stores   Stores
	vouchers voucherValidator
	settings displaySettings
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Tx       txRunner
	Stores   Stores
	Vouchers voucherValidator
	Settings displaySettings
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if params.Stores.Cart == nil || params.Stores.Orders == nil || params.Stores.Inventory == nil || params.Stores.Vouchers == nil {
		return nil, fmt.Errorf("all store factories are required")
	}
	if params.Vouchers == nil {
		return nil, fmt.Errorf("voucher validator is required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("display settings provider is required")
	}
	return &service{
		tx:       params.Tx,
		stores:   params.Stores,
		vouchers: params.Vouchers,
		settings: params.Settings,
	}, nil
}

func (s *service) Checkout(ctx context.Context, profileID uuid.UUID, dto CheckoutDTO) (orders.OrderDTO, error) {
	if profileID == uuid.Nil {
		return orders.OrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}

	now := time.Now().UTC()
	var voucher *models.Voucher
	if dto.VoucherCode != nil && strings.TrimSpace(*dto.VoucherCode) != "" {
		validated, err := s.vouchers.Validate(ctx, *dto.VoucherCode, now)
		if err != nil {
			return orders.OrderDTO{}, err
		}
		voucher = validated
	}

	method := dto.PaymentMethod
	if method == "" {
		method = "card"
	}

	var placed *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.stores.Cart(tx)
		orderRepo := s.stores.Orders(tx)
		inventoryRepo := s.stores.Inventory(tx)
		voucherRepo := s.stores.Vouchers(tx)

		lines, err := cartRepo.ListLines(ctx, profileID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		order := &models.Order{
			ProfileID: profileID,
			Status:    enums.OrderStatusPending,
		}
		for _, line := range lines {
			if line.Product.Inventory != nil && line.Product.Inventory.Quantity < line.Item.Quantity {
				return pkgerrors.New(pkgerrors.CodeConflict,
					fmt.Sprintf("insufficient stock for %s", line.Product.Name))
			}
			lineTotal := line.Product.PriceCents * line.Item.Quantity
			order.Items = append(order.Items, models.OrderItem{
				ProductID:      line.Product.ID,
				ProductName:    line.Product.Name,
				UnitPriceCents: line.Product.PriceCents,
				Quantity:       line.Item.Quantity,
				LineTotalCents: lineTotal,
			})
			order.SubtotalCents += lineTotal
		}

		if voucher != nil {
			order.DiscountCents = s.vouchers.Discount(voucher, order.SubtotalCents)
			order.VoucherID = &voucher.ID
			redeemed, err := voucherRepo.IncrementRedemptions(ctx, voucher.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem voucher")
			}
			if !redeemed {
				return pkgerrors.New(pkgerrors.CodeConflict, "voucher redemption limit reached")
			}
		}
		order.TotalCents = order.SubtotalCents - order.DiscountCents

		created, err := orderRepo.Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		for _, item := range created.Items {
			if err := inventoryRepo.AdjustQuantity(ctx, item.ProductID, -item.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
			}
		}

		if _, err := orderRepo.CreatePayment(ctx, &models.Payment{
			OrderID:     created.ID,
			AmountCents: created.TotalCents,
			Method:      method,
			Status:      enums.PaymentStatusPending,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment")
		}

		if err := cartRepo.Clear(ctx, profileID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		placed = created
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return orders.OrderDTO{}, err
		}
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction")
	}

	cur, rate, err := s.settings.DisplaySettings(ctx)
	if err != nil {
		return orders.OrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load display settings")
	}
	return orders.FromModel(placed, cur, rate), nil
}
