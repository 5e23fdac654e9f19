package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/internal/cart"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

type fakeTx struct {
	calls int
}

func (f *fakeTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.calls++
	return fn(nil)
}

type fakeCartStore struct {
	lines   []cart.Line
	cleared bool
}

func (f *fakeCartStore) ListLines(ctx context.Context, profileID uuid.UUID) ([]cart.Line, error) {
	return f.lines, nil
}

func (f *fakeCartStore) Clear(ctx context.Context, profileID uuid.UUID) error {
	f.cleared = true
	return nil
}

type fakeOrderStore struct {
	orders   []*models.Order
	payments []*models.Payment
}

func (f *fakeOrderStore) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	order.CreatedAt = time.Now().UTC()
	f.orders = append(f.orders, order)
	return order, nil
}

func (f *fakeOrderStore) CreatePayment(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	payment.ID = uuid.New()
	f.payments = append(f.payments, payment)
	return payment, nil
}

type fakeInventoryStore struct {
	adjustments map[uuid.UUID]int
}

func (f *fakeInventoryStore) AdjustQuantity(ctx context.Context, productID uuid.UUID, delta int) error {
	if f.adjustments == nil {
		f.adjustments = map[uuid.UUID]int{}
	}
	f.adjustments[productID] += delta
	return nil
}

type fakeVoucherStore struct {
	redeemOK bool
	redeemed []uuid.UUID
}

func (f *fakeVoucherStore) IncrementRedemptions(ctx context.Context, id uuid.UUID) (bool, error) {
	f.redeemed = append(f.redeemed, id)
	return f.redeemOK, nil
}

type fakeVoucherValidator struct {
	voucher *models.Voucher
}

func (f *fakeVoucherValidator) Validate(ctx context.Context, code string, at time.Time) (*models.Voucher, error) {
	if f.voucher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher is not valid")
	}
	return f.voucher, nil
}

func (f *fakeVoucherValidator) Discount(voucher *models.Voucher, subtotalCents int) int {
	if voucher.PercentOff != nil {
		return subtotalCents * *voucher.PercentOff / 100
	}
	return 0
}

type fakeSettings struct{}

func (fakeSettings) DisplaySettings(ctx context.Context) (enums.Currency, float64, error) {
	return enums.CurrencyUSD, 12, nil
}

type fixtureStores struct {
	tx        *fakeTx
	cart      *fakeCartStore
	orders    *fakeOrderStore
	inventory *fakeInventoryStore
	vouchers  *fakeVoucherStore
}

func fixture(t *testing.T, validator *fakeVoucherValidator) (Service, *fixtureStores) {
	t.Helper()
	stores := &fixtureStores{
		tx:        &fakeTx{},
		cart:      &fakeCartStore{},
		orders:    &fakeOrderStore{},
		inventory: &fakeInventoryStore{},
		vouchers:  &fakeVoucherStore{redeemOK: true},
	}
	svc, err := NewService(ServiceParams{
		Tx: stores.tx,
		Stores: Stores{
			Cart:      func(tx *gorm.DB) cartStore { return stores.cart },
			Orders:    func(tx *gorm.DB) orderStore { return stores.orders },
			Inventory: func(tx *gorm.DB) inventoryStore { return stores.inventory },
			Vouchers:  func(tx *gorm.DB) voucherStore { return stores.vouchers },
		},
		Vouchers: validator,
		Settings: fakeSettings{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, stores
}

func cartLine(priceCents, quantity, stock int) cart.Line {
	productID := uuid.New()
	return cart.Line{
		Item: models.CartItem{ProfileID: uuid.New(), ProductID: productID, Quantity: quantity},
		Product: models.Product{
			ID: productID, Name: "Serum", Slug: "serum", PriceCents: priceCents, IsActive: true,
			Inventory: &models.InventoryItem{ProductID: productID, Quantity: stock},
		},
	}
}

func TestCheckoutSnapshotsPricesAndClearsCart(t *testing.T) {
	svc, stores := fixture(t, &fakeVoucherValidator{})
	stores.cart.lines = []cart.Line{cartLine(1999, 2, 10), cartLine(2450, 1, 5)}

	order, err := svc.Checkout(context.Background(), uuid.New(), CheckoutDTO{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.SubtotalCents != 1999*2+2450 {
		t.Fatalf("expected exact subtotal, got %d", order.SubtotalCents)
	}
	if order.TotalCents != order.SubtotalCents {
		t.Fatalf("expected no discount, got total %d", order.TotalCents)
	}
	if len(order.Items) != 2 || order.Items[0].UnitPriceCents != 1999 {
		t.Fatalf("expected price snapshots, got %+v", order.Items)
	}
	if !stores.cart.cleared {
		t.Fatal("expected cart cleared after checkout")
	}
	if len(stores.orders.payments) != 1 || stores.orders.payments[0].AmountCents != order.TotalCents {
		t.Fatalf("expected pending payment for the total, got %+v", stores.orders.payments)
	}
	if stores.orders.payments[0].Status != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment, got %s", stores.orders.payments[0].Status)
	}
}

func TestCheckoutAppliesVoucherDiscount(t *testing.T) {
	percent := 10
	voucher := &models.Voucher{ID: uuid.New(), Kind: enums.VoucherKindPercent, PercentOff: &percent, IsActive: true}
	svc, stores := fixture(t, &fakeVoucherValidator{voucher: voucher})
	stores.cart.lines = []cart.Line{cartLine(5000, 1, 10)}
	code := "GLOW10"

	order, err := svc.Checkout(context.Background(), uuid.New(), CheckoutDTO{VoucherCode: &code})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if order.DiscountCents != 500 || order.TotalCents != 4500 {
		t.Fatalf("expected 500 off 5000, got discount=%d total=%d", order.DiscountCents, order.TotalCents)
	}
	if len(stores.vouchers.redeemed) != 1 {
		t.Fatalf("expected one redemption, got %d", len(stores.vouchers.redeemed))
	}
}

func TestCheckoutFailsWhenRedemptionCapHit(t *testing.T) {
	percent := 10
	voucher := &models.Voucher{ID: uuid.New(), Kind: enums.VoucherKindPercent, PercentOff: &percent, IsActive: true}
	svc, stores := fixture(t, &fakeVoucherValidator{voucher: voucher})
	stores.vouchers.redeemOK = false
	stores.cart.lines = []cart.Line{cartLine(5000, 1, 10)}
	code := "GLOW10"

	_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutDTO{VoucherCode: &code})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if stores.cart.cleared {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	svc, _ := fixture(t, &fakeVoucherValidator{})

	_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutDTO{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckoutRejectsInsufficientStock(t *testing.T) {
	svc, stores := fixture(t, &fakeVoucherValidator{})
	stores.cart.lines = []cart.Line{cartLine(1000, 5, 2)}

	_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutDTO{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for low stock, got %v", err)
	}
	if stores.cart.cleared {
		t.Fatal("cart must survive a failed checkout")
	}
}

func TestCheckoutDecrementsInventory(t *testing.T) {
	svc, stores := fixture(t, &fakeVoucherValidator{})
	line := cartLine(1000, 3, 10)
	stores.cart.lines = []cart.Line{line}

	if _, err := svc.Checkout(context.Background(), uuid.New(), CheckoutDTO{}); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if got := stores.inventory.adjustments[line.Product.ID]; got != -3 {
		t.Fatalf("expected -3 stock adjustment, got %d", got)
	}
}
