package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/internal/cart"
	"github.com/joyalure/joyalure-backend/internal/orders"
	"github.com/joyalure/joyalure-backend/internal/products"
	pkgAuth "github.com/joyalure/joyalure-backend/pkg/auth"
	"github.com/joyalure/joyalure-backend/pkg/config"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	"github.com/joyalure/joyalure-backend/pkg/logger"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProductService struct{}

func (stubProductService) ListCatalog(ctx context.Context, filter products.ListFilter, params pagination.Params) (*products.ListResponse, error) {
	return &products.ListResponse{}, nil
}

func (stubProductService) GetBySlug(ctx context.Context, slug string) (products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) ListAdmin(ctx context.Context, filter products.ListFilter, params pagination.Params) (*products.ListResponse, error) {
	panic("unimplemented")
}

func (stubProductService) GetByID(ctx context.Context, id uuid.UUID) (products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Create(ctx context.Context, dto products.CreateProductDTO) (products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Update(ctx context.Context, id uuid.UUID, dto products.UpdateProductDTO) (products.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubProductService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (products.ProductDTO, error) {
	panic("unimplemented")
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, profileID uuid.UUID) (cart.CartDTO, error) {
	return cart.CartDTO{Currency: "USD"}, nil
}

func (stubCartService) Add(ctx context.Context, profileID uuid.UUID, dto cart.AddItemDTO) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) Increase(ctx context.Context, profileID, productID uuid.UUID) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) Decrease(ctx context.Context, profileID, productID uuid.UUID) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) Remove(ctx context.Context, profileID, productID uuid.UUID) (cart.CartDTO, error) {
	panic("unimplemented")
}

func (stubCartService) Clear(ctx context.Context, profileID uuid.UUID) error {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) ListForProfile(ctx context.Context, profileID uuid.UUID, params pagination.Params) (*orders.ListResponse, error) {
	panic("unimplemented")
}

func (stubOrdersService) GetForProfile(ctx context.Context, profileID, orderID uuid.UUID) (orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) ListAdmin(ctx context.Context, status *enums.OrderStatus, params pagination.Params) (*orders.ListResponse, error) {
	panic("unimplemented")
}

func (stubOrdersService) GetAdmin(ctx context.Context, orderID uuid.UUID) (orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) UpdateStatus(ctx context.Context, orderID uuid.UUID, dto orders.UpdateStatusDTO) (orders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrdersService) StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	return map[enums.OrderStatus]int64{enums.OrderStatusPending: 2}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		Sessions: stubSessionChecker{},
		Products: stubProductService{},
		Cart:     stubCartService{},
		Orders:   stubOrdersService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestStorefrontNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public catalog got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsMissingToken(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCustomerGroupSucceedsWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer cart got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/status-counts", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/status-counts", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.RoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, target := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", target, resp.Code)
		}
	}
}
