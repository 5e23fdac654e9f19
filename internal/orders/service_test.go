package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

type stubOrderRepo struct {
	byID map[uuid.UUID]*models.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if order, ok := s.byID[id]; ok {
		return order, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if order, ok := s.byID[id]; ok {
		order.Status = status
	}
	return nil
}

func (s *stubOrderRepo) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Order, string, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, "", err
	}
	var out []models.Order
	for _, order := range s.byID {
		if filter.ProfileID != nil && order.ProfileID != *filter.ProfileID {
			continue
		}
		if filter.Status != nil && order.Status != *filter.Status {
			continue
		}
		out = append(out, *order)
	}
	return out, "", nil
}

func (s *stubOrderRepo) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	counts := map[enums.OrderStatus]int64{}
	for _, order := range s.byID {
		counts[order.Status]++
	}
	return counts, nil
}

type stubSettings struct{}

func (stubSettings) DisplaySettings(ctx context.Context) (enums.Currency, float64, error) {
	return enums.CurrencyUSD, 12, nil
}

func fixture(t *testing.T) (Service, *stubOrderRepo) {
	t.Helper()
	repo := newStubOrderRepo()
	svc, err := NewService(ServiceParams{Repo: repo, Settings: stubSettings{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func seedOrder(repo *stubOrderRepo, profileID uuid.UUID, status enums.OrderStatus) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		ProfileID:     profileID,
		Status:        status,
		SubtotalCents: 3000,
		TotalCents:    3000,
		Items: []models.OrderItem{
			{ProductID: uuid.New(), ProductName: "Serum", UnitPriceCents: 1500, Quantity: 2, LineTotalCents: 3000},
		},
	}
	repo.byID[order.ID] = order
	return order
}

func TestGetForProfileHidesForeignOrders(t *testing.T) {
	svc, repo := fixture(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusPaid)

	_, err := svc.GetForProfile(context.Background(), uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign order, got %v", err)
	}
}

func TestGetForProfileReturnsOwnOrderWithTotals(t *testing.T) {
	svc, repo := fixture(t)
	profileID := uuid.New()
	order := seedOrder(repo, profileID, enums.OrderStatusPaid)

	dto, err := svc.GetForProfile(context.Background(), profileID, order.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.Total != "$30.00" {
		t.Fatalf("expected $30.00 total, got %q", dto.Total)
	}
	if len(dto.Items) != 1 || dto.Items[0].ProductName != "Serum" {
		t.Fatalf("expected snapshotted item, got %+v", dto.Items)
	}
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	svc, repo := fixture(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	dto, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusDTO{Status: "paid"})
	if err != nil {
		t.Fatalf("pending -> paid: %v", err)
	}
	if dto.Status != enums.OrderStatusPaid {
		t.Fatalf("expected paid, got %s", dto.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusDTO{Status: "delivered"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for paid -> delivered, got %v", err)
	}
}

func TestUpdateStatusRejectsTerminalStates(t *testing.T) {
	svc, repo := fixture(t)
	order := seedOrder(repo, uuid.New(), enums.OrderStatusCancelled)

	_, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusDTO{Status: "paid"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for cancelled order, got %v", err)
	}
}

func TestListForProfileFiltersByOwner(t *testing.T) {
	svc, repo := fixture(t)
	profileID := uuid.New()
	seedOrder(repo, profileID, enums.OrderStatusPending)
	seedOrder(repo, uuid.New(), enums.OrderStatusPending)

	page, err := svc.ListForProfile(context.Background(), profileID, pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Orders) != 1 || page.Orders[0].ProfileID != profileID {
		t.Fatalf("expected only own orders, got %+v", page.Orders)
	}
}
