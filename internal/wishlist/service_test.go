package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

type memberKey struct {
	profile uuid.UUID
	product uuid.UUID
}

type stubWishlistRepo struct {
	members map[memberKey]bool
	finder  *stubProductFinder
}

func (s *stubWishlistRepo) Add(ctx context.Context, profileID, productID uuid.UUID) error {
	s.members[memberKey{profile: profileID, product: productID}] = true
	return nil
}

func (s *stubWishlistRepo) Remove(ctx context.Context, profileID, productID uuid.UUID) error {
	delete(s.members, memberKey{profile: profileID, product: productID})
	return nil
}

func (s *stubWishlistRepo) Contains(ctx context.Context, profileID, productID uuid.UUID) (bool, error) {
	return s.members[memberKey{profile: profileID, product: productID}], nil
}

func (s *stubWishlistRepo) ListProducts(ctx context.Context, profileID uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for key := range s.members {
		if key.profile != profileID {
			continue
		}
		if product, ok := s.finder.products[key.product]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

type stubProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSettings struct{}

func (stubSettings) DisplaySettings(ctx context.Context) (enums.Currency, float64, error) {
	return enums.CurrencyUSD, 12, nil
}

func fixture(t *testing.T) (Service, *stubWishlistRepo, *stubProductFinder) {
	t.Helper()
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	repo := &stubWishlistRepo{members: map[memberKey]bool{}, finder: finder}
	svc, err := NewService(ServiceParams{Repo: repo, Products: finder, Settings: stubSettings{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, finder
}

func seedProduct(finder *stubProductFinder) uuid.UUID {
	id := uuid.New()
	finder.products[id] = &models.Product{ID: id, Name: "Cream", Slug: "cream", PriceCents: 900, IsActive: true}
	return id
}

func TestToggleAddsThenRemoves(t *testing.T) {
	svc, repo, finder := fixture(t)
	profileID := uuid.New()
	productID := seedProduct(finder)

	first, err := svc.Toggle(context.Background(), profileID, productID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !first.Wishlisted || len(repo.members) != 1 {
		t.Fatalf("expected membership after first toggle, got %+v", first)
	}

	second, err := svc.Toggle(context.Background(), profileID, productID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Wishlisted || len(repo.members) != 0 {
		t.Fatalf("expected removal after second toggle, got %+v", second)
	}
}

func TestToggleUnknownProductIsNotFound(t *testing.T) {
	svc, _, _ := fixture(t)

	_, err := svc.Toggle(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	svc, _, finder := fixture(t)
	productID := seedProduct(finder)

	if err := svc.Remove(context.Background(), uuid.New(), productID); err != nil {
		t.Fatalf("expected no-op remove, got %v", err)
	}
}

func TestListProjectsWishlistedProducts(t *testing.T) {
	svc, _, finder := fixture(t)
	profileID := uuid.New()
	productID := seedProduct(finder)

	if _, err := svc.Toggle(context.Background(), profileID, productID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	listed, err := svc.List(context.Background(), profileID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != productID {
		t.Fatalf("expected the wishlisted product, got %+v", listed)
	}
	if listed[0].PriceDisplay != "$9.00" {
		t.Fatalf("expected $9.00, got %q", listed[0].PriceDisplay)
	}
}
