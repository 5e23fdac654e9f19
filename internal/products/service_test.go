package products

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

type stubProductRepo struct {
	byID     map[uuid.UUID]*models.Product
	bySlug   map[string]*models.Product
	listed   []models.Product
	created  []*models.Product
	featured map[uuid.UUID]bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{
		byID:     map[uuid.UUID]*models.Product{},
		bySlug:   map[string]*models.Product{},
		featured: map[uuid.UUID]bool{},
	}
}

func (s *stubProductRepo) add(product *models.Product) {
	s.byID[product.ID] = product
	s.bySlug[product.Slug] = product
}

func (s *stubProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if product, ok := s.byID[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if product, ok := s.bySlug[slug]; ok && product.IsActive {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, ok := s.bySlug[slug]
	return ok, nil
}

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New()
	product.CreatedAt = time.Now().UTC()
	s.created = append(s.created, product)
	s.add(product)
	return product, nil
}

func (s *stubProductRepo) Update(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.add(product)
	return product, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if product, ok := s.byID[id]; ok {
		delete(s.bySlug, product.Slug)
		delete(s.byID, id)
	}
	return nil
}

func (s *stubProductRepo) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	s.featured[id] = featured
	return nil
}

func (s *stubProductRepo) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Product, string, error) {
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, "", err
	}
	out := make([]models.Product, 0, len(s.listed))
	for _, product := range s.listed {
		if filter.ActiveOnly && !product.IsActive {
			continue
		}
		out = append(out, product)
	}
	return out, "", nil
}

type stubSettings struct {
	currency enums.Currency
	rate     float64
}

func (s stubSettings) DisplaySettings(ctx context.Context) (enums.Currency, float64, error) {
	return s.currency, s.rate, nil
}

func newTestService(t *testing.T, repo *stubProductRepo, settings stubSettings) Service {
	t.Helper()
	if settings.currency == "" {
		settings = stubSettings{currency: enums.CurrencyUSD, rate: 12}
	}
	svc, err := NewService(ServiceParams{Repo: repo, Settings: settings})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateDerivesSlugFromName(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(t, repo, stubSettings{})

	dto, err := svc.Create(context.Background(), CreateProductDTO{
		Name:       "Vitamin C Glow Serum",
		PriceCents: 2499,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Slug != "vitamin-c-glow-serum" {
		t.Fatalf("expected derived slug, got %q", dto.Slug)
	}
	if dto.PriceDisplay != "$24.99" {
		t.Fatalf("expected $24.99, got %q", dto.PriceDisplay)
	}
	if !dto.IsActive {
		t.Fatal("new products should default to active")
	}
}

func TestCreateRejectsTakenSlug(t *testing.T) {
	repo := newStubProductRepo()
	repo.add(&models.Product{ID: uuid.New(), Slug: "night-cream", IsActive: true})
	svc := newTestService(t, repo, stubSettings{})

	_, err := svc.Create(context.Background(), CreateProductDTO{
		Name:       "Night Cream",
		Slug:       "night-cream",
		PriceCents: 1500,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for taken slug, got %v", err)
	}
}

func TestCreateSuffixesDerivedSlugOnCollision(t *testing.T) {
	repo := newStubProductRepo()
	repo.add(&models.Product{ID: uuid.New(), Slug: "day-cream", IsActive: true})
	svc := newTestService(t, repo, stubSettings{})

	dto, err := svc.Create(context.Background(), CreateProductDTO{
		Name:       "Day Cream",
		PriceCents: 1800,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Slug == "day-cream" || len(dto.Slug) <= len("day-cream") {
		t.Fatalf("expected suffixed slug, got %q", dto.Slug)
	}
}

func TestGetBySlugHidesInactiveProducts(t *testing.T) {
	repo := newStubProductRepo()
	repo.add(&models.Product{ID: uuid.New(), Slug: "retired-toner", IsActive: false})
	svc := newTestService(t, repo, stubSettings{})

	_, err := svc.GetBySlug(context.Background(), "retired-toner")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for inactive product, got %v", err)
	}
}

func TestListCatalogForcesActiveFilter(t *testing.T) {
	repo := newStubProductRepo()
	repo.listed = []models.Product{
		{ID: uuid.New(), Name: "Live", Slug: "live", PriceCents: 1000, IsActive: true},
		{ID: uuid.New(), Name: "Hidden", Slug: "hidden", PriceCents: 1000, IsActive: false},
	}
	svc := newTestService(t, repo, stubSettings{})

	page, err := svc.ListCatalog(context.Background(), ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list catalog: %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].Slug != "live" {
		t.Fatalf("expected only the active product, got %+v", page.Products)
	}
}

func TestListRendersGHSDisplayPrices(t *testing.T) {
	repo := newStubProductRepo()
	repo.listed = []models.Product{
		{ID: uuid.New(), Name: "Serum", Slug: "serum", PriceCents: 1000, IsActive: true},
	}
	svc := newTestService(t, repo, stubSettings{currency: enums.CurrencyGHS, rate: 12.5})

	page, err := svc.ListCatalog(context.Background(), ListFilter{}, pagination.Params{})
	if err != nil {
		t.Fatalf("list catalog: %v", err)
	}
	if page.Products[0].PriceDisplay != "GH₵125.00" {
		t.Fatalf("expected GH₵125.00, got %q", page.Products[0].PriceDisplay)
	}
	if page.Products[0].PriceCents != 1000 {
		t.Fatalf("stored cents must stay untouched, got %d", page.Products[0].PriceCents)
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestService(t, repo, stubSettings{})

	_, err := svc.ListCatalog(context.Background(), ListFilter{}, pagination.Params{Cursor: "not-base64!!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}

func TestSetFeaturedTogglesFlag(t *testing.T) {
	repo := newStubProductRepo()
	product := &models.Product{ID: uuid.New(), Name: "Mask", Slug: "mask", PriceCents: 900, IsActive: true}
	repo.add(product)
	svc := newTestService(t, repo, stubSettings{})

	dto, err := svc.SetFeatured(context.Background(), product.ID, true)
	if err != nil {
		t.Fatalf("set featured: %v", err)
	}
	if !dto.IsFeatured || !repo.featured[product.ID] {
		t.Fatalf("expected featured flag set, got dto=%v repo=%v", dto.IsFeatured, repo.featured[product.ID])
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Vitamin C Glow Serum": "vitamin-c-glow-serum",
		"  Rosé & Shine!  ":    "ros-shine",
		"---":                  "",
	}
	for input, want := range cases {
		if got := Slugify(input); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", input, got, want)
		}
	}
}
