package settings

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

type stubSettingsRepo struct {
	row   *models.Setting
	reads int
}

func (s *stubSettingsRepo) Get(ctx context.Context) (*models.Setting, error) {
	s.reads++
	return s.row, nil
}

func (s *stubSettingsRepo) Update(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	s.row = setting
	return setting, nil
}

type stubCache struct {
	values map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{values: map[string]string{}}
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", redislib.Nil
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubCache) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *stubCache) SettingsKey() string { return "jy:settings:site" }

func fixture(t *testing.T) (Service, *stubSettingsRepo, *stubCache) {
	t.Helper()
	repo := &stubSettingsRepo{row: &models.Setting{
		ID:           models.SettingsRowID,
		StoreName:    "Joyalure",
		SupportEmail: "hello@joyalure.com",
		Currency:     enums.CurrencyUSD,
		GHSRate:      12,
	}}
	cache := newStubCache()
	svc, err := NewService(ServiceParams{Repo: repo, Cache: cache})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, cache
}

func TestGetPopulatesCache(t *testing.T) {
	svc, repo, cache := fixture(t)

	first, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if first.Currency != enums.CurrencyUSD {
		t.Fatalf("expected USD, got %s", first.Currency)
	}
	if len(cache.values) != 1 {
		t.Fatal("expected cache populated")
	}

	if _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if repo.reads != 1 {
		t.Fatalf("second read must come from cache, db reads = %d", repo.reads)
	}
}

func TestUpdateInvalidatesCache(t *testing.T) {
	svc, _, cache := fixture(t)

	if _, err := svc.Get(context.Background()); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	cur := "GHS"
	rate := 12.5
	updated, err := svc.Update(context.Background(), UpdateSettingsDTO{Currency: &cur, GHSRate: &rate})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Currency != enums.CurrencyGHS || updated.GHSRate != 12.5 {
		t.Fatalf("unexpected settings %+v", updated)
	}
	if len(cache.values) != 0 {
		t.Fatal("expected cache invalidated after update")
	}

	gotCur, gotRate, err := svc.DisplaySettings(context.Background())
	if err != nil {
		t.Fatalf("display settings: %v", err)
	}
	if gotCur != enums.CurrencyGHS || gotRate != 12.5 {
		t.Fatalf("expected fresh values, got %s %v", gotCur, gotRate)
	}
}

func TestUpdateRejectsUnknownCurrency(t *testing.T) {
	svc, _, _ := fixture(t)

	cur := "EUR"
	_, err := svc.Update(context.Background(), UpdateSettingsDTO{Currency: &cur})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
