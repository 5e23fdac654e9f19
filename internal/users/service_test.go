package users

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

type stubProfileRepo struct {
	byID       map[uuid.UUID]*models.Profile
	customers  []models.Profile
	nextCursor string
	saved      *models.Profile
}

func (s *stubProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *profile
	return &copied, nil
}

func (s *stubProfileRepo) Update(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	s.saved = profile
	return profile, nil
}

func (s *stubProfileRepo) UpdateAvatarURL(ctx context.Context, id uuid.UUID, url *string) error {
	return nil
}

func (s *stubProfileRepo) ListCustomers(ctx context.Context, params pagination.Params) ([]models.Profile, string, error) {
	return s.customers, s.nextCursor, nil
}

func newUsersFixture(t *testing.T, profiles ...*models.Profile) (Service, *stubProfileRepo) {
	t.Helper()

	repo := &stubProfileRepo{byID: map[uuid.UUID]*models.Profile{}}
	for _, profile := range profiles {
		repo.byID[profile.ID] = profile
	}
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestGetProfileNotFound(t *testing.T) {
	svc, _ := newUsersFixture(t)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfileTrimsAndClearsPhone(t *testing.T) {
	profile := &models.Profile{ID: uuid.New(), FirstName: "Ama", LastName: "Mensah", Role: enums.RoleCustomer}
	svc, repo := newUsersFixture(t, profile)

	first := "  Akosua "
	phone := "   "
	updated, err := svc.UpdateProfile(context.Background(), profile.ID, UpdateProfileDTO{
		FirstName: &first,
		Phone:     &phone,
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FirstName != "Akosua" {
		t.Fatalf("expected trimmed first name, got %q", updated.FirstName)
	}
	if repo.saved == nil || repo.saved.Phone != nil {
		t.Fatalf("expected blank phone to clear the column")
	}
	if updated.LastName != "Mensah" {
		t.Fatalf("untouched field changed: %q", updated.LastName)
	}
}

func TestListCustomersMapsPage(t *testing.T) {
	svc, repo := newUsersFixture(t)
	repo.customers = []models.Profile{
		{ID: uuid.New(), Email: "a@example.com", Role: enums.RoleCustomer},
		{ID: uuid.New(), Email: "b@example.com", Role: enums.RoleCustomer},
	}
	repo.nextCursor = "cursor-token"

	page, err := svc.ListCustomers(context.Background(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(page.Profiles) != 2 {
		t.Fatalf("expected 2 profiles got %d", len(page.Profiles))
	}
	if page.Profiles[0].Email != "a@example.com" {
		t.Fatalf("unexpected first email %q", page.Profiles[0].Email)
	}
	if page.NextCursor != "cursor-token" {
		t.Fatalf("cursor not propagated: %q", page.NextCursor)
	}
}
