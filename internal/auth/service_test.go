package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/internal/users"
	"github.com/joyalure/joyalure-backend/pkg/config"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/security"
)

type stubProfileRepo struct {
	byEmail map[string]*models.Profile
	byID    map[uuid.UUID]*models.Profile
	created []users.CreateProfileDTO
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{
		byEmail: map[string]*models.Profile{},
		byID:    map[uuid.UUID]*models.Profile{},
	}
}

func (s *stubProfileRepo) add(profile *models.Profile) {
	s.byEmail[strings.ToLower(profile.Email)] = profile
	s.byID[profile.ID] = profile
}

func (s *stubProfileRepo) Create(ctx context.Context, dto users.CreateProfileDTO) (*models.Profile, error) {
	s.created = append(s.created, dto)
	profile := dto.ToModel()
	profile.ID = uuid.New()
	s.add(profile)
	return profile, nil
}

func (s *stubProfileRepo) FindByEmail(ctx context.Context, email string) (*models.Profile, error) {
	if profile, ok := s.byEmail[strings.ToLower(email)]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if profile, ok := s.byID[id]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return "new-access-id", "new-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "joyalure", ExpirationMinutes: 15, RefreshTokenTTLMinutes: 60}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{ArgonMemoryKB: 8 * 1024, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 16, ArgonKeyLen: 32}
}

func newTestService(t *testing.T, repo *stubProfileRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		ProfileRepo:    repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedProfile(t *testing.T, repo *stubProfileRepo, email, password string, role enums.Role) *models.Profile {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	profile := &models.Profile{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	repo.add(profile)
	return profile
}

func TestRegisterCreatesCustomerAndIssuesTokens(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "New.Customer@Example.com",
		Password:  "super-secret-pw",
		FirstName: "Ama",
		LastName:  "Mensah",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.created))
	}
	if repo.created[0].Email != "new.customer@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created[0].Email)
	}
	if repo.created[0].Role != enums.RoleCustomer {
		t.Fatalf("expected customer role, got %s", repo.created[0].Role)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", resp)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubProfileRepo()
	seedProfile(t, repo, "customer@example.com", "correct-password", enums.RoleCustomer)
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "customer@example.com", Password: "wrong"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveProfile(t *testing.T) {
	repo := newStubProfileRepo()
	profile := seedProfile(t, repo, "dormant@example.com", "correct-password", enums.RoleCustomer)
	profile.IsActive = false
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "dormant@example.com", Password: "correct-password"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for inactive profile, got %v", err)
	}
}

func TestAdminLoginRejectsCustomers(t *testing.T) {
	repo := newStubProfileRepo()
	seedProfile(t, repo, "shopper@example.com", "correct-password", enums.RoleCustomer)
	svc := newTestService(t, repo, &stubSessionManager{})

	_, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "shopper@example.com", Password: "correct-password"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for non-admin, got %v", err)
	}
}

func TestAdminLoginAcceptsAdmin(t *testing.T) {
	repo := newStubProfileRepo()
	seedProfile(t, repo, "ops@joyalure.com", "correct-password", enums.RoleAdmin)
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	resp, err := svc.AdminLogin(context.Background(), LoginRequest{Email: "ops@joyalure.com", Password: "correct-password"})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if resp.User.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role in response, got %s", resp.User.Role)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session generated, got %d", len(sessions.generated))
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newStubProfileRepo()
	sessions := &stubSessionManager{}
	svc := newTestService(t, repo, sessions)

	if err := svc.Logout(context.Background(), "access-id-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-id-1" {
		t.Fatalf("expected revoke of access-id-1, got %v", sessions.revoked)
	}
}
