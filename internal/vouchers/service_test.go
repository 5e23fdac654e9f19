package vouchers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

type stubVoucherRepo struct {
	byID   map[uuid.UUID]*models.Voucher
	byCode map[string]*models.Voucher
}

func newStubVoucherRepo() *stubVoucherRepo {
	return &stubVoucherRepo{byID: map[uuid.UUID]*models.Voucher{}, byCode: map[string]*models.Voucher{}}
}

func (s *stubVoucherRepo) add(voucher *models.Voucher) {
	s.byID[voucher.ID] = voucher
	s.byCode[strings.ToUpper(voucher.Code)] = voucher
}

func (s *stubVoucherRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Voucher, error) {
	if voucher, ok := s.byID[id]; ok {
		return voucher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVoucherRepo) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	if voucher, ok := s.byCode[strings.ToUpper(code)]; ok {
		return voucher, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVoucherRepo) List(ctx context.Context) ([]models.Voucher, error) {
	var out []models.Voucher
	for _, voucher := range s.byID {
		out = append(out, *voucher)
	}
	return out, nil
}

func (s *stubVoucherRepo) Create(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error) {
	voucher.ID = uuid.New()
	s.add(voucher)
	return voucher, nil
}

func (s *stubVoucherRepo) Update(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error) {
	s.add(voucher)
	return voucher, nil
}

func (s *stubVoucherRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if voucher, ok := s.byID[id]; ok {
		delete(s.byCode, strings.ToUpper(voucher.Code))
		delete(s.byID, id)
	}
	return nil
}

func (s *stubVoucherRepo) IncrementRedemptions(ctx context.Context, id uuid.UUID) (bool, error) {
	voucher, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	if voucher.MaxRedemptions != nil && voucher.Redemptions >= *voucher.MaxRedemptions {
		return false, nil
	}
	voucher.Redemptions++
	return true, nil
}

func fixture(t *testing.T) (Service, *stubVoucherRepo) {
	t.Helper()
	repo := newStubVoucherRepo()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func intPtr(v int) *int { return &v }

func TestValidateAcceptsCodeInsideWindow(t *testing.T) {
	svc, repo := fixture(t)
	now := time.Now().UTC()
	starts := now.Add(-time.Hour)
	expires := now.Add(time.Hour)
	repo.add(&models.Voucher{
		ID:         uuid.New(),
		Code:       "GLOW10",
		Kind:       enums.VoucherKindPercent,
		PercentOff: intPtr(10),
		StartsAt:   &starts,
		ExpiresAt:  &expires,
		IsActive:   true,
	})

	voucher, err := svc.Validate(context.Background(), "glow10", now)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if voucher.Code != "GLOW10" {
		t.Fatalf("expected GLOW10, got %q", voucher.Code)
	}
}

func TestValidateRejectsExpiredAndInactive(t *testing.T) {
	svc, repo := fixture(t)
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	repo.add(&models.Voucher{
		ID: uuid.New(), Code: "OLD", Kind: enums.VoucherKindFixed,
		AmountOffCents: intPtr(500), ExpiresAt: &past, IsActive: true,
	})
	repo.add(&models.Voucher{
		ID: uuid.New(), Code: "OFF", Kind: enums.VoucherKindFixed,
		AmountOffCents: intPtr(500), IsActive: false,
	})

	for _, code := range []string{"OLD", "OFF"} {
		_, err := svc.Validate(context.Background(), code, now)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation rejection for %s, got %v", code, err)
		}
	}
}

func TestValidateRejectsExhaustedVoucher(t *testing.T) {
	svc, repo := fixture(t)
	repo.add(&models.Voucher{
		ID: uuid.New(), Code: "LAST", Kind: enums.VoucherKindFixed,
		AmountOffCents: intPtr(500), MaxRedemptions: intPtr(3), Redemptions: 3, IsActive: true,
	})

	_, err := svc.Validate(context.Background(), "LAST", time.Now().UTC())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation rejection, got %v", err)
	}
}

func TestDiscountPercentTruncatesAndFixedClamps(t *testing.T) {
	svc, _ := fixture(t)

	percent := &models.Voucher{Kind: enums.VoucherKindPercent, PercentOff: intPtr(15)}
	if got := svc.Discount(percent, 1999); got != 299 {
		t.Fatalf("expected 299 cents off, got %d", got)
	}

	fixed := &models.Voucher{Kind: enums.VoucherKindFixed, AmountOffCents: intPtr(5000)}
	if got := svc.Discount(fixed, 1999); got != 1999 {
		t.Fatalf("expected clamp to subtotal, got %d", got)
	}
}

func TestRedeemStopsAtCap(t *testing.T) {
	svc, repo := fixture(t)
	voucher := &models.Voucher{
		ID: uuid.New(), Code: "CAP1", Kind: enums.VoucherKindFixed,
		AmountOffCents: intPtr(100), MaxRedemptions: intPtr(1), IsActive: true,
	}
	repo.add(voucher)

	if err := svc.Redeem(context.Background(), voucher.ID); err != nil {
		t.Fatalf("first redeem: %v", err)
	}
	err := svc.Redeem(context.Background(), voucher.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict at cap, got %v", err)
	}
}

func TestCreateRequiresKindMatchingValue(t *testing.T) {
	svc, _ := fixture(t)

	_, err := svc.Create(context.Background(), CreateVoucherDTO{Code: "BAD", Kind: "percent"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing percent_off, got %v", err)
	}
}
