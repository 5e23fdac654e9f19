package vouchers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// VoucherDTO is the admin projection of a discount code.
type VoucherDTO struct {
	ID             uuid.UUID         `json:"id"`
	Code           string            `json:"code"`
	Kind           enums.VoucherKind `json:"kind"`
	PercentOff     *int              `json:"percent_off,omitempty"`
	AmountOffCents *int              `json:"amount_off_cents,omitempty"`
	StartsAt       *time.Time        `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
	MaxRedemptions *int              `json:"max_redemptions,omitempty"`
	Redemptions    int               `json:"redemptions"`
	IsActive       bool              `json:"is_active"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CreateVoucherDTO is the admin payload for a new code.
type CreateVoucherDTO struct {
	Code           string     `json:"code" validate:"required,max=64"`
	Kind           string     `json:"kind" validate:"required,oneof=percent fixed"`
	PercentOff     *int       `json:"percent_off,omitempty" validate:"omitempty,gt=0,lte=100"`
	AmountOffCents *int       `json:"amount_off_cents,omitempty" validate:"omitempty,gt=0"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	MaxRedemptions *int       `json:"max_redemptions,omitempty" validate:"omitempty,gt=0"`
}

// UpdateVoucherDTO carries partial admin edits.
type UpdateVoucherDTO struct {
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	MaxRedemptions *int       `json:"max_redemptions,omitempty" validate:"omitempty,gt=0"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

func fromModel(voucher *models.Voucher) VoucherDTO {
	return VoucherDTO{
		ID:             voucher.ID,
		Code:           voucher.Code,
		Kind:           voucher.Kind,
		PercentOff:     voucher.PercentOff,
		AmountOffCents: voucher.AmountOffCents,
		StartsAt:       voucher.StartsAt,
		ExpiresAt:      voucher.ExpiresAt,
		MaxRedemptions: voucher.MaxRedemptions,
		Redemptions:    voucher.Redemptions,
		IsActive:       voucher.IsActive,
		CreatedAt:      voucher.CreatedAt,
	}
}

// Service validates codes at checkout and owns the admin CRUD.
type Service interface {
	Validate(ctx context.Context, code string, at time.Time) (*models.Voucher, error)
	Discount(voucher *models.Voucher, subtotalCents int) int
	Redeem(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]VoucherDTO, error)
	Create(ctx context.Context, dto CreateVoucherDTO) (VoucherDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateVoucherDTO) (VoucherDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type voucherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Voucher, error)
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	List(ctx context.Context) ([]models.Voucher, error)
	Create(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error)
	Update(ctx context.Context, voucher *models.Voucher) (*models.Voucher, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementRedemptions(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo voucherRepository
}

// ServiceParams bundles the dependencies required to build a vouchers service.
type ServiceParams struct {
	Repo voucherRepository
}

// NewService constructs a vouchers service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("voucher repository is required")
	}
	return &service{repo: params.Repo}, nil
}

const invalidVoucherMessage = "voucher is not valid"

// Validate resolves a code and checks the activation window, active flag,
// and redemption cap. Every rejection uses the same public message so the
// storefront cannot probe which codes exist.
func (s *service) Validate(ctx context.Context, code string, at time.Time) (*models.Voucher, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}
	voucher, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, invalidVoucherMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}

	if !voucher.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidVoucherMessage)
	}
	if voucher.StartsAt != nil && at.Before(*voucher.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidVoucherMessage)
	}
	if voucher.ExpiresAt != nil && !at.Before(*voucher.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidVoucherMessage)
	}
	if voucher.MaxRedemptions != nil && voucher.Redemptions >= *voucher.MaxRedemptions {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidVoucherMessage)
	}
	return voucher, nil
}

// Discount computes the discount in cents for the subtotal, clamped so the
// order total never goes negative. Percent discounts truncate toward zero.
func (s *service) Discount(voucher *models.Voucher, subtotalCents int) int {
	if voucher == nil || subtotalCents <= 0 {
		return 0
	}
	discount := 0
	switch voucher.Kind {
	case enums.VoucherKindPercent:
		if voucher.PercentOff != nil {
			discount = subtotalCents * *voucher.PercentOff / 100
		}
	case enums.VoucherKindFixed:
		if voucher.AmountOffCents != nil {
			discount = *voucher.AmountOffCents
		}
	}
	if discount > subtotalCents {
		discount = subtotalCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// Redeem consumes one redemption, failing if the cap was reached between
// validation and checkout commit.
func (s *service) Redeem(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.IncrementRedemptions(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redeem voucher")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "voucher redemption limit reached")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]VoucherDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vouchers")
	}
	dtos := make([]VoucherDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, fromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) Create(ctx context.Context, dto CreateVoucherDTO) (VoucherDTO, error) {
	kind, err := enums.ParseVoucherKind(dto.Kind)
	if err != nil {
		return VoucherDTO{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	switch kind {
	case enums.VoucherKindPercent:
		if dto.PercentOff == nil {
			return VoucherDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "percent_off is required for percent vouchers")
		}
	case enums.VoucherKindFixed:
		if dto.AmountOffCents == nil {
			return VoucherDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "amount_off_cents is required for fixed vouchers")
		}
	}
	if dto.StartsAt != nil && dto.ExpiresAt != nil && !dto.StartsAt.Before(*dto.ExpiresAt) {
		return VoucherDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "starts_at must be before expires_at")
	}

	created, err := s.repo.Create(ctx, &models.Voucher{
		Code:           strings.ToUpper(strings.TrimSpace(dto.Code)),
		Kind:           kind,
		PercentOff:     dto.PercentOff,
		AmountOffCents: dto.AmountOffCents,
		StartsAt:       dto.StartsAt,
		ExpiresAt:      dto.ExpiresAt,
		MaxRedemptions: dto.MaxRedemptions,
		IsActive:       true,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return VoucherDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "code already exists")
		}
		return VoucherDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create voucher")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateVoucherDTO) (VoucherDTO, error) {
	voucher, err := s.load(ctx, id)
	if err != nil {
		return VoucherDTO{}, err
	}

	if dto.StartsAt != nil {
		voucher.StartsAt = dto.StartsAt
	}
	if dto.ExpiresAt != nil {
		voucher.ExpiresAt = dto.ExpiresAt
	}
	if dto.MaxRedemptions != nil {
		voucher.MaxRedemptions = dto.MaxRedemptions
	}
	if dto.IsActive != nil {
		voucher.IsActive = *dto.IsActive
	}
	if voucher.StartsAt != nil && voucher.ExpiresAt != nil && !voucher.StartsAt.Before(*voucher.ExpiresAt) {
		return VoucherDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "starts_at must be before expires_at")
	}

	updated, err := s.repo.Update(ctx, voucher)
	if err != nil {
		return VoucherDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update voucher")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete voucher")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Voucher, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher id is required")
	}
	voucher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}
	return voucher, nil
}
