package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

// Service exposes profile reads and updates for the account dashboard,
// plus the back office customer listing.
type Service interface {
	GetProfile(ctx context.Context, id uuid.UUID) (ProfileDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) (ProfileDTO, error)
	SetAvatar(ctx context.Context, id uuid.UUID, url *string) error
	ListCustomers(ctx context.Context, params pagination.Params) (*ListResponse, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	UpdateAvatarURL(ctx context.Context, id uuid.UUID, url *string) error
	ListCustomers(ctx context.Context, params pagination.Params) ([]models.Profile, string, error)
}

// ListResponse is one cursor page of customer profiles.
type ListResponse struct {
	Profiles   []ProfileDTO `json:"profiles"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type service struct {
	repo profileRepository
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo profileRepository
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) GetProfile(ctx context.Context, id uuid.UUID) (ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, id)
	if err != nil {
		return ProfileDTO{}, err
	}
	return FromModel(profile), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, dto UpdateProfileDTO) (ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, id)
	if err != nil {
		return ProfileDTO{}, err
	}

	if dto.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*dto.FirstName)
	}
	if dto.LastName != nil {
		profile.LastName = strings.TrimSpace(*dto.LastName)
	}
	if dto.Phone != nil {
		trimmed := strings.TrimSpace(*dto.Phone)
		if trimmed == "" {
			profile.Phone = nil
		} else {
			profile.Phone = &trimmed
		}
	}

	updated, err := s.repo.Update(ctx, profile)
	if err != nil {
		return ProfileDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return FromModel(updated), nil
}

func (s *service) SetAvatar(ctx context.Context, id uuid.UUID, url *string) error {
	if _, err := s.loadProfile(ctx, id); err != nil {
		return err
	}
	if err := s.repo.UpdateAvatarURL(ctx, id, url); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update avatar")
	}
	return nil
}

func (s *service) ListCustomers(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	profiles, nextCursor, err := s.repo.ListCustomers(ctx, params)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for i := range profiles {
		dtos = append(dtos, FromModel(&profiles[i]))
	}
	return &ListResponse{Profiles: dtos, NextCursor: nextCursor}, nil
}

func (s *service) loadProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")
	}
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}
