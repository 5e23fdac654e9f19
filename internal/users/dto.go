package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
)

// CreateProfileDTO captures the fields needed to insert a profile.
type CreateProfileDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Role         enums.Role
}

// ToModel converts the DTO into the persistence model.
func (d CreateProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Phone:        d.Phone,
		Role:         d.Role,
		IsActive:     true,
	}
}

// ProfileDTO is the API projection of a profile. The password hash never
// leaves the persistence layer.
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       *string    `json:"phone,omitempty"`
	Role        enums.Role `json:"role"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel maps the persistence model into the API projection.
func FromModel(profile *models.Profile) ProfileDTO {
	if profile == nil {
		return ProfileDTO{}
	}
	return ProfileDTO{
		ID:          profile.ID,
		Email:       profile.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		Phone:       profile.Phone,
		Role:        profile.Role,
		AvatarURL:   profile.AvatarURL,
		LastLoginAt: profile.LastLoginAt,
		CreatedAt:   profile.CreatedAt,
	}
}

// UpdateProfileDTO carries the editable profile fields.
type UpdateProfileDTO struct {
	FirstName *string
	LastName  *string
	Phone     *string
}
