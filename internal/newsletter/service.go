package newsletter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/db"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// SubscribeDTO is the storefront footer payload.
type SubscribeDTO struct {
	Email string `json:"email" validate:"required,email"`
}

// SubscribeResult reports the outcome without leaking membership: repeat
// subscriptions succeed with AlreadySubscribed set.
type SubscribeResult struct {
	Email             string `json:"email"`
	AlreadySubscribed bool   `json:"already_subscribed"`
}

// SubscriberDTO is the admin projection of one subscriber.
type SubscriberDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Service owns the subscriber list.
type Service interface {
	Subscribe(ctx context.Context, dto SubscribeDTO) (SubscribeResult, error)
	Unsubscribe(ctx context.Context, email string) error
	List(ctx context.Context) ([]SubscriberDTO, error)
	Count(ctx context.Context) (int64, error)
}

type subscriberRepository interface {
	Create(ctx context.Context, email string) (*models.NewsletterSubscriber, error)
	DeleteByEmail(ctx context.Context, email string) error
	List(ctx context.Context) ([]models.NewsletterSubscriber, error)
	Count(ctx context.Context) (int64, error)
}

type service struct {
	repo subscriberRepository
}

// ServiceParams bundles the dependencies required to build a newsletter service.
type ServiceParams struct {
	Repo subscriberRepository
}

// NewService constructs a newsletter service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscriber repository is required")
	}
	return &service{repo: params.Repo}, nil
}

// Subscribe adds the address. A duplicate insert is reported as success so
// the storefront form cannot be used to probe the list.
func (s *service) Subscribe(ctx context.Context, dto SubscribeDTO) (SubscribeResult, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email == "" {
		return SubscribeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if _, err := s.repo.Create(ctx, email); err != nil {
		if db.IsUniqueViolation(err) {
			return SubscribeResult{Email: email, AlreadySubscribed: true}, nil
		}
		return SubscribeResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscriber")
	}
	return SubscribeResult{Email: email}, nil
}

func (s *service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete subscriber")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]SubscriberDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscribers")
	}
	dtos := make([]SubscriberDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, SubscriberDTO{ID: record.ID, Email: record.Email, CreatedAt: record.CreatedAt})
	}
	return dtos, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count subscribers")
	}
	return count, nil
}
