package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// SubmitDTO is the storefront contact form payload.
type SubmitDTO struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email"`
	Subject *string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// RequestDTO is the admin projection of a contact submission.
type RequestDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Service stores contact submissions for the back office inbox.
type Service interface {
	Submit(ctx context.Context, dto SubmitDTO) (RequestDTO, error)
	List(ctx context.Context) ([]RequestDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactRepository interface {
	Create(ctx context.Context, request *models.ContactRequest) (*models.ContactRequest, error)
	List(ctx context.Context) ([]models.ContactRequest, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo contactRepository
}

// ServiceParams bundles the dependencies required to build a contact service.
type ServiceParams struct {
	Repo contactRepository
}

// NewService constructs a contact service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("contact repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Submit(ctx context.Context, dto SubmitDTO) (RequestDTO, error) {
	name := strings.TrimSpace(dto.Name)
	message := strings.TrimSpace(dto.Message)
	if name == "" || message == "" {
		return RequestDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name and message are required")
	}

	created, err := s.repo.Create(ctx, &models.ContactRequest{
		Name:    name,
		Email:   strings.ToLower(strings.TrimSpace(dto.Email)),
		Subject: dto.Subject,
		Message: message,
	})
	if err != nil {
		return RequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact request")
	}
	return fromModel(created), nil
}

func (s *service) List(ctx context.Context) ([]RequestDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact requests")
	}
	dtos := make([]RequestDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, fromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contact request")
	}
	return nil
}

func fromModel(request *models.ContactRequest) RequestDTO {
	return RequestDTO{
		ID:        request.ID,
		Name:      request.Name,
		Email:     request.Email,
		Subject:   request.Subject,
		Message:   request.Message,
		CreatedAt: request.CreatedAt,
	}
}
