package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// TemplateDTO is the reusable email template projection.
type TemplateDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	BodyHTML  string    `json:"body_html"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveTemplateDTO is the admin payload for create and update.
type SaveTemplateDTO struct {
	Name     string `json:"name" validate:"required,max=200"`
	Subject  string `json:"subject" validate:"required,max=300"`
	BodyHTML string `json:"body_html" validate:"required"`
}

// Service owns reusable campaign templates.
type Service interface {
	List(ctx context.Context) ([]TemplateDTO, error)
	Get(ctx context.Context, id uuid.UUID) (TemplateDTO, error)
	Create(ctx context.Context, dto SaveTemplateDTO) (TemplateDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto SaveTemplateDTO) (TemplateDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type templateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error)
	List(ctx context.Context) ([]models.EmailTemplate, error)
	Create(ctx context.Context, template *models.EmailTemplate) (*models.EmailTemplate, error)
	Update(ctx context.Context, template *models.EmailTemplate) (*models.EmailTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo templateRepository
}

// ServiceParams bundles the dependencies required to build a templates service.
type ServiceParams struct {
	Repo templateRepository
}

// NewService constructs a templates service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("template repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context) ([]TemplateDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list templates")
	}
	dtos := make([]TemplateDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, fromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (TemplateDTO, error) {
	template, err := s.load(ctx, id)
	if err != nil {
		return TemplateDTO{}, err
	}
	return fromModel(template), nil
}

func (s *service) Create(ctx context.Context, dto SaveTemplateDTO) (TemplateDTO, error) {
	if err := validate(dto); err != nil {
		return TemplateDTO{}, err
	}
	created, err := s.repo.Create(ctx, &models.EmailTemplate{
		Name:     strings.TrimSpace(dto.Name),
		Subject:  strings.TrimSpace(dto.Subject),
		BodyHTML: dto.BodyHTML,
	})
	if err != nil {
		return TemplateDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto SaveTemplateDTO) (TemplateDTO, error) {
	if err := validate(dto); err != nil {
		return TemplateDTO{}, err
	}
	template, err := s.load(ctx, id)
	if err != nil {
		return TemplateDTO{}, err
	}

	template.Name = strings.TrimSpace(dto.Name)
	template.Subject = strings.TrimSpace(dto.Subject)
	template.BodyHTML = dto.BodyHTML

	updated, err := s.repo.Update(ctx, template)
	if err != nil {
		return TemplateDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update template")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete template")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template id is required")
	}
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	return template, nil
}

func validate(dto SaveTemplateDTO) error {
	if strings.TrimSpace(dto.Name) == "" || strings.TrimSpace(dto.Subject) == "" || strings.TrimSpace(dto.BodyHTML) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name, subject, and body are required")
	}
	return nil
}

func fromModel(template *models.EmailTemplate) TemplateDTO {
	return TemplateDTO{
		ID:        template.ID,
		Name:      template.Name,
		Subject:   template.Subject,
		BodyHTML:  template.BodyHTML,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}
