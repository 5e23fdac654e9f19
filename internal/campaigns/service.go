package campaigns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/email"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// CampaignDTO is the back office projection of a campaign.
type CampaignDTO struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Subject     string                 `json:"subject"`
	BodyHTML    string                 `json:"body_html"`
	Audience    enums.CampaignAudience `json:"audience"`
	Recipients  []string               `json:"recipients"`
	Status      enums.CampaignStatus   `json:"status"`
	TemplateID  *uuid.UUID             `json:"template_id,omitempty"`
	ScheduledAt *time.Time             `json:"scheduled_at,omitempty"`
	SentAt      *time.Time             `json:"sent_at,omitempty"`
	SentCount   int                    `json:"sent_count"`
	CreatedAt   time.Time              `json:"created_at"`
}

// CreateCampaignDTO is the admin payload for a new draft.
type CreateCampaignDTO struct {
	Name       string     `json:"name" validate:"required,max=200"`
	Subject    string     `json:"subject,omitempty" validate:"omitempty,max=300"`
	BodyHTML   string     `json:"body_html,omitempty"`
	Audience   string     `json:"audience" validate:"required,oneof=subscribers custom"`
	Recipients []string   `json:"recipients,omitempty" validate:"omitempty,dive,email"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

// UpdateCampaignDTO carries partial edits; only drafts accept them.
type UpdateCampaignDTO struct {
	Name       *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Subject    *string    `json:"subject,omitempty" validate:"omitempty,max=300"`
	BodyHTML   *string    `json:"body_html,omitempty"`
	Audience   *string    `json:"audience,omitempty" validate:"omitempty,oneof=subscribers custom"`
	Recipients []string   `json:"recipients,omitempty" validate:"omitempty,dive,email"`
	TemplateID *uuid.UUID `json:"template_id,omitempty"`
}

// ScheduleDTO queues a campaign for the dispatch job.
type ScheduleDTO struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

func fromModel(campaign *models.Campaign) CampaignDTO {
	return CampaignDTO{
		ID:          campaign.ID,
		Name:        campaign.Name,
		Subject:     campaign.Subject,
		BodyHTML:    campaign.BodyHTML,
		Audience:    campaign.Audience,
		Recipients:  append([]string{}, campaign.Recipients...),
		Status:      campaign.Status,
		TemplateID:  campaign.TemplateID,
		ScheduledAt: campaign.ScheduledAt,
		SentAt:      campaign.SentAt,
		SentCount:   campaign.SentCount,
		CreatedAt:   campaign.CreatedAt,
	}
}

// Service owns campaign drafting, scheduling, and delivery.
type Service interface {
	List(ctx context.Context) ([]CampaignDTO, error)
	Get(ctx context.Context, id uuid.UUID) (CampaignDTO, error)
	Create(ctx context.Context, dto CreateCampaignDTO) (CampaignDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdateCampaignDTO) (CampaignDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Schedule(ctx context.Context, id uuid.UUID, dto ScheduleDTO) (CampaignDTO, error)
	Send(ctx context.Context, id uuid.UUID) (CampaignDTO, error)
	SendDue(ctx context.Context, now time.Time) (int, error)
}

type campaignRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error)
	List(ctx context.Context) ([]models.Campaign, error)
	Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time, sentCount int) error
	ListDueScheduled(ctx context.Context, now time.Time) ([]models.Campaign, error)
}

type subscriberLister interface {
	ListEmails(ctx context.Context) ([]string, error)
}

type templateFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error)
}

type service struct {
	repo        campaignRepository
	subscribers subscriberLister
	templates   templateFinder
	sender      email.Sender
}

// ServiceParams bundles the dependencies required to build a campaigns service.
type ServiceParams struct {
	Repo        campaignRepository
	Subscribers subscriberLister
	Templates   templateFinder
	Sender      email.Sender
}

// NewService constructs a campaigns service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("campaign repository is required")
	}
	if params.Subscribers == nil {
		return nil, fmt.Errorf("subscriber lister is required")
	}
	if params.Templates == nil {
		return nil, fmt.Errorf("template finder is required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("email sender is required")
	}
	return &service{
		repo:        params.Repo,
		subscribers: params.Subscribers,
		templates:   params.Templates,
		sender:      params.Sender,
	}, nil
}

func (s *service) List(ctx context.Context) ([]CampaignDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list campaigns")
	}
	dtos := make([]CampaignDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, fromModel(&records[i]))
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (CampaignDTO, error) {
	campaign, err := s.load(ctx, id)
	if err != nil {
		return CampaignDTO{}, err
	}
	return fromModel(campaign), nil
}

func (s *service) Create(ctx context.Context, dto CreateCampaignDTO) (CampaignDTO, error) {
	audience, err := enums.ParseCampaignAudience(dto.Audience)
	if err != nil {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if audience == enums.CampaignAudienceCustom && len(dto.Recipients) == 0 {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "custom audience requires recipients")
	}

	campaign := &models.Campaign{
		Name:       strings.TrimSpace(dto.Name),
		Subject:    strings.TrimSpace(dto.Subject),
		BodyHTML:   dto.BodyHTML,
		Audience:   audience,
		Recipients: dto.Recipients,
		Status:     enums.CampaignStatusDraft,
		TemplateID: dto.TemplateID,
	}
	if campaign.Name == "" {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.applyTemplate(ctx, campaign); err != nil {
		return CampaignDTO{}, err
	}
	if campaign.Subject == "" || campaign.BodyHTML == "" {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "subject and body are required (directly or via template)")
	}

	created, err := s.repo.Create(ctx, campaign)
	if err != nil {
		return CampaignDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create campaign")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdateCampaignDTO) (CampaignDTO, error) {
	campaign, err := s.load(ctx, id)
	if err != nil {
		return CampaignDTO{}, err
	}
	if campaign.Status != enums.CampaignStatusDraft {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "only draft campaigns can be edited")
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		campaign.Name = name
	}
	if dto.Subject != nil {
		campaign.Subject = strings.TrimSpace(*dto.Subject)
	}
	if dto.BodyHTML != nil {
		campaign.BodyHTML = *dto.BodyHTML
	}
	if dto.Audience != nil {
		audience, err := enums.ParseCampaignAudience(*dto.Audience)
		if err != nil {
			return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		campaign.Audience = audience
	}
	if dto.Recipients != nil {
		campaign.Recipients = dto.Recipients
	}
	if dto.TemplateID != nil {
		campaign.TemplateID = dto.TemplateID
		if err := s.applyTemplate(ctx, campaign); err != nil {
			return CampaignDTO{}, err
		}
	}
	if campaign.Audience == enums.CampaignAudienceCustom && len(campaign.Recipients) == 0 {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "custom audience requires recipients")
	}

	updated, err := s.repo.Update(ctx, campaign)
	if err != nil {
		return CampaignDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update campaign")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	campaign, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if campaign.Status == enums.CampaignStatusSent {
		return pkgerrors.New(pkgerrors.CodeConflict, "sent campaigns cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete campaign")
	}
	return nil
}

func (s *service) Schedule(ctx context.Context, id uuid.UUID, dto ScheduleDTO) (CampaignDTO, error) {
	if dto.ScheduledAt.Before(time.Now().UTC()) {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "scheduled_at must be in the future")
	}
	campaign, err := s.load(ctx, id)
	if err != nil {
		return CampaignDTO{}, err
	}
	if campaign.Status != enums.CampaignStatusDraft {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "only draft campaigns can be scheduled")
	}

	at := dto.ScheduledAt.UTC()
	campaign.Status = enums.CampaignStatusScheduled
	campaign.ScheduledAt = &at

	updated, err := s.repo.Update(ctx, campaign)
	if err != nil {
		return CampaignDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "schedule campaign")
	}
	return fromModel(updated), nil
}

// Send delivers the campaign in a single bulk provider call. The status
// flips to sent only after that call succeeds; on failure nothing was
// delivered and the campaign keeps its prior status.
func (s *service) Send(ctx context.Context, id uuid.UUID) (CampaignDTO, error) {
	campaign, err := s.load(ctx, id)
	if err != nil {
		return CampaignDTO{}, err
	}
	if campaign.Status == enums.CampaignStatusSent {
		return CampaignDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "campaign already sent")
	}
	if err := s.deliver(ctx, campaign); err != nil {
		return CampaignDTO{}, err
	}
	return fromModel(campaign), nil
}

// SendDue dispatches every scheduled campaign whose time has passed,
// returning how many were sent. Individual failures stop that campaign
// only; the rest still go out.
func (s *service) SendDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.ListDueScheduled(ctx, now)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list due campaigns")
	}

	sent := 0
	var firstErr error
	for i := range due {
		if err := s.deliver(ctx, &due[i]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
	}
	return sent, firstErr
}

func (s *service) deliver(ctx context.Context, campaign *models.Campaign) error {
	recipients, err := s.resolveRecipients(ctx, campaign)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign has no recipients")
	}

	// One call for the whole address list: the provider either accepts the
	// batch or rejects it, so a failed campaign can be retried without
	// anyone receiving the email twice.
	if _, err := s.sender.Send(ctx, email.Message{
		To:      recipients,
		Subject: campaign.Subject,
		HTML:    campaign.BodyHTML,
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send campaign, left unsent")
	}

	sentAt := time.Now().UTC()
	if err := s.repo.MarkSent(ctx, campaign.ID, sentAt, len(recipients)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark campaign sent")
	}
	campaign.Status = enums.CampaignStatusSent
	campaign.SentAt = &sentAt
	campaign.SentCount = len(recipients)
	return nil
}

func (s *service) resolveRecipients(ctx context.Context, campaign *models.Campaign) ([]string, error) {
	if campaign.Audience == enums.CampaignAudienceCustom {
		return campaign.Recipients, nil
	}
	emails, err := s.subscribers.ListEmails(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscribers")
	}
	return emails, nil
}

// applyTemplate fills subject/body from the linked template when the draft
// leaves them blank.
func (s *service) applyTemplate(ctx context.Context, campaign *models.Campaign) error {
	if campaign.TemplateID == nil {
		return nil
	}
	template, err := s.templates.FindByID(ctx, *campaign.TemplateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "template not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	if campaign.Subject == "" {
		campaign.Subject = template.Subject
	}
	if campaign.BodyHTML == "" {
		campaign.BodyHTML = template.BodyHTML
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign id is required")
	}
	campaign, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "campaign not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load campaign")
	}
	return campaign, nil
}
