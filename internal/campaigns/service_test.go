package campaigns

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/email"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

type stubCampaignRepo struct {
	byID map[uuid.UUID]*models.Campaign
}

func newStubCampaignRepo() *stubCampaignRepo {
	return &stubCampaignRepo{byID: map[uuid.UUID]*models.Campaign{}}
}

func (s *stubCampaignRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Campaign, error) {
	if campaign, ok := s.byID[id]; ok {
		return campaign, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCampaignRepo) List(ctx context.Context) ([]models.Campaign, error) {
	var out []models.Campaign
	for _, campaign := range s.byID {
		out = append(out, *campaign)
	}
	return out, nil
}

func (s *stubCampaignRepo) Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	campaign.ID = uuid.New()
	s.byID[campaign.ID] = campaign
	return campaign, nil
}

func (s *stubCampaignRepo) Update(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	s.byID[campaign.ID] = campaign
	return campaign, nil
}

func (s *stubCampaignRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubCampaignRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time, sentCount int) error {
	if campaign, ok := s.byID[id]; ok {
		campaign.Status = enums.CampaignStatusSent
		campaign.SentAt = &sentAt
		campaign.SentCount = sentCount
	}
	return nil
}

func (s *stubCampaignRepo) ListDueScheduled(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	var out []models.Campaign
	for _, campaign := range s.byID {
		if campaign.Status == enums.CampaignStatusScheduled &&
			campaign.ScheduledAt != nil && !campaign.ScheduledAt.After(now) {
			out = append(out, *campaign)
		}
	}
	return out, nil
}

type stubSubscribers struct {
	emails []string
}

func (s *stubSubscribers) ListEmails(ctx context.Context) ([]string, error) {
	return s.emails, nil
}

type stubTemplates struct {
	byID map[uuid.UUID]*models.EmailTemplate
}

func (s *stubTemplates) FindByID(ctx context.Context, id uuid.UUID) (*models.EmailTemplate, error) {
	if template, ok := s.byID[id]; ok {
		return template, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubSender struct {
	sent    []email.Message
	failOn  string
	failAll bool
}

func (s *stubSender) Send(ctx context.Context, msg email.Message) (*email.SendResult, error) {
	if s.failAll {
		return nil, errors.New("provider rejected message")
	}
	for _, to := range msg.To {
		if s.failOn != "" && to == s.failOn {
			return nil, errors.New("provider rejected message")
		}
	}
	s.sent = append(s.sent, msg)
	return &email.SendResult{ID: uuid.NewString()}, nil
}

func fixture(t *testing.T, subscribers []string) (Service, *stubCampaignRepo, *stubSender) {
	t.Helper()
	repo := newStubCampaignRepo()
	sender := &stubSender{}
	svc, err := NewService(ServiceParams{
		Repo:        repo,
		Subscribers: &stubSubscribers{emails: subscribers},
		Templates:   &stubTemplates{byID: map[uuid.UUID]*models.EmailTemplate{}},
		Sender:      sender,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, sender
}

func seedDraft(repo *stubCampaignRepo, audience enums.CampaignAudience, recipients []string) *models.Campaign {
	campaign := &models.Campaign{
		ID:         uuid.New(),
		Name:       "Summer Glow",
		Subject:    "New arrivals",
		BodyHTML:   "<p>Hello</p>",
		Audience:   audience,
		Recipients: recipients,
		Status:     enums.CampaignStatusDraft,
	}
	repo.byID[campaign.ID] = campaign
	return campaign
}

func TestSendDeliversToAllSubscribers(t *testing.T) {
	svc, repo, sender := fixture(t, []string{"a@example.com", "b@example.com"})
	campaign := seedDraft(repo, enums.CampaignAudienceSubscribers, nil)

	dto, err := svc.Send(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if dto.Status != enums.CampaignStatusSent || dto.SentCount != 2 {
		t.Fatalf("expected sent with count 2, got %+v", dto)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one bulk delivery, got %d", len(sender.sent))
	}
	if len(sender.sent[0].To) != 2 {
		t.Fatalf("expected both subscribers in one batch, got %v", sender.sent[0].To)
	}
}

func TestSendMakesOneProviderCallForCustomList(t *testing.T) {
	svc, repo, sender := fixture(t, nil)
	campaign := seedDraft(repo, enums.CampaignAudienceCustom,
		[]string{"a@example.com", "b@example.com", "c@example.com"})

	if _, err := svc.Send(context.Background(), campaign.ID); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(sender.sent))
	}
	if len(sender.sent[0].To) != 3 {
		t.Fatalf("expected all 3 recipients in the batch, got %v", sender.sent[0].To)
	}
}

func TestSendFailureLeavesCampaignDraft(t *testing.T) {
	svc, repo, sender := fixture(t, []string{"a@example.com", "broken@example.com", "c@example.com"})
	sender.failOn = "broken@example.com"
	campaign := seedDraft(repo, enums.CampaignAudienceSubscribers, nil)

	_, err := svc.Send(context.Background(), campaign.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if repo.byID[campaign.ID].Status != enums.CampaignStatusDraft {
		t.Fatalf("campaign must stay draft on failure, got %s", repo.byID[campaign.ID].Status)
	}
	if repo.byID[campaign.ID].SentCount != 0 {
		t.Fatalf("sent count must stay 0, got %d", repo.byID[campaign.ID].SentCount)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("a rejected batch must deliver to nobody, got %v", sender.sent)
	}
}

func TestSendTwiceIsConflict(t *testing.T) {
	svc, repo, _ := fixture(t, []string{"a@example.com"})
	campaign := seedDraft(repo, enums.CampaignAudienceSubscribers, nil)

	if _, err := svc.Send(context.Background(), campaign.ID); err != nil {
		t.Fatalf("first send: %v", err)
	}
	_, err := svc.Send(context.Background(), campaign.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on resend, got %v", err)
	}
}

func TestCustomAudienceUsesStoredRecipients(t *testing.T) {
	svc, repo, sender := fixture(t, []string{"subscriber@example.com"})
	campaign := seedDraft(repo, enums.CampaignAudienceCustom, []string{"vip@example.com"})

	dto, err := svc.Send(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if dto.SentCount != 1 || sender.sent[0].To[0] != "vip@example.com" {
		t.Fatalf("expected delivery to vip only, got %+v", sender.sent)
	}
}

func TestUpdateRejectsNonDraft(t *testing.T) {
	svc, repo, _ := fixture(t, nil)
	campaign := seedDraft(repo, enums.CampaignAudienceCustom, []string{"vip@example.com"})
	campaign.Status = enums.CampaignStatusSent

	name := "Renamed"
	_, err := svc.Update(context.Background(), campaign.ID, UpdateCampaignDTO{Name: &name})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSendDueDispatchesOnlyPastScheduled(t *testing.T) {
	svc, repo, sender := fixture(t, []string{"a@example.com"})
	now := time.Now().UTC()

	past := now.Add(-time.Minute)
	due := seedDraft(repo, enums.CampaignAudienceSubscribers, nil)
	due.Status = enums.CampaignStatusScheduled
	due.ScheduledAt = &past

	future := now.Add(time.Hour)
	notDue := seedDraft(repo, enums.CampaignAudienceSubscribers, nil)
	notDue.Status = enums.CampaignStatusScheduled
	notDue.ScheduledAt = &future

	sent, err := svc.SendDue(context.Background(), now)
	if err != nil {
		t.Fatalf("send due: %v", err)
	}
	if sent != 1 || len(sender.sent) != 1 {
		t.Fatalf("expected exactly one dispatch, got sent=%d deliveries=%d", sent, len(sender.sent))
	}
	if repo.byID[notDue.ID].Status != enums.CampaignStatusScheduled {
		t.Fatal("future campaign must stay scheduled")
	}
}
