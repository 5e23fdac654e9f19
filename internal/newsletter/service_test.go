package newsletter

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

type stubSubscriberRepo struct {
	emails map[string]bool
}

func newStubSubscriberRepo() *stubSubscriberRepo {
	return &stubSubscriberRepo{emails: map[string]bool{}}
}

func (s *stubSubscriberRepo) Create(ctx context.Context, email string) (*models.NewsletterSubscriber, error) {
	if s.emails[email] {
		return nil, errors.New(`ERROR: duplicate key value violates unique constraint "idx_newsletter_email" (SQLSTATE 23505)`)
	}
	s.emails[email] = true
	return &models.NewsletterSubscriber{ID: uuid.New(), Email: email}, nil
}

func (s *stubSubscriberRepo) DeleteByEmail(ctx context.Context, email string) error {
	delete(s.emails, email)
	return nil
}

func (s *stubSubscriberRepo) List(ctx context.Context) ([]models.NewsletterSubscriber, error) {
	var out []models.NewsletterSubscriber
	for email := range s.emails {
		out = append(out, models.NewsletterSubscriber{ID: uuid.New(), Email: email})
	}
	return out, nil
}

func (s *stubSubscriberRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(s.emails)), nil
}

func fixture(t *testing.T) (Service, *stubSubscriberRepo) {
	t.Helper()
	repo := newStubSubscriberRepo()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestSubscribeLowercasesAndStores(t *testing.T) {
	svc, repo := fixture(t)

	result, err := svc.Subscribe(context.Background(), SubscribeDTO{Email: "Glow.Fan@Example.COM"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if result.Email != "glow.fan@example.com" || result.AlreadySubscribed {
		t.Fatalf("unexpected result %+v", result)
	}
	if !repo.emails["glow.fan@example.com"] {
		t.Fatal("expected subscriber stored lowercased")
	}
}

func TestSubscribeTwiceSucceedsWithoutDuplicate(t *testing.T) {
	svc, repo := fixture(t)

	if _, err := svc.Subscribe(context.Background(), SubscribeDTO{Email: "fan@example.com"}); err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	result, err := svc.Subscribe(context.Background(), SubscribeDTO{Email: "fan@example.com"})
	if err != nil {
		t.Fatalf("second subscribe must not fail: %v", err)
	}
	if !result.AlreadySubscribed {
		t.Fatal("expected already_subscribed on repeat")
	}
	if len(repo.emails) != 1 {
		t.Fatalf("expected one stored row, got %d", len(repo.emails))
	}
}

func TestSubscribeRequiresEmail(t *testing.T) {
	svc, _ := fixture(t)

	_, err := svc.Subscribe(context.Background(), SubscribeDTO{Email: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnsubscribeRemovesRow(t *testing.T) {
	svc, repo := fixture(t)
	repo.emails["fan@example.com"] = true

	if err := svc.Unsubscribe(context.Background(), "Fan@Example.com"); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if len(repo.emails) != 0 {
		t.Fatal("expected subscriber removed")
	}
}
