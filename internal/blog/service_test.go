package blog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

type stubPostRepo struct {
	byID   map[uuid.UUID]*models.BlogPost
	bySlug map[string]*models.BlogPost
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{byID: map[uuid.UUID]*models.BlogPost{}, bySlug: map[string]*models.BlogPost{}}
}

func (s *stubPostRepo) add(post *models.BlogPost) {
	s.byID[post.ID] = post
	s.bySlug[post.Slug] = post
}

func (s *stubPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if post, ok := s.byID[id]; ok {
		return post, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPostRepo) FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if post, ok := s.bySlug[slug]; ok && post.Published {
		return post, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPostRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, ok := s.bySlug[slug]
	return ok, nil
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	post.ID = uuid.New()
	s.add(post)
	return post, nil
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error) {
	s.add(post)
	return post, nil
}

func (s *stubPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if post, ok := s.byID[id]; ok {
		delete(s.bySlug, post.Slug)
		delete(s.byID, id)
	}
	return nil
}

func (s *stubPostRepo) List(ctx context.Context, publishedOnly bool, params pagination.Params) ([]models.BlogPost, string, error) {
	var out []models.BlogPost
	for _, post := range s.byID {
		if publishedOnly && !post.Published {
			continue
		}
		out = append(out, *post)
	}
	return out, "", nil
}

func fixture(t *testing.T) (Service, *stubPostRepo) {
	t.Helper()
	repo := newStubPostRepo()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc, _ := fixture(t)

	post, err := svc.Create(context.Background(), CreatePostDTO{
		Title:    "5 Steps to a Morning Glow",
		BodyHTML: "<p>Routine</p>",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.Slug != "5-steps-to-a-morning-glow" {
		t.Fatalf("expected derived slug, got %q", post.Slug)
	}
	if post.Published {
		t.Fatal("new posts must start as drafts")
	}
}

func TestPublishStampsTimestampOnce(t *testing.T) {
	svc, repo := fixture(t)
	post, err := svc.Create(context.Background(), CreatePostDTO{Title: "Glow", BodyHTML: "<p>x</p>"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	published, err := svc.SetPublished(context.Background(), post.ID, true)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.Published || published.PublishedAt == nil {
		t.Fatalf("expected published with timestamp, got %+v", published)
	}
	firstStamp := *published.PublishedAt

	if _, err := svc.SetPublished(context.Background(), post.ID, false); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	republished, err := svc.SetPublished(context.Background(), post.ID, true)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if !republished.PublishedAt.Equal(firstStamp) {
		t.Fatal("republish must keep the original timestamp")
	}
	if !repo.byID[post.ID].Published {
		t.Fatal("expected stored post published")
	}
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	svc, repo := fixture(t)
	repo.add(&models.BlogPost{ID: uuid.New(), Title: "Draft", Slug: "draft-post", Published: false})

	_, err := svc.GetPublished(context.Background(), "draft-post")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for draft, got %v", err)
	}
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	svc, repo := fixture(t)
	repo.add(&models.BlogPost{ID: uuid.New(), Title: "Live", Slug: "live", Published: true})
	repo.add(&models.BlogPost{ID: uuid.New(), Title: "Draft", Slug: "draft", Published: false})

	page, err := svc.ListPublished(context.Background(), pagination.Params{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Posts) != 1 || page.Posts[0].Slug != "live" {
		t.Fatalf("expected only the published post, got %+v", page.Posts)
	}
}
