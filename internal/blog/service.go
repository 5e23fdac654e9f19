package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/internal/products"
	"github.com/joyalure/joyalure-backend/pkg/db"
	"github.com/joyalure/joyalure-backend/pkg/db/models"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
	"github.com/joyalure/joyalure-backend/pkg/pagination"
)

// PostDTO is the blog projection shared by both surfaces.
type PostDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       *string    `json:"excerpt,omitempty"`
	BodyHTML      string     `json:"body_html"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	Published     bool       `json:"published"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CreatePostDTO is the admin payload for a new post.
type CreatePostDTO struct {
	Title         string  `json:"title" validate:"required,max=300"`
	Slug          string  `json:"slug,omitempty" validate:"omitempty,max=300"`
	Excerpt       *string `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	BodyHTML      string  `json:"body_html" validate:"required"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePostDTO carries partial admin edits.
type UpdatePostDTO struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,max=300"`
	Excerpt       *string `json:"excerpt,omitempty" validate:"omitempty,max=1000"`
	BodyHTML      *string `json:"body_html,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

// ListResponse is a cursor page of posts.
type ListResponse struct {
	Posts      []PostDTO `json:"posts"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func fromModel(post *models.BlogPost) PostDTO {
	return PostDTO{
		ID:            post.ID,
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		BodyHTML:      post.BodyHTML,
		CoverImageURL: post.CoverImageURL,
		Published:     post.Published,
		PublishedAt:   post.PublishedAt,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
}

// Service owns blog content for the storefront and back office.
type Service interface {
	ListPublished(ctx context.Context, params pagination.Params) (*ListResponse, error)
	GetPublished(ctx context.Context, slug string) (PostDTO, error)
	ListAdmin(ctx context.Context, params pagination.Params) (*ListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (PostDTO, error)
	Create(ctx context.Context, dto CreatePostDTO) (PostDTO, error)
	Update(ctx context.Context, id uuid.UUID, dto UpdatePostDTO) (PostDTO, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) (PostDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Update(ctx context.Context, post *models.BlogPost) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, publishedOnly bool, params pagination.Params) ([]models.BlogPost, string, error)
}

type service struct {
	repo postRepository
}

// ServiceParams bundles the dependencies required to build a blog service.
type ServiceParams struct {
	Repo postRepository
}

// NewService constructs a blog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("post repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) ListPublished(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	return s.list(ctx, true, params)
}

func (s *service) ListAdmin(ctx context.Context, params pagination.Params) (*ListResponse, error) {
	return s.list(ctx, false, params)
}

func (s *service) list(ctx context.Context, publishedOnly bool, params pagination.Params) (*ListResponse, error) {
	records, nextCursor, err := s.repo.List(ctx, publishedOnly, params)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	dtos := make([]PostDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, fromModel(&records[i]))
	}
	return &ListResponse{Posts: dtos, NextCursor: nextCursor}, nil
}

func (s *service) GetPublished(ctx context.Context, slug string) (PostDTO, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return PostDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	post, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PostDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "post not found")
		}
		return PostDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return fromModel(post), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (PostDTO, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return PostDTO{}, err
	}
	return fromModel(post), nil
}

func (s *service) Create(ctx context.Context, dto CreatePostDTO) (PostDTO, error) {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return PostDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	slug := strings.TrimSpace(strings.ToLower(dto.Slug))
	if slug == "" {
		slug = products.Slugify(title)
	}
	if slug == "" {
		return PostDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "slug could not be derived from title")
	}
	taken, err := s.repo.SlugExists(ctx, slug)
	if err != nil {
		return PostDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if taken {
		slug = fmt.Sprintf("%s-%s", slug, uuid.NewString()[:8])
	}

	created, err := s.repo.Create(ctx, &models.BlogPost{
		Title:         title,
		Slug:          slug,
		Excerpt:       dto.Excerpt,
		BodyHTML:      dto.BodyHTML,
		CoverImageURL: dto.CoverImageURL,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return PostDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "slug already in use")
		}
		return PostDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, dto UpdatePostDTO) (PostDTO, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return PostDTO{}, err
	}

	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if title == "" {
			return PostDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		post.Title = title
	}
	if dto.Excerpt != nil {
		post.Excerpt = dto.Excerpt
	}
	if dto.BodyHTML != nil {
		post.BodyHTML = *dto.BodyHTML
	}
	if dto.CoverImageURL != nil {
		post.CoverImageURL = dto.CoverImageURL
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return PostDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
	}
	return fromModel(updated), nil
}

// SetPublished publishes or unpublishes a post. The first publish stamps
// PublishedAt; republishing keeps the original timestamp.
func (s *service) SetPublished(ctx context.Context, id uuid.UUID, published bool) (PostDTO, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return PostDTO{}, err
	}

	post.Published = published
	if published && post.PublishedAt == nil {
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return PostDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update post")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id is required")
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	return post, nil
}
