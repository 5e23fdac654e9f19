package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

// Upload surfaces; each is backed by its own bucket.
const (
	SurfaceProductImages = "product-images"
	SurfaceCategories    = "categories"
	SurfaceBlogImages    = "blog-images"
	SurfaceAvatars       = "avatars"
)

const defaultMaxUploadBytes = 10 << 20

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// MediaDTO is the uploaded object projection.
type MediaDTO struct {
	ID          uuid.UUID         `json:"id"`
	PublicURL   string            `json:"public_url"`
	ContentType string            `json:"content_type"`
	SizeBytes   int64             `json:"size_bytes"`
	Status      enums.MediaStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Service owns image uploads. New objects start pending; the cleanup job
// reaps any that are never attached to a record.
type Service interface {
	Upload(ctx context.Context, uploadedBy *uuid.UUID, surface, contentType string, size int64, body io.Reader) (MediaDTO, error)
	Attach(ctx context.Context, id uuid.UUID) (MediaDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]MediaDTO, error)
	CleanupStalePending(ctx context.Context, cutoff time.Time) (int, error)
	MaxUploadBytes() int64
}

type mediaRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	Create(ctx context.Context, media *models.Media) (*models.Media, error)
	MarkAttached(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]models.Media, error)
	ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Media, error)
}

// objectStore is the bucket surface used by the service.
type objectStore interface {
	Upload(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, objectKey string) error
	Name() string
}

// ObjectStores maps an upload surface to the bucket serving it.
type ObjectStores map[string]objectStore

type service struct {
	repo           mediaRepository
	objects        ObjectStores
	maxUploadBytes int64
}

// ServiceParams bundles the dependencies required to build a media service.
type ServiceParams struct {
	Repo           mediaRepository
	Objects        ObjectStores
	MaxUploadBytes int64
}

// NewService constructs a media service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("media repository is required")
	}
	if len(params.Objects) == 0 {
		return nil, fmt.Errorf("object stores are required")
	}
	for surface, store := range params.Objects {
		if store == nil {
			return nil, fmt.Errorf("object store for %s is required", surface)
		}
	}
	maxBytes := params.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &service{repo: params.Repo, objects: params.Objects, maxUploadBytes: maxBytes}, nil
}

func (s *service) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *service) Upload(ctx context.Context, uploadedBy *uuid.UUID, surface, contentType string, size int64, body io.Reader) (MediaDTO, error) {
	store, ok := s.objects[surface]
	if !ok {
		return MediaDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown upload surface").WithDetails(map[string]any{"surface": surface})
	}
	ext, ok := allowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return MediaDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "unsupported content type")
	}
	if size <= 0 || size > s.maxUploadBytes {
		return MediaDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file size must be between 1 byte and %d MiB", s.maxUploadBytes>>20))
	}
	if body == nil {
		return MediaDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "file body is required")
	}

	objectKey := buildObjectKey(ext, time.Now().UTC())
	publicURL, err := store.Upload(ctx, objectKey, contentType, io.LimitReader(body, s.maxUploadBytes))
	if err != nil {
		return MediaDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload object")
	}

	created, err := s.repo.Create(ctx, &models.Media{
		Bucket:      store.Name(),
		ObjectKey:   objectKey,
		PublicURL:   publicURL,
		ContentType: contentType,
		SizeBytes:   size,
		Status:      enums.MediaStatusPending,
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		// Orphaned object; the cleanup job has nothing to key on, so remove
		// it here on a best-effort basis.
		_ = store.Delete(ctx, objectKey)
		return MediaDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record upload")
	}
	return fromModel(created), nil
}

// Attach marks the object as referenced so the cleanup job skips it.
func (s *service) Attach(ctx context.Context, id uuid.UUID) (MediaDTO, error) {
	media, err := s.load(ctx, id)
	if err != nil {
		return MediaDTO{}, err
	}
	if media.Status != enums.MediaStatusAttached {
		if err := s.repo.MarkAttached(ctx, id); err != nil {
			return MediaDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark attached")
		}
		media.Status = enums.MediaStatusAttached
	}
	return fromModel(media), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	media, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	store, ok := s.storeForBucket(media.Bucket)
	if !ok {
		return pkgerrors.New(pkgerrors.CodeDependency, "no bucket configured for object").WithDetails(map[string]any{"bucket": media.Bucket})
	}
	if err := store.Delete(ctx, media.ObjectKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete object")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media row")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]MediaDTO, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}
	dtos := make([]MediaDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, fromModel(&records[i]))
	}
	return dtos, nil
}

// CleanupStalePending deletes pending uploads older than the cutoff, object
// first so a failed object delete keeps the row for the next run.
func (s *service) CleanupStalePending(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.repo.ListStalePending(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stale uploads")
	}

	removed := 0
	var firstErr error
	for _, media := range stale {
		store, ok := s.storeForBucket(media.Bucket)
		if !ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("no bucket configured for %s", media.Bucket)
			}
			continue
		}
		if err := store.Delete(ctx, media.ObjectKey); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if err := s.repo.Delete(ctx, media.ID); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed++
	}
	if firstErr != nil {
		return removed, pkgerrors.Wrap(pkgerrors.CodeDependency, firstErr, "cleanup stale uploads")
	}
	return removed, nil
}

// storeForBucket finds the configured store whose bucket matches a stored
// media row. Rows outlive config changes, so a miss is possible.
func (s *service) storeForBucket(bucket string) (objectStore, bool) {
	for _, store := range s.objects {
		if store.Name() == bucket {
			return store, true
		}
	}
	return nil, false
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media id is required")
	}
	media, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}
	return media, nil
}

func buildObjectKey(ext string, now time.Time) string {
	return path.Join("uploads", now.Format("2006/01/02"), uuid.NewString()+ext)
}

func fromModel(media *models.Media) MediaDTO {
	return MediaDTO{
		ID:          media.ID,
		PublicURL:   media.PublicURL,
		ContentType: media.ContentType,
		SizeBytes:   media.SizeBytes,
		Status:      media.Status,
		CreatedAt:   media.CreatedAt,
	}
}
