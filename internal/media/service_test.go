package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
	"github.com/joyalure/joyalure-backend/pkg/enums"
	pkgerrors "github.com/joyalure/joyalure-backend/pkg/errors"
)

type stubMediaRepo struct {
	byID map[uuid.UUID]*models.Media
}

func newStubMediaRepo() *stubMediaRepo {
	return &stubMediaRepo{byID: map[uuid.UUID]*models.Media{}}
}

func (s *stubMediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	if media, ok := s.byID[id]; ok {
		return media, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubMediaRepo) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	media.ID = uuid.New()
	media.CreatedAt = time.Now().UTC()
	s.byID[media.ID] = media
	return media, nil
}

func (s *stubMediaRepo) MarkAttached(ctx context.Context, id uuid.UUID) error {
	if media, ok := s.byID[id]; ok {
		media.Status = enums.MediaStatusAttached
	}
	return nil
}

func (s *stubMediaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	return nil
}

func (s *stubMediaRepo) List(ctx context.Context) ([]models.Media, error) {
	var out []models.Media
	for _, media := range s.byID {
		out = append(out, *media)
	}
	return out, nil
}

func (s *stubMediaRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]models.Media, error) {
	var out []models.Media
	for _, media := range s.byID {
		if media.Status == enums.MediaStatusPending && media.CreatedAt.Before(cutoff) {
			out = append(out, *media)
		}
	}
	return out, nil
}

type stubObjectStore struct {
	name     string
	uploaded map[string]string
	deleted  []string
	failKey  string
}

func newStubObjectStore(name string) *stubObjectStore {
	return &stubObjectStore{name: name, uploaded: map[string]string{}}
}

func (s *stubObjectStore) Upload(ctx context.Context, objectKey, contentType string, body io.Reader) (string, error) {
	s.uploaded[objectKey] = contentType
	return "https://storage.googleapis.com/" + s.name + "/" + objectKey, nil
}

func (s *stubObjectStore) Delete(ctx context.Context, objectKey string) error {
	if s.failKey != "" && s.failKey == objectKey {
		return errors.New("storage unavailable")
	}
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *stubObjectStore) Name() string { return s.name }

type fixtureStores struct {
	products *stubObjectStore
	avatars  *stubObjectStore
}

func fixture(t *testing.T, maxBytes int64) (Service, *stubMediaRepo, fixtureStores) {
	t.Helper()
	repo := newStubMediaRepo()
	stores := fixtureStores{
		products: newStubObjectStore("joyalure-product-images"),
		avatars:  newStubObjectStore("joyalure-avatars"),
	}
	svc, err := NewService(ServiceParams{
		Repo: repo,
		Objects: ObjectStores{
			SurfaceProductImages: stores.products,
			SurfaceAvatars:       stores.avatars,
		},
		MaxUploadBytes: maxBytes,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, stores
}

func TestUploadStoresPendingRow(t *testing.T) {
	svc, repo, stores := fixture(t, 0)

	dto, err := svc.Upload(context.Background(), nil, SurfaceProductImages, "image/png", 1024, bytes.NewReader([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if dto.Status != enums.MediaStatusPending {
		t.Fatalf("expected pending, got %s", dto.Status)
	}
	if len(stores.products.uploaded) != 1 || len(repo.byID) != 1 {
		t.Fatalf("expected one object and one row, got %d/%d", len(stores.products.uploaded), len(repo.byID))
	}
}

func TestUploadRoutesSurfaceToItsBucket(t *testing.T) {
	svc, repo, stores := fixture(t, 0)

	dto, err := svc.Upload(context.Background(), nil, SurfaceAvatars, "image/jpeg", 512, bytes.NewReader([]byte("jpg")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(stores.avatars.uploaded) != 1 || len(stores.products.uploaded) != 0 {
		t.Fatalf("avatar upload landed in the wrong bucket: avatars=%d products=%d",
			len(stores.avatars.uploaded), len(stores.products.uploaded))
	}
	if repo.byID[dto.ID].Bucket != "joyalure-avatars" {
		t.Fatalf("expected avatars bucket on the row, got %q", repo.byID[dto.ID].Bucket)
	}
}

func TestUploadRejectsUnknownSurface(t *testing.T) {
	svc, _, _ := fixture(t, 0)

	_, err := svc.Upload(context.Background(), nil, "thumbnails", "image/png", 512, bytes.NewReader([]byte("png")))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadHonorsConfiguredCap(t *testing.T) {
	svc, _, _ := fixture(t, 1<<20)

	if svc.MaxUploadBytes() != 1<<20 {
		t.Fatalf("expected 1 MiB cap, got %d", svc.MaxUploadBytes())
	}
	_, err := svc.Upload(context.Background(), nil, SurfaceProductImages, "image/png", 2<<20, bytes.NewReader(nil))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error above the cap, got %v", err)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, _, _ := fixture(t, 0)

	_, err := svc.Upload(context.Background(), nil, SurfaceProductImages, "application/pdf", 1024, bytes.NewReader(nil))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAttachMarksRowAttached(t *testing.T) {
	svc, repo, _ := fixture(t, 0)
	dto, err := svc.Upload(context.Background(), nil, SurfaceProductImages, "image/jpeg", 2048, bytes.NewReader([]byte("jpg")))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	attached, err := svc.Attach(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if attached.Status != enums.MediaStatusAttached {
		t.Fatalf("expected attached, got %s", attached.Status)
	}
	if repo.byID[dto.ID].Status != enums.MediaStatusAttached {
		t.Fatal("expected stored row attached")
	}
}

func TestCleanupReapsOnlyStalePending(t *testing.T) {
	svc, repo, stores := fixture(t, 0)
	now := time.Now().UTC()

	stale := &models.Media{ID: uuid.New(), Bucket: "joyalure-product-images", ObjectKey: "uploads/stale.png", Status: enums.MediaStatusPending, CreatedAt: now.Add(-48 * time.Hour)}
	fresh := &models.Media{ID: uuid.New(), Bucket: "joyalure-product-images", ObjectKey: "uploads/fresh.png", Status: enums.MediaStatusPending, CreatedAt: now.Add(-time.Hour)}
	attached := &models.Media{ID: uuid.New(), Bucket: "joyalure-avatars", ObjectKey: "uploads/attached.png", Status: enums.MediaStatusAttached, CreatedAt: now.Add(-48 * time.Hour)}
	repo.byID[stale.ID] = stale
	repo.byID[fresh.ID] = fresh
	repo.byID[attached.ID] = attached

	removed, err := svc.CleanupStalePending(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if len(stores.products.deleted) != 1 || stores.products.deleted[0] != "uploads/stale.png" {
		t.Fatalf("expected stale object deleted, got %v", stores.products.deleted)
	}
	if _, ok := repo.byID[fresh.ID]; !ok {
		t.Fatal("fresh pending upload must survive")
	}
	if _, ok := repo.byID[attached.ID]; !ok {
		t.Fatal("attached upload must survive")
	}
}

func TestCleanupKeepsRowWhenObjectDeleteFails(t *testing.T) {
	svc, repo, stores := fixture(t, 0)
	now := time.Now().UTC()

	stale := &models.Media{ID: uuid.New(), Bucket: "joyalure-product-images", ObjectKey: "uploads/stuck.png", Status: enums.MediaStatusPending, CreatedAt: now.Add(-48 * time.Hour)}
	repo.byID[stale.ID] = stale
	stores.products.failKey = "uploads/stuck.png"

	removed, err := svc.CleanupStalePending(context.Background(), now.Add(-24*time.Hour))
	if err == nil {
		t.Fatal("expected error when object delete fails")
	}
	if removed != 0 {
		t.Fatalf("expected 0 removals, got %d", removed)
	}
	if _, ok := repo.byID[stale.ID]; !ok {
		t.Fatal("row must survive for the next run")
	}
}
