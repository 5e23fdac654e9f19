package newsletter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/joyalure/joyalure-backend/pkg/db/models"
)

func setupNewsletterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	subscribers := `
CREATE TABLE IF NOT EXISTS newsletter_subscribers (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  email TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(subscribers).Error)
	return db
}

func TestRepositoryCreate_lowercasesEmail(t *testing.T) {
	db := setupNewsletterTestDB(t)
	repo := NewRepository(db)

	subscriber, err := repo.Create(context.Background(), "Glow@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "glow@example.com", subscriber.Email)

	var count int64
	require.NoError(t, db.Model(&models.NewsletterSubscriber{}).Where("email = ?", "glow@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryCreate_duplicateEmailFails(t *testing.T) {
	db := setupNewsletterTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Create(context.Background(), "glow@example.com")
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), "GLOW@example.com")
	require.Error(t, err)
}

func TestRepositoryDeleteByEmail_caseInsensitive(t *testing.T) {
	db := setupNewsletterTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Create(context.Background(), "glow@example.com")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByEmail(context.Background(), "GLOW@EXAMPLE.COM"))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryListEmails(t *testing.T) {
	db := setupNewsletterTestDB(t)
	repo := NewRepository(db)

	for _, email := range []string{"first@example.com", "second@example.com"} {
		_, err := repo.Create(context.Background(), email)
		require.NoError(t, err)
	}

	emails, err := repo.ListEmails(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first@example.com", "second@example.com"}, emails)
}
