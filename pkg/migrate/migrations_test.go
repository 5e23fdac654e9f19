package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joyalure/joyalure-backend/pkg/migrate"
)

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestCartMigrationEnforcesMergeIndex(t *testing.T) {
	content := readMigration(t, "*_create_cart_wishlist_tables.sql")

	checks := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_profile_product",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_wishlist_profile_product",
		"CHECK (quantity >= 1)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestNewsletterMigrationHasUniqueEmail(t *testing.T) {
	content := readMigration(t, "*_create_marketing_tables.sql")
	if !strings.Contains(content, "CREATE UNIQUE INDEX IF NOT EXISTS idx_newsletter_email") {
		t.Errorf("newsletter email unique index missing")
	}
}

func TestSettingsMigrationSeedsSingletonRow(t *testing.T) {
	content := readMigration(t, "*_create_content_tables.sql")
	if !strings.Contains(content, "INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING") {
		t.Errorf("settings seed row missing")
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
