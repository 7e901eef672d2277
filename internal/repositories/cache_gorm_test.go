package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-insight/internal/models"
)

// dryRunDB renders postgres SQL without opening a connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=resume dbname=resume sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestCacheRepository_UpsertOnNamespaceAndHash(t *testing.T) {
	db := dryRunDB(t)
	artifact := &models.Artifact{Text: "Skills\ngolang", Keywords: []string{"golang"}}

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		entry := newCacheEntry(models.NamespaceJD, artifact)
		return upsertCacheEntry(tx, &entry)
	})

	assert.Contains(t, sql, `INSERT INTO "content_cache_entries"`)
	assert.Contains(t, sql, `ON CONFLICT ("namespace","content_hash") DO UPDATE SET`)
	assert.Contains(t, sql, `"text"="excluded"."text"`)
	assert.Contains(t, sql, `"artifact"="excluded"."artifact"`)
	assert.Contains(t, sql, `"updated_at"="excluded"."updated_at"`)
	assert.Contains(t, sql, models.ContentHash(artifact.Text))
}

func TestCacheRepository_LookupByNamespaceAndHash(t *testing.T) {
	db := dryRunDB(t)
	text := "Experience\nlead engineer"

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var entry models.CacheEntry
		return findCacheEntry(tx, models.NamespaceResume, text, &entry)
	})

	assert.Contains(t, sql, `FROM "content_cache_entries"`)
	assert.Contains(t, sql, "namespace = 'resume'")
	assert.Contains(t, sql, "content_hash = '"+models.ContentHash(text)+"'")
}

func TestNewCacheEntry(t *testing.T) {
	artifact := &models.Artifact{
		Text:     "Skills\ngolang",
		Keywords: []string{"golang"},
		Sections: models.NewSections(),
		Entities: models.NewEntities(),
	}

	entry := newCacheEntry(models.NamespaceResume, artifact)

	assert.Equal(t, models.NamespaceResume, entry.Namespace)
	assert.Equal(t, models.ContentHash(artifact.Text), entry.ContentHash)
	assert.Equal(t, artifact.Text, entry.Text)
	assert.Equal(t, *artifact, entry.Artifact)
	assert.False(t, entry.UpdatedAt.IsZero())
}

func TestEntryArtifact_RequiresExactText(t *testing.T) {
	entry := newCacheEntry(models.NamespaceJD, &models.Artifact{Text: "golang engineer"})

	got, ok := entryArtifact(&entry, "golang engineer")
	require.True(t, ok)
	assert.Equal(t, "golang engineer", got.Text)

	_, ok = entryArtifact(&entry, "golang engineer ")
	assert.False(t, ok)
}
