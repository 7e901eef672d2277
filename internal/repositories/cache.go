package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/resume-insight/internal/models"
)

type CacheRepository interface {
	// Get returns the artifact stored for text, or ok=false on a miss.
	Get(ctx context.Context, ns models.CacheNamespace, text string) (artifact *models.Artifact, ok bool, err error)
	// Put upserts artifact keyed by artifact.Text.
	Put(ctx context.Context, ns models.CacheNamespace, artifact *models.Artifact) error
}

type cacheRepository struct {
	db *gorm.DB
}

func NewCacheRepository(db *gorm.DB) CacheRepository {
	return &cacheRepository{db: db}
}

// Get implements CacheRepository.
func (r *cacheRepository) Get(ctx context.Context, ns models.CacheNamespace, text string) (*models.Artifact, bool, error) {
	var entry models.CacheEntry
	err := findCacheEntry(r.db.WithContext(ctx), ns, text, &entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	artifact, ok := entryArtifact(&entry, text)
	return artifact, ok, nil
}

// Put implements CacheRepository.
func (r *cacheRepository) Put(ctx context.Context, ns models.CacheNamespace, artifact *models.Artifact) error {
	entry := newCacheEntry(ns, artifact)
	if err := upsertCacheEntry(r.db.WithContext(ctx), &entry).Error; err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}

func newCacheEntry(ns models.CacheNamespace, artifact *models.Artifact) models.CacheEntry {
	return models.CacheEntry{
		Namespace:   ns,
		ContentHash: models.ContentHash(artifact.Text),
		Text:        artifact.Text,
		Artifact:    *artifact,
		UpdatedAt:   time.Now(),
	}
}

func findCacheEntry(tx *gorm.DB, ns models.CacheNamespace, text string, entry *models.CacheEntry) *gorm.DB {
	return tx.Where("namespace = ? AND content_hash = ?", ns, models.ContentHash(text)).First(entry)
}

func upsertCacheEntry(tx *gorm.DB, entry *models.CacheEntry) *gorm.DB {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}, {Name: "content_hash"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "artifact", "updated_at"}),
	}).Create(entry)
}

// entryArtifact returns the stored artifact only when the row holds exactly text;
// a row sharing the hash with other content is a miss.
func entryArtifact(entry *models.CacheEntry, text string) (*models.Artifact, bool) {
	if entry.Text != text {
		return nil, false
	}
	return &entry.Artifact, true
}

type memoryCacheRepository struct {
	mu      sync.RWMutex
	entries map[models.CacheNamespace]map[string]models.Artifact
}

// NewMemoryCacheRepository keeps entries in process memory. It is used when no
// database is configured for the cache, and in tests.
func NewMemoryCacheRepository() CacheRepository {
	return &memoryCacheRepository{
		entries: make(map[models.CacheNamespace]map[string]models.Artifact),
	}
}

// Get implements CacheRepository.
func (r *memoryCacheRepository) Get(_ context.Context, ns models.CacheNamespace, text string) (*models.Artifact, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifact, ok := r.entries[ns][text]
	if !ok {
		return nil, false, nil
	}
	return &artifact, true, nil
}

// Put implements CacheRepository.
func (r *memoryCacheRepository) Put(_ context.Context, ns models.CacheNamespace, artifact *models.Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries[ns] == nil {
		r.entries[ns] = make(map[string]models.Artifact)
	}
	r.entries[ns][artifact.Text] = *artifact
	return nil
}
