package services

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
)

// ContentCache memoizes per-text artifacts. Entries are never evicted and the key
// is the exact text, so texts differing only in whitespace are cached separately.
type ContentCache interface {
	Get(ctx context.Context, ns models.CacheNamespace, text string) (*models.Artifact, bool, error)
	Put(ctx context.Context, ns models.CacheNamespace, artifact *models.Artifact) error
	// GetOrCompute returns the cached artifact for text, or runs compute once and
	// stores its result. Concurrent callers for the same key share one compute.
	GetOrCompute(ctx context.Context, ns models.CacheNamespace, text string, compute func() (*models.Artifact, error)) (*models.Artifact, error)
}

type contentCache struct {
	repo    repositories.CacheRepository
	group   singleflight.Group
	metrics *Metrics
}

func NewContentCache(repo repositories.CacheRepository, metrics *Metrics) ContentCache {
	return &contentCache{
		repo:    repo,
		metrics: metrics,
	}
}

// Get implements ContentCache.
func (c *contentCache) Get(ctx context.Context, ns models.CacheNamespace, text string) (*models.Artifact, bool, error) {
	artifact, ok, err := c.repo.Get(ctx, ns, text)
	if err != nil {
		return nil, false, err
	}
	c.metrics.ObserveCacheLookup(string(ns), ok)
	return artifact, ok, nil
}

// Put implements ContentCache.
func (c *contentCache) Put(ctx context.Context, ns models.CacheNamespace, artifact *models.Artifact) error {
	if artifact == nil {
		return fmt.Errorf("nil artifact")
	}
	return c.repo.Put(ctx, ns, artifact)
}

// GetOrCompute implements ContentCache.
func (c *contentCache) GetOrCompute(
	ctx context.Context,
	ns models.CacheNamespace,
	text string,
	compute func() (*models.Artifact, error),
) (*models.Artifact, error) {
	if artifact, ok, err := c.Get(ctx, ns, text); err != nil {
		log.Printf("⚠️  Cache read failed for %s namespace: %v\n", ns, err)
	} else if ok {
		return artifact, nil
	}

	key := string(ns) + ":" + models.ContentHash(text)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have stored it between our miss and this call.
		if artifact, ok, err := c.repo.Get(ctx, ns, text); err == nil && ok {
			return artifact, nil
		}

		artifact, err := compute()
		if err != nil {
			return nil, err
		}

		// A failed write only costs a recompute later.
		if err := c.repo.Put(ctx, ns, artifact); err != nil {
			log.Printf("⚠️  Cache write failed for %s namespace: %v\n", ns, err)
		}
		return artifact, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Artifact), nil
}
