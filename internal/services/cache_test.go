package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
)

func sampleArtifact(text string) *models.Artifact {
	return &models.Artifact{
		Text:     text,
		Keywords: []string{"golang", "kubernetes"},
		Sections: models.Sections{
			Experience: []string{"platform engineer"},
			Education:  []string{},
			Skills:     []string{"go, docker"},
		},
		Entities: models.Entities{
			Roles:        []string{"platform engineer"},
			Technologies: []string{"docker"},
			Achievements: []string{},
		},
	}
}

func TestContentCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewContentCache(repositories.NewMemoryCacheRepository(), nil)
	artifact := sampleArtifact("resume body")

	require.NoError(t, cache.Put(ctx, models.NamespaceResume, artifact))

	got, ok, err := cache.Get(ctx, models.NamespaceResume, "resume body")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, artifact, got)

	_, ok, err = cache.Get(ctx, models.NamespaceJD, "resume body")
	require.NoError(t, err)
	assert.False(t, ok, "namespaces are separate")

	_, ok, err = cache.Get(ctx, models.NamespaceResume, "resume body ")
	require.NoError(t, err)
	assert.False(t, ok, "key is the exact text")
}

func TestContentCache_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	cache := NewContentCache(repositories.NewMemoryCacheRepository(), nil)

	first := sampleArtifact("same text")
	second := sampleArtifact("same text")
	second.Keywords = []string{"terraform"}

	require.NoError(t, cache.Put(ctx, models.NamespaceJD, first))
	require.NoError(t, cache.Put(ctx, models.NamespaceJD, second))

	got, ok, err := cache.Get(ctx, models.NamespaceJD, "same text")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"terraform"}, got.Keywords)
}

func TestContentCache_GetOrComputeRunsOnce(t *testing.T) {
	ctx := context.Background()
	cache := NewContentCache(repositories.NewMemoryCacheRepository(), nil)

	var computes atomic.Int32
	release := make(chan struct{})
	compute := func() (*models.Artifact, error) {
		computes.Add(1)
		<-release
		return sampleArtifact("shared text"), nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*models.Artifact, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			artifact, err := cache.GetOrCompute(ctx, models.NamespaceResume, "shared text", compute)
			assert.NoError(t, err)
			results[i] = artifact
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), computes.Load())
	for _, artifact := range results {
		require.NotNil(t, artifact)
		assert.Equal(t, "shared text", artifact.Text)
	}

	_, ok, err := cache.Get(ctx, models.NamespaceResume, "shared text")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContentCache_GetOrComputeDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	cache := NewContentCache(repositories.NewMemoryCacheRepository(), nil)
	boom := errors.New("boom")

	_, err := cache.GetOrCompute(ctx, models.NamespaceJD, "jd", func() (*models.Artifact, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	artifact, err := cache.GetOrCompute(ctx, models.NamespaceJD, "jd", func() (*models.Artifact, error) {
		return sampleArtifact("jd"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "jd", artifact.Text)
}

func TestContentCache_PutRejectsNil(t *testing.T) {
	cache := NewContentCache(repositories.NewMemoryCacheRepository(), nil)

	assert.Error(t, cache.Put(context.Background(), models.NamespaceResume, nil))
}
