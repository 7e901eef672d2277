package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"alfredoptarigan/resume-insight/internal/models"
)

const (
	jdVectorSize    = 768
	jdExcerptLength = 280
)

// jdPointNamespace seeds the content-addressed point IDs, so re-indexing the same
// job description overwrites its points instead of duplicating them.
var jdPointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("resume-insight/job-descriptions"))

// JDIndex keeps a vector index of every job description seen, for "similar job
// descriptions" lookups against a resume.
type JDIndex interface {
	InitCollection(ctx context.Context) error
	IndexJD(ctx context.Context, text string) error
	Search(ctx context.Context, resumeText string, limit int) ([]models.SimilarJD, error)
}

type qdrantJDIndex struct {
	client         *qdrant.Client
	gemini         GeminiService
	chunker        *TextChunker
	collectionName string
	vectorSize     uint64
}

func NewQdrantJDIndex(urlStr, apiKey, collectionName string, gemini GeminiService) (JDIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantJDIndex{
		client:         client,
		gemini:         gemini,
		chunker:        NewTextChunker(defaultChunkSize, defaultChunkOverlap),
		collectionName: collectionName,
		vectorSize:     jdVectorSize,
	}, nil
}

// InitCollection implements JDIndex.
func (q *qdrantJDIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Printf("✅ Qdrant collection '%s' already exists\n", q.collectionName)
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

// IndexJD implements JDIndex.
func (q *qdrantJDIndex) IndexJD(ctx context.Context, text string) error {
	hash := models.ContentHash(text)
	chunks := q.chunker.Chunk(text)

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := q.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(jdPointID(hash, i).String()),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content_hash": hash,
				"chunk_index":  i,
				"text":         chunk,
			}),
		})
	}
	if len(points) == 0 {
		return nil
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	log.Printf("📚 Indexed job description %s (%d chunks)\n", hash[:12], len(points))
	return nil
}

// Search implements JDIndex. Chunks are folded per job description, keeping each
// description's best-scoring chunk as its excerpt.
func (q *qdrantJDIndex) Search(ctx context.Context, resumeText string, limit int) ([]models.SimilarJD, error) {
	if limit <= 0 {
		limit = 5
	}

	embedding, err := q.gemini.GenerateEmbedding(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(uint64(limit * 4)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	best := make(map[string]models.SimilarJD)
	for _, point := range points {
		hash := payloadString(point.Payload, "content_hash")
		if hash == "" {
			continue
		}
		if seen, ok := best[hash]; ok && seen.Score >= point.Score {
			continue
		}
		best[hash] = models.SimilarJD{
			ContentHash: hash,
			Score:       point.Score,
			Excerpt:     excerpt(payloadString(point.Payload, "text"), jdExcerptLength),
		}
	}

	results := make([]models.SimilarJD, 0, len(best))
	for _, jd := range best {
		results = append(results, jd)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ContentHash < results[j].ContentHash
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func jdPointID(contentHash string, chunk int) uuid.UUID {
	return uuid.NewSHA1(jdPointNamespace, []byte(contentHash+":"+strconv.Itoa(chunk)))
}

func payloadString(payload map[string]*qdrant.Value, key string) string {
	value, ok := payload[key]
	if !ok {
		return ""
	}
	if val, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
		return val.StringValue
	}
	return ""
}

func excerpt(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
