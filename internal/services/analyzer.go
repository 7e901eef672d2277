package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-insight/internal/config"
	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
)

// ResumeReport is what the pipeline hands back for one resume.
type ResumeReport struct {
	Text     string
	Keywords []string
	Sections models.Sections
	Entities models.Entities
	Analysis models.Analysis
}

type AnalyzerService interface {
	ExtractAndAnalyzeResume(ctx context.Context, doc models.Document) (*ResumeReport, error)
	ExtractJD(ctx context.Context, doc models.Document) (string, error)
	MatchAgainstJD(ctx context.Context, resumeKeywords []string, jdText string) (*models.MatchResult, error)
	SimilarJDs(ctx context.Context, resumeText string, limit int) ([]models.SimilarJD, error)
}

type analyzerService struct {
	extractor TextExtractor
	keywords  KeywordExtractor
	sections  SectionEntityIdentifier
	scorer    ResumeScorer
	matcher   JDMatcher
	cache     ContentCache
	jdIndex   JDIndex
	metrics   *Metrics

	// content hashes of job descriptions already upserted into jdIndex
	indexed sync.Map
}

// AnalyzerDeps collects the collaborators of the analysis pipeline. JDIndex may be
// nil, in which case job descriptions are not indexed and SimilarJDs reports
// ErrIndexDisabled.
type AnalyzerDeps struct {
	Extractor TextExtractor
	Keywords  KeywordExtractor
	Sections  SectionEntityIdentifier
	Scorer    ResumeScorer
	Matcher   JDMatcher
	Cache     ContentCache
	JDIndex   JDIndex
	Metrics   *Metrics
}

func NewAnalyzerService(deps AnalyzerDeps) AnalyzerService {
	return &analyzerService{
		extractor: deps.Extractor,
		keywords:  deps.Keywords,
		sections:  deps.Sections,
		scorer:    deps.Scorer,
		matcher:   deps.Matcher,
		cache:     deps.Cache,
		jdIndex:   deps.JDIndex,
		metrics:   deps.Metrics,
	}
}

// NewAnalyzerFromConfig assembles the production pipeline: pdf, docx and (when a
// Gemini key is set) OCR extraction, the vocabulary file, and the optional Qdrant
// job description index.
func NewAnalyzerFromConfig(ctx context.Context, cfg *config.Config, cacheRepo repositories.CacheRepository, metrics *Metrics) (AnalyzerService, JDIndex, error) {
	vocab, err := LoadVocabulary(cfg.Analysis.VocabularyPath)
	if err != nil {
		return nil, nil, err
	}

	strategies := []ExtractionStrategy{NewPDFStrategy(), NewDocxStrategy()}

	var jdIndex JDIndex
	if cfg.Gemini.APIKey == "" {
		log.Println("⚠️  GEMINI_API_KEY not set, OCR fallback and job description index disabled")
	} else {
		gemini, err := NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbedModel)
		if err != nil {
			return nil, nil, err
		}
		strategies = append(strategies, NewOCRStrategy(gemini, cfg.Gemini.OCRRatePerMinute))
		log.Println("✅ Gemini OCR fallback enabled")

		if cfg.Qdrant.Enabled {
			jdIndex, err = NewQdrantJDIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, gemini)
			if err != nil {
				return nil, nil, err
			}
			if err := jdIndex.InitCollection(ctx); err != nil {
				return nil, nil, err
			}
			log.Println("✅ Qdrant job description index enabled")
		}
	}

	keywords := NewKeywordExtractor(vocab)
	analyzer := NewAnalyzerService(AnalyzerDeps{
		Extractor: NewTextExtractor(strategies, vocab.MinTextLength, metrics),
		Keywords:  keywords,
		Sections:  NewSectionEntityIdentifier(vocab),
		Scorer:    NewResumeScorer(vocab, NewSentimentAnalyzer(), metrics),
		Matcher:   NewJDMatcher(keywords, metrics),
		Cache:     NewContentCache(cacheRepo, metrics),
		JDIndex:   jdIndex,
		Metrics:   metrics,
	})

	return analyzer, jdIndex, nil
}

// ExtractAndAnalyzeResume implements AnalyzerService.
func (a *analyzerService) ExtractAndAnalyzeResume(ctx context.Context, doc models.Document) (*ResumeReport, error) {
	log.Printf("📄 Extracting resume text from %q...\n", doc.FileName)
	text, err := a.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}

	var partial *models.Artifact
	artifact, err := a.cache.GetOrCompute(ctx, models.NamespaceResume, text, func() (*models.Artifact, error) {
		artifact, err := a.analyzeText(text)
		if err != nil {
			partial = artifact
		}
		return artifact, err
	})
	if err != nil {
		log.Printf("⚠️  Resume analysis failed, returning degraded result: %v\n", err)
		a.metrics.IncDegraded()
		return a.degradedReport(text, partial), nil
	}

	log.Println("🧮 Scoring resume...")
	started := time.Now()
	analysis := a.scorer.Score(text, artifact.Keywords, &artifact.Sections, &artifact.Entities)
	a.metrics.ObserveStage("score", started)

	return &ResumeReport{
		Text:     text,
		Keywords: artifact.Keywords,
		Sections: artifact.Sections,
		Entities: artifact.Entities,
		Analysis: analysis,
	}, nil
}

// degradedReport carries the keywords that survived a failed analysis.
func (a *analyzerService) degradedReport(text string, partial *models.Artifact) *ResumeReport {
	keywords := []string{}
	if partial != nil && partial.Keywords != nil {
		keywords = partial.Keywords
	} else if partial == nil {
		// computed by a concurrent caller, whose partial result is not shared
		_ = guard("keywords", func() {
			if kw := a.keywords.Extract(text); kw != nil {
				keywords = kw
			}
		})
	}

	return &ResumeReport{
		Text:     text,
		Keywords: keywords,
		Sections: models.NewSections(),
		Entities: models.NewEntities(),
		Analysis: DegradedAnalysis(),
	}
}

// analyzeText runs keyword extraction and section identification side by side.
// On failure the returned artifact holds the stages that did finish.
func (a *analyzerService) analyzeText(text string) (*models.Artifact, error) {
	artifact := &models.Artifact{Text: text}

	var g errgroup.Group
	g.Go(func() error {
		return guard("keywords", func() {
			started := time.Now()
			artifact.Keywords = a.keywords.Extract(text)
			a.metrics.ObserveStage("keywords", started)
		})
	})
	g.Go(func() error {
		return guard("sections", func() {
			started := time.Now()
			artifact.Sections, artifact.Entities = a.sections.Identify(text)
			a.metrics.ObserveStage("sections", started)
		})
	})
	if err := g.Wait(); err != nil {
		return artifact, err
	}

	return artifact, nil
}

// ExtractJD implements AnalyzerService.
func (a *analyzerService) ExtractJD(ctx context.Context, doc models.Document) (string, error) {
	text, err := a.extractor.Extract(ctx, doc)
	if err != nil {
		return "", err
	}

	_, err = a.cache.GetOrCompute(ctx, models.NamespaceJD, text, func() (*models.Artifact, error) {
		return a.analyzeText(text)
	})
	if err != nil {
		log.Printf("⚠️  Failed to cache job description: %v\n", err)
	}

	a.indexJD(ctx, text)
	return text, nil
}

// indexJD upserts the job description once per process. A failed upsert is
// retried on the next extraction of the same text.
func (a *analyzerService) indexJD(ctx context.Context, text string) {
	if a.jdIndex == nil {
		return
	}

	hash := models.ContentHash(text)
	if _, done := a.indexed.Load(hash); done {
		return
	}
	if err := a.jdIndex.IndexJD(ctx, text); err != nil {
		log.Printf("⚠️  Failed to index job description: %v\n", err)
		return
	}
	a.indexed.Store(hash, struct{}{})
}

// MatchAgainstJD implements AnalyzerService.
func (a *analyzerService) MatchAgainstJD(ctx context.Context, resumeKeywords []string, jdText string) (*models.MatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComparisonFailure, err)
	}

	started := time.Now()
	result, err := a.matcher.Match(resumeKeywords, jdText)
	a.metrics.ObserveStage("match", started)
	return result, err
}

// SimilarJDs implements AnalyzerService.
func (a *analyzerService) SimilarJDs(ctx context.Context, resumeText string, limit int) ([]models.SimilarJD, error) {
	if a.jdIndex == nil {
		return nil, ErrIndexDisabled
	}
	return a.jdIndex.Search(ctx, resumeText, limit)
}

func guard(stage string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrAnalysisFailure, stage, r)
		}
	}()
	fn()
	return nil
}
