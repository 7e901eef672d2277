package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"alfredoptarigan/resume-insight/internal/models"
)

type fixedSentiment struct {
	sentiment models.Sentiment
}

func (f fixedSentiment) Analyze(string) models.Sentiment {
	return f.sentiment
}

type stubKeywords struct {
	keywords []string
	critical []string
	calls    atomic.Int32
	panicMsg string
}

func (s *stubKeywords) Extract(string) []string {
	s.calls.Add(1)
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.keywords
}

func (s *stubKeywords) Critical(string) []string {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.critical
}

type stubStrategy struct {
	name     string
	text     string
	err      error
	panicMsg string
	calls    int
}

func (s *stubStrategy) Name() string {
	return s.name
}

func (s *stubStrategy) Extract(context.Context, models.Document) (string, error) {
	s.calls++
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	return s.text, s.err
}

type panickingIdentifier struct{}

func (panickingIdentifier) Identify(string) (models.Sections, models.Entities) {
	panic("malformed section table")
}

type recordingIndex struct {
	mu      sync.Mutex
	indexed []string
	results []models.SimilarJD
}

func (r *recordingIndex) InitCollection(context.Context) error {
	return nil
}

func (r *recordingIndex) IndexJD(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, text)
	return nil
}

func (r *recordingIndex) Search(context.Context, string, int) ([]models.SimilarJD, error) {
	return r.results, nil
}

// flakyIndex fails the first failures IndexJD calls, then records like recordingIndex.
type flakyIndex struct {
	recordingIndex
	failures int
	attempts int
}

func (f *flakyIndex) IndexJD(ctx context.Context, text string) error {
	f.mu.Lock()
	f.attempts++
	failing := f.attempts <= f.failures
	f.mu.Unlock()
	if failing {
		return errors.New("qdrant unavailable")
	}
	return f.recordingIndex.IndexJD(ctx, text)
}

// words returns n space-separated filler words.
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}
