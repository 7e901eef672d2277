package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"alfredoptarigan/resume-insight/internal/models"
)

// ExtractionStrategy turns document bytes into text or reports why it could not.
type ExtractionStrategy interface {
	Name() string
	Extract(ctx context.Context, doc models.Document) (string, error)
}

type TextExtractor interface {
	Extract(ctx context.Context, doc models.Document) (string, error)
}

type textExtractor struct {
	strategies []ExtractionStrategy
	minLength  int
	metrics    *Metrics
}

// NewTextExtractor tries strategies in order and stops at the first success, so
// later (slower) strategies only run when earlier ones fail.
func NewTextExtractor(strategies []ExtractionStrategy, minLength int, metrics *Metrics) TextExtractor {
	if minLength <= 0 {
		minLength = MinUsableTextLength
	}
	return &textExtractor{
		strategies: strategies,
		minLength:  minLength,
		metrics:    metrics,
	}
}

// Extract implements TextExtractor.
func (e *textExtractor) Extract(ctx context.Context, doc models.Document) (string, error) {
	var text string
	if doc.Kind == models.DocumentKindText {
		text = doc.Text
	} else {
		extracted, err := e.runStrategies(ctx, doc)
		if err != nil {
			return "", err
		}
		text = extracted
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < e.minLength {
		return "", fmt.Errorf("%w: got %d characters, need at least %d", ErrInsufficientText, n, e.minLength)
	}

	return text, nil
}

func (e *textExtractor) runStrategies(ctx context.Context, doc models.Document) (string, error) {
	if len(e.strategies) == 0 {
		return "", fmt.Errorf("%w: no extraction strategies configured", ErrExtractionFailure)
	}

	var errs []error
	for _, strategy := range e.strategies {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		started := time.Now()
		text, err := runStrategy(ctx, strategy, doc)
		e.metrics.ObserveExtraction(strategy.Name(), err)
		e.metrics.ObserveStage("extract_"+strategy.Name(), started)

		if err == nil {
			log.Printf("📄 Extracted %d characters with %s strategy\n", len(text), strategy.Name())
			return text, nil
		}

		log.Printf("⚠️  %s extraction failed for %q: %v\n", strategy.Name(), doc.FileName, err)
		errs = append(errs, fmt.Errorf("%s: %w", strategy.Name(), err))
	}

	return "", fmt.Errorf("%w: %w", ErrExtractionFailure, errors.Join(errs...))
}

// runStrategy converts a parser panic on malformed input into an error.
func runStrategy(ctx context.Context, strategy ExtractionStrategy, doc models.Document) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()
	return strategy.Extract(ctx, doc)
}
