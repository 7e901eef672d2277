package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"alfredoptarigan/resume-insight/internal/models"
)

type ocrStrategy struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
	limiter       *rate.Limiter
}

// NewOCRStrategy transcribes the raw bytes with a multimodal model. Calls are
// bounded to ratePerMinute; a non-positive rate disables the bound.
func NewOCRStrategy(gemini GeminiService, ratePerMinute int) ExtractionStrategy {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMinute)), 1)
	}

	return &ocrStrategy{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		limiter:       limiter,
	}
}

func (o *ocrStrategy) Name() string {
	return "ocr"
}

// Extract implements ExtractionStrategy.
func (o *ocrStrategy) Extract(ctx context.Context, doc models.Document) (string, error) {
	if len(doc.Data) == 0 {
		return "", fmt.Errorf("empty payload")
	}

	mimeType := ocrMimeType(doc)
	if !ocrSupported(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, mimeType)
	}

	if err := o.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("ocr rate limit: %w", err)
	}

	return o.gemini.TranscribeDocument(ctx, doc.Data, mimeType, o.promptBuilder.BuildOCRPrompt(doc.FileName))
}

func ocrMimeType(doc models.Document) string {
	if doc.MimeType != "" && doc.MimeType != "application/octet-stream" {
		return doc.MimeType
	}
	return http.DetectContentType(doc.Data)
}

func ocrSupported(mimeType string) bool {
	switch mimeType {
	case "application/pdf", "image/png", "image/jpeg", "image/webp":
		return true
	default:
		return false
	}
}
