package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"alfredoptarigan/resume-insight/internal/models"
)

type PDFContent struct {
	Text      string
	PageCount int
}

type pdfStrategy struct{}

// NewPDFStrategy parses the document's text layer. Scanned PDFs have none and
// fail here so the next strategy can take over.
func NewPDFStrategy() ExtractionStrategy {
	return &pdfStrategy{}
}

func (p *pdfStrategy) Name() string {
	return "pdf"
}

// Extract implements ExtractionStrategy.
func (p *pdfStrategy) Extract(_ context.Context, doc models.Document) (string, error) {
	content, err := ParsePDF(doc.Data)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

func ParsePDF(data []byte) (*PDFContent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PDF payload")
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := CleanText(textBuilder.String())
	if text == "" {
		return nil, fmt.Errorf("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: totalPage,
	}, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
