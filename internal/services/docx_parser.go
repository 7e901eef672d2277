package services

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/resume-insight/internal/models"
)

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>`)
	docxTag          = regexp.MustCompile(`<[^>]+>`)
)

type docxStrategy struct{}

func NewDocxStrategy() ExtractionStrategy {
	return &docxStrategy{}
}

func (d *docxStrategy) Name() string {
	return "docx"
}

// Extract implements ExtractionStrategy.
func (d *docxStrategy) Extract(_ context.Context, doc models.Document) (string, error) {
	if len(doc.Data) == 0 {
		return "", fmt.Errorf("empty DOCX payload")
	}

	r, err := docx.ReadDocxFromMemory(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer r.Close()

	text := docxPlainText(r.Editable().GetContent())
	if text == "" {
		return "", fmt.Errorf("no text content found in DOCX")
	}
	return text, nil
}

// docxPlainText turns document.xml into text, one paragraph per line.
func docxPlainText(xml string) string {
	xml = docxParagraphEnd.ReplaceAllString(xml, "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	text := docxTag.ReplaceAllString(xml, "")
	return CleanText(html.UnescapeString(text))
}
