package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildOCRPrompt asks for a verbatim transcription that keeps the line structure
// the section scanner relies on.
func (pb *PromptBuilder) BuildOCRPrompt(fileName string) string {
	if fileName == "" {
		fileName = "the attached document"
	}

	return fmt.Sprintf(`You are an OCR engine. Transcribe all visible text from %s.

Rules:
- Output plain text only. No markdown, no commentary, no code fences.
- Keep the document's reading order.
- Put every heading, bullet point and table row on its own line.
- Do not translate, summarise or correct the text.
- If the document has no readable text, output nothing.`, fileName)
}
