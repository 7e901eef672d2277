package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 150
)

// TextChunker splits long job descriptions into embeddable pieces. Paragraphs are
// kept whole when they fit; longer ones are split on sentence boundaries. Each new
// chunk starts with the tail of the previous one.
type TextChunker struct {
	size    int
	overlap int
}

func NewTextChunker(size, overlap int) *TextChunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &TextChunker{size: size, overlap: overlap}
}

func (tc *TextChunker) Chunk(text string) []string {
	var (
		chunks  []string
		current strings.Builder
	)

	// flush closes the current chunk once adding n more runes would overflow it.
	flush := func(n int, sep string) {
		if current.Len() == 0 || utf8.RuneCountInString(current.String())+n+len(sep) <= tc.size {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		current.WriteString(lastRunes(chunks[len(chunks)-1], tc.overlap))
	}
	appendPiece := func(piece, sep string) {
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if utf8.RuneCountInString(para) <= tc.size {
			flush(utf8.RuneCountInString(para), "\n\n")
			appendPiece(para, "\n\n")
			continue
		}

		for _, sentence := range splitIntoSentences(para) {
			flush(utf8.RuneCountInString(sentence), " ")
			appendPiece(sentence, " ")
		}
	}

	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

func splitIntoSentences(text string) []string {
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var result []string
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[len(runes)-n:])
}
