package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short text untouched", "golang", 40, "golang"},
		{"ascii cut", "kubernetes", 4, "kube"},
		{"cut inside a rune backs off", "héllo", 2, "h"},
		{"cut on a rune boundary", "héllo", 3, "hé"},
		{"cut inside a three byte rune", "a日本", 3, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateUTF8(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestTruncateUTF8_EmbeddingLimit(t *testing.T) {
	text := strings.Repeat("a", maxEmbeddingBytes-1) + "é"

	got := truncateUTF8(text, maxEmbeddingBytes)

	assert.Len(t, got, maxEmbeddingBytes-1)
	assert.True(t, utf8.ValidString(got))
}
