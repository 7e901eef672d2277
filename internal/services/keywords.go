package services

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// tokenize lower-cases text and splits it into word tokens.
func tokenize(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

type KeywordExtractor interface {
	// Extract returns the relevance-ranked keyword set of text.
	Extract(text string) []string
	// Critical returns the subset of terms above the stricter threshold.
	Critical(text string) []string
}

type keywordExtractor struct {
	stopwords         map[string]struct{}
	keywordThreshold  float64
	criticalThreshold float64
}

func NewKeywordExtractor(vocab *Vocabulary) KeywordExtractor {
	return &keywordExtractor{
		stopwords:         toSet(vocab.Stopwords),
		keywordThreshold:  vocab.KeywordThreshold,
		criticalThreshold: vocab.CriticalThreshold,
	}
}

type weightedTerm struct {
	term   string
	weight float64
}

// Extract implements KeywordExtractor.
func (k *keywordExtractor) Extract(text string) []string {
	return k.above(text, k.keywordThreshold)
}

// Critical implements KeywordExtractor.
func (k *keywordExtractor) Critical(text string) []string {
	return k.above(text, k.criticalThreshold)
}

func (k *keywordExtractor) above(text string, threshold float64) []string {
	terms := k.rank(text)

	keywords := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.weight > threshold && utf8.RuneCountInString(t.term) > 3 {
			keywords = append(keywords, t.term)
		}
	}
	return keywords
}

// rank weights each term as tf * idf against a corpus holding only this document,
// so idf is the same constant for every term. Ties keep first-occurrence order.
func (k *keywordExtractor) rank(text string) []weightedTerm {
	const corpusSize, docFrequency = 1.0, 1.0
	idf := 1 + math.Log(corpusSize/(1+docFrequency))

	index := make(map[string]int)
	var terms []weightedTerm
	for _, tok := range tokenize(text) {
		if _, stop := k.stopwords[tok]; stop {
			continue
		}
		if i, ok := index[tok]; ok {
			terms[i].weight += idf
			continue
		}
		index[tok] = len(terms)
		terms = append(terms, weightedTerm{term: tok, weight: idf})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].weight > terms[j].weight
	})
	return terms
}
