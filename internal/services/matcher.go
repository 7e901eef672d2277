package services

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"alfredoptarigan/resume-insight/internal/models"
)

const (
	criticalKeywordWeight = 2
	regularKeywordWeight  = 1
	genericRecommendAfter = 5
)

type JDMatcher interface {
	Match(resumeKeywords []string, jdText string) (*models.MatchResult, error)
}

type jdMatcher struct {
	keywords KeywordExtractor
	metrics  *Metrics
}

func NewJDMatcher(keywords KeywordExtractor, metrics *Metrics) JDMatcher {
	return &jdMatcher{
		keywords: keywords,
		metrics:  metrics,
	}
}

// Match implements JDMatcher.
func (m *jdMatcher) Match(resumeKeywords []string, jdText string) (result *models.MatchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrComparisonFailure, r)
		}
	}()

	if m.keywords == nil {
		return nil, fmt.Errorf("%w: no keyword extractor configured", ErrComparisonFailure)
	}

	resumeSet := make(map[string]struct{}, len(resumeKeywords))
	for _, kw := range resumeKeywords {
		resumeSet[strings.ToLower(kw)] = struct{}{}
	}

	jdTokens := jdTerms(jdText)
	critical := distinct(m.keywords.Critical(jdText))
	criticalSet := toSet(critical)

	frequency := make(map[string]int, len(jdTokens))
	for _, tok := range jdTokens {
		frequency[tok]++
	}

	weight := func(term string) int {
		if _, ok := criticalSet[term]; ok {
			return criticalKeywordWeight
		}
		return regularKeywordWeight
	}

	matchCount := 0
	for kw := range resumeSet {
		if frequency[kw] > 0 {
			matchCount += weight(kw)
		}
	}

	totalPossible := 0
	for _, tok := range jdTokens {
		totalPossible += weight(tok)
	}

	score := 0
	if totalPossible > 0 {
		score = int(math.Round(float64(matchCount) / float64(totalPossible) * 100))
		score = max(0, min(100, score))
	}

	missing := []string{}
	for _, tok := range distinct(jdTokens) {
		if _, ok := resumeSet[tok]; !ok {
			missing = append(missing, tok)
		}
	}

	m.metrics.ObserveMatchScore(score)

	return &models.MatchResult{
		MatchScore:       score,
		MissingKeywords:  missing,
		CriticalKeywords: critical,
		Recommendations:  recommendations(missing, criticalSet),
	}, nil
}

// jdTerms returns the lower-cased JD words longer than three runes, repeats included.
func jdTerms(text string) []string {
	tokens := tokenize(text)
	terms := tokens[:0]
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) > 3 {
			terms = append(terms, tok)
		}
	}
	return terms
}

func recommendations(missing []string, critical map[string]struct{}) []string {
	out := []string{}
	for _, kw := range missing {
		if _, ok := critical[kw]; ok {
			out = append(out, fmt.Sprintf(
				"Consider adding experience or skills related to %q to better match the job description.", kw))
		}
	}
	if len(missing) > genericRecommendAfter {
		out = append(out, "Several job description terms are missing from your resume; tailor it more closely to this role.")
	}
	return out
}

func distinct(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
