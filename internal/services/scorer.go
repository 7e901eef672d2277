package services

import (
	"fmt"
	"log"
	"math"
	"strings"

	"alfredoptarigan/resume-insight/internal/models"
)

const (
	maxKeywordDensityScore       = 20
	maxSectionScore              = 30
	maxActionVerbScore           = 20
	maxSkillRelevanceScore       = 20
	maxSentimentAchievementScore = 10
	maxResumeScore               = 100
)

const (
	degradedWeakness   = "Analysis failed due to processing error"
	degradedSuggestion = "Ensure the resume is a text-based PDF and try again"
)

type ResumeScorer interface {
	// Score never fails: any internal error yields DegradedAnalysis.
	Score(text string, keywords []string, sections *models.Sections, entities *models.Entities) models.Analysis
}

type resumeScorer struct {
	vocab     *Vocabulary
	sentiment SentimentAnalyzer
	metrics   *Metrics

	actionVerbs    map[string]struct{}
	criticalSkills map[string]struct{}
}

func NewResumeScorer(vocab *Vocabulary, sentiment SentimentAnalyzer, metrics *Metrics) ResumeScorer {
	return &resumeScorer{
		vocab:          vocab,
		sentiment:      sentiment,
		metrics:        metrics,
		actionVerbs:    toSet(vocab.ActionVerbs),
		criticalSkills: toSet(vocab.CriticalSkills),
	}
}

// DegradedAnalysis is returned in place of a result whenever scoring fails.
func DegradedAnalysis() models.Analysis {
	return models.Analysis{
		Score:         0,
		Strengths:     []string{},
		Weaknesses:    []string{degradedWeakness},
		Suggestions:   []string{degradedSuggestion},
		Sentiment:     models.Sentiment{Score: 0, Description: models.SentimentNeutral},
		SkillClusters: map[string][]string{},
	}
}

// Score implements ResumeScorer.
func (s *resumeScorer) Score(text string, keywords []string, sections *models.Sections, entities *models.Entities) (analysis models.Analysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ %v: recovered from panic: %v\n", ErrAnalysisFailure, r)
			s.metrics.IncDegraded()
			analysis = DegradedAnalysis()
		}
	}()

	analysis, err := s.score(text, keywords, sections, entities)
	if err != nil {
		log.Printf("❌ %v\n", err)
		s.metrics.IncDegraded()
		return DegradedAnalysis()
	}

	s.metrics.ObserveResumeScore(analysis.Score)
	return analysis
}

type scoringSignals struct {
	wordCount   int
	actionVerbs int
	keywords    []string
	sections    *models.Sections
	entities    *models.Entities
	sentiment   models.Sentiment
}

func (s *resumeScorer) score(text string, keywords []string, sections *models.Sections, entities *models.Entities) (models.Analysis, error) {
	if sections == nil || entities == nil {
		return models.Analysis{}, fmt.Errorf("%w: missing sections or entities", ErrAnalysisFailure)
	}

	tokens := tokenize(text)
	signals := scoringSignals{
		wordCount:   len(strings.Fields(text)),
		actionVerbs: s.countActionVerbs(tokens),
		keywords:    keywords,
		sections:    sections,
		entities:    entities,
		sentiment:   s.sentiment.Analyze(text),
	}

	breakdown := models.ScoreBreakdown{
		KeywordDensity:       keywordDensityScore(len(keywords), signals.wordCount),
		SectionCompleteness:  sectionScore(sections),
		ActionVerbs:          actionVerbScore(signals.actionVerbs),
		SkillRelevance:       s.skillRelevanceScore(keywords, entities),
		SentimentAchievement: sentimentAchievementScore(signals.sentiment, entities),
	}

	return models.Analysis{
		Score:         min(maxResumeScore, breakdown.Total()),
		Breakdown:     breakdown,
		Strengths:     strengths(signals),
		Weaknesses:    weaknesses(signals),
		Suggestions:   suggestions(signals),
		Sentiment:     signals.sentiment,
		SkillClusters: s.skillClusters(keywords),
	}, nil
}

func keywordDensityScore(keywordCount, wordCount int) int {
	if wordCount == 0 {
		return 0
	}
	density := float64(keywordCount) / float64(wordCount) * 200
	return int(math.Round(math.Min(maxKeywordDensityScore, density)))
}

func sectionScore(sections *models.Sections) int {
	score := 0
	switch {
	case len(sections.Experience) > 3:
		score += 15
	case len(sections.Experience) > 0:
		score += 10
	}
	if len(sections.Education) > 0 {
		score += 10
	}
	if len(sections.Skills) > 5 {
		score += 5
	}
	return min(maxSectionScore, score)
}

func actionVerbScore(count int) int {
	return int(math.Round(math.Min(maxActionVerbScore, float64(count)/10*20)))
}

func (s *resumeScorer) countActionVerbs(tokens []string) int {
	count := 0
	for _, tok := range tokens {
		if _, ok := s.actionVerbs[tok]; ok {
			count++
		}
	}
	return count
}

func (s *resumeScorer) skillRelevanceScore(keywords []string, entities *models.Entities) int {
	matches := 0
	for _, kw := range keywords {
		if _, ok := s.criticalSkills[kw]; ok {
			matches++
		}
	}
	return min(maxSkillRelevanceScore, matches+2*len(entities.Technologies))
}

func sentimentAchievementScore(sentiment models.Sentiment, entities *models.Entities) int {
	score := 2
	if sentiment.Score > 0 {
		score = 5
	}
	return min(maxSentimentAchievementScore, score+len(entities.Achievements))
}

// skillClusters maps each category to the keywords in its vocabulary. Empty
// categories are left out.
func (s *resumeScorer) skillClusters(keywords []string) map[string][]string {
	clusters := make(map[string][]string)
	for category, words := range s.vocab.SkillClusters {
		vocab := toSet(words)
		for _, kw := range keywords {
			if _, ok := vocab[kw]; ok {
				clusters[category] = append(clusters[category], kw)
			}
		}
	}
	return clusters
}

func strengths(sig scoringSignals) []string {
	out := []string{}
	if sig.wordCount > 300 {
		out = append(out, "Comprehensive content")
	}
	if sig.wordCount >= 200 && sig.wordCount <= 300 {
		out = append(out, "Concise presentation")
	}
	if len(sig.keywords) > 20 {
		out = append(out, "Rich keyword usage")
	}
	if len(sig.sections.Experience) > 3 {
		out = append(out, "Detailed work experience section")
	}
	if len(sig.entities.Technologies) >= 3 {
		out = append(out, "Strong technical skill set")
	}
	if len(sig.entities.Achievements) > 0 {
		out = append(out, "Quantified achievements demonstrate impact")
	}
	if sig.sentiment.Score > 0 {
		out = append(out, "Positive, confident tone")
	}
	return out
}

func weaknesses(sig scoringSignals) []string {
	out := []string{}
	if sig.wordCount < 200 {
		out = append(out, "Resume may be too brief")
	}
	if len(sig.keywords) < 10 {
		out = append(out, "Limited keyword usage")
	}
	if len(sig.sections.Experience) == 0 {
		out = append(out, "Missing or unrecognized experience section")
	}
	if len(sig.sections.Education) == 0 {
		out = append(out, "Missing education section")
	}
	if len(sig.sections.Skills) == 0 {
		out = append(out, "Missing skills section")
	}
	if len(sig.entities.Achievements) == 0 {
		out = append(out, "No quantified achievements found")
	}
	if sig.sentiment.Score < 0 {
		out = append(out, "Tone may come across as negative")
	}
	return out
}

func suggestions(sig scoringSignals) []string {
	out := []string{}
	if sig.actionVerbs < 5 {
		out = append(out, "Use action verbs to describe achievements")
	}
	if len(sig.entities.Achievements) < 2 {
		out = append(out, "Quantify results where possible (percentages, revenue, time saved)")
	}
	if len(sig.sections.Skills) <= 5 {
		out = append(out, "Expand the skills section with relevant technologies")
	}
	if len(sig.keywords) < 15 {
		out = append(out, "Tailor content to specific job roles")
	}
	if sig.wordCount > 1000 {
		out = append(out, "Condense the resume to the most relevant content")
	}
	return out
}
