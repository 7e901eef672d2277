package services

import (
	"alfredoptarigan/resume-insight/internal/models"
)

// afinnLexicon is a resume-oriented subset of the AFINN-165 word list.
var afinnLexicon = map[string]float64{
	"accomplished": 2, "accurate": 1, "achievement": 2, "active": 1, "admire": 3,
	"advanced": 1, "award": 3, "awarded": 3, "benefit": 2, "best": 3,
	"brilliant": 4, "capable": 1, "celebrated": 3, "clear": 1, "collaborative": 2,
	"committed": 1, "confident": 2, "creative": 2, "dedicated": 2, "dynamic": 2,
	"effective": 2, "efficient": 2, "empower": 2, "encourage": 2, "energetic": 2,
	"enthusiastic": 3, "excellence": 3, "excellent": 3, "exceptional": 3, "expert": 2,
	"fantastic": 4, "good": 3, "great": 3, "growth": 2, "honored": 2,
	"improve": 2, "improvement": 2, "innovative": 2, "inspire": 2, "inspired": 2,
	"leader": 1, "motivated": 1, "outstanding": 5, "passionate": 2, "positive": 2,
	"proactive": 2, "productive": 2, "proficient": 2, "proud": 2, "recognized": 2,
	"reliable": 2, "resilient": 2, "skilled": 2, "strong": 2, "success": 2,
	"successful": 3, "successfully": 3, "superb": 5, "support": 2, "talented": 2,
	"thrive": 2, "top": 2, "trusted": 2, "valuable": 2, "win": 4, "won": 3,
	"abandoned": -2, "bad": -3, "blame": -2, "broken": -1, "conflict": -2,
	"complaint": -2, "difficult": -1, "dismissed": -2, "fail": -2, "failed": -2,
	"failure": -2, "fired": -2, "frustrated": -2, "hate": -3, "lack": -2,
	"lacking": -2, "lazy": -3, "lost": -3, "mistake": -2, "negative": -2,
	"poor": -2, "problem": -2, "problems": -2, "quit": -1, "terminated": -2,
	"terrible": -3, "unemployed": -2, "unfortunately": -2, "weak": -2, "worst": -3,
}

type SentimentAnalyzer interface {
	Analyze(text string) models.Sentiment
}

type lexiconSentimentAnalyzer struct {
	lexicon map[string]float64
}

func NewSentimentAnalyzer() SentimentAnalyzer {
	return &lexiconSentimentAnalyzer{lexicon: afinnLexicon}
}

// NewLexiconSentimentAnalyzer scores with a caller-supplied word list.
func NewLexiconSentimentAnalyzer(lexicon map[string]float64) SentimentAnalyzer {
	return &lexiconSentimentAnalyzer{lexicon: lexicon}
}

// Analyze implements SentimentAnalyzer. The score is the sum of token polarities.
func (s *lexiconSentimentAnalyzer) Analyze(text string) models.Sentiment {
	var score float64
	for _, tok := range tokenize(text) {
		score += s.lexicon[tok]
	}

	return models.Sentiment{
		Score:       score,
		Description: describeSentiment(score),
	}
}

func describeSentiment(score float64) models.SentimentDescription {
	switch {
	case score > 0:
		return models.SentimentPositive
	case score < 0:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}
