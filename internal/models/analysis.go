package models

// Sections holds the content lines found under each recognised resume header.
// Header lines themselves are never recorded.
type Sections struct {
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Skills     []string `json:"skills"`
}

func NewSections() Sections {
	return Sections{
		Experience: []string{},
		Education:  []string{},
		Skills:     []string{},
	}
}

// Entities holds the detector output. Technologies keeps one entry per mention.
type Entities struct {
	Roles        []string `json:"roles"`
	Technologies []string `json:"technologies"`
	Achievements []string `json:"achievements"`
}

func NewEntities() Entities {
	return Entities{
		Roles:        []string{},
		Technologies: []string{},
		Achievements: []string{},
	}
}

type SentimentDescription string

const (
	SentimentPositive SentimentDescription = "Positive"
	SentimentNegative SentimentDescription = "Negative"
	SentimentNeutral  SentimentDescription = "Neutral"
)

type Sentiment struct {
	Score       float64              `json:"score"`
	Description SentimentDescription `json:"description"`
}

type ScoreBreakdown struct {
	KeywordDensity       int `json:"keyword_density"`
	SectionCompleteness  int `json:"section_completeness"`
	ActionVerbs          int `json:"action_verbs"`
	SkillRelevance       int `json:"skill_relevance"`
	SentimentAchievement int `json:"sentiment_achievement"`
}

func (b ScoreBreakdown) Total() int {
	return b.KeywordDensity + b.SectionCompleteness + b.ActionVerbs + b.SkillRelevance + b.SentimentAchievement
}

type Analysis struct {
	Score         int                 `json:"score"`
	Breakdown     ScoreBreakdown      `json:"breakdown"`
	Strengths     []string            `json:"strengths"`
	Weaknesses    []string            `json:"weaknesses"`
	Suggestions   []string            `json:"suggestions"`
	Sentiment     Sentiment           `json:"sentiment"`
	SkillClusters map[string][]string `json:"skill_clusters"`
}

type MatchResult struct {
	MatchScore       int      `json:"match_score"`
	MissingKeywords  []string `json:"missing_keywords"`
	CriticalKeywords []string `json:"critical_keywords"`
	Recommendations  []string `json:"recommendations"`
}

// Artifact is the cached output of extraction plus keyword and section analysis.
type Artifact struct {
	Text     string   `json:"text"`
	Keywords []string `json:"keywords"`
	Sections Sections `json:"sections"`
	Entities Entities `json:"entities"`
}
