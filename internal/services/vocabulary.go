package services

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MinUsableTextLength is the smallest extracted text, in runes, worth analysing.
const MinUsableTextLength = 50

// Vocabulary holds every closed word list and threshold the analysis heuristics use.
type Vocabulary struct {
	ExperienceHeaders   []string            `yaml:"experience_headers"`
	EducationHeaders    []string            `yaml:"education_headers"`
	SkillsHeaders       []string            `yaml:"skills_headers"`
	Roles               []string            `yaml:"roles"`
	Technologies        []string            `yaml:"technologies"`
	AchievementTriggers []string            `yaml:"achievement_triggers"`
	ActionVerbs         []string            `yaml:"action_verbs"`
	CriticalSkills      []string            `yaml:"critical_skills"`
	SkillClusters       map[string][]string `yaml:"skill_clusters"`
	Stopwords           []string            `yaml:"stopwords"`
	KeywordThreshold    float64             `yaml:"keyword_threshold"`
	CriticalThreshold   float64             `yaml:"critical_threshold"`
	MinTextLength       int                 `yaml:"min_text_length"`
}

func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		ExperienceHeaders: []string{"experience", "employment", "work history", "professional background"},
		EducationHeaders:  []string{"education", "academic", "qualifications"},
		SkillsHeaders:     []string{"skills", "technical proficiencies", "competencies", "tech stack"},
		Roles: []string{
			"engineer", "developer", "manager", "analyst", "intern", "lead",
			"architect", "consultant", "designer", "specialist", "director",
		},
		Technologies: []string{
			"javascript", "typescript", "python", "java", "react", "angular", "vue",
			"node", "express", "mongodb", "postgresql", "mysql", "redis", "graphql",
			"docker", "kubernetes", "aws", "azure", "gcp", "golang", "html", "css",
			"git", "jenkins", "terraform", "jest", "cypress", "selenium",
		},
		AchievementTriggers: []string{
			"increased", "decreased", "reduced", "improved", "achieved",
			"generated", "saved", "grew", "delivered", "boosted",
		},
		ActionVerbs: []string{
			"achieved", "improved", "developed", "managed", "created",
			"led", "implemented", "designed", "increased", "reduced",
		},
		CriticalSkills: []string{
			"javascript", "typescript", "python", "java", "react", "node",
			"mongodb", "postgresql", "docker", "kubernetes", "aws", "graphql",
			"golang", "redis", "terraform", "testing",
		},
		SkillClusters: map[string][]string{
			"frontend": {"react", "angular", "vue", "javascript", "typescript", "html", "css", "redux", "nextjs"},
			"backend":  {"node", "express", "python", "java", "golang", "javascript", "typescript", "mongodb", "postgresql", "mysql", "graphql", "django", "spring"},
			"devops":   {"docker", "kubernetes", "aws", "azure", "gcp", "jenkins", "terraform", "ansible", "linux"},
			"testing":  {"jest", "mocha", "cypress", "selenium", "junit", "pytest", "testing"},
		},
		Stopwords: []string{
			"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of",
			"in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been",
			"being", "it", "this", "that", "these", "those", "from", "up", "down", "over",
			"under", "again", "further", "than", "so", "such", "into", "about", "between",
			"through", "during", "before", "after", "above", "below", "out", "off", "own",
			"same", "too", "very", "can", "will", "just", "should", "now", "have", "has",
			"had", "would", "could", "their", "there", "which", "while", "where",
			"what", "when", "your", "they", "them", "also", "more", "most", "other", "some",
		},
		KeywordThreshold:  1.0,
		CriticalThreshold: 1.5,
		MinTextLength:     MinUsableTextLength,
	}
}

// LoadVocabulary overlays the YAML file at path on the defaults. Every key the file
// sets, skill_clusters included, replaces the default value. A missing file yields
// the defaults unchanged.
func LoadVocabulary(path string) (*Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return vocab, nil
		}
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	// yaml.v3 merges into an existing map, so a file that names skill_clusters
	// replaces the default categories instead of adding to them.
	var clusters struct {
		SkillClusters map[string][]string `yaml:"skill_clusters"`
	}
	if err := yaml.Unmarshal(data, &clusters); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}
	if clusters.SkillClusters != nil {
		vocab.SkillClusters = nil
	}

	if err := yaml.Unmarshal(data, vocab); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	if vocab.MinTextLength <= 0 {
		vocab.MinTextLength = MinUsableTextLength
	}
	if vocab.CriticalThreshold < vocab.KeywordThreshold {
		return nil, fmt.Errorf("critical_threshold (%.2f) must not be below keyword_threshold (%.2f)",
			vocab.CriticalThreshold, vocab.KeywordThreshold)
	}

	return vocab, nil
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
