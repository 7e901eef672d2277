package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alfredoptarigan/resume-insight/internal/models"
)

const sampleResume = `John Doe
Software Engineer

Experience
Senior Engineer at Acme
Increased revenue by 20% through automation

Education
BSc Computer Science

Skills
Go, Docker, Kubernetes, Python
`

func TestSectionEntityIdentifier_Identify(t *testing.T) {
	identifier := NewSectionEntityIdentifier(DefaultVocabulary())

	sections, entities := identifier.Identify(sampleResume)

	assert.Equal(t, []string{
		"senior engineer at acme",
		"increased revenue by 20% through automation",
	}, sections.Experience)
	assert.Equal(t, []string{"bsc computer science"}, sections.Education)
	assert.Equal(t, []string{"go, docker, kubernetes, python"}, sections.Skills)

	assert.Equal(t, []string{"senior engineer at acme"}, entities.Roles)
	assert.Equal(t, []string{"increased revenue by 20% through automation"}, entities.Achievements)
	assert.Equal(t, []string{"python", "docker", "kubernetes"}, entities.Technologies)
}

func TestSectionEntityIdentifier_NoHeaders(t *testing.T) {
	identifier := NewSectionEntityIdentifier(DefaultVocabulary())

	sections, entities := identifier.Identify("just a paragraph\nabout a lead engineer who improved 3 things")

	assert.Equal(t, models.NewSections(), sections)
	assert.Equal(t, models.NewEntities(), entities)
}

func TestSectionEntityIdentifier_HeaderPrecedence(t *testing.T) {
	identifier := NewSectionEntityIdentifier(DefaultVocabulary())

	// "education and experience" matches both; experience is checked first.
	sections, _ := identifier.Identify("Education and Experience\nbuilt things")

	assert.Equal(t, []string{"built things"}, sections.Experience)
	assert.Empty(t, sections.Education)
}

func TestSectionEntityIdentifier_TechnologiesKeepRepeats(t *testing.T) {
	identifier := NewSectionEntityIdentifier(DefaultVocabulary())

	_, entities := identifier.Identify("Tech Stack\nreact, react\nreact and node")

	assert.Equal(t, []string{"react", "react", "node"}, entities.Technologies)
}

func TestRoleRule(t *testing.T) {
	rule := RoleRule([]string{"engineer"})
	entities := models.NewEntities()

	assert.True(t, rule.Applies(SectionExperience, "x"))
	assert.False(t, rule.Applies(SectionSkills, "x"))

	rule.Detect("platform engineer", &entities)
	rule.Detect("barista", &entities)
	assert.Equal(t, []string{"platform engineer"}, entities.Roles)
}

func TestAchievementRule(t *testing.T) {
	rule := AchievementRule([]string{"reduced", "grew"})

	tests := []struct {
		line string
		want bool
	}{
		{"reduced latency by 40%", true},
		{"grew the team to 12 engineers", true},
		{"reduced latency significantly", false},
		{"in 2020 we reduced costs", false},
		{"unreduced 5 items", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			entities := models.NewEntities()
			rule.Detect(tt.line, &entities)
			assert.Equal(t, tt.want, len(entities.Achievements) == 1)
		})
	}
}

func TestTechnologyRule_Applies(t *testing.T) {
	rule := TechnologyRule([]string{"docker"})

	assert.True(t, rule.Applies(SectionSkills, "docker"))
	assert.True(t, rule.Applies(SectionExperience, "soft skills: docker"))
	assert.False(t, rule.Applies(SectionExperience, "shipped docker images"))
}

func TestSectionString(t *testing.T) {
	assert.Equal(t, "experience", SectionExperience.String())
	assert.Equal(t, "education", SectionEducation.String())
	assert.Equal(t, "skills", SectionSkills.String())
	assert.Equal(t, "none", SectionNone.String())
}
