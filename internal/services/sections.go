package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/resume-insight/internal/models"
)

type Section int

const (
	SectionNone Section = iota
	SectionExperience
	SectionEducation
	SectionSkills
)

func (s Section) String() string {
	switch s {
	case SectionExperience:
		return "experience"
	case SectionEducation:
		return "education"
	case SectionSkills:
		return "skills"
	default:
		return "none"
	}
}

// EntityRule is one detector run against every content line. Applies decides from
// the current section and the line whether Detect runs at all.
type EntityRule struct {
	Name    string
	Applies func(section Section, line string) bool
	Detect  func(line string, entities *models.Entities)
}

type SectionEntityIdentifier interface {
	Identify(text string) (models.Sections, models.Entities)
}

type sectionEntityIdentifier struct {
	headers []sectionHeaders
	rules   []EntityRule
}

type sectionHeaders struct {
	section Section
	phrases []string
}

func NewSectionEntityIdentifier(vocab *Vocabulary) SectionEntityIdentifier {
	return &sectionEntityIdentifier{
		headers: []sectionHeaders{
			{section: SectionExperience, phrases: vocab.ExperienceHeaders},
			{section: SectionEducation, phrases: vocab.EducationHeaders},
			{section: SectionSkills, phrases: vocab.SkillsHeaders},
		},
		rules: DefaultEntityRules(vocab),
	}
}

// DefaultEntityRules builds the role, achievement and technology detectors.
func DefaultEntityRules(vocab *Vocabulary) []EntityRule {
	return []EntityRule{
		RoleRule(vocab.Roles),
		AchievementRule(vocab.AchievementTriggers),
		TechnologyRule(vocab.Technologies),
	}
}

// RoleRule records experience lines naming a role.
func RoleRule(roles []string) EntityRule {
	return EntityRule{
		Name: "role",
		Applies: func(section Section, _ string) bool {
			return section == SectionExperience
		},
		Detect: func(line string, entities *models.Entities) {
			if containsAny(line, roles) {
				entities.Roles = append(entities.Roles, line)
			}
		},
	}
}

// AchievementRule records experience lines where a trigger verb is followed by a digit.
func AchievementRule(triggers []string) EntityRule {
	pattern := achievementPattern(triggers)
	return EntityRule{
		Name: "achievement",
		Applies: func(section Section, _ string) bool {
			return section == SectionExperience
		},
		Detect: func(line string, entities *models.Entities) {
			if pattern != nil && pattern.MatchString(line) {
				entities.Achievements = append(entities.Achievements, line)
			}
		},
	}
}

// TechnologyRule records every technology token mentioned in a skills line.
// Repeated mentions are kept.
func TechnologyRule(technologies []string) EntityRule {
	return EntityRule{
		Name: "technology",
		Applies: func(section Section, line string) bool {
			return section == SectionSkills || strings.Contains(line, "skills")
		},
		Detect: func(line string, entities *models.Entities) {
			for _, tech := range technologies {
				if strings.Contains(line, tech) {
					entities.Technologies = append(entities.Technologies, tech)
				}
			}
		},
	}
}

func achievementPattern(triggers []string) *regexp.Regexp {
	if len(triggers) == 0 {
		return nil
	}
	quoted := make([]string, len(triggers))
	for i, t := range triggers {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(t))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b.*\d`)
}

// Identify implements SectionEntityIdentifier.
func (s *sectionEntityIdentifier) Identify(text string) (models.Sections, models.Entities) {
	sections := models.NewSections()
	entities := models.NewEntities()
	current := SectionNone

	for _, raw := range strings.Split(text, "\n") {
		line := strings.ToLower(strings.TrimSpace(raw))

		if header, ok := s.header(line); ok {
			current = header
			continue
		}
		if line == "" || current == SectionNone {
			continue
		}

		switch current {
		case SectionExperience:
			sections.Experience = append(sections.Experience, line)
		case SectionEducation:
			sections.Education = append(sections.Education, line)
		case SectionSkills:
			sections.Skills = append(sections.Skills, line)
		}

		for _, rule := range s.rules {
			if rule.Applies(current, line) {
				rule.Detect(line, &entities)
			}
		}
	}

	return sections, entities
}

func (s *sectionEntityIdentifier) header(line string) (Section, bool) {
	if line == "" {
		return SectionNone, false
	}
	for _, h := range s.headers {
		if containsAny(line, h.phrases) {
			return h.section, true
		}
	}
	return SectionNone, false
}

func containsAny(line string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(line, p) {
			return true
		}
	}
	return false
}
