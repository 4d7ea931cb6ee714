package resume

import (
	"regexp"
	"strings"

	"github.com/spigell/talentalign/internal/skills"
)

var (
	skillsHeader = regexp.MustCompile(`(?im)^(?:(?:technical|key|core|professional)[ \t]+)?skills\b(?:[ \t]*(?:&|and)[ \t]*[a-z]+)?[ \t]*:?|(?:(?:technical|key|core)[ \t]+)?skills[ \t]*:`)
	sectionEnd   = regexp.MustCompile(`(?im)^(?:(?:work|professional)[ \t]+)?(?:experience|education|achievements|projects|certifications?|awards|employment|internships?|interests|summary|references)\b|\n[ \t]*\n`)
)

// SkillsSection returns the body of the skills section of raw resume
// text, or "" when the resume has no recognizable skills header.
func SkillsSection(raw string) string {
	return skillsSection(Normalize(raw))
}

func skillsSection(text string) string {
	loc := skillsHeader.FindStringIndex(text)
	if loc == nil {
		return ""
	}

	rest := strings.TrimLeft(text[loc[1]:], " \t\n")
	if end := sectionEnd.FindStringIndex(rest); end != nil {
		rest = rest[:end[0]]
	}

	return strings.TrimSpace(rest)
}

func extractSkills(text string, dict *skills.Dictionary) []string {
	return dict.Find(skillsSection(text), text)
}
