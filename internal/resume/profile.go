// Package resume turns raw resume text into a structured candidate profile.
package resume

import (
	"context"
	"strings"
)

// DefaultRole is reported when no role can be inferred.
const DefaultRole = "Software Engineer"

// Profile is the structured view of a candidate extracted from a resume.
// Fields that could not be extracted are empty strings.
type Profile struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	LinkedIn   string   `json:"linkedin"`
	GitHub     string   `json:"github"`
	Portfolio  string   `json:"portfolio"`
	Experience string   `json:"experience"`
	Skills     []string `json:"skills"`
	Role       string   `json:"role"`
}

// Parser extracts a profile from resume text.
type Parser interface {
	Name() string
	Parse(ctx context.Context, text string) (*Profile, error)
}

// Normalize trims every field, removes blank and repeated skills
// and fills the default role.
func (p *Profile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.LinkedIn = strings.TrimSpace(p.LinkedIn)
	p.GitHub = strings.TrimSpace(p.GitHub)
	p.Portfolio = strings.TrimSpace(p.Portfolio)
	p.Experience = strings.TrimSpace(p.Experience)
	p.Role = strings.TrimSpace(p.Role)
	p.Skills = uniqueSkills(p.Skills)

	if p.Role == "" {
		p.Role = DefaultRole
	}
}

func uniqueSkills(skills []string) []string {
	result := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}

		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		result = append(result, skill)
	}

	return result
}
