// Package matching scores how well a candidate's skills cover a job posting.
package matching

import (
	"math"
	"strings"

	"github.com/spigell/talentalign/internal/skills"
)

// Job is the part of a posting the scorer reads.
type Job struct {
	Title       string
	Description string
	KeySkills   string
}

// Result is the outcome of scoring one job.
type Result struct {
	MatchPercentage  int      `json:"matchPercentage"`
	SkillsNotMatched []string `json:"skillsNotMatched"`
}

// Scorer compares candidate skills with the skills found in job text.
type Scorer struct {
	dict *skills.Dictionary
}

// NewScorer returns a scorer over dict, or over the built-in jobs
// dictionary when dict is nil.
func NewScorer(dict *skills.Dictionary) *Scorer {
	if dict == nil {
		dict = skills.Jobs()
	}

	return &Scorer{dict: dict}
}

// Score rates userSkills against job with the built-in jobs dictionary.
func Score(userSkills []string, job Job) Result {
	return NewScorer(nil).Score(userSkills, job)
}

// JobSkills returns the dictionary skills mentioned anywhere in the job.
func (s *Scorer) JobSkills(job Job) []string {
	blob := strings.Join([]string{job.Title, job.Description, job.KeySkills}, "\n")
	return s.dict.Find(blob)
}

// Score returns the share of job skills covered by userSkills and the
// job skills left uncovered. A job skill is covered when it equals a
// user skill or one contains the other, ignoring case.
func (s *Scorer) Score(userSkills []string, job Job) Result {
	candidate := lowerSkills(userSkills)
	if len(candidate) == 0 {
		return emptyResult()
	}

	jobSkills := s.JobSkills(job)
	if len(jobSkills) == 0 {
		return emptyResult()
	}

	matched := 0
	notMatched := make([]string, 0)
	for _, skill := range jobSkills {
		if covers(candidate, strings.ToLower(skill)) {
			matched++
			continue
		}
		notMatched = append(notMatched, skill)
	}

	return Result{
		MatchPercentage:  int(math.Round(100 * float64(matched) / float64(len(jobSkills)))),
		SkillsNotMatched: notMatched,
	}
}

func covers(candidate []string, skill string) bool {
	for _, have := range candidate {
		if have == skill || strings.Contains(have, skill) || strings.Contains(skill, have) {
			return true
		}
	}

	return false
}

// lowerSkills drops blank entries; an empty string would be a
// substring of every job skill.
func lowerSkills(userSkills []string) []string {
	result := make([]string, 0, len(userSkills))
	for _, skill := range userSkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill != "" {
			result = append(result, skill)
		}
	}

	return result
}

func emptyResult() Result {
	return Result{SkillsNotMatched: make([]string, 0)}
}
