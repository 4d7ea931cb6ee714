// Package jobs holds job listings collected from any source, their
// match scores and the exclusion list.
package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/talentalign/internal/matching"
)

const (
	IDField          = "ID"
	CompanyIDField   = "CompanyID"
	CompanyNameField = "CompanyName"
)

type Jobs struct {
	Items []*Job `json:"items"`
}

type Company struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Job struct {
	ID          string           `json:"id"`
	Source      string           `json:"source,omitempty"`
	Title       string           `json:"title"`
	Company     Company          `json:"company"`
	URL         string           `json:"url,omitempty"`
	Area        string           `json:"area,omitempty"`
	Salary      string           `json:"salary,omitempty"`
	Description string           `json:"description,omitempty"`
	KeySkills   []string         `json:"keySkills,omitempty"`
	PublishedAt string           `json:"publishedAt,omitempty"`
	Match       *matching.Result `json:"match,omitempty"`
	AI          *AIAssessment    `json:"ai,omitempty"`
}

// AIAssessment is the verdict of the AI fit check attached to a job.
type AIAssessment struct {
	Fit     bool    `json:"fit"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     string  `json:"raw,omitempty"`
	Error   string  `json:"error,omitempty"`
}

func New(items ...*Job) *Jobs {
	return &Jobs{Items: items}
}

func (j *Job) StringField(name string) string {
	switch name {
	case IDField:
		return j.ID
	case CompanyIDField:
		return j.Company.ID
	case CompanyNameField:
		return j.Company.Name
	default:
		return ""
	}
}

// MatchInput is the view of the job the skill scorer reads.
func (j *Job) MatchInput() matching.Job {
	return matching.Job{
		Title:       j.Title,
		Description: j.Description,
		KeySkills:   strings.Join(j.KeySkills, ", "),
	}
}

// MatchPercentage is 0 for jobs that were never scored.
func (j *Job) MatchPercentage() int {
	if j.Match == nil {
		return 0
	}
	return j.Match.MatchPercentage
}

func (j *Jobs) Len() int {
	return len(j.Items)
}

func (j *Jobs) Append(other *Jobs) {
	if other == nil {
		return
	}
	j.Items = append(j.Items, other.Items...)
}

func (j *Jobs) FindByID(id string) *Job {
	for _, job := range j.Items {
		if job.ID == id {
			return job
		}
	}
	return nil
}

// Exclude removes every job whose field equals one of targets and
// returns the removed IDs. Company names compare case-insensitively.
// The order of the remaining jobs is preserved.
func (j *Jobs) Exclude(field string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	set := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		set[normalizeField(field, target)] = struct{}{}
	}

	var excluded []string
	kept := j.Items[:0]
	for _, job := range j.Items {
		if _, ok := set[normalizeField(field, job.StringField(field))]; ok {
			excluded = append(excluded, job.ID)
			continue
		}
		kept = append(kept, job)
	}

	for i := len(kept); i < len(j.Items); i++ {
		j.Items[i] = nil
	}
	j.Items = kept

	return excluded
}

func normalizeField(field, value string) string {
	value = strings.TrimSpace(value)
	if field == CompanyNameField {
		return strings.ToLower(value)
	}
	return value
}

// Deduplicate drops jobs whose ID was already seen and returns the count removed.
func (j *Jobs) Deduplicate() int {
	seen := make(map[string]struct{}, len(j.Items))
	kept := make([]*Job, 0, len(j.Items))
	for _, job := range j.Items {
		if _, ok := seen[job.ID]; ok {
			continue
		}
		seen[job.ID] = struct{}{}
		kept = append(kept, job)
	}

	removed := len(j.Items) - len(kept)
	j.Items = kept

	return removed
}

// SortByMatch orders jobs by match percentage, best first. Ties keep their order.
func (j *Jobs) SortByMatch() {
	sort.SliceStable(j.Items, func(a, b int) bool {
		return j.Items[a].MatchPercentage() > j.Items[b].MatchPercentage()
	})
}

func (j *Jobs) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "jobs_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(j); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (j *Jobs) ToExcluded(actor, reason string) *ExcludedJobs {
	excluded := &ExcludedJobs{}
	now := time.Now().UTC()
	for _, job := range j.Items {
		excluded.Items = append(excluded.Items, &ExcludedJob{
			ID:         job.ID,
			URL:        job.URL,
			Company:    job.Company.Name,
			Actor:      actor,
			Reason:     reason,
			ExcludedAt: now,
		})
	}
	return excluded
}

// ReportByCompany groups job summaries under "<company> (<id>)".
func (j *Jobs) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, job := range j.Items {
		key := job.Company.Name
		if job.Company.ID != "" {
			key = fmt.Sprintf("%s (%s)", job.Company.Name, job.Company.ID)
		}

		entry := map[string]string{
			"title": job.Title,
			"url":   job.URL,
		}
		if job.Area != "" {
			entry["area"] = job.Area
		}
		if job.Salary != "" {
			entry["salary"] = job.Salary
		}
		if job.Match != nil {
			entry["match"] = strconv.Itoa(job.Match.MatchPercentage) + "%"
			entry["missing skills"] = strings.Join(job.Match.SkillsNotMatched, ", ")
		}
		if job.AI != nil {
			if job.AI.Error != "" {
				entry["ai_error"] = job.AI.Error
			} else {
				entry["ai_fit"] = strconv.FormatBool(job.AI.Fit)
				entry["ai_score"] = strconv.FormatFloat(job.AI.Score, 'f', -1, 64)
				entry["ai_reason"] = job.AI.Reason
				entry["ai_message"] = job.AI.Message
			}
		}

		report[key] = append(report[key], entry)
	}
	return report
}
