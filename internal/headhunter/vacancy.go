package headhunter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/spigell/talentalign/internal/jobs"
)

type Vacancies struct {
	Items []*Vacancy
}

type Vacancy struct {
	ID           string    `json:"id,omitempty"`
	Name         string    `json:"name,omitempty"`
	Area         Area      `json:"area,omitempty"`
	Salary       *Salary   `json:"salary,omitempty"`
	Experience   Reference `json:"experience,omitempty"`
	Schedule     Reference `json:"schedule,omitempty"`
	Employer     Employer  `json:"employer,omitempty"`
	AlternateURL string    `json:"alternate_url,omitempty"`
	Description  string    `json:"description,omitempty"`
	KeySkills    []struct {
		Name string `json:"name,omitempty"`
	} `json:"key_skills,omitempty"`
	Archived    bool    `json:"archived,omitempty"`
	Snippet     Snippet `json:"snippet,omitempty"`
	PublishedAt string  `json:"published_at,omitempty"`
}

type Area struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Salary struct {
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Currency string `json:"currency,omitempty"`
}

type Reference struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type Employer struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	AlternateURL string `json:"alternate_url,omitempty"`
}

type Snippet struct {
	Requirement    string `json:"requirement,omitempty"`
	Responsibility string `json:"responsibility,omitempty"`
}

// GetVacancy returns a vacancy with its full description and key skills.
func (c *Client) GetVacancy(ctx context.Context, id string) (*Vacancy, error) {
	if id == "" {
		return nil, fmt.Errorf("vacancy id is required")
	}

	var vacancy Vacancy
	apiURLVacancy := fmt.Sprintf("%s%s/%s", c.APIURL, SearchPath, url.PathEscape(id))
	if err := c.getJSON(ctx, apiURLVacancy, nil, &vacancy); err != nil {
		return nil, fmt.Errorf("get vacancy %s: %w", id, err)
	}

	return &vacancy, nil
}

func (v *Vacancies) Len() int {
	return len(v.Items)
}

func (v *Vacancies) ToJobs() *jobs.Jobs {
	result := &jobs.Jobs{Items: make([]*jobs.Job, 0, len(v.Items))}
	for _, vacancy := range v.Items {
		result.Items = append(result.Items, vacancy.ToJob())
	}
	return result
}

// ToJob converts the vacancy. Without a full description the search
// snippet is used instead.
func (va *Vacancy) ToJob() *jobs.Job {
	description := jobs.PlainText(va.Description)
	if description == "" {
		description = jobs.PlainText(va.Snippet.Requirement + "\n" + va.Snippet.Responsibility)
	}

	job := &jobs.Job{
		ID:     va.ID,
		Source: SourceName,
		Title:  va.Name,
		Company: jobs.Company{
			ID:   va.Employer.ID,
			Name: va.Employer.Name,
		},
		URL:         va.AlternateURL,
		Area:        va.Area.Name,
		Salary:      va.Salary.String(),
		Description: description,
		PublishedAt: va.PublishedAt,
	}

	for _, skill := range va.KeySkills {
		if name := strings.TrimSpace(skill.Name); name != "" {
			job.KeySkills = append(job.KeySkills, name)
		}
	}

	return job
}

func (s *Salary) String() string {
	if s == nil || (s.From == 0 && s.To == 0) {
		return ""
	}

	switch {
	case s.To == 0:
		return strings.TrimSpace(fmt.Sprintf("from %d %s", s.From, s.Currency))
	case s.From == 0:
		return strings.TrimSpace(fmt.Sprintf("up to %d %s", s.To, s.Currency))
	default:
		return strings.TrimSpace(fmt.Sprintf("%d-%d %s", s.From, s.To, s.Currency))
	}
}
