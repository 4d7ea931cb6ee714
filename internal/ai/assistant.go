// Package ai declares the AI collaborators used around the core extractor and scorer.
package ai

import (
	"context"

	"github.com/spigell/talentalign/internal/jobs"
	"github.com/spigell/talentalign/internal/resume"
)

type FitAssessment struct {
	Fit     bool
	Score   float64
	Reason  string
	Message string
	Raw     string
}

// ToJob converts the assessment to the form stored on a job.
func (a *FitAssessment) ToJob() *jobs.AIAssessment {
	return &jobs.AIAssessment{
		Fit:     a.Fit,
		Score:   a.Score,
		Reason:  a.Reason,
		Message: a.Message,
		Raw:     a.Raw,
	}
}

// Matcher judges whether a candidate fits a job.
type Matcher interface {
	Evaluate(ctx context.Context, profile *resume.Profile, job *jobs.Job) (*FitAssessment, error)
}
