package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/jobs"
)

type aiFitFilter struct {
	toggle
	config      *AIConfig
	excludeFile string
}

// NewAIFit creates the AI-based filtering step. Jobs the matcher rejects
// are dropped and recorded in the exclude file.
func NewAIFit() Filter {
	return &aiFitFilter{}
}

func (f *aiFitFilter) Name() string { return "ai_fit" }

func (f *aiFitFilter) Validate(cfg *Config) error {
	f.config = nil
	f.excludeFile = ""
	if cfg != nil {
		f.config = cfg.AI
		f.excludeFile = strings.TrimSpace(cfg.ExcludeFile)
	}
	if f.config == nil {
		return fmt.Errorf("ai configuration is required when ai filter is enabled")
	}
	if strings.TrimSpace(f.config.Model) == "" {
		return fmt.Errorf("ai model is required when ai filter is enabled")
	}
	return nil
}

func (f *aiFitFilter) Apply(ctx context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := j.Len()
	if deps.Matcher == nil {
		deps.Logger.Info("ai matcher is not configured; skipping ai_fit filter")
		return j, unchanged(j), nil
	}
	if deps.Profile == nil {
		return j, Step{}, fmt.Errorf("candidate profile is required for AI evaluation")
	}

	approved := make([]*jobs.Job, 0, initial)
	for _, job := range j.Items {
		if err := ctx.Err(); err != nil {
			return j, Step{}, err
		}

		assessment, err := deps.Matcher.Evaluate(ctx, deps.Profile, job)
		if err != nil {
			deps.Logger.Warn("AI evaluation failed",
				zap.String("job_id", job.ID),
				zap.Error(err),
			)
			job.AI = &jobs.AIAssessment{Error: err.Error()}
			approved = append(approved, job)
			continue
		}

		job.AI = assessment.ToJob()

		if !assessment.Fit {
			deps.Logger.Info("job rejected by AI provider",
				zap.String("job_id", job.ID),
				zap.Float64("ai_score", assessment.Score),
				zap.String("reason", assessment.Reason),
			)

			if err := f.appendToExcludeFile(deps.Logger, job, assessment.Reason); err != nil {
				deps.Logger.Warn("failed to append job to exclude file",
					zap.String("job_id", job.ID),
					zap.Error(err),
				)
			}
			continue
		}

		deps.Logger.Info("job approved by AI",
			zap.String("job_id", job.ID),
			zap.Float64("ai_score", assessment.Score),
		)
		approved = append(approved, job)
	}

	j.Items = approved

	left := j.Len()
	return j, Step{Initial: initial, Dropped: initial - left, Left: left}, nil
}

func (f *aiFitFilter) appendToExcludeFile(logger *zap.Logger, job *jobs.Job, reason string) error {
	if f.excludeFile == "" {
		return nil
	}

	if err := jobs.AppendToFile(f.excludeFile, jobs.New(job).ToExcluded(jobs.ExcludeActorAI, reason)); err != nil {
		return fmt.Errorf("write excluded jobs: %w", err)
	}

	logger.Info("job appended to exclude file",
		zap.String("job_id", job.ID),
		zap.String("exclude_file", f.excludeFile),
	)

	return nil
}

func (f *aiFitFilter) Status() Status {
	details := map[string]string{}
	if f.config != nil {
		details["minimum_fit_score"] = fmt.Sprintf("%.2f", f.config.MinimumFitScore)
		details["provider"] = f.config.Provider
		details["model"] = f.config.Model
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
