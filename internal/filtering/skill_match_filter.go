package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/jobs"
	"github.com/spigell/talentalign/internal/matching"
)

type skillMatchFilter struct {
	toggle
	minimum int
}

// NewSkillMatch creates the step that scores every job against the
// candidate skills, drops jobs under the minimum match and sorts the
// rest best first.
func NewSkillMatch() Filter {
	return &skillMatchFilter{}
}

func (f *skillMatchFilter) Name() string { return "skill_match" }

func (f *skillMatchFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg != nil {
		f.minimum = cfg.MinimumMatch
	}
	if f.minimum < 0 || f.minimum > 100 {
		return fmt.Errorf("minimum match must be within 0..100, got %d", f.minimum)
	}
	return nil
}

func (f *skillMatchFilter) Apply(_ context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := j.Len()
	if deps.Profile == nil || len(deps.Profile.Skills) == 0 {
		return j, Step{}, fmt.Errorf("candidate skills are required")
	}

	scorer := deps.Scorer
	if scorer == nil {
		scorer = matching.NewScorer(nil)
	}

	kept := make([]*jobs.Job, 0, initial)
	var dropped []string
	for _, job := range j.Items {
		result := scorer.Score(deps.Profile.Skills, job.MatchInput())
		job.Match = &result

		if result.MatchPercentage < f.minimum {
			dropped = append(dropped, job.ID)
			continue
		}
		kept = append(kept, job)
	}

	j.Items = kept
	j.SortByMatch()

	if len(dropped) > 0 {
		deps.Logger.Info("excluding jobs below minimum match",
			zap.Int("minimum_match", f.minimum),
			zap.Strings("excluded_jobs", dropped),
			zap.Int("jobs_left", j.Len()),
		)
	}

	return j, Step{Initial: initial, Dropped: len(dropped), Left: j.Len()}, nil
}

func (f *skillMatchFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"minimum_match": strconv.Itoa(f.minimum)},
	}
}
