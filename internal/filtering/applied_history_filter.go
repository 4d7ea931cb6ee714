package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/jobs"
)

const forceFlagSetMsg = "force flag is set"

type appliedHistoryFilter struct {
	toggle
	ignore bool
}

// NewAppliedHistory creates a filter that removes hh.ru vacancies found in negotiation history.
func NewAppliedHistory(ignore bool) Filter {
	return &appliedHistoryFilter{ignore: ignore}
}

func (f *appliedHistoryFilter) Name() string { return "applied_history" }

func (f *appliedHistoryFilter) Validate(*Config) error { return nil }

func (f *appliedHistoryFilter) Apply(ctx context.Context, deps Deps, j *jobs.Jobs) (*jobs.Jobs, Step, error) {
	initial := j.Len()
	if f.ignore {
		deps.Logger.Info("ignoring already applied vacancies", zap.String("reason", forceFlagSetMsg))
		return j, unchanged(j), nil
	}

	if deps.HH == nil || !deps.HH.HasToken() {
		deps.Logger.Info("skipping applied history check", zap.String("reason", "no hh.ru token"))
		return j, unchanged(j), nil
	}

	negotiations, err := deps.HH.GetNegotiations(ctx)
	if err != nil {
		return j, Step{}, fmt.Errorf("get my negotiations: %w", err)
	}

	excluded := j.Exclude(jobs.IDField, negotiations.VacanciesIDs())
	if len(excluded) > 0 {
		deps.Logger.Info("excluding vacancies based on my negotiations",
			zap.Strings("excluded_jobs", excluded),
			zap.Int("jobs_left", j.Len()),
		)
	}

	return j, Step{Initial: initial, Dropped: len(excluded), Left: j.Len()}, nil
}

func (f *appliedHistoryFilter) Status() Status {
	details := map[string]string{
		"exclude_applied": strconv.FormatBool(!f.ignore),
	}
	reason := f.reason
	if f.ignore && reason == "" {
		reason = "skip requested via flag"
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: reason, Details: details}
}
