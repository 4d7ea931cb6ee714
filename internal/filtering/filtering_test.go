package filtering

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/talentalign/internal/ai"
	"github.com/spigell/talentalign/internal/headhunter"
	"github.com/spigell/talentalign/internal/jobs"
	"github.com/spigell/talentalign/internal/resume"
)

type stubMatcher struct {
	verdicts map[string]bool
	failures map[string]error
	calls    []string
}

func (m *stubMatcher) Evaluate(_ context.Context, _ *resume.Profile, job *jobs.Job) (*ai.FitAssessment, error) {
	m.calls = append(m.calls, job.ID)
	if err := m.failures[job.ID]; err != nil {
		return nil, err
	}
	fit := m.verdicts[job.ID]
	score := 0.2
	if fit {
		score = 0.9
	}
	return &ai.FitAssessment{Fit: fit, Score: score, Reason: "stub verdict " + job.ID}, nil
}

func sampleJobs() *jobs.Jobs {
	return jobs.New(
		&jobs.Job{ID: "1", Title: "Platform Engineer", Company: jobs.Company{ID: "c1", Name: "Acme"}, Description: "Docker, Kubernetes and Terraform"},
		&jobs.Job{ID: "2", Title: "Frontend Engineer", Company: jobs.Company{ID: "c2", Name: "Globex"}, Description: "React and Python"},
		&jobs.Job{ID: "3", Title: "SRE", Company: jobs.Company{ID: "c3", Name: "Initech"}, Description: "Docker and Kubernetes"},
		&jobs.Job{ID: "4", Title: "DevOps", Company: jobs.Company{ID: "c4", Name: "Banned Corp"}, Description: "Docker"},
		&jobs.Job{ID: "5", Title: "DevOps", Company: jobs.Company{ID: "c5", Name: "Hooli"}, Description: "Kubernetes"},
	)
}

func jobIDs(j *jobs.Jobs) []string {
	ids := make([]string, 0, j.Len())
	for _, job := range j.Items {
		ids = append(ids, job.ID)
	}
	return ids
}

func writeExcludeFile(t *testing.T, ids ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "excluded.json")
	list := make([]*jobs.Job, 0, len(ids))
	for _, id := range ids {
		list = append(list, &jobs.Job{ID: id})
	}
	if err := jobs.New(list...).ToExcluded(jobs.ExcludeActorUser, "test").ToFile(path); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}
	return path
}

func TestRunDefaultPipeline(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	cfg := &Config{
		Companies:    []string{"banned corp"},
		ExcludeFile:  writeExcludeFile(t, "5"),
		MinimumMatch: 1,
	}
	deps := Deps{
		Logger:  zap.New(core),
		Profile: &resume.Profile{Skills: []string{"docker", "kubernetes"}},
	}

	steps := Default(true)
	DisableByName(steps, "ai_fit", "no ai configured")

	result, err := Run(context.Background(), cfg, deps, steps, sampleJobs())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := jobIDs(result); !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Fatalf("unexpected jobs left %v", got)
	}
	if result.Items[0].MatchPercentage() != 100 || result.Items[1].MatchPercentage() != 67 {
		t.Fatalf("unexpected match percentages %d, %d", result.Items[0].MatchPercentage(), result.Items[1].MatchPercentage())
	}
	if !reflect.DeepEqual(result.Items[1].Match.SkillsNotMatched, []string{"Terraform"}) {
		t.Fatalf("unexpected missing skills %v", result.Items[1].Match.SkillsNotMatched)
	}

	if logs.FilterMessage("filter step").Len() != 4 {
		t.Fatalf("expected 4 executed steps, got %d", logs.FilterMessage("filter step").Len())
	}
	if logs.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected disabled ai_fit step to be logged")
	}
}

func TestRunValidatesBeforeApplying(t *testing.T) {
	t.Parallel()

	matcher := &stubMatcher{}
	_, err := Run(context.Background(), &Config{MinimumMatch: 120}, Deps{
		Profile: &resume.Profile{Skills: []string{"Go"}},
		Matcher: matcher,
	}, []Filter{NewAIFit(), NewSkillMatch()}, sampleJobs())
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if len(matcher.calls) != 0 {
		t.Fatalf("no step must run when validation fails, got calls %v", matcher.calls)
	}
}

func TestSkillMatchRequiresSkills(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), &Config{}, Deps{Profile: &resume.Profile{}}, []Filter{NewSkillMatch()}, sampleJobs())
	if err == nil {
		t.Fatalf("expected error without candidate skills")
	}
}

func TestSkillMatchKeepsZeroWhenMinimumIsZero(t *testing.T) {
	t.Parallel()

	result, err := Run(context.Background(), &Config{}, Deps{
		Profile: &resume.Profile{Skills: []string{"docker", "kubernetes"}},
	}, []Filter{NewSkillMatch()}, sampleJobs())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Len() != 5 {
		t.Fatalf("expected all jobs kept, got %v", jobIDs(result))
	}
	if last := result.Items[result.Len()-1]; last.ID != "2" || last.MatchPercentage() != 0 {
		t.Fatalf("expected the unmatched job last, got %s with %d%%", last.ID, last.MatchPercentage())
	}
}

func TestAIFitRejectsAndRecords(t *testing.T) {
	t.Parallel()

	excludePath := filepath.Join(t.TempDir(), "excluded.json")
	matcher := &stubMatcher{
		verdicts: map[string]bool{"1": true, "3": false},
		failures: map[string]error{"2": errors.New("quota exceeded")},
	}
	list := jobs.New(sampleJobs().Items[:3]...)

	result, err := Run(context.Background(), &Config{
		ExcludeFile: excludePath,
		AI:          &AIConfig{Provider: "gemini", Model: "gemini-2.5-flash"},
	}, Deps{Profile: &resume.Profile{Skills: []string{"Go"}}, Matcher: matcher}, []Filter{NewAIFit()}, list)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := jobIDs(result); !reflect.DeepEqual(got, []string{"1", "2"}) {
		t.Fatalf("unexpected jobs left %v", got)
	}
	if !result.Items[0].AI.Fit || result.Items[0].AI.Score != 0.9 {
		t.Fatalf("unexpected assessment %+v", result.Items[0].AI)
	}
	if result.Items[1].AI.Error != "quota exceeded" {
		t.Fatalf("failed evaluation must be recorded, got %+v", result.Items[1].AI)
	}

	excluded, err := jobs.LoadExcluded(excludePath)
	if err != nil {
		t.Fatalf("load exclude file: %v", err)
	}
	if !reflect.DeepEqual(excluded.IDs(), []string{"3"}) || excluded.Items[0].Actor != jobs.ExcludeActorAI {
		t.Fatalf("unexpected exclude file %+v", excluded.Items)
	}
}

func TestAIFitRequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), &Config{}, Deps{}, []Filter{NewAIFit()}, sampleJobs())
	if err == nil {
		t.Fatalf("expected error without ai configuration")
	}
}

func TestAIFitSkipsWithoutMatcher(t *testing.T) {
	t.Parallel()

	result, err := Run(context.Background(), &Config{AI: &AIConfig{Model: "gemini-2.5-flash"}}, Deps{}, []Filter{NewAIFit()}, sampleJobs())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Len() != 5 {
		t.Fatalf("expected jobs untouched, got %d", result.Len())
	}
}

func TestAppliedHistory(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/negotiations" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{{"id": "n1", "vacancy": map[string]any{"id": "2"}}},
			"pages": 1,
		})
	}))
	t.Cleanup(server.Close)

	client := headhunter.New(zap.NewNop(), "token")
	client.APIURL = server.URL
	client.HTTPClient = server.Client()

	result, err := Run(context.Background(), &Config{}, Deps{HH: client}, []Filter{NewAppliedHistory(false)}, sampleJobs())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := jobIDs(result); !reflect.DeepEqual(got, []string{"1", "3", "4", "5"}) {
		t.Fatalf("unexpected jobs left %v", got)
	}

	anonymous := headhunter.New(zap.NewNop(), "")
	result, err = Run(context.Background(), &Config{}, Deps{HH: anonymous}, []Filter{NewAppliedHistory(false)}, sampleJobs())
	if err != nil {
		t.Fatalf("run without token: %v", err)
	}
	if result.Len() != 5 {
		t.Fatalf("expected check to be skipped without token, got %d jobs", result.Len())
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := Default(true)
	DisableByName(steps, "companies", "not needed")
	if err := steps[3].Validate(&Config{MinimumMatch: 40}); err != nil {
		t.Fatalf("validate: %v", err)
	}

	statuses := Describe(steps)
	if len(statuses) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(statuses))
	}
	if statuses[1].Enabled || statuses[1].Reason != "not needed" {
		t.Fatalf("unexpected companies status %+v", statuses[1])
	}
	if statuses[3].Details["minimum_match"] != "40" {
		t.Fatalf("unexpected skill match details %+v", statuses[3].Details)
	}
	if statuses[0].Details["exclude_applied"] != "true" {
		t.Fatalf("unexpected applied history details %+v", statuses[0].Details)
	}
}
