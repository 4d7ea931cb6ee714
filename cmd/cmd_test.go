package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/document"
	"github.com/spigell/talentalign/internal/jobs"
	"github.com/spigell/talentalign/internal/matching"
	"github.com/spigell/talentalign/internal/resume"
)

func configFrom(t *testing.T, yaml string) (*Config, error) {
	t.Helper()

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(yaml)); err != nil {
		t.Fatalf("read config: %v", err)
	}
	return decodeConfig(v)
}

func TestDecodeConfigDefaults(t *testing.T) {
	config, err := configFrom(t, "exclude-file: excluded.json\nminimum-match: 30\n")
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}

	if config.Parser.Strategy != strategyHeuristic || config.Parser.Concurrency != 4 {
		t.Fatalf("unexpected parser defaults: %+v", config.Parser)
	}
	if config.Parser.MaxFileSize != document.DefaultMaxSize {
		t.Fatalf("unexpected max file size %d", config.Parser.MaxFileSize)
	}

	filterConfig := config.filtering()
	if filterConfig.MinimumMatch != 30 || filterConfig.ExcludeFile != "excluded.json" || filterConfig.AI != nil {
		t.Fatalf("unexpected filtering config: %+v", filterConfig)
	}
}

func TestDecodeConfigValidation(t *testing.T) {
	tests := []string{
		"minimum-match: 101\n",
		"parser:\n  strategy: magic\n",
		"ai:\n  enabled: true\n",
		"ai:\n  enabled: true\n  minimum-fit-score: 2\n  gemini:\n    model: x\n",
		"ai:\n  provider: openai\n",
	}

	for _, yaml := range tests {
		if _, err := configFrom(t, yaml); err == nil {
			t.Fatalf("expected validation error for %q", yaml)
		}
	}
}

func TestDecodeConfigAI(t *testing.T) {
	config, err := configFrom(t, `
detail-delay: 500ms
search:
  text: golang
  per_page: "50"
ai:
  enabled: true
  minimum-fit-score: 0.6
  gemini:
    api-key: secret
  prompt:
    tone: formal
`)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}

	if config.Search == nil || config.Search.Text != "golang" || config.Search.PerPage != "50" {
		t.Fatalf("unexpected search params: %+v", config.Search)
	}
	if config.DetailDelay.Milliseconds() != 500 {
		t.Fatalf("unexpected detail delay %v", config.DetailDelay)
	}

	filterConfig := config.filtering()
	if filterConfig.AI == nil || filterConfig.AI.Model == "" || filterConfig.AI.MinimumFitScore != 0.6 {
		t.Fatalf("unexpected ai filter config: %+v", filterConfig.AI)
	}

	if strings.Contains(config.String(), "secret") {
		t.Fatalf("config dump must not contain the api key")
	}
}

func TestParseFilesKeepsOrderAndReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "jane.txt")
	if err := os.WriteFile(good, []byte("Jane Doe\njane.doe@example.com\nSkills: Go, Docker"), 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	results, err := parseFiles(context.Background(), resume.NewHeuristic(nil), []string{empty, good},
		ParserConfig{Concurrency: 2, MaxFileSize: document.DefaultMaxSize}, zap.NewNop())
	if err != nil {
		t.Fatalf("parse files: %v", err)
	}

	if len(results) != 2 || results[0].File != empty || results[1].File != good {
		t.Fatalf("unexpected results order: %+v", results)
	}
	if results[0].Error == "" || results[0].Profile != nil {
		t.Fatalf("expected error for empty file: %+v", results[0])
	}
	if results[1].Profile == nil || results[1].Profile.Email != "jane.doe@example.com" {
		t.Fatalf("unexpected profile: %+v", results[1].Profile)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()

	list := filepath.Join(dir, "profiles.json")
	if err := os.WriteFile(list, []byte(`[{"file": "a.pdf", "error": "bad"}, {"file": "b.pdf", "profile": {"skills": ["Go"]}}]`), 0o600); err != nil {
		t.Fatalf("write profiles: %v", err)
	}

	profile, err := loadProfile(list)
	if err != nil {
		t.Fatalf("load profile list: %v", err)
	}
	if len(profile.Skills) != 1 || profile.Skills[0] != "Go" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	single := filepath.Join(dir, "profile.json")
	if err := os.WriteFile(single, []byte(`{"name": "Jane", "skills": ["React"]}`), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	profile, err = loadProfile(single)
	if err != nil {
		t.Fatalf("load single profile: %v", err)
	}
	if profile.Name != "Jane" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	if _, err := loadProfile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestPrintTable(t *testing.T) {
	list := jobs.New(&jobs.Job{
		ID:      "1",
		Title:   "Go Developer",
		Company: jobs.Company{Name: "Acme"},
		Match:   &matching.Result{MatchPercentage: 40, SkillsNotMatched: []string{"A", "B", "C", "D", "E", "F"}},
		AI:      &jobs.AIAssessment{Score: 0.75},
	})

	var buf bytes.Buffer
	printTable(&buf, list)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "MATCH") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
	for _, want := range []string{"40%", "Go Developer", "A, B, C, D +2", "0.75"} {
		if !strings.Contains(lines[1], want) {
			t.Fatalf("expected %q in row %q", want, lines[1])
		}
	}
}

func TestWriteResultsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.json")
	results := []parseResult{{File: "a.txt", Error: "decode: empty document"}}

	if err := writeResults(path, results); err != nil {
		t.Fatalf("write results: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `"decode: empty document"`) {
		t.Fatalf("unexpected output %s", data)
	}

	if err := writeResults(filepath.Join(t.TempDir(), "missing", "out.json"), results); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
