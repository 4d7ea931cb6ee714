package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/ai"
	"github.com/spigell/talentalign/internal/jobs"
	"github.com/spigell/talentalign/internal/resume"
	"github.com/spigell/talentalign/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 500
	defaultTone             = "Friendly"
	emptyPreference         = "none"

	matcherSystemInstruction = "You are a recruiting assistant. Follow the template rules and answer with the requested JSON schema only."
)

// PromptOverrides are user preferences inserted into the fit prompt.
type PromptOverrides struct {
	ExtraCriteria     string
	DealBreakers      string
	CustomKeywords    string
	Tone              string
	RegionConstraints string
	UserInstructions  string
}

// Matcher asks Gemini whether a candidate profile fits a job.
type Matcher struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

var _ ai.Matcher = (*Matcher)(nil)

func NewMatcher(generator contentGenerator, minScore float64, maxLogLength int, logger *zap.Logger) *Matcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		generator: generator,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (m *Matcher) SetPromptOverrides(overrides PromptOverrides) {
	m.overrides = overrides
}

type jobPayload struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Company          string   `json:"company,omitempty"`
	Area             string   `json:"area,omitempty"`
	Salary           string   `json:"salary,omitempty"`
	Description      string   `json:"description,omitempty"`
	KeySkills        []string `json:"key_skills,omitempty"`
	MatchPercentage  *int     `json:"skill_match_percentage,omitempty"`
	SkillsNotMatched []string `json:"skills_not_matched,omitempty"`
}

func (m *Matcher) Evaluate(ctx context.Context, profile *resume.Profile, job *jobs.Job) (*ai.FitAssessment, error) {
	if profile == nil {
		return nil, fmt.Errorf("candidate profile is required")
	}
	if job == nil {
		return nil, fmt.Errorf("job is required")
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	payload := jobPayload{
		ID:          job.ID,
		Title:       job.Title,
		Company:     job.Company.Name,
		Area:        job.Area,
		Salary:      job.Salary,
		Description: job.Description,
		KeySkills:   job.KeySkills,
	}
	if job.Match != nil {
		percentage := job.Match.MatchPercentage
		payload.MatchPercentage = &percentage
		payload.SkillsNotMatched = job.Match.SkillsNotMatched
	}

	jobJSON, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := m.buildPrompt(string(profileJSON), string(jobJSON))

	m.logger.Debug("gemini generate content request",
		zap.String("job_id", job.ID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, matcherSystemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("gemini generate content response",
		zap.String("job_id", job.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if m.minScore > 0 && assessment.Score < m.minScore {
		m.logger.Debug("set fit to false by score threshold",
			zap.String("job_id", job.ID),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", m.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func (m *Matcher) buildPrompt(profileJSON, jobJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidate:\n{{PROFILE_JSON}}\n\nJob:\n{{JOB_JSON}}\n\nJSON Response:"
	}

	tone := singleLine(m.overrides.Tone)
	if tone == "" {
		tone = defaultTone
	}

	replacer := strings.NewReplacer(
		"{{EXTRA_CRITERIA}}", orNone(singleLine(m.overrides.ExtraCriteria)),
		"{{DEAL_BREAKERS}}", orNone(singleLine(m.overrides.DealBreakers)),
		"{{CUSTOM_KEYWORDS}}", orNone(keywordList(m.overrides.CustomKeywords)),
		"{{TONE}}", tone,
		"{{REGION_CONSTRAINTS}}", orNone(singleLine(m.overrides.RegionConstraints)),
		"{{USER_INSTRUCTIONS}}", instructionsBlock(m.overrides.UserInstructions),
		"{{PROFILE_JSON}}", profileJSON,
		"{{JOB_JSON}}", jobJSON,
	)

	return replacer.Replace(template)
}

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")")

// singleLine flattens a preference to one line. Square brackets are
// turned into parentheses so user text cannot open a template section.
func singleLine(value string) string {
	return bracketReplacer.Replace(strings.Join(strings.Fields(value), " "))
}

func keywordList(value string) string {
	var keywords []string
	for _, keyword := range strings.Split(value, ",") {
		if keyword = singleLine(keyword); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return strings.Join(keywords, ", ")
}

func instructionsBlock(value string) string {
	value = strings.TrimSpace(value)
	if runes := []rune(value); len(runes) > maxUserInstructionRunes {
		value = string(runes[:maxUserInstructionRunes])
	}

	var lines []string
	for _, line := range strings.Split(value, "\n") {
		if line = singleLine(line); line != "" {
			lines = append(lines, "  - "+line)
		}
	}

	if len(lines) == 0 {
		return "  - " + emptyPreference
	}
	return strings.Join(lines, "\n")
}

func orNone(value string) string {
	if value == "" {
		return emptyPreference
	}
	return value
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:     coerceBool(data["fit"]),
		Score:   score,
		Reason:  coerceString(data["reason"]),
		Message: coerceString(data["message"]),
	}, nil
}

// extractJSON strips markdown fences and any text around the outermost object.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")

	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start > 0 && end > start {
		raw = raw[start : end+1]
	}

	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
