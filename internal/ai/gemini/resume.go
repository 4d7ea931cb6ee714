package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/resume"
	"github.com/spigell/talentalign/internal/utils"
)

//go:embed resume_prompt.md
var resumePromptTemplate string

const resumeSystemInstruction = "You extract structured data from resumes and answer with JSON only."

var (
	rawURLPattern    = regexp.MustCompile(`https?://[^\s")\]]+`)
	validEmail       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	portfolioDomains = []string{"vercel", "netlify", "github.io"}
	skillRenames     = map[string]string{"shaden ui": "shadcn/ui"}
)

type parsedResume struct {
	Firstname        string `json:"firstname"`
	Lastname         string `json:"lastname"`
	About            string `json:"about"`
	Title            string `json:"title"`
	YearOfExperience any    `json:"yearOfExperience"`
	Skills           []any  `json:"skills"`
	SocialLinks      []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"socialLinks"`
	Contact struct {
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		LinkedIn  string `json:"linkedin"`
		GitHub    string `json:"github"`
		Portfolio string `json:"portfolio"`
		Leetcode  string `json:"leetcode"`
	} `json:"contact"`
}

// ResumeParser extracts a profile by asking Gemini to read the resume text.
type ResumeParser struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ resume.Parser = (*ResumeParser)(nil)

func NewResumeParser(generator contentGenerator, logger *zap.Logger) *ResumeParser {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ResumeParser{generator: generator, logger: logger, maxLogLen: defaultMaxLogLength}
}

func (p *ResumeParser) Name() string { return "gemini" }

func (p *ResumeParser) Parse(ctx context.Context, text string) (*resume.Profile, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("resume text is empty")
	}

	raw, err := p.generator.GenerateContent(ctx, resumeSystemInstruction, resumePromptTemplate+"\n"+text)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("gemini resume response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	var parsed parsedResume
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("gemini output could not be parsed into JSON: %w", err)
	}

	profile := parsed.toProfile(rawURLs(raw, text))
	profile.Normalize()

	return profile, nil
}

func (r *parsedResume) toProfile(urls []string) *resume.Profile {
	profile := &resume.Profile{
		Name:       strings.TrimSpace(strings.TrimSpace(r.Firstname) + " " + strings.TrimSpace(r.Lastname)),
		Phone:      r.Contact.Phone,
		Experience: experienceYears(r.YearOfExperience),
		Role:       r.Title,
	}

	if email := strings.TrimSpace(r.Contact.Email); validEmail.MatchString(email) {
		profile.Email = email
	}

	profile.LinkedIn = link(resume.LinkedIn, r.Contact.LinkedIn, r.socialLink("linkedin"), findURL(urls, "linkedin"))
	profile.GitHub = link(resume.GitHub, r.Contact.GitHub, r.socialLink("github"), findURL(urls, "github.com"))
	profile.Portfolio = link(resume.Portfolio, r.Contact.Portfolio, r.socialLink("portfolio"), findURL(urls, portfolioDomains...))

	for _, item := range r.Skills {
		skill := coerceString(item)
		if renamed, ok := skillRenames[strings.ToLower(skill)]; ok {
			skill = renamed
		}
		profile.Skills = append(profile.Skills, skill)
	}

	return profile
}

func (r *parsedResume) socialLink(name string) string {
	for _, social := range r.SocialLinks {
		if strings.EqualFold(strings.TrimSpace(social.Name), name) {
			return social.URL
		}
	}
	return ""
}

// link prefers the model's absolute URLs, then URLs found verbatim in
// the model output or resume, then the model's value made absolute.
func link(kind resume.LinkKind, contact, social, scraped string) string {
	for _, candidate := range []string{contact, social} {
		if isAbsoluteURL(candidate) {
			return strings.TrimSpace(candidate)
		}
	}
	if scraped != "" {
		return scraped
	}
	return resume.FormatURL(kind, contact)
}

func isAbsoluteURL(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), "http")
}

func rawURLs(texts ...string) []string {
	var urls []string
	seen := map[string]struct{}{}
	for _, text := range texts {
		for _, url := range rawURLPattern.FindAllString(text, -1) {
			url = strings.TrimRight(url, ".,;")
			if _, ok := seen[url]; ok {
				continue
			}
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}
	return urls
}

func findURL(urls []string, keywords ...string) string {
	for _, keyword := range keywords {
		for _, url := range urls {
			if strings.Contains(strings.ToLower(url), keyword) {
				return url
			}
		}
	}
	return ""
}

func experienceYears(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strings.TrimSpace(v)
	default:
		return ""
	}
}
