package resume

import (
	"context"
	"errors"
	"fmt"

	"github.com/spigell/talentalign/internal/skills"
	"go.uber.org/zap"
)

// Extract builds a profile from raw resume text using the built-in
// heuristics and the resume dictionary. It never fails: anything that
// cannot be found is left empty.
func Extract(raw string) Profile {
	return extract(raw, skills.Resume())
}

func extract(raw string, dict *skills.Dictionary) Profile {
	text := normalize(raw, dict)

	profile := Profile{
		Name:       extractName(text),
		Email:      extractEmail(text),
		Phone:      extractPhone(text),
		LinkedIn:   FormatURL(LinkedIn, extractLink(text, LinkedIn)),
		GitHub:     FormatURL(GitHub, extractLink(text, GitHub)),
		Portfolio:  FormatURL(Portfolio, extractLink(text, Portfolio)),
		Experience: extractExperience(text),
		Skills:     extractSkills(text, dict),
	}
	profile.Role = detectRole(text, profile.Skills)
	profile.Normalize()

	return profile
}

// Heuristic is the rule-based Parser.
type Heuristic struct {
	dict *skills.Dictionary
}

// NewHeuristic returns a heuristic parser over dict, or over the
// built-in resume dictionary when dict is nil.
func NewHeuristic(dict *skills.Dictionary) *Heuristic {
	if dict == nil {
		dict = skills.Resume()
	}

	return &Heuristic{dict: dict}
}

func (h *Heuristic) Name() string {
	return "heuristic"
}

func (h *Heuristic) Parse(ctx context.Context, text string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile := extract(text, h.dict)
	return &profile, nil
}

type fallbackParser struct {
	primary   Parser
	secondary Parser
	logger    *zap.Logger
}

// Fallback returns a parser that uses secondary whenever primary fails.
func Fallback(primary, secondary Parser, logger *zap.Logger) Parser {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &fallbackParser{primary: primary, secondary: secondary, logger: logger}
}

func (f *fallbackParser) Name() string {
	return fmt.Sprintf("%s+%s", f.primary.Name(), f.secondary.Name())
}

func (f *fallbackParser) Parse(ctx context.Context, text string) (*Profile, error) {
	profile, err := f.primary.Parse(ctx, text)
	if err == nil {
		profile.Normalize()
		return profile, nil
	}

	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	f.logger.Warn("resume parser failed, falling back",
		zap.String("parser", f.primary.Name()),
		zap.String("fallback", f.secondary.Name()),
		zap.Error(err),
	)

	profile, fallbackErr := f.secondary.Parse(ctx, text)
	if fallbackErr != nil {
		return nil, fmt.Errorf("fallback parser %s: %w", f.secondary.Name(), errors.Join(err, fallbackErr))
	}

	profile.Normalize()
	return profile, nil
}
