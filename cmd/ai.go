package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/ai"
	"github.com/spigell/talentalign/internal/ai/gemini"
	"github.com/spigell/talentalign/internal/logger"
	"github.com/spigell/talentalign/internal/resume"
	"github.com/spigell/talentalign/internal/secrets"
)

const (
	strategyHeuristic = "heuristic"
	strategyAI        = "ai"
)

func newGenerator(ctx context.Context, cfg *AIConfig, l *zap.Logger) (*gemini.Generator, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, fmt.Errorf("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(
		logger.WithCommonFields(l, "gemini", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:     apiKey,
		Model:      cfg.Gemini.Model,
		MaxRetries: cfg.Gemini.MaxRetries,
		Logger:     genLogger,
	})
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, l *zap.Logger) (ai.Matcher, error) {
	generator, err := newGenerator(ctx, cfg, l)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	matcherLogger := logger.WithFields(
		logger.WithCommonFields(l, "gemini", generator.Model()),
		zap.Float64("minimum_fit_score", minScore),
	)

	matcher := gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, matcherLogger)
	if cfg.Prompt != nil {
		matcher.SetPromptOverrides(gemini.PromptOverrides{
			ExtraCriteria:     cfg.Prompt.ExtraCriteria,
			DealBreakers:      cfg.Prompt.DealBreakers,
			CustomKeywords:    cfg.Prompt.CustomKeywords,
			Tone:              cfg.Prompt.Tone,
			RegionConstraints: cfg.Prompt.RegionConstraints,
			UserInstructions:  cfg.Prompt.UserInstructions,
		})
	}

	return matcher, nil
}

// newResumeParser returns the heuristic parser, or the Gemini parser
// backed by the heuristic one for the ai strategy.
func newResumeParser(ctx context.Context, config *Config, l *zap.Logger) (resume.Parser, error) {
	heuristic := resume.NewHeuristic(nil)

	switch config.Parser.Strategy {
	case strategyHeuristic:
		return heuristic, nil
	case strategyAI:
		generator, err := newGenerator(ctx, config.AI, l)
		if err != nil {
			return nil, fmt.Errorf("building ai resume parser: %w", err)
		}

		parserLogger := logger.WithCommonFields(l, "gemini", generator.Model())
		return resume.Fallback(gemini.NewResumeParser(generator, parserLogger), heuristic, l), nil
	default:
		return nil, fmt.Errorf("unknown parser strategy: %s", config.Parser.Strategy)
	}
}
