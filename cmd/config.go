package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/spigell/talentalign/internal/ai/gemini"
	"github.com/spigell/talentalign/internal/document"
	"github.com/spigell/talentalign/internal/filtering"
	"github.com/spigell/talentalign/internal/headhunter"
)

type Config struct {
	Search       *headhunter.SearchParams `mapstructure:"search"`
	ExcludeFile  string                   `mapstructure:"exclude-file"`
	Companies    []string                 `mapstructure:"exclude-companies"`
	MinimumMatch int                      `mapstructure:"minimum-match" validate:"gte=0,lte=100"`
	UserAgent    string                   `mapstructure:"user-agent"`
	Token        string                   `mapstructure:"token" json:"-"`
	TokenFile    string                   `mapstructure:"token-file"`
	Resume       string                   `mapstructure:"resume"`
	DetailDelay  time.Duration            `mapstructure:"detail-delay" validate:"gte=0"`
	Parser       ParserConfig             `mapstructure:"parser"`
	AI           *AIConfig                `mapstructure:"ai"`
}

type ParserConfig struct {
	Strategy    string `mapstructure:"strategy" validate:"omitempty,oneof=heuristic ai"`
	Concurrency int    `mapstructure:"concurrency" validate:"gte=0,lte=64"`
	MaxFileSize int64  `mapstructure:"max-file-size" validate:"gte=0"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score" validate:"gte=0,lte=1"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
	Prompt          *PromptConfig `mapstructure:"prompt"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key" json:"-"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0,lte=10"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type PromptConfig struct {
	ExtraCriteria     string `mapstructure:"extra-criteria"`
	DealBreakers      string `mapstructure:"deal-breakers"`
	CustomKeywords    string `mapstructure:"custom-keywords"`
	Tone              string `mapstructure:"tone"`
	RegionConstraints string `mapstructure:"region-constraints"`
	UserInstructions  string `mapstructure:"user-instructions"`
}

var validate = validator.New()

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	config.applyDefaults()

	if err := validate.Struct(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.AI != nil && config.AI.Enabled && config.AI.Gemini == nil {
		return nil, fmt.Errorf("invalid config: ai.gemini section is required when ai is enabled")
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Parser.Strategy == "" {
		c.Parser.Strategy = strategyHeuristic
	}
	if c.Parser.Concurrency == 0 {
		c.Parser.Concurrency = 4
	}
	if c.Parser.MaxFileSize == 0 {
		c.Parser.MaxFileSize = document.DefaultMaxSize
	}
}

func (c *Config) filtering() *filtering.Config {
	cfg := &filtering.Config{
		Companies:    c.Companies,
		ExcludeFile:  c.ExcludeFile,
		MinimumMatch: c.MinimumMatch,
	}

	if c.AI != nil && c.AI.Enabled {
		cfg.AI = &filtering.AIConfig{
			Provider:        c.AI.Provider,
			MinimumFitScore: c.AI.MinimumFitScore,
		}
		if c.AI.Gemini != nil {
			cfg.AI.Model = c.AI.Gemini.Model
		}
		if cfg.AI.Model == "" {
			cfg.AI.Model = gemini.DefaultModel
		}
	}

	return cfg
}

// String renders the config for debug logs without secrets.
func (c *Config) String() string {
	pretty, _ := json.MarshalIndent(c, "", "  ")
	return string(pretty)
}
