package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/talentalign/internal/document"
	"github.com/spigell/talentalign/internal/logger"
	"github.com/spigell/talentalign/internal/resume"
)

// parseResult is one entry of the parse command output.
type parseResult struct {
	File    string          `json:"file"`
	Profile *resume.Profile `json:"profile,omitempty"`
	Error   string          `json:"error,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Extract candidate profiles from resume files (pdf, docx, txt)",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parse(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringP("strategy", "s", strategyHeuristic, "parser strategy: heuristic or ai (ai falls back to heuristic)")
	parseCmd.Flags().IntP("concurrency", "c", 4, "number of files parsed at once")
	parseCmd.Flags().Int64("max-file-size", document.DefaultMaxSize, "maximum resume file size in bytes")
	parseCmd.Flags().StringP("output", "o", "", "write profiles to this file instead of stdout")

	viper.BindPFlag("parser.strategy", parseCmd.Flags().Lookup("strategy"))
	viper.BindPFlag("parser.concurrency", parseCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("parser.max-file-size", parseCmd.Flags().Lookup("max-file-size"))
}

func parse(cmd *cobra.Command, files []string) {
	ctx := cmd.Context()
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	parser, err := newResumeParser(ctx, config, l)
	if err != nil {
		l.Fatal("creating a resume parser", zap.Error(err))
	}

	l.Info("parsing resumes",
		zap.Int("files", len(files)),
		zap.String(logger.FieldParser, parser.Name()),
		zap.Int("concurrency", config.Parser.Concurrency),
	)

	results, err := parseFiles(ctx, parser, files, config.Parser, l)
	if err != nil {
		l.Fatal("parsing resumes", zap.Error(err))
	}

	path, _ := cmd.Flags().GetString("output")
	if err := writeResults(path, results); err != nil {
		l.Fatal("writing profiles", zap.Error(err))
	}

	failed := 0
	for _, result := range results {
		if result.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		l.Error("some resumes could not be parsed", zap.Int("failed", failed), zap.Int("total", len(results)))
		os.Exit(1)
	}
}

// parseFiles decodes and parses files concurrently. A file that fails
// is reported in its result; only cancellation stops the whole run.
// Results keep the order of files.
func parseFiles(ctx context.Context, parser resume.Parser, files []string, cfg ParserConfig, l *zap.Logger) ([]parseResult, error) {
	results := make([]parseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Concurrency > 0 {
		g.SetLimit(cfg.Concurrency)
	}

	for idx, path := range files {
		g.Go(func() error {
			fileLogger := logger.ForFile(l, path, parser.Name())
			results[idx] = parseResult{File: path}

			profile, err := parseFile(gctx, parser, path, cfg.MaxFileSize, fileLogger)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				fileLogger.Warn("failed to parse resume", zap.Error(err))
				results[idx].Error = err.Error()
				return nil
			}

			fileLogger.Info("resume parsed",
				zap.String("role", profile.Role),
				zap.Int("skills", len(profile.Skills)),
			)
			results[idx].Profile = profile
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func parseFile(ctx context.Context, parser resume.Parser, path string, maxSize int64, l *zap.Logger) (*resume.Profile, error) {
	text, err := document.DecodeFile(path, document.WithMaxSize(maxSize))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	l.Debug("resume decoded",
		zap.Int("text_length", len(text)),
		zap.String("skills_section", resume.SkillsSection(text)),
	)

	profile, err := parser.Parse(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	profile.Normalize()
	return profile, nil
}

// writeResults writes results to path, or to stdout when path is empty.
// The file is closed before returning.
func writeResults(path string, results []parseResult) error {
	if path == "" {
		return writeJSON(os.Stdout, results)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := writeJSON(file, results); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
