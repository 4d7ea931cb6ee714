package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/filtering"
	"github.com/spigell/talentalign/internal/headhunter"
	"github.com/spigell/talentalign/internal/jobs"
	"github.com/spigell/talentalign/internal/resume"
	"github.com/spigell/talentalign/internal/secrets"
)

const (
	PromptExit                = "Exit"
	PromptReportByCompanies   = "Report by companies"
	PromptJobsToFile          = "Dump jobs to file"
	PromptAppendToExcludeFile = "Append all jobs to exclude file"
	PromptExcludeOne          = "Exclude a single job"
	PromptBack                = "back"

	maxMissingSkillsInTable = 4
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score jobs against the candidate skills and rank them",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringSlice("skills", nil, "candidate skills, comma separated")
	matchCmd.Flags().StringP("profile", "p", "", "profile JSON produced by the parse command")
	matchCmd.Flags().String("resume", "", "title of the hh.ru resume to take skills from")
	matchCmd.Flags().StringSlice("jobs-file", nil, "JSON file with job listings (repeatable)")
	matchCmd.Flags().Bool("hh", false, "search jobs on hh.ru with the search section of the config")
	matchCmd.Flags().String("search", "", "hh.ru search text, implies --hh")
	matchCmd.Flags().Bool("details", true, "fetch full hh.ru vacancy descriptions")
	matchCmd.Flags().BoolP("do-not-exclude-applied", "f", false, "do not exclude vacancies if already applied")
	matchCmd.Flags().BoolP("yes", "y", false, "print the result and exit without the interactive menu")
	matchCmd.Flags().StringP("exclude-file", "e", "", "special file with jobs to exclude. Default is unset.")
	matchCmd.Flags().Int("minimum-match", 1, "drop jobs with a lower match percentage")

	viper.BindPFlag("exclude-file", matchCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("minimum-match", matchCmd.Flags().Lookup("minimum-match"))
	viper.BindPFlag("resume", matchCmd.Flags().Lookup("resume"))
	viper.BindPFlag("search.text", matchCmd.Flags().Lookup("search"))
}

func match(cmd *cobra.Command) {
	ctx := cmd.Context()
	l := newLogger()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Info("starting the talentalign", zap.String("version", version))
	l.Debug(fmt.Sprintf("starting with config: \n %s", config))

	token, err := secrets.Optional(secrets.Source{
		Name:  "hh.ru token",
		File:  config.TokenFile,
		Value: config.Token,
		Env:   "HH_TOKEN",
	})
	if err != nil {
		l.Fatal("loading hh.ru token", zap.Error(err))
	}

	hh := headhunter.New(l, token)
	hh.DetailDelay = config.DetailDelay
	if config.UserAgent != "" {
		hh.UserAgent = config.UserAgent
	}

	profile, err := candidateProfile(ctx, cmd, config, hh)
	if err != nil {
		l.Fatal("getting candidate skills", zap.Error(err))
	}

	l.Info("candidate skills", zap.Strings("skills", profile.Skills), zap.String("role", profile.Role))

	list, err := collectJobs(ctx, cmd, config, hh, l)
	if err != nil {
		l.Fatal("getting jobs", zap.Error(err))
	}

	if list.Len() == 0 {
		l.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	ignoreApplied, _ := cmd.Flags().GetBool("do-not-exclude-applied")
	steps := filtering.Default(!ignoreApplied)

	deps := filtering.Deps{HH: hh, Logger: l, Profile: profile}
	if config.AI != nil && config.AI.Enabled {
		matcher, err := newAIMatcher(ctx, config.AI, l)
		if err != nil {
			l.Warn("skipping AI filter", zap.Error(err))
			filtering.DisableByName(steps, "ai_fit", err.Error())
		}
		deps.Matcher = matcher
	} else {
		filtering.DisableByName(steps, "ai_fit", "ai is disabled in config")
	}

	list, err = filtering.Run(ctx, config.filtering(), deps, steps, list)
	if err != nil {
		l.Fatal("filtering failed", zap.Error(err))
	}

	for _, status := range filtering.Describe(steps) {
		l.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	if list.Len() == 0 {
		l.Info("exiting", zap.String("reason", "no jobs left after filters"))
		return
	}

	printTable(os.Stdout, list)

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return
	}

	for {
		prompt := promptui.Select{
			Label: "What next?",
			Items: menuItems(config),
		}

		_, action, err := prompt.Run()
		if err != nil {
			l.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, l, config, list); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			l.Fatal("exiting", zap.Error(err))
		}

		if list.Len() == 0 {
			l.Info("exiting", zap.String("reason", "no jobs left"))
			return
		}
	}
}

func menuItems(config *Config) []string {
	items := []string{PromptReportByCompanies, PromptJobsToFile}
	if config.ExcludeFile != "" {
		items = append(items, PromptExcludeOne, PromptAppendToExcludeFile)
	}
	return append(items, PromptExit)
}

func handleAction(action string, l *zap.Logger, config *Config, list *jobs.Jobs) error {
	switch action {
	case PromptExit:
		l.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(list.ReportByCompany(), "", "  ")
		l.Info(string(pretty), zap.Int("jobs count", list.Len()))
		return nil
	case PromptJobsToFile:
		filename, err := list.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		l.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptAppendToExcludeFile:
		return excludeJobs(l, config.ExcludeFile, list, list.Items)
	case PromptExcludeOne:
		return excludeOne(l, config.ExcludeFile, list)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func excludeOne(l *zap.Logger, excludeFile string, list *jobs.Jobs) error {
	items := make([]string, 0, list.Len()+1)
	for _, job := range list.Items {
		items = append(items, fmt.Sprintf("%s %s / %s / %d%%", job.ID, job.Title, job.Company.Name, job.MatchPercentage()))
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: append(items, PromptBack),
	}

	_, selected, err := jobPrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	id := strings.Split(selected, " ")[0]
	job := list.FindByID(id)
	if job == nil {
		return fmt.Errorf("there is no such job id %s", id)
	}

	return excludeJobs(l, excludeFile, list, []*jobs.Job{job})
}

func excludeJobs(l *zap.Logger, excludeFile string, list *jobs.Jobs, selected []*jobs.Job) error {
	picked := jobs.New(selected...)
	if err := jobs.AppendToFile(excludeFile, picked.ToExcluded(jobs.ExcludeActorUser, "")); err != nil {
		return fmt.Errorf("append to exclude file: %w", err)
	}

	ids := make([]string, 0, picked.Len())
	for _, job := range picked.Items {
		ids = append(ids, job.ID)
	}
	list.Exclude(jobs.IDField, ids)

	l.Info("appended to exclude file", zap.String("filename", excludeFile), zap.Int("count", len(ids)))
	return nil
}

// candidateProfile collects skills from the profile file, the --skills
// flag and, when neither gives any, the configured hh.ru resume.
func candidateProfile(ctx context.Context, cmd *cobra.Command, config *Config, hh *headhunter.Client) (*resume.Profile, error) {
	profile := &resume.Profile{}

	if path, _ := cmd.Flags().GetString("profile"); path != "" {
		loaded, err := loadProfile(path)
		if err != nil {
			return nil, err
		}
		profile = loaded
	}

	extra, _ := cmd.Flags().GetStringSlice("skills")
	profile.Skills = append(profile.Skills, extra...)
	profile.Normalize()

	if len(profile.Skills) > 0 {
		return profile, nil
	}

	if config.Resume == "" {
		return nil, errors.New("no skills given: use --skills, --profile or --resume")
	}
	if !hh.HasToken() {
		return nil, errors.New("hh.ru token is required to read resume skills")
	}

	resumes, err := hh.GetMineResumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting mine resumes: %w", err)
	}

	selected := resumes.FindByTitle(config.Resume)
	if selected == nil {
		return nil, fmt.Errorf("resume %q not found, existing titles: %s", config.Resume, strings.Join(resumes.Titles(), ", "))
	}

	skills, err := hh.GetResumeSkills(ctx, selected.ID)
	if err != nil {
		return nil, err
	}

	profile.Skills = skills
	profile.Role = selected.Title
	profile.Normalize()

	if len(profile.Skills) == 0 {
		return nil, fmt.Errorf("resume %q has no skills", config.Resume)
	}

	return profile, nil
}

// loadProfile reads a single profile or the first parsed profile from
// the parse command output.
func loadProfile(path string) (*resume.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var results []parseResult
	if err := json.Unmarshal(data, &results); err == nil {
		for _, result := range results {
			if result.Profile != nil {
				return result.Profile, nil
			}
		}
		return nil, fmt.Errorf("profile file %s has no parsed profiles", path)
	}

	var profile resume.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", path, err)
	}

	return &profile, nil
}

func collectJobs(ctx context.Context, cmd *cobra.Command, config *Config, hh *headhunter.Client, l *zap.Logger) (*jobs.Jobs, error) {
	list := &jobs.Jobs{}

	files, _ := cmd.Flags().GetStringSlice("jobs-file")
	for _, path := range files {
		loaded, err := jobs.LoadFile(path)
		if err != nil {
			return nil, err
		}
		l.Info("loaded jobs from file", zap.String("file", path), zap.Int("count", loaded.Len()))
		list.Append(loaded)
	}

	useHH, _ := cmd.Flags().GetBool("hh")
	if cmd.Flags().Changed("search") {
		useHH = true
	}

	if useHH || len(files) == 0 {
		if config.Search == nil {
			return nil, errors.New("no jobs source: use --jobs-file or configure the search section")
		}

		details, _ := cmd.Flags().GetBool("details")
		l.Info("starting the search", zap.String("search", config.Search.Text))

		found, err := hh.SearchJobs(ctx, config.Search, details)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		list.Append(found)
	}

	if dropped := list.Deduplicate(); dropped > 0 {
		l.Info("dropped duplicate jobs", zap.Int("count", dropped))
	}

	return list, nil
}

func printTable(w io.Writer, list *jobs.Jobs) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tID\tTITLE\tCOMPANY\tMISSING SKILLS\tAI\tURL")

	for _, job := range list.Items {
		fmt.Fprintf(tw, "%d%%\t%s\t%s\t%s\t%s\t%s\t%s\n",
			job.MatchPercentage(),
			job.ID,
			job.Title,
			job.Company.Name,
			missingSkills(job),
			aiColumn(job),
			job.URL,
		)
	}

	tw.Flush()
}

func missingSkills(job *jobs.Job) string {
	if job.Match == nil || len(job.Match.SkillsNotMatched) == 0 {
		return "-"
	}

	missing := job.Match.SkillsNotMatched
	if len(missing) > maxMissingSkillsInTable {
		return strings.Join(missing[:maxMissingSkillsInTable], ", ") + " +" + strconv.Itoa(len(missing)-maxMissingSkillsInTable)
	}
	return strings.Join(missing, ", ")
}

func aiColumn(job *jobs.Job) string {
	switch {
	case job.AI == nil:
		return "-"
	case job.AI.Error != "":
		return "error"
	default:
		return strconv.FormatFloat(job.AI.Score, 'f', 2, 64)
	}
}
