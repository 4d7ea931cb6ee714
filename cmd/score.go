package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/matching"
	"github.com/spigell/talentalign/internal/skills"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single job against the given skills and print the result as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringSlice("skills", nil, "candidate skills, comma separated")
	scoreCmd.Flags().String("title", "", "job title")
	scoreCmd.Flags().String("description", "", "job description")
	scoreCmd.Flags().String("key-skills", "", "job key skills as free text")
	scoreCmd.Flags().String("dictionary", "", "YAML skill dictionary to use instead of the built-in jobs dictionary")
}

func score(cmd *cobra.Command) {
	l := newLogger()

	userSkills, _ := cmd.Flags().GetStringSlice("skills")
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	keySkills, _ := cmd.Flags().GetString("key-skills")

	dict := skills.Jobs()
	if path, _ := cmd.Flags().GetString("dictionary"); path != "" {
		loaded, err := skills.LoadFile(path)
		if err != nil {
			l.Fatal("loading dictionary", zap.Error(err))
		}
		dict = loaded
	}

	job := matching.Job{Title: title, Description: description, KeySkills: keySkills}
	scorer := matching.NewScorer(dict)

	l.Debug("job skills", zap.Strings("skills", scorer.JobSkills(job)), zap.String("dictionary", dict.Name()))

	if err := writeJSON(os.Stdout, scorer.Score(userSkills, job)); err != nil {
		l.Fatal("writing result", zap.Error(err))
	}
}
