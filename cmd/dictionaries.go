package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentalign/internal/skills"
)

type dictionariesReport struct {
	Sizes      map[string]int      `json:"sizes"`
	Divergence skills.Divergence   `json:"divergence"`
	Entries    map[string][]string `json:"entries,omitempty"`
}

var dictionariesCmd = &cobra.Command{
	Use:   "dictionaries",
	Short: "Show the built-in skill dictionaries and how they differ",
	Run: func(cmd *cobra.Command, _ []string) {
		dictionaries(cmd)
	},
}

func init() {
	rootCmd.AddCommand(dictionariesCmd)

	dictionariesCmd.Flags().Bool("entries", false, "include every dictionary entry")
}

func dictionaries(cmd *cobra.Command) {
	l := newLogger()

	resumeDict, jobsDict := skills.Resume(), skills.Jobs()

	report := dictionariesReport{
		Sizes: map[string]int{
			resumeDict.Name(): resumeDict.Len(),
			jobsDict.Name():   jobsDict.Len(),
		},
		Divergence: skills.Compare(resumeDict, jobsDict),
	}

	if all, _ := cmd.Flags().GetBool("entries"); all {
		report.Entries = map[string][]string{
			resumeDict.Name(): resumeDict.Entries(),
			jobsDict.Name():   jobsDict.Entries(),
		}
	}

	if err := writeJSON(os.Stdout, report); err != nil {
		l.Fatal("writing report", zap.Error(err))
	}
}
