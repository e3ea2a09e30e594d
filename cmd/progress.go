package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show quiz progress across all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireLogin(cmd)
		if err != nil {
			return err
		}

		report, err := progress.Build(cmd.Context(), sess.client, sess.user().ID)
		if err != nil {
			return explain(err)
		}
		if !report.HasAttempts() {
			fmt.Println("No quiz attempts yet. Run `smartstudy quiz` to take one.")
			return nil
		}

		o := report.Overall
		fmt.Printf("Overall: %d attempts · mean %d%% · best %d%%\n\n", o.Count, o.Mean, o.Best)

		fmt.Printf("%-40s  %8s  %5s  %5s\n", "Session", "Attempts", "Mean", "Best")
		fmt.Println(strings.Repeat("─", 66))
		for _, sp := range report.Sessions {
			if !sp.Attempted() {
				fmt.Printf("%-40s  %8s  %5s  %5s\n", truncate(sp.Session.Title, 40), "-", "-", "-")
				continue
			}
			fmt.Printf("%-40s  %8d  %4d%%  %4d%%\n",
				truncate(sp.Session.Title, 40), sp.Stats.Count, sp.Stats.Mean, sp.Stats.Best)
		}
		return nil
	},
}
