package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/quiz"
)

var historyCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Show quiz attempts for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireLogin(cmd)
		if err != nil {
			return err
		}

		attempts, err := sess.client.ListAttemptsBySession(cmd.Context(), args[0])
		if err != nil {
			return explain(err)
		}

		stats, ok := quiz.Aggregate(attempts)
		if !ok {
			fmt.Println("No attempts yet.")
			return nil
		}

		fmt.Printf("%-16s  %7s  %5s\n", "Date", "Score", "%")
		fmt.Println(strings.Repeat("─", 32))
		for _, a := range attempts {
			fmt.Printf("%-16s  %7s  %4d%%\n",
				a.CreatedAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d/%d", a.Score, a.Total),
				a.Percentage,
			)
		}
		fmt.Println(strings.Repeat("─", 32))
		fmt.Printf("Attempts %d · mean %d%% · best %d%%\n", stats.Count, stats.Mean, stats.Best)
		return nil
	},
}
