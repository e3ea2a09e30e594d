package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/quiz"
	"github.com/abhisek/smartstudy/internal/ui/layout"
)

var sessionsCmd = &cobra.Command{
	Use:     "sessions",
	Aliases: []string{"session"},
	Short:   "List and manage saved study sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireLogin(cmd)
		if err != nil {
			return err
		}

		sessions, err := sess.client.ListSessions(cmd.Context(), sess.user().ID)
		if err != nil {
			return explain(err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions yet. Run `smartstudy analyze` to create one.")
			return nil
		}

		fmt.Printf("%-15s  %-16s  %-4s  %s\n", "ID", "Created", "Qs", "Title")
		fmt.Println(strings.Repeat("─", 80))
		for _, s := range sessions {
			fmt.Printf("%-15s  %-16s  %-4d  %s\n",
				s.ID,
				s.CreatedAt.Local().Format("2006-01-02 15:04"),
				len(s.Quiz),
				truncate(s.Title, 40),
			)
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show a session's summary, concepts and attempt stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireLogin(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		s, err := sess.client.GetSession(ctx, args[0])
		if err != nil {
			return explain(err)
		}

		fmt.Printf("%s\n", layout.PlainText(s.Title))
		fmt.Printf("Created %s · %d questions\n\n", s.CreatedAt.Local().Format("2006-01-02 15:04"), len(s.Quiz))
		printPackage(&s.Package)

		attempts, err := sess.client.ListAttemptsBySession(ctx, s.ID)
		if err != nil {
			return explain(err)
		}
		fmt.Println()
		if st, ok := quiz.Aggregate(attempts); ok {
			fmt.Printf("Attempts: %d · mean %d%% · best %d%%\n", st.Count, st.Mean, st.Best)
		} else {
			fmt.Println("No attempts yet.")
		}
		return nil
	},
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename <session-id> <title>",
	Short: "Rename a session",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireLogin(cmd)
		if err != nil {
			return err
		}

		s, err := sess.client.RenameSession(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return explain(err)
		}
		fmt.Printf("Renamed %s to %q.\n", s.ID, layout.PlainText(s.Title))
		return nil
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and all its quiz attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireLogin(cmd)
		if err != nil {
			return err
		}

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			fmt.Printf("Delete session %s and all its attempts? [y/N] ", args[0])
			answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
				fmt.Fprintln(os.Stderr, "Cancelled.")
				return nil
			}
		}

		if err := sess.client.DeleteSession(cmd.Context(), args[0]); err != nil {
			return explain(err)
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

func init() {
	sessionsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsDeleteCmd)
}
