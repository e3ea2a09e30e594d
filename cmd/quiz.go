package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/app"
	"github.com/abhisek/smartstudy/internal/screen"
	"github.com/abhisek/smartstudy/internal/screens/picker"
	"github.com/abhisek/smartstudy/internal/screens/history"
	quizscreen "github.com/abhisek/smartstudy/internal/screens/quiz"
	"github.com/abhisek/smartstudy/internal/screens/summary"
	"github.com/abhisek/smartstudy/internal/study"
)

var quizCmd = &cobra.Command{
	Use:   "quiz [session-id]",
	Short: "Take a session's quiz in the terminal",
	Long: "Take a session's quiz. Without a session ID a picker lists your sessions;\n" +
		"from there S shows a session's notes and H its attempt history.\n" +
		"The result is saved when the last question is answered.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := requireLogin(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		userID := sess.user().ID
		styles := sess.styles()

		open := func(s study.Session) (screen.Screen, error) {
			return quizscreen.New(s, userID, sess.client.CreateAttempt, styles)
		}

		var initial screen.Screen
		if len(args) == 1 {
			s, err := sess.client.GetSession(ctx, args[0])
			if err != nil {
				return explain(err)
			}
			if initial, err = open(s); err != nil {
				return err
			}
		} else {
			list := func(ctx context.Context) ([]study.Session, error) {
				return sess.client.ListSessions(ctx, userID)
			}
			initial = picker.New(list, open, styles,
				picker.WithHistory(func(s study.Session) screen.Screen {
					return history.New(s, sess.client.ListAttemptsBySession, styles)
				}),
				picker.WithNotes(func(s study.Session) screen.Screen {
					return summary.New(s, styles)
				}),
			)
		}

		final, err := app.Run(initial, styles)
		if err != nil {
			return err
		}
		if q, ok := final.(*quizscreen.QuizScreen); ok {
			if r, done := q.Result(); done {
				fmt.Printf("Score: %d/%d (%d%%)\n", r.Score, r.Total, r.Percentage)
				if q.Holding() {
					return fmt.Errorf("result not saved: quit before the save finished")
				}
				if err := q.SaveError(); err != nil {
					return fmt.Errorf("result not saved: %w", explain(err))
				}
			}
		}
		return nil
	},
}
