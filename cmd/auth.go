package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/app"
	"github.com/abhisek/smartstudy/internal/appstate"
	"github.com/abhisek/smartstudy/internal/screens/login"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/theme"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd, login.ModeRegister)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the SmartStudy backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		return authenticate(cmd, login.ModeLogin)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, path, err := loadState(cmd)
		if err != nil {
			return err
		}
		st.Clear()
		if err := st.Save(path); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light]",
	Short:     "Show, set or toggle the colour theme",
	Long:      "Without an argument the theme toggles. When logged in the preference is\nalso saved to your account.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(study.ThemeDark), string(study.ThemeLight)},
	RunE: func(cmd *cobra.Command, args []string) error {
		st, path, err := loadState(cmd)
		if err != nil {
			return err
		}

		next := st.CurrentTheme().Toggle()
		if len(args) == 1 {
			if next, err = study.ParseTheme(args[0]); err != nil {
				return err
			}
		}

		if st.LoggedIn() {
			client := newBackend(cmd).WithToken(st.Token)
			u, err := client.UpdateTheme(cmd.Context(), st.User.ID, next)
			if err != nil {
				return explain(err)
			}
			st.User.Theme = u.Theme
		}
		st.Theme = next
		if err := st.Save(path); err != nil {
			return err
		}
		fmt.Printf("Theme set to %s.\n", next)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", "Account password (prompted when omitted)")
	}
	registerCmd.Flags().String("name", "", "Display name")
}

// authenticate logs in, registering first in ModeRegister, and stores the
// token. Missing credentials are collected with the login form.
func authenticate(cmd *cobra.Command, mode login.Mode) error {
	st, path, err := loadState(cmd)
	if err != nil {
		return err
	}
	client := newBackend(cmd)

	submit := func(ctx context.Context, c login.Credentials) error {
		if mode == login.ModeRegister {
			if _, err := client.Register(ctx, c.Email, c.Password, c.Name); err != nil {
				return err
			}
		}
		res, err := client.Login(ctx, c.Email, c.Password)
		if err != nil {
			return err
		}
		st.SetLogin(res.Token, res.User)
		return nil
	}

	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	if email != "" && password != "" {
		creds := login.Credentials{Email: email, Password: password}
		if mode == login.ModeRegister {
			creds.Name, _ = cmd.Flags().GetString("name")
		}
		if err := submit(cmd.Context(), creds); err != nil {
			return err
		}
	} else {
		if !isTerminal(os.Stdin) {
			return fmt.Errorf("--email and --password are required when stdin is not a terminal")
		}
		form := login.New(mode, email, submit, theme.StylesFor(st.CurrentTheme()))
		if _, err := app.Run(form, theme.StylesFor(st.CurrentTheme())); err != nil {
			return err
		}
		if !form.Done() {
			return fmt.Errorf("cancelled")
		}
	}

	if err := st.Save(path); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s.\n", displayName(st))
	return nil
}

func displayName(st *appstate.State) string {
	if st.User == nil {
		return "unknown"
	}
	if st.User.Name != "" {
		return fmt.Sprintf("%s <%s>", st.User.Name, st.User.Email)
	}
	return st.User.Email
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

