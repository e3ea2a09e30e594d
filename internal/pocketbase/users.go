package pocketbase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/abhisek/smartstudy/internal/study"
)

// AuthResult is the outcome of a successful login.
type AuthResult struct {
	Token string
	User  study.User
}

// Register creates a user account with the default dark theme.
func (c *Client) Register(ctx context.Context, email, password, name string) (study.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return study.User{}, &PersistenceError{Op: "register", Message: "email and password are required"}
	}

	var rec userRecord
	err := c.do(ctx, request{
		op:     "register",
		method: "POST",
		path:   recordsPath(usersCollection),
		body: map[string]any{
			"email":           email,
			"password":        password,
			"passwordConfirm": password,
			"name":            name,
			"theme":           string(study.ThemeDark),
		},
	}, &rec)
	if err != nil {
		return study.User{}, err
	}
	return rec.user(), nil
}

// Login authenticates with email and password. Rejected credentials are
// reported as an UnauthorizedError.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var resp struct {
		Token  string     `json:"token"`
		Record userRecord `json:"record"`
	}
	err := c.do(ctx, request{
		op:     "login",
		method: "POST",
		path:   "/api/collections/" + usersCollection + "/auth-with-password",
		body: map[string]any{
			"identity": strings.TrimSpace(email),
			"password": password,
		},
	}, &resp)
	var perr *PersistenceError
	if errors.As(err, &perr) && perr.Status == http.StatusBadRequest {
		return AuthResult{}, &UnauthorizedError{Reason: perr.Message, Status: perr.Status}
	}
	if err != nil {
		return AuthResult{}, err
	}
	if resp.Token == "" {
		return AuthResult{}, &PersistenceError{Op: "login", Message: "server returned no token"}
	}
	return AuthResult{Token: resp.Token, User: resp.Record.user()}, nil
}

// UpdateTheme stores the user's theme preference.
func (c *Client) UpdateTheme(ctx context.Context, userID string, theme study.Theme) (study.User, error) {
	if theme != study.ThemeDark && theme != study.ThemeLight {
		return study.User{}, fmt.Errorf("invalid theme %q", theme)
	}

	var rec userRecord
	err := c.do(ctx, request{
		op:     "update theme",
		method: "PATCH",
		path:   recordPath(usersCollection, userID),
		body:   map[string]any{"theme": string(theme)},
		auth:   true,
	}, &rec)
	if err != nil {
		return study.User{}, err
	}
	return rec.user(), nil
}
