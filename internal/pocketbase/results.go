package pocketbase

import (
	"context"
	"net/url"

	"github.com/abhisek/smartstudy/internal/study"
)

const (
	sessionAttemptsPerPage = 100
	userAttemptsPerPage    = 200
)

// CreateAttempt persists a completed attempt. Inconsistent attempts are
// rejected before any request is made.
func (c *Client) CreateAttempt(ctx context.Context, a study.Attempt) (study.Attempt, error) {
	if a.SessionID == "" || a.UserID == "" {
		return study.Attempt{}, &PersistenceError{Op: "create attempt", Message: "session and user are required"}
	}
	if err := a.Validate(); err != nil {
		return study.Attempt{}, &PersistenceError{Op: "create attempt", Err: err}
	}

	answers, err := study.EncodeAnswers(a.Answers)
	if err != nil {
		return study.Attempt{}, &PersistenceError{Op: "create attempt", Err: err}
	}

	var rec resultRecord
	err = c.do(ctx, request{
		op:     "create attempt",
		method: "POST",
		path:   recordsPath(resultsCollection),
		body: map[string]any{
			"chat":       a.SessionID,
			"user":       a.UserID,
			"score":      a.Score,
			"total":      a.Total,
			"percentage": a.Percentage,
			"answers":    answers,
		},
		auth: true,
	}, &rec)
	if err != nil {
		return study.Attempt{}, err
	}
	return decodeAttempt(rec)
}

// ListAttemptsBySession returns a session's attempts, newest first.
func (c *Client) ListAttemptsBySession(ctx context.Context, sessionID string) ([]study.Attempt, error) {
	return c.listAttempts(ctx, "list session attempts",
		listQuery(filterEq("chat", sessionID), "-created", sessionAttemptsPerPage, ""))
}

// ListAttemptsByUser returns every attempt by the user, newest first, each
// with its Session populated.
func (c *Client) ListAttemptsByUser(ctx context.Context, userID string) ([]study.Attempt, error) {
	return c.listAttempts(ctx, "list user attempts",
		listQuery(filterEq("user", userID), "-created", userAttemptsPerPage, "chat"))
}

func (c *Client) listAttempts(ctx context.Context, op string, q url.Values) ([]study.Attempt, error) {
	var resp listResponse[resultRecord]
	err := c.do(ctx, request{
		op:     op,
		method: "GET",
		path:   recordsPath(resultsCollection),
		query:  q,
		auth:   true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]study.Attempt, 0, len(resp.Items))
	for _, rec := range resp.Items {
		a, err := decodeAttempt(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeAttempt(rec resultRecord) (study.Attempt, error) {
	a, err := rec.attempt()
	if err != nil {
		return study.Attempt{}, &PersistenceError{Op: "decode attempt", Err: err}
	}
	return a, nil
}
