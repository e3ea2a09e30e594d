package pocketbase

import (
	"context"
	"strings"

	"github.com/abhisek/smartstudy/internal/study"
)

const sessionsPerPage = 50

// CreateSession persists s. An empty title is derived from the summary.
func (c *Client) CreateSession(ctx context.Context, s study.Session) (study.Session, error) {
	if s.OwnerID == "" {
		return study.Session{}, &PersistenceError{Op: "create session", Message: "owner is required"}
	}
	if s.Title == "" {
		s.Title = study.DeriveTitle(s.Summary)
	}

	concepts, err := study.EncodeConcepts(s.KeyConcepts)
	if err != nil {
		return study.Session{}, &PersistenceError{Op: "create session", Err: err}
	}
	quiz, err := study.EncodeQuiz(s.Quiz)
	if err != nil {
		return study.Session{}, &PersistenceError{Op: "create session", Err: err}
	}

	var rec chatRecord
	err = c.do(ctx, request{
		op:     "create session",
		method: "POST",
		path:   recordsPath(chatsCollection),
		body: map[string]any{
			"user":         s.OwnerID,
			"title":        s.Title,
			"input_text":   s.InputText,
			"summary":      s.Summary,
			"key_concepts": concepts,
			"quiz":         quiz,
		},
		auth: true,
	}, &rec)
	if err != nil {
		return study.Session{}, err
	}
	return decodeSession(rec)
}

// ListSessions returns the owner's sessions, newest first.
func (c *Client) ListSessions(ctx context.Context, ownerID string) ([]study.Session, error) {
	var resp listResponse[chatRecord]
	err := c.do(ctx, request{
		op:     "list sessions",
		method: "GET",
		path:   recordsPath(chatsCollection),
		query:  listQuery(filterEq("user", ownerID), "-created", sessionsPerPage, ""),
		auth:   true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	out := make([]study.Session, 0, len(resp.Items))
	for _, rec := range resp.Items {
		s, err := decodeSession(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// GetSession fetches one session by ID.
func (c *Client) GetSession(ctx context.Context, id string) (study.Session, error) {
	var rec chatRecord
	err := c.do(ctx, request{
		op:     "get session",
		method: "GET",
		path:   recordPath(chatsCollection, id),
		auth:   true,
	}, &rec)
	if err != nil {
		return study.Session{}, err
	}
	return decodeSession(rec)
}

// RenameSession changes the title, the only mutable session field.
func (c *Client) RenameSession(ctx context.Context, id, title string) (study.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return study.Session{}, &PersistenceError{Op: "rename session", Message: "title must not be empty"}
	}

	var rec chatRecord
	err := c.do(ctx, request{
		op:     "rename session",
		method: "PATCH",
		path:   recordPath(chatsCollection, id),
		body:   map[string]any{"title": title},
		auth:   true,
	}, &rec)
	if err != nil {
		return study.Session{}, err
	}
	return decodeSession(rec)
}

// DeleteSession removes a session. The server cascades its attempts.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:     "delete session",
		method: "DELETE",
		path:   recordPath(chatsCollection, id),
		auth:   true,
	}, nil)
}

func decodeSession(rec chatRecord) (study.Session, error) {
	s, err := rec.session()
	if err != nil {
		return study.Session{}, &PersistenceError{Op: "decode session", Err: err}
	}
	return s, nil
}
