package pocketbase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/smartstudy/internal/study"
)

const (
	usersCollection   = "users"
	chatsCollection   = "chats"
	resultsCollection = "quiz_results"
)

type listResponse[T any] struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalItems int `json:"totalItems"`
	Items      []T `json:"items"`
}

type userRecord struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Theme string `json:"theme"`
}

func (r userRecord) user() study.User {
	theme := study.Theme(r.Theme)
	if theme != study.ThemeLight {
		theme = study.ThemeDark
	}
	return study.User{ID: r.ID, Email: r.Email, Name: r.Name, Theme: theme}
}

type chatRecord struct {
	ID          string          `json:"id"`
	User        string          `json:"user"`
	Title       string          `json:"title"`
	InputText   string          `json:"input_text"`
	Summary     string          `json:"summary"`
	KeyConcepts json.RawMessage `json:"key_concepts"`
	Quiz        json.RawMessage `json:"quiz"`
	Created     string          `json:"created"`
}

func (r chatRecord) session() (study.Session, error) {
	s := study.Session{
		ID:        r.ID,
		OwnerID:   r.User,
		Title:     r.Title,
		InputText: r.InputText,
		CreatedAt: parseTime(r.Created),
	}
	s.Summary = r.Summary
	if err := decodeEmbedded(r.KeyConcepts, &s.KeyConcepts); err != nil {
		return study.Session{}, fmt.Errorf("chat %s key_concepts: %w", r.ID, err)
	}
	if err := decodeEmbedded(r.Quiz, &s.Quiz); err != nil {
		return study.Session{}, fmt.Errorf("chat %s quiz: %w", r.ID, err)
	}
	return s, nil
}

type resultRecord struct {
	ID         string          `json:"id"`
	Chat       string          `json:"chat"`
	User       string          `json:"user"`
	Score      int             `json:"score"`
	Total      int             `json:"total"`
	Percentage int             `json:"percentage"`
	Answers    json.RawMessage `json:"answers"`
	Created    string          `json:"created"`
	Expand     struct {
		Chat *chatRecord `json:"chat"`
	} `json:"expand"`
}

func (r resultRecord) attempt() (study.Attempt, error) {
	a := study.Attempt{
		ID:         r.ID,
		SessionID:  r.Chat,
		UserID:     r.User,
		Score:      r.Score,
		Total:      r.Total,
		Percentage: r.Percentage,
		CreatedAt:  parseTime(r.Created),
	}
	if err := decodeEmbedded(r.Answers, &a.Answers); err != nil {
		return study.Attempt{}, fmt.Errorf("result %s answers: %w", r.ID, err)
	}
	if r.Expand.Chat != nil {
		s, err := r.Expand.Chat.session()
		if err != nil {
			return study.Attempt{}, err
		}
		a.Session = &s
	}
	return a, nil
}

// decodeEmbedded decodes a field that holds JSON either directly (a json
// field) or as a string containing JSON (a text field).
func decodeEmbedded(raw json.RawMessage, v any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		raw = []byte(s)
	}
	return json.Unmarshal(raw, v)
}

// PocketBase timestamps look like "2024-05-01 12:30:45.123Z".
const pbTimeLayout = "2006-01-02 15:04:05.999Z07:00"

func parseTime(s string) time.Time {
	if t, err := time.Parse(pbTimeLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}
