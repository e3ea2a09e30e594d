// Package progress builds a user's cross-session progress report.
package progress

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/smartstudy/internal/quiz"
	"github.com/abhisek/smartstudy/internal/study"
)

// Source is the slice of the persistence client progress needs.
type Source interface {
	ListSessions(ctx context.Context, ownerID string) ([]study.Session, error)
	ListAttemptsByUser(ctx context.Context, userID string) ([]study.Attempt, error)
}

// SessionProgress is the per-session line of a Report.
type SessionProgress struct {
	Session  study.Session
	Stats    quiz.Stats
	Attempts []study.Attempt // newest first
}

// Attempted reports whether the session has at least one attempt.
func (p SessionProgress) Attempted() bool { return p.Stats.Count > 0 }

// Report is the overall aggregate plus one entry per session, newest
// session first.
type Report struct {
	Overall  quiz.Stats
	Sessions []SessionProgress
}

// HasAttempts reports whether the user has completed any quiz.
func (r Report) HasAttempts() bool { return r.Overall.Count > 0 }

// Build fetches sessions and attempts concurrently and aggregates them.
func Build(ctx context.Context, src Source, userID string) (*Report, error) {
	var (
		sessions []study.Session
		attempts []study.Attempt
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = src.ListSessions(gctx, userID)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		attempts, err = src.ListAttemptsByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(sessions, attempts), nil
}

func assemble(sessions []study.Session, attempts []study.Attempt) *Report {
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].CreatedAt.After(attempts[j].CreatedAt)
	})

	bySession := make(map[string][]study.Attempt)
	for _, a := range attempts {
		bySession[a.SessionID] = append(bySession[a.SessionID], a)
	}

	known := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		known[s.ID] = true
	}
	// Attempts can reference sessions beyond the listed page; the expanded
	// record still identifies them.
	for _, a := range attempts {
		if !known[a.SessionID] && a.Session != nil {
			known[a.SessionID] = true
			sessions = append(sessions, *a.Session)
		}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	r := &Report{Sessions: make([]SessionProgress, 0, len(sessions))}
	r.Overall, _ = quiz.Aggregate(attempts)
	for _, s := range sessions {
		sp := SessionProgress{Session: s, Attempts: bySession[s.ID]}
		sp.Stats, _ = quiz.Aggregate(sp.Attempts)
		r.Sessions = append(r.Sessions, sp)
	}
	return r
}
