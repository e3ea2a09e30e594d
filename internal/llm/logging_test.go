package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/smartstudy/internal/logger"
	"github.com/abhisek/smartstudy/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{Text: `{"summary":"x"}`, Usage: Usage{InputTokens: 7, OutputTokens: 3}})
	p := WithLogging(mock, "mock", repo, nil)

	ctx := WithPurpose(context.Background(), PurposeAnalysis)
	resp, err := p.Generate(ctx, Request{
		System:   "instr",
		Messages: []Message{{Role: RoleUser, Content: "body"}},
		Format:   FormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"x"}`, resp.Text)

	require.Len(t, repo.events, 1)
	ev := repo.events[0]
	assert.NotEmpty(t, ev.RequestID)
	assert.Equal(t, "mock", ev.Provider)
	assert.Equal(t, "analysis", ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 7, ev.InputTokens)
	assert.Equal(t, `{"summary":"x"}`, ev.ResponseBody)
	assert.True(t, strings.Contains(ev.RequestBody, "[system]\ninstr"))
	assert.True(t, strings.Contains(ev.RequestBody, "[format: json"))
}

func TestLoggingProvider_RecordsFailureAndPassesErrorThrough(t *testing.T) {
	repo := &recordingRepo{}
	upstream := &ErrProviderUnavailable{Err: errors.New("503")}
	p := WithLogging(NewMockProvider(MockResponse{Err: upstream}), "mock", repo, nil)

	_, err := p.Generate(context.Background(), Request{})
	require.ErrorIs(t, err, upstream)

	require.Len(t, repo.events, 1)
	assert.False(t, repo.events[0].Success)
	assert.Contains(t, repo.events[0].ErrorMessage, "503")
	assert.Equal(t, "unknown", repo.events[0].Purpose)
}

func TestLoggingProvider_EventLogFailureIsNotFatal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	repo := &recordingRepo{err: errors.New("disk full")}
	p := WithLogging(NewMockProvider(MockResponse{Text: "{}"}), "mock", repo, logger.FromZap(zap.New(core)))

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("failed to record llm request event").Len())
}

func TestLoggingProvider_NilRepo(t *testing.T) {
	p := WithLogging(NewMockProvider(MockResponse{Text: "{}"}), "mock", nil, nil)
	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}

func TestNewProvider_MockWrappedWithLogging(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil, nil)
	require.NoError(t, err)
	_, ok := p.(*LoggingProvider)
	assert.True(t, ok, "expected logging decorator, got %T", p)

	_, err = NewProvider(context.Background(), Config{Provider: "gemini"}, nil, nil)
	assert.Error(t, err, "gemini without a key must fail validation")
}
