package diag

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/intervue/internal/llm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "diag.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleEvent(purpose string, success bool) llm.Event {
	return llm.Event{
		Purpose:      purpose,
		Provider:     "groq",
		Model:        "llama-3.1-8b-instant",
		InputTokens:  120,
		OutputTokens: 200,
		LatencyMs:    340,
		Success:      success,
		RequestBody:  "[user]\ngenerate questions\n",
		ResponseBody: `[{"text":"q"}]`,
	}
}

func TestAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("question-gen", true)))
	require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("improvement-tips", false)))

	events, err := s.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	require.Equal(t, "improvement-tips", events[0].Purpose)
	require.False(t, events[0].Success)
	require.Equal(t, "question-gen", events[1].Purpose)
	require.True(t, events[1].Success)
	require.Equal(t, 120, events[1].InputTokens)
	require.False(t, events[1].Timestamp.IsZero())
}

func TestQueryFilterAndLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("question-gen", true)))
	}
	require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("session-insights", true)))

	events, err := s.QueryLLMEvents(ctx, QueryOpts{Limit: 3})
	require.NoError(t, err)
	require.Len(t, events, 3)

	events, err = s.QueryLLMEvents(ctx, QueryOpts{Purpose: "session-insights"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "session-insights", events[0].Purpose)
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("question-gen", true)))

	events, err := s.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev, err := s.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, ev)
	require.Equal(t, "[user]\ngenerate questions\n", ev.RequestBody)
	require.Equal(t, `[{"text":"q"}]`, ev.ResponseBody)

	missing, err := s.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUsageByPurpose(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("question-gen", true)))
	require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("question-gen", true)))
	require.NoError(t, s.AppendLLMEvent(ctx, sampleEvent("improvement-tips", true)))

	stats, err := s.UsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	byPurpose := map[string]UsageStat{}
	for _, st := range stats {
		byPurpose[st.Purpose] = st
	}
	require.Equal(t, 2, byPurpose["question-gen"].Calls)
	require.Equal(t, 240, byPurpose["question-gen"].InputTokens)
	require.Equal(t, 400, byPurpose["question-gen"].OutputTokens)
	require.Equal(t, 1, byPurpose["improvement-tips"].Calls)
}

func TestStoreIsEventSink(t *testing.T) {
	var _ llm.EventSink = (*Store)(nil)
}
