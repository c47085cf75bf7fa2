package llm

import (
	"context"
	"errors"
	"testing"
)

type captureSink struct {
	events []Event
	err    error
}

func (c *captureSink) AppendLLMEvent(_ context.Context, ev Event) error {
	c.events = append(c.events, ev)
	return c.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	sink := &captureSink{}
	mock := NewMockProvider(MockResponse{
		Text:  "answer",
		Usage: Usage{InputTokens: 5, OutputTokens: 7, TotalTokens: 12},
	})
	p := WithLogging(mock, sink, nil)

	ctx := WithPurpose(context.Background(), "question-gen")
	if _, err := p.Complete(ctx, Request{Prompt: "gen"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sink.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Purpose != "question-gen" {
		t.Errorf("unexpected purpose: %q", ev.Purpose)
	}
	if !ev.Success || ev.ResponseBody != "answer" || ev.OutputTokens != 7 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestLogging_RecordsFailureAndPropagatesError(t *testing.T) {
	sink := &captureSink{}
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, sink, nil)

	_, err := p.Complete(context.Background(), Request{Prompt: "gen"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(sink.events) != 1 || sink.events[0].Success {
		t.Fatalf("expected one failed event, got %+v", sink.events)
	}
}

func TestLogging_SinkFailureDoesNotBlockResult(t *testing.T) {
	sink := &captureSink{err: errors.New("disk full")}
	mock := NewMockProvider(MockResponse{Text: "answer"})
	p := WithLogging(mock, sink, nil)

	resp, err := p.Complete(context.Background(), Request{Prompt: "gen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "answer" {
		t.Errorf("unexpected text: %q", resp.Text)
	}
}
