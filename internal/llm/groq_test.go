package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func groqServer(t *testing.T, handler http.HandlerFunc) (*GroqProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewGroqProvider(GroqConfig{
		APIKey:  "test-key",
		Model:   "llama-3.1-8b-instant",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("NewGroqProvider: %v", err)
	}
	return p, srv
}

func TestGroq_StandardChoicesShape(t *testing.T) {
	p, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Write([]byte(`{
			"model": "llama-3.1-8b-instant",
			"choices": [{"message": {"content": "[{\"text\":\"q\"}]"}}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30}
		}`))
	})

	resp, err := p.Complete(context.Background(), Request{System: "sys", Prompt: "gen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `[{"text":"q"}]` {
		t.Errorf("unexpected text: %q", resp.Text)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
}

func TestGroq_AlternateOutputShape(t *testing.T) {
	p, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"output": [{"content": [{"text": "alternate body"}]}]}`))
	})

	resp, err := p.Complete(context.Background(), Request{Prompt: "gen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "alternate body" {
		t.Errorf("unexpected text: %q", resp.Text)
	}
}

func TestGroq_UnknownShapeFallsBackToRawBody(t *testing.T) {
	p, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"something": "else"}`))
	})

	resp, err := p.Complete(context.Background(), Request{Prompt: "gen"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != `{"something": "else"}` {
		t.Errorf("unexpected text: %q", resp.Text)
	}
}

func TestGroq_RateLimitMapsToErrRateLimit(t *testing.T) {
	p, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.Complete(context.Background(), Request{Prompt: "gen"})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected *ErrRateLimit, got %v", err)
	}
	if rl.RetryAfter.Seconds() != 2 {
		t.Errorf("unexpected RetryAfter: %v", rl.RetryAfter)
	}
}

func TestGroq_ServerErrorMapsToUnavailable(t *testing.T) {
	p, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := p.Complete(context.Background(), Request{Prompt: "gen"})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected *ErrProviderUnavailable, got %v", err)
	}
}

func TestGroq_EmptyContentIsAnError(t *testing.T) {
	p, _ := groqServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "  "}}]}`))
	})

	_, err := p.Complete(context.Background(), Request{Prompt: "gen"})
	var empty *ErrEmptyResponse
	if !errors.As(err, &empty) {
		t.Fatalf("expected *ErrEmptyResponse, got %v", err)
	}
}

func TestGroq_RequiresAPIKey(t *testing.T) {
	if _, err := NewGroqProvider(GroqConfig{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
