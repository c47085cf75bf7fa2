package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		Backoff:     1 * time.Millisecond,
		Timeout:     time.Second,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Text: "hello"},
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Complete(context.Background(), Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hello" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}},
		MockResponse{Err: &ErrEmptyResponse{}},
		MockResponse{Text: "ok"},
	)
	p := WithRetry(mock, retryConfig())

	resp, err := p.Complete(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "ok" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", mock.CallCount())
	}
}

func TestRetry_ExhaustionReturnsServiceError(t *testing.T) {
	cause := errors.New("still down")
	mock := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{Err: cause}},
		MockResponse{Err: &ErrProviderUnavailable{Err: cause}},
		MockResponse{Err: &ErrProviderUnavailable{Err: cause}},
		MockResponse{Err: &ErrProviderUnavailable{Err: cause}},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Complete(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ServiceError should carry the last failure cause")
	}
	if mock.CallCount() != 4 {
		t.Fatalf("expected 4 calls, got %d", mock.CallCount())
	}
}

func TestRetry_CancellationIsNotRetried(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: context.Canceled},
		MockResponse{Text: "never reached"},
	)
	p := WithRetry(mock, retryConfig())

	_, err := p.Complete(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
}

func TestRetry_LinearBackoffRespectsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}

	if got := r.wait(1, &ErrProviderUnavailable{}); got != 1*time.Millisecond {
		t.Errorf("attempt 1 wait = %v, want 1ms", got)
	}
	if got := r.wait(3, &ErrProviderUnavailable{}); got != 3*time.Millisecond {
		t.Errorf("attempt 3 wait = %v, want 3ms", got)
	}
	rl := &ErrRateLimit{RetryAfter: 250 * time.Millisecond}
	if got := r.wait(1, rl); got != 250*time.Millisecond {
		t.Errorf("rate-limit wait = %v, want 250ms", got)
	}
}
