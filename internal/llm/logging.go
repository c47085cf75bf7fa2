package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one recorded request/response exchange with the external service.
type Event struct {
	Purpose      string
	Provider     string
	Model        string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventSink receives diagnostic events. A failing sink must never block the
// control-flow result of the call it is recording.
type EventSink interface {
	AppendLLMEvent(ctx context.Context, ev Event) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) AppendLLMEvent(context.Context, Event) error { return nil }

// LoggingProvider is a decorator that records every request as an event.
type LoggingProvider struct {
	inner Provider
	sink  EventSink
	log   *logrus.Logger
}

// WithLogging wraps a Provider with event recording. A nil logger falls back
// to the logrus standard logger.
func WithLogging(p Provider, sink EventSink, log *logrus.Logger) Provider {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LoggingProvider{inner: p, sink: sink, log: log}
}

func (l *LoggingProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Complete(ctx, req)

	ev := Event{
		Purpose:     PurposeFrom(ctx),
		Provider:    l.inner.ModelID(),
		Model:       l.inner.ModelID(),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.Model = resp.Model
		ev.ResponseBody = resp.Text
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	// Record the event but never fail the request over it.
	if sinkErr := l.sink.AppendLLMEvent(ctx, ev); sinkErr != nil {
		l.log.WithError(sinkErr).Warn("failed to record LLM request event")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	out := ""
	if req.System != "" {
		out += "[system]\n" + req.System + "\n\n"
	}
	out += "[user]\n" + req.Prompt + "\n"
	return out
}
