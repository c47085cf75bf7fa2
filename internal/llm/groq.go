package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// groqModels maps friendly names to Groq model IDs.
var groqModels = map[string]string{
	"llama-instant": "llama-3.1-8b-instant",
	"llama-large":   "llama-3.3-70b-versatile",
}

// GroqProvider implements Provider against Groq's OpenAI-compatible chat
// completions endpoint. It is deliberately hand-rolled on net/http rather
// than an SDK: Groq responses arrive in either the standard
// choices[0].message.content shape or an alternate output[0].content[0].text
// shape, and when neither is present the whole body is treated as the
// content. Strict SDK response structs cannot decode the alternate shapes.
type GroqProvider struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

// NewGroqProvider creates a new Groq provider.
func NewGroqProvider(cfg GroqConfig) (*GroqProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}

	return &GroqProvider{
		client:  &http.Client{},
		apiKey:  cfg.APIKey,
		model:   resolveModel(cfg.Model, groqModels),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// chatRequest is the OpenAI-compatible request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse covers both response shapes Groq has been observed to return.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Output []struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

func (p *GroqProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	body := chatRequest{
		Model:       p.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}

	if err := mapGroqStatus(resp, raw); err != nil {
		return nil, err
	}

	return parseChatBody(raw)
}

func (p *GroqProvider) ModelID() string {
	return p.model
}

// parseChatBody extracts the content text from either supported response
// shape, falling back to the raw body when no known shape is present.
func parseChatBody(raw []byte) (*Response, error) {
	var parsed chatResponse
	content := ""
	if err := json.Unmarshal(raw, &parsed); err == nil {
		switch {
		case len(parsed.Choices) > 0:
			content = parsed.Choices[0].Message.Content
		case len(parsed.Output) > 0 && len(parsed.Output[0].Content) > 0:
			content = parsed.Output[0].Content[0].Text
		default:
			content = string(raw)
		}
	} else {
		content = string(raw)
	}

	if strings.TrimSpace(content) == "" {
		return nil, &ErrEmptyResponse{}
	}

	return &Response{
		Text:  content,
		Model: parsed.Model,
		Usage: Usage{
			InputTokens:  parsed.Usage.PromptTokens,
			OutputTokens: parsed.Usage.CompletionTokens,
			TotalTokens:  parsed.Usage.TotalTokens,
		},
	}, nil
}

// mapGroqStatus converts non-2xx statuses into the provider error taxonomy.
func mapGroqStatus(resp *http.Response, raw []byte) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("status %d: %s", resp.StatusCode, snippet(raw)),
		}
	default:
		return &ErrProviderUnavailable{
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, snippet(raw)),
		}
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// snippet truncates an error body for log-friendly messages.
func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
