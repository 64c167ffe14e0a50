package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hanghive/hang-bot/internal/prompt"
)

// stubBackend returns canned results in order, then repeats the last one.
type stubBackend struct {
	results []stubResult
	calls   int
}

type stubResult struct {
	text string
	err  error
}

func (s *stubBackend) GenerateContent(_ context.Context, _ prompt.Request) (string, error) {
	i := s.calls
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	s.calls++
	r := s.results[i]
	return r.text, r.err
}

func newTestClient(backend Backend) (*Client, *[]time.Duration) {
	var sleeps []time.Duration
	c := NewClient(backend, WithSleep(func(d time.Duration) {
		sleeps = append(sleeps, d)
	}))
	return c, &sleeps
}

func TestGenerate_Success(t *testing.T) {
	backend := &stubBackend{results: []stubResult{{text: "  Bot: hello there  "}}}
	c, sleeps := newTestClient(backend)

	got := c.Generate(context.Background(), prompt.Request{})

	if got != "hello there" {
		t.Errorf("Generate = %q, want formatted %q", got, "hello there")
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v on success path", *sleeps)
	}
}

// A backend that always rate-limits gets exactly MaxRetries attempts with
// backoff 5s then 10s, and resolves to the rate-limited message.
func TestGenerate_RateLimitExhaustion(t *testing.T) {
	backend := &stubBackend{results: []stubResult{
		{err: errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")},
	}}
	c, sleeps := newTestClient(backend)

	got := c.Generate(context.Background(), prompt.Request{})

	if got != rateLimitedMessage {
		t.Errorf("Generate = %q, want %q", got, rateLimitedMessage)
	}
	if backend.calls != MaxRetries {
		t.Errorf("backend called %d times, want %d", backend.calls, MaxRetries)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second}
	if len(*sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", *sleeps, want)
	}
	for i, d := range want {
		if (*sleeps)[i] != d {
			t.Errorf("sleep[%d] = %v, want %v", i, (*sleeps)[i], d)
		}
	}
}

// Non-rate-limit errors fail fast: one attempt, no sleeping.
func TestGenerate_FailFast(t *testing.T) {
	backend := &stubBackend{results: []stubResult{
		{err: errors.New("connection reset by peer")},
	}}
	c, sleeps := newTestClient(backend)

	got := c.Generate(context.Background(), prompt.Request{})

	if got != genericFailureMessage {
		t.Errorf("Generate = %q, want %q", got, genericFailureMessage)
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
	if len(*sleeps) != 0 {
		t.Errorf("slept %v on fail-fast path", *sleeps)
	}
}

func TestGenerate_AuthConfigError(t *testing.T) {
	backend := &stubBackend{results: []stubResult{
		{err: errors.New("permission denied: invalid API key")},
	}}
	c, _ := newTestClient(backend)

	if got := c.Generate(context.Background(), prompt.Request{}); got != configIssueMessage {
		t.Errorf("Generate = %q, want %q", got, configIssueMessage)
	}
}

// A transient rate limit followed by success returns the reply.
func TestGenerate_RecoversAfterRateLimit(t *testing.T) {
	backend := &stubBackend{results: []stubResult{
		{err: errors.New("429 too many requests")},
		{text: "recovered"},
	}}
	c, sleeps := newTestClient(backend)

	got := c.Generate(context.Background(), prompt.Request{})

	if got != "recovered" {
		t.Errorf("Generate = %q, want %q", got, "recovered")
	}
	if backend.calls != 2 {
		t.Errorf("backend called %d times, want 2", backend.calls)
	}
	if len(*sleeps) != 1 || (*sleeps)[0] != 5*time.Second {
		t.Errorf("sleeps = %v, want [5s]", *sleeps)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errorKind
	}{
		{"nil", nil, errOther},
		{"http 429", errors.New("Error 429: quota exceeded"), errRateLimited},
		{"resource exhausted", errors.New("rpc error: RESOURCE_EXHAUSTED"), errRateLimited},
		{"rate limit beats auth wording", errors.New("429: invalid api key quota"), errRateLimited},
		{"api wording", errors.New("the API rejected the request"), errAuthConfig},
		{"key wording", errors.New("missing key"), errAuthConfig},
		{"invalid wording", errors.New("invalid argument"), errAuthConfig},
		{"other", errors.New("connection refused"), errOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFormatResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  \n", "hello"},
		{"strips assistant prefix", "Assistant: hi", "hi"},
		{"strips bot prefix", "Bot: hi", "hi"},
		{"strips persona prefix", "HangHive AI: sure thing", "sure thing"},
		{"strips spaced persona prefix", "HangHive AI : sure", "sure"},
		{"prefix mid-text untouched", "say Bot: to begin", "say Bot: to begin"},
		{"empty maps to apology", "", emptyResponseMessage},
		{"whitespace maps to apology", "   ", emptyResponseMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatResponse(tt.input); got != tt.want {
				t.Errorf("FormatResponse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
