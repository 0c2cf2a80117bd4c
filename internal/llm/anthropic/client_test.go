package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"resume-roaster/internal/llm"
)

func withServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(h)
	oldURL := apiURL
	apiURL = server.URL
	t.Cleanup(func() {
		apiURL = oldURL
		server.Close()
	})
}

func TestAnalyzeSendsExpectedRequest(t *testing.T) {
	var mu sync.Mutex
	var gotHeaders http.Header
	var gotBody map[string]any

	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		gotHeaders = r.Header.Clone()
		gotBody = payload
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","content":[{"type":"text","text":"# 🔥 THE ROAST\nok"}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":3}}`))
	})

	client := NewClient("")
	text, err := client.Analyze(context.Background(), "the prompt", "sk-test")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "# 🔥 THE ROAST\nok" {
		t.Fatalf("unexpected text %q", text)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotHeaders.Get("x-api-key") != "sk-test" {
		t.Fatalf("missing x-api-key header")
	}
	if gotHeaders.Get("anthropic-version") != apiVersion {
		t.Fatalf("unexpected anthropic-version %q", gotHeaders.Get("anthropic-version"))
	}
	if gotHeaders.Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected content type %q", gotHeaders.Get("Content-Type"))
	}
	if gotBody["model"] != defaultModel {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
	if gotBody["max_tokens"] != float64(maxTokens) {
		t.Fatalf("unexpected max_tokens %v", gotBody["max_tokens"])
	}
	messages, ok := gotBody["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("expected one message, got %v", gotBody["messages"])
	}
	first := messages[0].(map[string]any)
	if first["role"] != "user" || first["content"] != "the prompt" {
		t.Fatalf("unexpected message %v", first)
	}
}

func TestAnalyzeProviderErrorMessage(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := NewClient("").Analyze(context.Background(), "p", "bad")
	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.StatusCode != http.StatusUnauthorized || perr.Message != "invalid x-api-key" || perr.Type != "authentication_error" {
		t.Fatalf("unexpected provider error %+v", perr)
	}
}

func TestAnalyzeProviderErrorWithoutMessage(t *testing.T) {
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := NewClient("").Analyze(context.Background(), "p", "sk")
	var perr *llm.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Message != "" || perr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected provider error %+v", perr)
	}
}

func TestAnalyzeMalformedResponse(t *testing.T) {
	bodies := map[string]string{
		"no content":    `{"id":"msg_1"}`,
		"empty content": `{"content":[]}`,
		"empty text":    `{"content":[{"type":"text","text":"  "}]}`,
		"not json":      `not json`,
	}
	for name, body := range bodies {
		body := body
		t.Run(name, func(t *testing.T) {
			withServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := NewClient("").Analyze(context.Background(), "p", "sk")
			if !errors.Is(err, llm.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestAnalyzeRequiresCredential(t *testing.T) {
	calls := 0
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	_, err := NewClient("").Analyze(context.Background(), "p", " ")
	if !errors.Is(err, llm.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no request, got %d", calls)
	}
}

func TestAnalyzeTransportError(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })
	apiURL = "http://127.0.0.1:1/v1/messages"

	_, err := NewClient("").Analyze(context.Background(), "p", "sk")
	if !errors.Is(err, llm.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	release := make(chan struct{})
	withServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := NewClient("").Analyze(ctx, "p", "sk")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewClientModelOverride(t *testing.T) {
	if got := NewClient("claude-custom").Model(); got != "claude-custom" {
		t.Fatalf("model = %q", got)
	}
	if got := NewClient(" ").Model(); got != defaultModel {
		t.Fatalf("model = %q", got)
	}
}

func TestWithEndpointOverridesURL(t *testing.T) {
	hit := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit <- struct{}{}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"proxied"}]}`))
	}))
	t.Cleanup(server.Close)

	text, err := NewClient("").WithEndpoint(" " + server.URL + " ").Analyze(context.Background(), "p", "sk-test")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if text != "proxied" {
		t.Fatalf("unexpected text %q", text)
	}
	select {
	case <-hit:
	default:
		t.Fatalf("expected request at overridden endpoint")
	}
}
