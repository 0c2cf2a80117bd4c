package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"resume-roaster/internal/llm"
	"resume-roaster/internal/shared/telemetry"
)

const (
	apiVersion   = "2023-06-01"
	defaultModel = "claude-sonnet-4-20250514"
	maxTokens    = 2500
)

var apiURL = "https://api.anthropic.com/v1/messages"

// Client implements llm.Client using the Anthropic Messages API.
type Client struct {
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a client. An empty model selects the default.
func NewClient(model string) *Client {
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	return &Client{
		model:      model,
		endpoint:   apiURL,
		httpClient: &http.Client{},
	}
}

// WithEndpoint points the client at another Messages endpoint, such as a proxy.
func (c *Client) WithEndpoint(endpoint string) *Client {
	if strings.TrimSpace(endpoint) != "" {
		c.endpoint = strings.TrimSpace(endpoint)
	}
	return c
}

// Model returns the model identifier sent with each request.
func (c *Client) Model() string {
	return c.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage,omitempty"`
}

type errorResponse struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends prompt as the single user message and returns the completion text.
func (c *Client) Analyze(ctx context.Context, prompt, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", llm.ErrMissingCredential
	}

	payload, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", credential)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", llm.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", llm.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", providerError(resp.StatusCode, body)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode: %v", llm.ErrMalformedResponse, err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("%w: missing content", llm.ErrMalformedResponse)
	}
	text := parsed.Content[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", llm.ErrMalformedResponse)
	}
	logUsage(c.model, parsed)
	return text, nil
}

func providerError(status int, body []byte) error {
	out := &llm.ProviderError{StatusCode: status}
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		out.Type = parsed.Error.Type
		out.Message = strings.TrimSpace(parsed.Error.Message)
	}
	return out
}

func logUsage(model string, resp messagesResponse) {
	fields := map[string]any{
		"model":       model,
		"stop_reason": resp.StopReason,
	}
	if resp.Usage != nil {
		fields["input_tokens"] = resp.Usage.InputTokens
		fields["output_tokens"] = resp.Usage.OutputTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
