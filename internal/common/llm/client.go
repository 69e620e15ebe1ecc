// internal/common/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stderrors "hirelens/internal/common/errors"
	"hirelens/internal/common/logger"
)

// Invoker is the structured-extraction contract consumed by the pipeline:
// one call, one JSON object back. Implementations must distinguish an
// unreachable endpoint from an unparseable response.
type Invoker interface {
	InvokeJSON(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (map[string]interface{}, error)
}

// Client talks to an Ollama-compatible chat endpoint and expects the model to
// answer with a single JSON object.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithFields(map[string]interface{}{"component": "llm"}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// InvokeJSON sends the system prompt plus user content to the model and parses
// the response body as JSON after best-effort markdown-fence stripping.
func (c *Client) InvokeJSON(ctx context.Context, model, systemPrompt, userContent string, temperature float64) (map[string]interface{}, error) {
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Stream: false,
		Options: map[string]interface{}{
			"temperature": temperature,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, stderrors.NewLLMConnectionError(model, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return nil, stderrors.NewLLMConnectionError(model, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, stderrors.NewLLMConnectionError(model, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, stderrors.NewLLMConnectionError(model, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, stderrors.NewLLMConnectionError(model,
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet(string(respBody))))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, stderrors.NewLLMParseError(snippet(string(respBody)), err)
	}
	if chat.Error != "" {
		return nil, stderrors.NewLLMConnectionError(model, fmt.Errorf("model error: %s", chat.Error))
	}

	return ParseJSONContent(chat.Message.Content)
}

// ParseJSONContent strips markdown code fences and parses the remainder as a
// JSON object. Models regularly wrap JSON in ```json fences despite being told
// not to.
func ParseJSONContent(content string) (map[string]interface{}, error) {
	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return nil, stderrors.NewLLMParseError("", fmt.Errorf("empty response"))
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, stderrors.NewLLMParseError(snippet(cleaned), err)
	}
	return parsed, nil
}

func snippet(s string) string {
	if len(s) > 200 {
		return s[:200]
	}
	return s
}
