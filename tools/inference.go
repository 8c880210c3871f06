package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatMessage is one turn in the prompt sent to the inference gateway.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user" or "assistant"
	Content string `json:"content"`
}

// AIClient talks to the self-hosted inference gateway (Ollama-style
// /api/chat). The timeout is always finite: the gateway is slow and
// unreliable and an unbounded call would pin the debit/refund protocol.
type AIClient struct {
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	HTTPClient   *http.Client
}

func NewAIClient(baseURL, defaultModel string, timeout time.Duration) *AIClient {
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &AIClient{
		BaseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		DefaultModel: strings.TrimSpace(defaultModel),
		Timeout:      timeout,
		HTTPClient:   &http.Client{Timeout: timeout},
	}
}

// Chat sends the assembled message list and returns the generated text.
func (c *AIClient) Chat(ctx context.Context, model string, messages []ChatMessage) (string, error) {
	if strings.TrimSpace(model) == "" {
		model = c.DefaultModel
	}
	if model == "" {
		return "", fmt.Errorf("no model configured")
	}

	reqBody := map[string]any{
		"model":    model,
		"messages": messages,
		"stream":   false,
		"options": map[string]any{
			"num_thread":  8,
			"temperature": 0.2,
		},
	}
	b, _ := json.Marshal(reqBody)

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/chat", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("inference gateway error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}

	out := strings.TrimSpace(parsed.Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return out, nil
}
