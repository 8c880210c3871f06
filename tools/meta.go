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

// GraphAPIError keeps the platform's status and body for the logs.
type GraphAPIError struct {
	StatusCode int
	Body       string
}

func (e GraphAPIError) Error() string {
	return fmt.Sprintf("graph api error: status=%d body=%s", e.StatusCode, e.Body)
}

// WhatsAppClient is a thin client for the WhatsApp Cloud API, bound to
// one tenant's credentials.
type WhatsAppClient struct {
	AccessToken   string
	ApiVersion    string // e.g. v21.0
	PhoneNumberID string
}

// SendText pushes a text reply to an end customer's phone number.
func (c WhatsAppClient) SendText(ctx context.Context, to string, text string) error {
	if strings.TrimSpace(c.AccessToken) == "" || strings.TrimSpace(c.PhoneNumberID) == "" {
		return fmt.Errorf("whatsapp credentials missing")
	}

	url := fmt.Sprintf("https://graph.facebook.com/%s/%s/messages", apiVersion(c.ApiVersion), c.PhoneNumberID)
	body := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]any{
			"body": text,
		},
	}
	return postGraph(ctx, url, c.AccessToken, body)
}

// InstagramClient sends DMs through the Graph messages edge, bound to
// one tenant's credentials.
type InstagramClient struct {
	AccessToken string
	ApiVersion  string
}

// SendText pushes a text reply to a platform-scoped Instagram user id.
func (c InstagramClient) SendText(ctx context.Context, recipientID string, text string) error {
	if strings.TrimSpace(c.AccessToken) == "" {
		return fmt.Errorf("instagram credentials missing")
	}

	url := fmt.Sprintf("https://graph.facebook.com/%s/me/messages", apiVersion(c.ApiVersion))
	body := map[string]any{
		"recipient": map[string]any{"id": recipientID},
		"message":   map[string]any{"text": text},
	}
	return postGraph(ctx, url, c.AccessToken, body)
}

func postGraph(ctx context.Context, url, token string, body any) error {
	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	req.Header.Set("Content-Type", "application/json")

	httpClient := &http.Client{Timeout: 15 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return GraphAPIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

func apiVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "v21.0"
	}
	return v
}
