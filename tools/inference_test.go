package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAIClient_Chat(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": "  generated reply  "},
		})
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, "llama3", 5*time.Second)
	reply, err := client.Chat(context.Background(), "", []ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "generated reply" {
		t.Fatalf("expected trimmed reply, got %q", reply)
	}
	if gotBody["model"] != "llama3" {
		t.Fatalf("default model not applied: %v", gotBody["model"])
	}
	if gotBody["stream"] != false {
		t.Fatalf("stream must be disabled")
	}
}

func TestAIClient_ModelOverride(t *testing.T) {
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotModel, _ = body["model"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{"content": "ok"}})
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, "llama3", 5*time.Second)
	if _, err := client.Chat(context.Background(), "mistral", []ChatMessage{{Role: "user", Content: "hi"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotModel != "mistral" {
		t.Fatalf("expected model override, got %q", gotModel)
	}
}

func TestAIClient_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine offline", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, "llama3", 5*time.Second)
	if _, err := client.Chat(context.Background(), "", []ChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatalf("expected error on 503")
	}
}

func TestAIClient_EmptyReplyIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"message": map[string]any{"content": "   "}})
	}))
	defer srv.Close()

	client := NewAIClient(srv.URL, "llama3", 5*time.Second)
	if _, err := client.Chat(context.Background(), "", []ChatMessage{{Role: "user", Content: "hi"}}); err == nil {
		t.Fatalf("expected error on empty content")
	}
}

func TestAIClient_NoModelConfigured(t *testing.T) {
	client := NewAIClient("http://localhost:0", "", time.Second)
	if _, err := client.Chat(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error when no model is configured")
	}
}
