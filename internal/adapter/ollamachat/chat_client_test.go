package ollamachat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"docqa-orchestrator/internal/domain"
)

func TestComplete_SendsTurnsAndReturnsReply(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "  Hello there.  "},
			"done":    true,
		})
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", server.Client(), 0)

	turns := []domain.Turn{
		{Role: domain.RoleSystem, Text: "You are helpful."},
		{Role: domain.RoleUser, Text: "Say hello."},
	}
	reply, err := client.Complete(context.Background(), turns)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if reply != "Hello there." {
		t.Errorf("expected trimmed reply, got %q", reply)
	}
	if captured.Model != "llama3.1:8b" {
		t.Errorf("unexpected model: %s", captured.Model)
	}
	if captured.Stream {
		t.Error("expected stream to be disabled")
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[1].Role != "user" {
		t.Errorf("unexpected roles: %+v", captured.Messages)
	}
	if captured.Messages[1].Content != "Say hello." {
		t.Errorf("unexpected content: %q", captured.Messages[1].Content)
	}
	temp, ok := captured.Options["temperature"].(float64)
	if !ok || temp != generationTemperature {
		t.Errorf("unexpected temperature option: %v", captured.Options["temperature"])
	}
}

func TestComplete_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", server.Client(), 0)

	_, err := client.Complete(context.Background(), []domain.Turn{{Role: domain.RoleUser, Text: "hi"}})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestComplete_EmptyReplyPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": "   "},
			"done":    true,
		})
	}))
	defer server.Close()

	client := New(server.URL, "llama3.1:8b", server.Client(), 0)

	reply, err := client.Complete(context.Background(), []domain.Turn{{Role: domain.RoleUser, Text: "hi"}})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != "" {
		t.Errorf("expected empty reply, got %q", reply)
	}
}

func TestComplete_ContextCancelled(t *testing.T) {
	client := New("http://localhost:1", "llama3.1:8b", http.DefaultClient, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, []domain.Turn{{Role: domain.RoleUser, Text: "hi"}})
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	client := New("http://ollama:11434/", "m", http.DefaultClient, 0)
	if client.BaseURL != "http://ollama:11434" {
		t.Errorf("unexpected base url: %s", client.BaseURL)
	}
}

func TestVersion_ReturnsModel(t *testing.T) {
	client := New("http://ollama:11434", "llama3.1:8b", http.DefaultClient, 0)
	if client.Version() != "llama3.1:8b" {
		t.Errorf("unexpected version: %s", client.Version())
	}
}
