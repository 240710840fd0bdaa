package groq

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"kiatsu-notification/api"

	"go.uber.org/zap"
)

func TestGenerate(t *testing.T) {
	var received map[string]interface{}

	// Handler to verify request and return stubbed JSON
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST; got %s", r.Method)
		}
		if r.URL.Path != "/chat/completions" {
			t.Errorf("expected path /chat/completions; got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q; want Bearer secret", got)
		}

		b, _ := ioutil.ReadAll(r.Body)
		json.Unmarshal(b, &received)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  体調に気をつけて。  "}}]}`))
	}))
	defer srv.Close()

	client := NewGroqClient(api.NewHTTPClient(srv.URL), "secret", zap.NewNop())

	got, err := client.Generate(context.Background(), "アドバイスをください")
	if err != nil {
		t.Fatal(err)
	}
	if got != "体調に気をつけて。" {
		t.Errorf("Generate = %q; want the trimmed content", got)
	}

	if got, ok := received["model"]; !ok || got != GROQ_MODEL {
		t.Errorf("body[model] = %v; want %s", got, GROQ_MODEL)
	}
	if got, ok := received["max_tokens"]; !ok || got != 500.0 {
		t.Errorf("body[max_tokens] = %v; want 500", got)
	}
	messages, ok := received["messages"].([]interface{})
	if !ok || len(messages) != 1 {
		t.Fatalf("body[messages] = %v; want one message", received["messages"])
	}
	message := messages[0].(map[string]interface{})
	if message["role"] != "user" || message["content"] != "アドバイスをください" {
		t.Errorf("message = %v; want the user prompt", message)
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewGroqClient(api.NewHTTPClient(srv.URL), "secret", zap.NewNop())

	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("Expected an error on 500, got nil")
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewGroqClient(api.NewHTTPClient(srv.URL), "secret", zap.NewNop())

	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("Expected an error on empty choices, got nil")
	}
}

func TestGenerate_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewGroqClient(api.NewHTTPClient(srv.URL), "secret", zap.NewNop())

	for i := 0; i < 5; i++ {
		if _, err := client.Generate(context.Background(), "prompt"); err == nil {
			t.Fatal("Expected an error, got nil")
		}
	}

	// The breaker trips after the third failure; later calls never reach
	// the server.
	if hits != 3 {
		t.Errorf("Server hits = %d; want 3", hits)
	}
}
