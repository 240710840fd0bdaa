package line

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"kiatsu-notification/api"
)

func TestPush(t *testing.T) {
	var received map[string]interface{}

	// Handler to verify request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST; got %s", r.Method)
		}
		if r.URL.Path != "/message/push" {
			t.Errorf("expected path /message/push; got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer channel-token" {
			t.Errorf("Authorization = %q; want Bearer channel-token", got)
		}

		b, _ := ioutil.ReadAll(r.Body)
		json.Unmarshal(b, &received)

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewLineClient(api.NewHTTPClient(srv.URL), "channel-token")

	if err := client.Push(context.Background(), "U12345", "【松江市の気圧情報】"); err != nil {
		t.Fatal(err)
	}

	if got, ok := received["to"]; !ok || got != "U12345" {
		t.Errorf("body[to] = %v; want U12345", got)
	}
	messages, ok := received["messages"].([]interface{})
	if !ok || len(messages) != 1 {
		t.Fatalf("body[messages] = %v; want one message", received["messages"])
	}
	message := messages[0].(map[string]interface{})
	if message["type"] != "text" {
		t.Errorf("message type = %v; want text", message["type"])
	}
	if message["text"] != "【松江市の気圧情報】" {
		t.Errorf("message text = %v; want the pushed body", message["text"])
	}
}

func TestPush_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"The request body has 1 error(s)"}`))
	}))
	defer srv.Close()

	client := NewLineClient(api.NewHTTPClient(srv.URL), "channel-token")

	if err := client.Push(context.Background(), "U12345", "body"); err == nil {
		t.Fatal("Expected an error on 400, got nil")
	}
}
