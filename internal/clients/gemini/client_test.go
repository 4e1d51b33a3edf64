package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sparklab/ideahub-backend/internal/pkg/apperr"
	"github.com/sparklab/ideahub-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)

	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	c, err := NewClient(log, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestCompleteSendsPromptAndJoinsParts(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateContentRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]string{{"text": "Hello "}, {"text": "world"}},
				},
			}},
		})
	})

	text, err := c.Complete(context.Background(), "gemini-1.5-flash", "say hello")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "Hello world" {
		t.Fatalf("text=%q, want parts joined", text)
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("api key header=%q, want test-key", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 1 || gotBody.Contents[0].Parts[0].Text != "say hello" {
		t.Fatalf("request body=%+v, want the prompt as a single part", gotBody)
	}
}

func TestCompleteFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http_error_status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
			},
		},
		{
			name: "empty_candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
		},
		{
			name: "empty_text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":""}]}}]}`))
			},
		},
		{
			name: "not_json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>nope</html>`))
			},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)
			_, err := c.Complete(context.Background(), "gemini-pro", "prompt")
			if !errors.Is(err, apperr.ErrGeneration) {
				t.Fatalf("err=%v, want ErrGeneration", err)
			}
		})
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	if _, err := NewClient(log, time.Second); err == nil {
		t.Fatal("NewClient succeeded without GEMINI_API_KEY")
	}
}
