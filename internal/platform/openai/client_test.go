package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := map[string]string{
		"https://api.example.com/v1/":                 "https://api.example.com/v1",
		"https://api.example.com/v1/chat/completions": "https://api.example.com/v1",
		"https://api.example.com/v1":                  "https://api.example.com/v1",
		"":                                            "",
	}
	for in, want := range cases {
		if got := normalizeBaseURL(in); got != want {
			t.Fatalf("normalizeBaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(logger.NewNop(), Config{}); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestGenerateTextSingleCall(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer k" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "m" || len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"[1]"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: srv.URL + "/v1/", Model: "m"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	text, err := c.GenerateText(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "[1]" {
		t.Fatalf("unexpected text %q", text)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestGenerateTextDoesNotRetryServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`overloaded`))
	}))
	defer srv.Close()

	c, err := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.GenerateText(context.Background(), "", "user")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.HTTPStatusCode() != http.StatusServiceUnavailable {
		t.Fatalf("expected HTTPError 503, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("expected exactly 1 call, got %d", n)
	}
}

func TestGenerateTextEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: srv.URL})
	if _, err := c.GenerateText(context.Background(), "", "user"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestGenerateTextBoundsErrorBody(t *testing.T) {
	huge := strings.Repeat("x", 4*maxResponseBytes)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(huge))
	}))
	defer srv.Close()

	c, _ := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GenerateText(context.Background(), "", "user")
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected HTTPError 502, got %v", err)
	}
	if len(httpErr.Body) > maxErrorBodyLen+len("...(truncated)") {
		t.Fatalf("error body not truncated: %d bytes", len(httpErr.Body))
	}
	if len(err.Error()) > 1024 {
		t.Fatalf("error message too long: %d bytes", len(err.Error()))
	}
}

func TestGenerateTextRejectsOversizedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"`))
		_, _ = w.Write([]byte(strings.Repeat("a", maxResponseBytes)))
		_, _ = w.Write([]byte(`"}}]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(logger.NewNop(), Config{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GenerateText(context.Background(), "", "user")
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected oversized response error, got %v", err)
	}
}
