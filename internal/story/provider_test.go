package story

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUnconfiguredProviderGreets(t *testing.T) {
	var reasons []string
	p := NewHTTPProvider(Config{}, func(reason string) { reasons = append(reasons, reason) })

	text := p.HotelStory(context.Background(), "The Crownridge Grand", "riverside")

	if text != fallbackUnconfigured {
		t.Fatalf("expected the greeting fallback, got %q", text)
	}
	if len(reasons) != 1 || reasons[0] != "unconfigured" {
		t.Fatalf("fallback reason not reported: %v", reasons)
	}
}

func TestHotelStorySuccess(t *testing.T) {
	var gotPrompt, gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		gotPrompt = req.Prompt
		json.NewEncoder(w).Encode(generateResponse{Text: "  They say room 7 is never rented twice.  "})
	}))
	defer ts.Close()

	p := NewHTTPProvider(Config{URL: ts.URL, APIKey: "secret", Model: "test-model"}, nil)
	text := p.HotelStory(context.Background(), "The Crownridge Grand", "riverside")

	if text != "They say room 7 is never rented twice." {
		t.Fatalf("expected trimmed upstream text, got %q", text)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("missing bearer auth, got %q", gotAuth)
	}
	if !strings.Contains(gotPrompt, `"The Crownridge Grand"`) || !strings.Contains(gotPrompt, "riverside") {
		t.Fatalf("prompt missing hotel or region: %q", gotPrompt)
	}
}

func TestHotelStoryUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	var reasons []string
	p := NewHTTPProvider(Config{URL: ts.URL, APIKey: "secret"}, func(reason string) { reasons = append(reasons, reason) })
	text := p.HotelStory(context.Background(), "The Crownridge Grand", "riverside")

	if text != fallbackError {
		t.Fatalf("expected the error fallback, got %q", text)
	}
	if len(reasons) != 1 || reasons[0] != "status 503" {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
}

func TestHotelStoryEmptyBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Text: "   "})
	}))
	defer ts.Close()

	p := NewHTTPProvider(Config{URL: ts.URL, APIKey: "secret"}, nil)
	text := p.HotelStory(context.Background(), "The Crownridge Grand", "riverside")

	if text != fallbackError {
		t.Fatalf("blank upstream text not degraded: %q", text)
	}
}

func TestHotelStoryCanceledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Text: "never seen"})
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewHTTPProvider(Config{URL: ts.URL, APIKey: "secret"}, nil)
	text := p.HotelStory(ctx, "The Crownridge Grand", "riverside")

	if text != fallbackError {
		t.Fatalf("canceled fetch did not degrade: %q", text)
	}
}
