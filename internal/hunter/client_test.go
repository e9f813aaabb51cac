package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ignite/email-enrich/internal/config"
)

func TestClient_LookupPattern(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/domain-search" {
			t.Errorf("URL.Path = %q, want %q", r.URL.Path, "/v2/domain-search")
		}
		q := r.URL.Query()
		if got := q.Get("domain"); got != "stripe.com" {
			t.Errorf("domain = %q, want %q", got, "stripe.com")
		}
		if got := q.Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q, want %q", got, "test-key")
		}
		if got := q.Get("limit"); got != "10" {
			t.Errorf("limit = %q, want %q", got, "10")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"pattern": "{first}.{last}", "confidence": 92, "organization": "Stripe"}}`))
	}))
	defer server.Close()

	client := NewClient(config.HunterConfig{
		APIKey:         "test-key",
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
	})

	hint, found, err := client.LookupPattern(context.Background(), "stripe.com")
	if err != nil {
		t.Fatalf("LookupPattern returned error: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if hint.Template != "{first}.{last}" {
		t.Errorf("Template = %q, want %q", hint.Template, "{first}.{last}")
	}
	if hint.Confidence != 92 {
		t.Errorf("Confidence = %d, want 92", hint.Confidence)
	}
}

func TestClient_LookupPatternNoOpinion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"organization": "Mystery Co"}}`))
	}))
	defer server.Close()

	client := NewClient(config.HunterConfig{APIKey: "k", BaseURL: server.URL, TimeoutSeconds: 5})

	_, found, err := client.LookupPattern(context.Background(), "mystery.io")
	if err != nil {
		t.Fatalf("LookupPattern returned error: %v", err)
	}
	if found {
		t.Error("found = true for a response without a pattern")
	}
}

func TestClient_LookupPatternServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors": [{"details": "bad domain"}]}`))
	}))
	defer server.Close()

	client := NewClient(config.HunterConfig{APIKey: "k", BaseURL: server.URL, TimeoutSeconds: 5})

	if _, _, err := client.LookupPattern(context.Background(), "nope"); err == nil {
		t.Error("LookupPattern returned nil error for a 400")
	}
}
