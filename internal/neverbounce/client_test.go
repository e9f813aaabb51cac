package neverbounce

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/verify"
)

func TestClient_Verify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/single/check" {
			t.Errorf("URL.Path = %q, want %q", r.URL.Path, "/v4/single/check")
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q, want %q", got, "test-key")
		}
		if got := r.URL.Query().Get("email"); got != "john.smith@example.com" {
			t.Errorf("email = %q, want %q", got, "john.smith@example.com")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "success", "result": "valid", "flags": []}`))
	}))
	defer server.Close()

	client := NewClient(config.NeverBounceConfig{APIKey: "test-key", BaseURL: server.URL})

	res, err := client.Verify(context.Background(), "john.smith@example.com")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if res.Status != verify.StatusValid {
		t.Errorf("Status = %q, want %q", res.Status, verify.StatusValid)
	}
}

func TestClient_VerifyResultCases(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"result": "invalid"}`, verify.StatusInvalid},
		{`{"result": "catchall"}`, verify.StatusCatchall},
		{`{"result": "Unknown"}`, verify.StatusUnknown},
		{`{"result": "disposable"}`, verify.StatusDisposable},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(tt.body))
		}))
		client := NewClient(config.NeverBounceConfig{APIKey: "k", BaseURL: server.URL})

		res, err := client.Verify(context.Background(), "a@b.com")
		if err != nil {
			t.Fatalf("Verify(%s) returned error: %v", tt.body, err)
		}
		if res.Status != tt.want {
			t.Errorf("Status = %q, want %q", res.Status, tt.want)
		}
		server.Close()
	}
}

func TestClient_VerifyRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(config.NeverBounceConfig{APIKey: "k", BaseURL: server.URL})

	_, err := client.Verify(context.Background(), "a@b.com")
	if !errors.Is(err, verify.ErrRateLimited) {
		t.Errorf("error = %v, want verify.ErrRateLimited", err)
	}
}

func TestClient_VerifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(config.NeverBounceConfig{APIKey: "k", BaseURL: server.URL})

	if _, err := client.Verify(context.Background(), "a@b.com"); err == nil {
		t.Error("Verify returned nil error for a 500")
	}
}

func TestClient_VerifyMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(config.NeverBounceConfig{APIKey: "k", BaseURL: server.URL})

	if _, err := client.Verify(context.Background(), "a@b.com"); err == nil {
		t.Error("Verify returned nil error for a malformed body")
	}
}
