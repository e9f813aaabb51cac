package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	log.Println("╔════════════════════════════════════════════════════════════╗")
	log.Println("║  WARNING: This is a STUB of the provider APIs, for local   ║")
	log.Println("║  testing ONLY. All responses are HARDCODED placeholders.   ║")
	log.Println("║                                                            ║")
	log.Println("║  Point the config base_url values at this server:          ║")
	log.Println("║    neverbounce.base_url: http://localhost:8080             ║")
	log.Println("║    hunter.base_url:      http://localhost:8080             ║")
	log.Println("║    signalhire.base_url:  http://localhost:8080             ║")
	log.Println("╚════════════════════════════════════════════════════════════╝")
	log.Println("")
	log.Println("Starting provider stub API (hardcoded responses)...")

	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"enrich-stub-api","warning":"THIS IS A STUB - responses are hardcoded"}`))
	})

	// Metrics endpoint (placeholder)
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("# HELP enrich_stub_requests_total Total stub API requests\n"))
		w.Write([]byte("# TYPE enrich_stub_requests_total counter\n"))
		w.Write([]byte("enrich_stub_requests_total 0\n"))
	})

	// NeverBounce single check. The verdict is steered by the local part
	// so fixture files can exercise every branch: "invalid", "catchall",
	// "disposable" and "unknown" map to their statuses, "ratelimited"
	// returns 429 to poke the backoff path, everything else is valid.
	mux.HandleFunc("GET /v4/single/check", func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			http.Error(w, `{"status":"general_failure","message":"email is required"}`, http.StatusBadRequest)
			return
		}

		local := email
		if at := strings.Index(email, "@"); at >= 0 {
			local = email[:at]
		}

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(local, "ratelimited") {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":"throttle_triggered"}`))
			return
		}

		result := "valid"
		switch {
		case strings.Contains(local, "invalid"):
			result = "invalid"
		case strings.Contains(local, "disposable"):
			result = "disposable"
		case strings.Contains(local, "catchall"):
			result = "catchall"
		case strings.Contains(local, "unknown"):
			result = "unknown"
		}
		fmt.Fprintf(w, `{"status":"success","result":%q,"flags":[],"execution_time":42}`, result)
	})

	// Hunter domain search. Domains containing "nopattern" come back
	// with no opinion, everything else claims first.last at 92.
	mux.HandleFunc("GET /v2/domain-search", func(w http.ResponseWriter, r *http.Request) {
		dom := r.URL.Query().Get("domain")
		if dom == "" {
			http.Error(w, `{"errors":[{"details":"domain is required"}]}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(dom, "nopattern") {
			fmt.Fprintf(w, `{"data":{"domain":%q,"pattern":null,"emails":[]}}`, dom)
			return
		}
		fmt.Fprintf(w, `{"data":{"domain":%q,"pattern":"{first}.{last}","confidence":92,"emails":[]}}`, dom)
	})

	// SignalHire email finder. Misses on domains containing "nohit" or
	// when no last name is given, otherwise echoes first.last back.
	mux.HandleFunc("GET /v2/email-finder", func(w http.ResponseWriter, r *http.Request) {
		first := strings.ToLower(r.URL.Query().Get("first_name"))
		last := strings.ToLower(r.URL.Query().Get("last_name"))
		dom := r.URL.Query().Get("company_domain")
		if first == "" || dom == "" {
			http.Error(w, `{"error":"first_name and company_domain are required"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if last == "" || strings.Contains(dom, "nohit") {
			w.Write([]byte(`{"error":"no match found"}`))
			return
		}
		fmt.Fprintf(w, `{"email":"%s.%s@%s","phone":"+1 555 0188","social":{"linkedin":"https://linkedin.com/in/%s-%s"}}`,
			first, last, dom, first, last)
	})

	// CORS middleware
	handler := corsMiddleware(mux)

	// Create server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("X-Server-Identity", "enrich-stub-api")
		w.Header().Set("X-Server-Warning", "STUB - hardcoded responses only")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
