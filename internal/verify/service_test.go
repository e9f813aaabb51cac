package verify

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type scriptedProvider struct {
	responses []func() (Result, error)
	calls     int
	emails    []string
}

func (p *scriptedProvider) Verify(ctx context.Context, email string) (Result, error) {
	idx := p.calls
	p.calls++
	p.emails = append(p.emails, email)
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx]()
}

func ok(status string) func() (Result, error) {
	return func() (Result, error) { return Result{Status: status}, nil }
}

func fail(err error) func() (Result, error) {
	return func() (Result, error) { return Result{}, err }
}

func fastOptions() Options {
	return Options{
		Timeout:     50 * time.Millisecond,
		BaseDelay:   time.Millisecond,
		MaxBackoff:  10 * time.Millisecond,
		MaxAttempts: 3,
	}
}

func TestVerifyStatusPolicy(t *testing.T) {
	tests := []struct {
		status string
		strict bool
		want   bool
	}{
		{StatusValid, false, true},
		{StatusCatchall, false, true},
		{StatusInvalid, false, false},
		{StatusUnknown, false, false},
		{StatusDisposable, false, false},
		{StatusValid, true, true},
		{StatusCatchall, true, false},
	}

	for _, tt := range tests {
		name := tt.status
		if tt.strict {
			name += "_strict"
		}
		t.Run(name, func(t *testing.T) {
			opts := fastOptions()
			opts.StrictValid = tt.strict
			svc := NewService(&scriptedProvider{responses: []func() (Result, error){ok(tt.status)}}, nil, opts)
			if got := svc.Verify(context.Background(), "a.b@example.com"); got != tt.want {
				t.Errorf("Verify(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestVerifyCacheWriteOnce(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){ok(StatusValid)}}
	svc := NewService(provider, nil, fastOptions())

	if !svc.Verify(context.Background(), "John.Smith@Example.COM") {
		t.Fatal("first Verify = false, want true")
	}
	if !svc.Verify(context.Background(), "john.smith@example.com") {
		t.Fatal("second Verify = false, want true")
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1 (case variants share an entry)", provider.calls)
	}
	if provider.emails[0] != "john.smith@example.com" {
		t.Errorf("provider saw %q, want lowercased address", provider.emails[0])
	}
}

func TestVerifyCachesNegatives(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){ok(StatusInvalid)}}
	svc := NewService(provider, nil, fastOptions())

	if svc.Verify(context.Background(), "no.body@example.com") {
		t.Fatal("Verify = true for invalid status")
	}
	if svc.Verify(context.Background(), "no.body@example.com") {
		t.Fatal("cached Verify = true for invalid status")
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1 (negatives cached too)", provider.calls)
	}
}

func TestVerifyRateLimitBackoff(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){
		fail(ErrRateLimited),
		fail(fmt.Errorf("check throttled: %w", ErrRateLimited)),
		ok(StatusValid),
	}}
	svc := NewService(provider, nil, fastOptions())

	if !svc.Verify(context.Background(), "a.b@example.com") {
		t.Fatal("Verify = false, want true after backoff retries")
	}
	if provider.calls != 3 {
		t.Errorf("provider called %d times, want 3", provider.calls)
	}
}

func TestVerifyRateLimitExhausted(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){fail(ErrRateLimited)}}
	opts := fastOptions()
	opts.MaxAttempts = 2
	svc := NewService(provider, nil, opts)

	if svc.Verify(context.Background(), "a.b@example.com") {
		t.Fatal("Verify = true, want false when rate limit never clears")
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestVerifyTimeoutRetriesOnce(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){
		fail(context.DeadlineExceeded),
		ok(StatusValid),
	}}
	svc := NewService(provider, nil, fastOptions())

	if !svc.Verify(context.Background(), "a.b@example.com") {
		t.Fatal("Verify = false, want true after one timeout retry")
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestVerifySecondTimeoutGivesUp(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){fail(context.DeadlineExceeded)}}
	svc := NewService(provider, nil, fastOptions())

	if svc.Verify(context.Background(), "a.b@example.com") {
		t.Fatal("Verify = true, want false after repeated timeouts")
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want exactly 2 (one retry with longer deadline)", provider.calls)
	}
}

func TestVerifyTransportErrorDegrades(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){fail(errors.New("connection refused"))}}
	svc := NewService(provider, nil, fastOptions())

	if svc.Verify(context.Background(), "a.b@example.com") {
		t.Fatal("Verify = true, want false on transport error")
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1 (no retry for hard failures)", provider.calls)
	}
}

func TestVerifyEmptyAddress(t *testing.T) {
	provider := &scriptedProvider{responses: []func() (Result, error){ok(StatusValid)}}
	svc := NewService(provider, nil, fastOptions())

	if svc.Verify(context.Background(), "  ") {
		t.Fatal("Verify = true for blank address")
	}
	if provider.calls != 0 {
		t.Errorf("provider called %d times for blank address", provider.calls)
	}
}
