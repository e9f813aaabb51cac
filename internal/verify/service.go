// Package verify answers one question per candidate address: is this
// mailbox deliverable. Verdicts are cached write-once for the run,
// positives and negatives alike, because every uncached answer is a
// billed provider call.
package verify

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/ignite/email-enrich/internal/pkg/logger"
	"github.com/ignite/email-enrich/internal/pkg/ratelimit"
)

// Provider statuses. Anything outside valid/catchall means not
// deliverable.
const (
	StatusValid      = "valid"
	StatusInvalid    = "invalid"
	StatusCatchall   = "catchall"
	StatusUnknown    = "unknown"
	StatusDisposable = "disposable"
)

// Result is a verification provider's verdict for one address.
type Result struct {
	Status string
}

// Provider is the mailbox verification contract. Implementations
// return ErrRateLimited (wrapped is fine) on HTTP 429 so the service
// can back off instead of burning the address.
type Provider interface {
	Verify(ctx context.Context, email string) (Result, error)
}

// ErrRateLimited signals that the provider throttled the request.
var ErrRateLimited = errors.New("verification provider rate limited")

// Options tune retry and policy behavior. Zero values get sensible
// defaults from NewService.
type Options struct {
	// Timeout is the per-call deadline. A call that times out is retried
	// exactly once with double the deadline.
	Timeout time.Duration
	// BaseDelay seeds the rate-limit backoff: base << attempt, capped at
	// MaxBackoff.
	BaseDelay  time.Duration
	MaxBackoff time.Duration
	// MaxAttempts caps rate-limit retries.
	MaxAttempts int
	// StrictValid stops counting catchall responses as deliverable.
	StrictValid bool
	// Pacer gates billed provider calls. Cache hits bypass it. Nil means
	// no pacing.
	Pacer ratelimit.Pacer
}

// Service wraps a Provider with caching, backoff and the deliverability
// policy. Verify never returns an error: every failure mode degrades to
// false so the orchestrator can move on to the next candidate.
type Service struct {
	provider Provider
	cache    Cache
	opts     Options
}

func NewService(provider Provider, cache Cache, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Pacer == nil {
		opts.Pacer = ratelimit.Unlimited{}
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Service{provider: provider, cache: cache, opts: opts}
}

// Verify reports whether the address is deliverable. The address is
// lowercased before lookup so case variants share one cache entry and
// one billed call.
func (s *Service) Verify(ctx context.Context, email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || s.provider == nil {
		return false
	}

	if deliverable, ok := s.cache.Get(ctx, email); ok {
		logger.Debug("verify_cache_hit", "email", email, "deliverable", deliverable)
		return deliverable
	}

	deliverable := s.callProvider(ctx, email)
	s.cache.Put(ctx, email, deliverable)
	logger.Info("candidate_verified", "email", email, "deliverable", deliverable)
	return deliverable
}

func (s *Service) callProvider(ctx context.Context, email string) bool {
	if err := s.opts.Pacer.Wait(ctx); err != nil {
		logger.Warn("verify_pacer_interrupted", "email", email, "error", err.Error())
		return false
	}

	timeout := s.opts.Timeout

	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		res, err := s.provider.Verify(callCtx, email)
		cancel()

		switch {
		case err == nil:
			return s.deliverable(res.Status)

		case errors.Is(err, ErrRateLimited):
			if attempt+1 >= s.opts.MaxAttempts {
				logger.Warn("verify_rate_limit_exhausted", "email", email, "attempts", attempt+1)
				return false
			}
			delay := s.backoff(attempt)
			logger.Warn("verify_rate_limited", "email", email, "retry_in", delay.String())
			if !sleepCtx(ctx, delay) {
				return false
			}

		case isTimeout(err):
			if timeout > s.opts.Timeout {
				// Second timeout on the extended deadline: give up.
				logger.Warn("verify_timeout", "email", email)
				return false
			}
			timeout *= 2
			logger.Debug("verify_timeout_retry", "email", email, "timeout", timeout.String())

		default:
			logger.Warn("verify_failed", "email", email, "error", err.Error())
			return false
		}
	}
}

func (s *Service) deliverable(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusValid:
		return true
	case StatusCatchall:
		return !s.opts.StrictValid
	default:
		return false
	}
}

func (s *Service) backoff(attempt int) time.Duration {
	delay := s.opts.BaseDelay << attempt
	if delay > s.opts.MaxBackoff {
		delay = s.opts.MaxBackoff
	}
	return delay
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}

// Disabled stands in when no verification provider is configured.
// Nothing verifies, so generated candidates surface as unverified
// instead of silently passing.
type Disabled struct{}

func (Disabled) Verify(ctx context.Context, email string) bool { return false }
