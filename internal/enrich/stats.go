package enrich

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignite/email-enrich/internal/domain"
)

// RunStats is the per-run summary: what went in, what came out, and
// which patterns did the work. It doubles as the persisted run report.
type RunStats struct {
	RunID           string                 `json:"run_id"`
	StartedAt       time.Time              `json:"started_at"`
	DurationSeconds float64                `json:"duration_seconds"`
	Total           int                    `json:"total"`
	Generated       int                    `json:"generated"`
	Verified        int                    `json:"verified"`
	Unverified      int                    `json:"unverified"`
	MissingName     int                    `json:"missing_name"`
	Failed          int                    `json:"failed"`
	NeedsReview     int                    `json:"needs_review"`
	PatternUsage    map[domain.Pattern]int `json:"pattern_usage"`
}

func newRunStats(total int) *RunStats {
	return &RunStats{
		RunID:        uuid.NewString(),
		StartedAt:    time.Now().UTC(),
		Total:        total,
		PatternUsage: make(map[domain.Pattern]int),
	}
}

func (s *RunStats) observe(out domain.ContactOutcome) {
	if out.Email != "" {
		s.Generated++
	}
	switch {
	case out.Delivered():
		s.Verified++
	case out.Status == domain.OutcomeUnverified:
		s.Unverified++
	case out.Status == domain.OutcomeMissingName:
		s.MissingName++
	case out.Status == domain.OutcomeFailed:
		s.Failed++
	}
	if out.NeedsReview {
		s.NeedsReview++
	}
	if out.PatternUsed != "" {
		s.PatternUsage[out.PatternUsed]++
	}
}

func (s *RunStats) finish() {
	s.DurationSeconds = time.Since(s.StartedAt).Seconds()
}
