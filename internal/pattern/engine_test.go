package pattern

import (
	"context"
	"errors"
	"testing"

	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/pkg/distlock"
)

type stubLookup struct {
	hint  Hint
	found bool
	err   error
	calls int
}

func (s *stubLookup) LookupPattern(ctx context.Context, domain string) (Hint, bool, error) {
	s.calls++
	return s.hint, s.found, s.err
}

func TestEngineKnownTable(t *testing.T) {
	stub := &stubLookup{hint: Hint{Template: "{f}{last}", Confidence: 99}, found: true}
	eng := NewEngine(NewCache(""), stub, 50)

	rec := eng.Infer(context.Background(), "google.com", "", "")
	if rec.Pattern != domain.PatternFirstDotLast {
		t.Errorf("Pattern = %q, want first.last", rec.Pattern)
	}
	if rec.Confidence != domain.ConfidenceKnown {
		t.Errorf("Confidence = %q, want known", rec.Confidence)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times for a known domain", stub.calls)
	}

	rec = eng.Infer(context.Background(), "dell.com", "", "")
	if rec.Pattern != domain.PatternFirstUnderscoreLast {
		t.Errorf("dell.com Pattern = %q, want first_last", rec.Pattern)
	}
}

func TestEngineRegionalPreference(t *testing.T) {
	eng := NewEngine(NewCache(""), nil, 50)

	rec := eng.Infer(context.Background(), "bureauveritas.com", "", "")
	if rec.RecommendedDomain != "us.bureauveritas.com" {
		t.Errorf("RecommendedDomain = %q, want us.bureauveritas.com", rec.RecommendedDomain)
	}
	if rec.MailboxDomain() != "us.bureauveritas.com" {
		t.Errorf("MailboxDomain() = %q, want us.bureauveritas.com", rec.MailboxDomain())
	}
	if rec.Pattern != domain.PatternFirstDotLast || rec.Confidence != domain.ConfidenceKnown {
		t.Errorf("got %q/%q, want first.last/known", rec.Pattern, rec.Confidence)
	}
	if len(rec.RegionalDomains) != 4 {
		t.Errorf("RegionalDomains has %d entries, want 4", len(rec.RegionalDomains))
	}

	// Siemens has no us. subdomain; usa. is next in line.
	rec = eng.Infer(context.Background(), "siemens.com", "", "")
	if rec.RecommendedDomain != "usa.siemens.com" {
		t.Errorf("RecommendedDomain = %q, want usa.siemens.com", rec.RecommendedDomain)
	}
}

func TestEngineCacheShortCircuit(t *testing.T) {
	cache := NewCache("")
	cache.Put(domain.DomainPatternRecord{
		Domain:     "example.com",
		Pattern:    domain.PatternFLast,
		Confidence: domain.ConfidenceVerified,
	})
	stub := &stubLookup{hint: Hint{Template: "{first}.{last}", Confidence: 99}, found: true}
	eng := NewEngine(cache, stub, 50)

	rec := eng.Infer(context.Background(), "EXAMPLE.com", "", "")
	if rec.Pattern != domain.PatternFLast {
		t.Errorf("Pattern = %q, want cached flast", rec.Pattern)
	}
	if stub.calls != 0 {
		t.Errorf("provider called %d times despite cache hit", stub.calls)
	}
}

func TestEngineExternalLookup(t *testing.T) {
	stub := &stubLookup{hint: Hint{Template: "{first}{last}", Confidence: 93}, found: true}
	eng := NewEngine(NewCache(""), stub, 50)

	rec := eng.Infer(context.Background(), "acmewidgets.com", "", "")
	if rec.Pattern != domain.PatternFirstLast {
		t.Errorf("Pattern = %q, want firstlast", rec.Pattern)
	}
	if rec.Confidence != domain.ConfidenceVerified {
		t.Errorf("Confidence = %q, want verified", rec.Confidence)
	}
	if stub.calls != 1 {
		t.Fatalf("provider called %d times, want 1", stub.calls)
	}

	// Second touch of the same domain rides the cache.
	eng.Infer(context.Background(), "acmewidgets.com", "", "")
	if stub.calls != 1 {
		t.Errorf("provider called %d times after cache write-back, want 1", stub.calls)
	}
}

func TestEngineLowConfidenceIgnored(t *testing.T) {
	stub := &stubLookup{hint: Hint{Template: "{first}{last}", Confidence: 40}, found: true}
	eng := NewEngine(NewCache(""), stub, 50)

	rec := eng.Infer(context.Background(), "averix.io", "Averix", "")
	if rec.Pattern != domain.PatternFirstDotLast || rec.Confidence != domain.ConfidenceDefault {
		t.Errorf("got %q/%q, want first.last/default for a low-confidence answer", rec.Pattern, rec.Confidence)
	}
	if stub.calls != 1 {
		t.Errorf("provider called %d times, want 1", stub.calls)
	}
}

func TestEngineUnmappedTemplate(t *testing.T) {
	stub := &stubLookup{hint: Hint{Template: "{initials}{last}", Confidence: 80}, found: true}
	eng := NewEngine(NewCache(""), stub, 50)

	rec := eng.Infer(context.Background(), "averix.io", "", "")
	if rec.Pattern != domain.PatternFirstDotLast {
		t.Errorf("Pattern = %q, want first.last fallback for unmapped template", rec.Pattern)
	}
	if rec.Confidence != domain.ConfidenceVerified {
		t.Errorf("Confidence = %q, want verified", rec.Confidence)
	}
}

func TestEngineProviderFailureDegrades(t *testing.T) {
	stub := &stubLookup{err: errors.New("connection refused")}
	eng := NewEngine(NewCache(""), stub, 50)

	rec := eng.Infer(context.Background(), "averix.io", "Averix", "")
	if rec.Pattern != domain.PatternFirstDotLast || rec.Confidence != domain.ConfidenceDefault {
		t.Errorf("got %q/%q, want first.last/default after provider failure", rec.Pattern, rec.Confidence)
	}
}

func TestEngineIndustryHeuristic(t *testing.T) {
	eng := NewEngine(NewCache(""), nil, 50)

	rec := eng.Infer(context.Background(), "apexmed.io", "Apex Medical Devices", "")
	if rec.Confidence != domain.ConfidenceInferred {
		t.Errorf("Confidence = %q, want inferred for a medical company", rec.Confidence)
	}

	// An explicit industry column wins over keyword matching.
	rec = eng.Infer(context.Background(), "averix.io", "Averix", "Pharmaceutical")
	if rec.Confidence != domain.ConfidenceInferred {
		t.Errorf("Confidence = %q, want inferred for an explicit industry", rec.Confidence)
	}
}

func TestEngineDefault(t *testing.T) {
	eng := NewEngine(NewCache(""), nil, 50)

	rec := eng.Infer(context.Background(), "averix.io", "Averix", "")
	if rec.Pattern != domain.PatternFirstDotLast {
		t.Errorf("Pattern = %q, want first.last", rec.Pattern)
	}
	if rec.Confidence != domain.ConfidenceDefault {
		t.Errorf("Confidence = %q, want default", rec.Confidence)
	}
}

type deniedLock struct{}

func (deniedLock) Acquire(ctx context.Context) (bool, error) { return false, nil }
func (deniedLock) Release(ctx context.Context) error         { return nil }

func TestEngineLockedDomainSkipsLookup(t *testing.T) {
	stub := &stubLookup{hint: Hint{Template: "{first}{last}", Confidence: 93}, found: true}
	eng := NewEngine(NewCache(""), stub, 50)
	eng.Locker = func(string) distlock.DistLock { return deniedLock{} }

	rec := eng.Infer(context.Background(), "averix.io", "", "")
	if stub.calls != 0 {
		t.Errorf("provider called %d times while another worker held the lock", stub.calls)
	}
	if rec.Confidence != domain.ConfidenceDefault {
		t.Errorf("Confidence = %q, want default when the lookup is skipped", rec.Confidence)
	}
}

func TestTranslateTemplate(t *testing.T) {
	tests := []struct {
		template string
		want     domain.Pattern
	}{
		{"{first}.{last}", domain.PatternFirstDotLast},
		{"{f}.{last}", domain.PatternFDotLast},
		{"{first}{last}", domain.PatternFirstLast},
		{"{first}_{last}", domain.PatternFirstUnderscoreLast},
		{"{first}{l}", domain.PatternFirstL},
		{"{f}{last}", domain.PatternFLast},
		{"{last}{f}", domain.PatternLastF},
		{"{last}", domain.PatternLast},
		{"{first}", domain.PatternFirst},
		{"{last}.{first}", domain.PatternLastDotFirst},
		{"{l}.{first}", domain.PatternLDotFirst},
		{"{something}{else}", domain.PatternFirstDotLast},
		{" {First}.{Last} ", domain.PatternFirstDotLast},
	}
	for _, tt := range tests {
		if got := translateTemplate(tt.template); got != tt.want {
			t.Errorf("translateTemplate(%q) = %q, want %q", tt.template, got, tt.want)
		}
	}
}

func TestIndustryFromCompany(t *testing.T) {
	tests := []struct {
		company string
		want    string
	}{
		{"Apex Medical Devices", "medical"},
		{"BioGen Pharma", "medical"},
		{"DataSoft Solutions", "technology"},
		{"Sterling Advisory Partners", "consulting"},
		{"Midwest Industrial Corp", "manufacturing"},
		{"Averix", ""},
	}
	for _, tt := range tests {
		if got := IndustryFromCompany(tt.company); got != tt.want {
			t.Errorf("IndustryFromCompany(%q) = %q, want %q", tt.company, got, tt.want)
		}
	}
}
