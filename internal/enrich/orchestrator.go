// Package enrich drives the per-contact enrichment flow: clean the name,
// resolve the domain, infer the mailbox pattern, generate candidates, and
// verify them in order. Every input row gets an outcome; a contact is
// tagged rather than dropped when nothing verifies.
package enrich

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/names"
	"github.com/ignite/email-enrich/internal/pattern"
	"github.com/ignite/email-enrich/internal/pkg/logger"
)

// Verifier reports whether an address is deliverable. It never errors;
// every failure mode reads as not deliverable.
type Verifier interface {
	Verify(ctx context.Context, email string) bool
}

// Finder looks up a person's direct address at a company domain, with
// whatever side-channel data (phone, social links) the provider carries.
type Finder interface {
	FindEmail(ctx context.Context, first, last, companyDomain string) (domain.FinderProfile, bool, error)
}

// NameRepairer recovers name parts from a raw string that the rule
// pipeline could not clean into something usable.
type NameRepairer interface {
	RepairName(ctx context.Context, raw string) (first, last string, ok bool, err error)
}

// Options tune the run. Optional collaborators are nil-safe.
type Options struct {
	// VerifyExisting sends a plausible input-provided address through
	// verification before any generation.
	VerifyExisting bool
	// FlushEvery flushes the pattern cache after that many contacts.
	// Zero flushes only at the end of the run.
	FlushEvery int
	// Pace is the minimum delay between contacts.
	Pace time.Duration
	// DefaultDomain is the synthetic last-resort domain when no source
	// field resolves. Defaults to company.com.
	DefaultDomain string
	// Finder, when set, is consulted before pattern candidates.
	Finder Finder
	// Repairer, when set, gets a shot at rows whose names did not
	// survive cleaning.
	Repairer NameRepairer
	// Progress is called after each contact with (done, total).
	Progress func(done, total int)
}

// Orchestrator runs the enrichment flow sequentially over a batch.
type Orchestrator struct {
	engine    *pattern.Engine
	verifier  Verifier
	generator *Generator
	cache     *pattern.Cache
	opts      Options
}

func NewOrchestrator(engine *pattern.Engine, verifier Verifier, generator *Generator, cache *pattern.Cache, opts Options) *Orchestrator {
	if opts.DefaultDomain == "" {
		opts.DefaultDomain = "company.com"
	}
	if generator == nil {
		generator = NewGenerator(0)
	}
	return &Orchestrator{
		engine:    engine,
		verifier:  verifier,
		generator: generator,
		cache:     cache,
		opts:      opts,
	}
}

// Run enriches the batch in input order and returns one outcome per
// contact plus the run summary. A canceled context stops the run early;
// outcomes produced so far are still returned.
func (o *Orchestrator) Run(ctx context.Context, contacts []domain.Contact) ([]domain.ContactOutcome, *RunStats) {
	stats := newRunStats(len(contacts))
	outcomes := make([]domain.ContactOutcome, 0, len(contacts))

	logger.Info("enrichment_run_started", "run_id", stats.RunID, "contacts", len(contacts))

	for i, c := range contacts {
		if ctx.Err() != nil {
			logger.Warn("enrichment_run_interrupted", "run_id", stats.RunID, "done", i, "total", len(contacts))
			break
		}

		outcome := o.enrichContact(ctx, c)
		outcomes = append(outcomes, outcome)
		stats.observe(outcome)

		if o.opts.Progress != nil {
			o.opts.Progress(i+1, len(contacts))
		}
		if o.opts.FlushEvery > 0 && (i+1)%o.opts.FlushEvery == 0 {
			o.flushCache()
		}
		if o.opts.Pace > 0 && i+1 < len(contacts) {
			sleepCtx(ctx, o.opts.Pace)
		}
	}

	o.flushCache()
	stats.finish()
	logger.Info("enrichment_run_finished", "run_id", stats.RunID,
		"generated", stats.Generated, "verified", stats.Verified,
		"unverified", stats.Unverified, "missing_name", stats.MissingName,
		"failed", stats.Failed, "duration_seconds", stats.DurationSeconds)
	return outcomes, stats
}

func (o *Orchestrator) enrichContact(ctx context.Context, c domain.Contact) domain.ContactOutcome {
	parts := o.resolveNames(ctx, c)
	if !parts.Usable() {
		return o.finish(c, domain.ContactOutcome{ContactID: c.ID, Status: domain.OutcomeMissingName})
	}

	if o.opts.VerifyExisting {
		if existing := cleanExistingEmail(c.Email); existing != "" && o.verifier.Verify(ctx, existing) {
			return o.finish(c, domain.ContactOutcome{
				ContactID: c.ID,
				Email:     existing,
				Status:    domain.OutcomeVerifiedKnown,
			})
		}
	}

	dom := c.ResolveDomain()
	synthetic := dom == ""
	if synthetic {
		dom = o.opts.DefaultDomain
	}
	logger.Debug("domain_resolved", "domain", dom, "synthetic", synthetic)

	rec := o.engine.Infer(ctx, dom, c.Company, c.Industry)

	var foundPhone string
	if o.opts.Finder != nil {
		profile, found, err := o.opts.Finder.FindEmail(ctx, parts.First, parts.Last, rec.MailboxDomain())
		if err != nil {
			logger.Warn("finder_failed", "domain", rec.MailboxDomain(), "error", err.Error())
		}
		foundPhone = profile.Phone
		if found && domain.ValidEmail(profile.Email) && o.verifier.Verify(ctx, profile.Email) {
			return o.finish(c, domain.ContactOutcome{
				ContactID: c.ID,
				Email:     profile.Email,
				Status:    domain.OutcomeVerifiedGenerated,
				Phone:     foundPhone,
			})
		}
	}

	cands := o.generator.Generate(parts, rec)
	if len(cands) == 0 {
		return o.finish(c, domain.ContactOutcome{ContactID: c.ID, Status: domain.OutcomeFailed, Phone: foundPhone})
	}

	for _, cand := range cands {
		if !o.verifier.Verify(ctx, cand.Address()) {
			continue
		}
		status := domain.OutcomeVerifiedGenerated
		if rec.Confidence == domain.ConfidenceKnown && cand.Pattern == rec.Pattern {
			status = domain.OutcomeVerifiedKnown
		}
		return o.finish(c, domain.ContactOutcome{
			ContactID:   c.ID,
			Email:       cand.Address(),
			Status:      status,
			PatternUsed: cand.Pattern,
			Phone:       foundPhone,
		})
	}

	first := cands[0]
	return o.finish(c, domain.ContactOutcome{
		ContactID:   c.ID,
		Email:       first.Address(),
		Status:      domain.OutcomeUnverified,
		PatternUsed: first.Pattern,
		Phone:       foundPhone,
	})
}

// resolveNames runs the cleaning pipeline, then the LinkedIn slug check,
// then the optional model-backed repair for rows left unusable.
func (o *Orchestrator) resolveNames(ctx context.Context, c domain.Contact) domain.NameParts {
	parts := names.Standardize(c.FirstName, c.LastName)
	if c.LinkedIn != "" {
		parts = names.ValidateWithProfile(parts, c.LinkedIn)
	}
	if parts.Usable() || o.opts.Repairer == nil {
		return parts
	}

	raw := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if raw == "" {
		return parts
	}
	first, last, ok, err := o.opts.Repairer.RepairName(ctx, raw)
	if err != nil {
		logger.Warn("name_repair_failed", "error", err.Error())
		return parts
	}
	if !ok {
		return parts
	}
	repaired := names.Standardize(first, last)
	if repaired.Usable() {
		logger.Info("name_repaired", "first", logger.RedactName(repaired.First), "last", logger.RedactName(repaired.Last))
		return repaired
	}
	return parts
}

// finish fills the fields every outcome shares: the phone falls back to
// the input row's, and the review flag mirrors the original tool's rule
// (missing or implausible email, domain column, or phone).
func (o *Orchestrator) finish(c domain.Contact, out domain.ContactOutcome) domain.ContactOutcome {
	if out.Phone == "" {
		out.Phone = strings.TrimSpace(c.Phone)
	}
	out.NeedsReview = !domain.ValidEmail(out.Email) ||
		domain.CleanDomain(c.Domain) == "" ||
		out.Phone == ""
	return out
}

func (o *Orchestrator) flushCache() {
	if o.cache == nil {
		return
	}
	if err := o.cache.Flush(); err != nil {
		logger.Warn("pattern_cache_flush_failed", "error", err.Error())
	}
}

var (
	// Placeholder values like "No Email" or "no email found" read as blank.
	placeholderRe = regexp.MustCompile(`(?i)no\s*email`)
	// Input addresses sometimes arrive with emoji or checkmark prefixes.
	emojiPrefixRe = regexp.MustCompile(`^[^a-zA-Z0-9]+\s*`)
)

// cleanExistingEmail normalizes an input-provided address, returning ""
// when the value is a placeholder or fails the syntax check.
func cleanExistingEmail(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || placeholderRe.MatchString(raw) {
		return ""
	}
	cleaned := strings.ToLower(strings.TrimSpace(emojiPrefixRe.ReplaceAllString(raw, "")))
	if !domain.ValidEmail(cleaned) {
		return ""
	}
	return cleaned
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
