// Package pattern decides which mailbox naming convention a company
// domain follows. Evidence is walked in strict priority order: the run
// cache, the curated known-company table, curated regional subdomains,
// an external lookup provider, industry keyword heuristics, and finally
// the catalog default. The first source with an answer wins, and the
// result is cached so every later contact on the same domain reuses it
// without another billed call.
package pattern

import (
	"context"
	"strings"

	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/pkg/distlock"
	"github.com/ignite/email-enrich/internal/pkg/logger"
)

// Hint is a lookup provider's raw answer: its template syntax plus a
// confidence percentage (0 when the provider gave none).
type Hint struct {
	Template   string
	Confidence int
}

// LookupProvider is the external domain-pattern lookup contract.
// ok=false means the provider had no opinion for the domain; err is
// reserved for transport failure. Both degrade to the next cascade
// step, never to a caller-visible error.
type LookupProvider interface {
	LookupPattern(ctx context.Context, domain string) (Hint, bool, error)
}

// templateToPattern translates provider template syntax onto the
// catalog. Templates outside the map fall back to first.last.
var templateToPattern = map[string]domain.Pattern{
	"{first}.{last}": domain.PatternFirstDotLast,
	"{f}.{last}":     domain.PatternFDotLast,
	"{first}{last}":  domain.PatternFirstLast,
	"{first}_{last}": domain.PatternFirstUnderscoreLast,
	"{first}{l}":     domain.PatternFirstL,
	"{f}{last}":      domain.PatternFLast,
	"{last}{f}":      domain.PatternLastF,
	"{last}":         domain.PatternLast,
	"{first}":        domain.PatternFirst,
	"{last}.{first}": domain.PatternLastDotFirst,
	"{l}.{first}":    domain.PatternLDotFirst,
}

func translateTemplate(tpl string) domain.Pattern {
	if p, ok := templateToPattern[strings.ToLower(strings.TrimSpace(tpl))]; ok {
		return p
	}
	return domain.PatternFirstDotLast
}

// Engine settles the mailbox convention for a domain.
//
// Locker, when set, wraps the billed external lookup in a best-effort
// distributed lock so parallel workers sharing a Redis do not pay twice
// for the same domain. The loser of the race resolves heuristically.
type Engine struct {
	cache         *Cache
	lookup        LookupProvider
	minConfidence int

	Locker func(domain string) distlock.DistLock
}

// NewEngine wires the cascade. lookup may be nil, which skips the
// external step. Provider answers below minConfidence percent are
// ignored.
func NewEngine(cache *Cache, lookup LookupProvider, minConfidence int) *Engine {
	if minConfidence <= 0 {
		minConfidence = 50
	}
	return &Engine{
		cache:         cache,
		lookup:        lookup,
		minConfidence: minConfidence,
	}
}

// Infer returns the pattern record for a domain, resolving and caching
// it on first touch. The first contact to reach a domain fixes the
// pattern every later contact on that domain uses.
func (e *Engine) Infer(ctx context.Context, dom, company, industry string) domain.DomainPatternRecord {
	dom = strings.ToLower(strings.TrimSpace(dom))

	if rec, ok := e.cache.Get(dom); ok {
		logger.Debug("pattern_cache_hit", "domain", dom, "pattern", string(rec.Pattern))
		return rec
	}

	rec := e.resolve(ctx, dom, company, industry)
	e.cache.Put(rec)
	logger.Info("pattern_selected",
		"domain", dom,
		"pattern", string(rec.Pattern),
		"confidence", string(rec.Confidence),
		"mailbox_domain", rec.MailboxDomain())
	return rec
}

func (e *Engine) resolve(ctx context.Context, dom, company, industry string) domain.DomainPatternRecord {
	rec := domain.DomainPatternRecord{Domain: dom}

	known, haveKnown := knownPatterns[dom]
	if haveKnown {
		rec.Pattern = known
		rec.Confidence = domain.ConfidenceKnown
	}

	// Regional subdomains refine a known company: the pattern may come
	// from the table above, but mail should route through the preferred
	// country domain. All discovered regionals are recorded either way.
	if entries := regionalPatterns[dom]; len(entries) > 0 {
		rec.RegionalDomains = make(map[string]domain.Pattern, len(entries))
		for _, entry := range entries {
			rec.RegionalDomains[entry.Domain] = entry.Pattern
		}
		pick := preferredRegional(dom, entries)
		rec.RecommendedDomain = pick.Domain
		rec.Pattern = pick.Pattern
		rec.Confidence = domain.ConfidenceKnown
		return rec
	}
	if haveKnown {
		return rec
	}

	if p, ok := e.lookupPattern(ctx, dom); ok {
		rec.Pattern = p
		rec.Confidence = domain.ConfidenceVerified
		return rec
	}

	if p, ok := industryPattern(company, industry); ok {
		rec.Pattern = p
		rec.Confidence = domain.ConfidenceInferred
		return rec
	}

	rec.Pattern = domain.PatternFirstDotLast
	rec.Confidence = domain.ConfidenceDefault
	return rec
}

func (e *Engine) lookupPattern(ctx context.Context, dom string) (domain.Pattern, bool) {
	if e.lookup == nil {
		return "", false
	}

	lock := e.domainLock(dom)
	acquired, err := lock.Acquire(ctx)
	switch {
	case err != nil:
		// Lock service unavailable: fail open and do the lookup.
	case !acquired:
		logger.Debug("pattern_lookup_skipped", "domain", dom, "reason", "locked by another worker")
		return "", false
	default:
		defer lock.Release(ctx)
	}

	hint, ok, err := e.lookup.LookupPattern(ctx, dom)
	if err != nil {
		logger.Warn("pattern_lookup_failed", "domain", dom, "error", err.Error())
		return "", false
	}
	if !ok {
		return "", false
	}
	if hint.Confidence < e.minConfidence {
		logger.Debug("pattern_lookup_below_threshold",
			"domain", dom, "confidence", hint.Confidence, "minimum", e.minConfidence)
		return "", false
	}
	return translateTemplate(hint.Template), true
}

func (e *Engine) domainLock(dom string) distlock.DistLock {
	if e.Locker == nil {
		return distlock.NewDomainLock(nil, dom, 0)
	}
	return e.Locker(dom)
}
