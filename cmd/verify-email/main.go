package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/enrich"
	"github.com/ignite/email-enrich/internal/hunter"
	"github.com/ignite/email-enrich/internal/names"
	"github.com/ignite/email-enrich/internal/neverbounce"
	"github.com/ignite/email-enrich/internal/pattern"
	"github.com/ignite/email-enrich/internal/pkg/logger"
	"github.com/ignite/email-enrich/internal/pkg/ratelimit"
	"github.com/ignite/email-enrich/internal/verify"
)

// maxShownCandidates caps the addresses listed in the candidate check
// so a hyphenated surname does not flood the report.
const maxShownCandidates = 5

type checkResult struct {
	Name    string
	Passed  bool
	Detail  string
	Elapsed time.Duration
}

func main() {
	args := os.Args[1:]

	email := flagValue(args, "--email")
	first := flagValue(args, "--first")
	last := flagValue(args, "--last")
	domFlag := flagValue(args, "--domain")
	company := flagValue(args, "--company")

	if email == "" && first == "" {
		printUsage()
		os.Exit(1)
	}
	if email != "" && first != "" {
		fatal("--email and --first/--last are mutually exclusive")
	}
	if email == "" && domFlag == "" && company == "" {
		fatal("name mode needs --domain or --company to place the address")
	}

	cfgPath := flagValue(args, "--config")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadFromEnv(cfgPath)
	if err != nil {
		fatal("loading config: %v", err)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(!cfg.Logging.LogRawPII)

	fmt.Println("=========================================================")
	fmt.Println(" Email Address Diagnostic")
	fmt.Println("=========================================================")
	if email != "" {
		fmt.Printf("Address:    %s\n", email)
	} else {
		fmt.Printf("Name:       %s %s\n", first, last)
		if domFlag != "" {
			fmt.Printf("Domain:     %s\n", domFlag)
		}
		if company != "" {
			fmt.Printf("Company:    %s\n", company)
		}
	}
	fmt.Printf("Config:     %s\n", cfgPath)
	if !cfg.NeverBounce.Enabled {
		fmt.Println("Note:       deliverability check skipped (no NeverBounce API key)")
	}
	fmt.Println("---------------------------------------------------------")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// The pattern cache is read for diagnosis but never flushed, so a
	// dry-run lookup cannot disturb the on-disk state.
	patternCache := pattern.NewCache(cfg.Enrich.PatternCachePath)
	if err := patternCache.Hydrate(); err != nil {
		logger.Warn("pattern_cache_hydrate_failed", "error", err.Error())
	}
	fmt.Printf("✓ Pattern cache loaded (%d domains)\n", patternCache.Len())
	fmt.Println()

	var lookup pattern.LookupProvider
	if cfg.Hunter.Enabled {
		lookup = hunter.NewClient(cfg.Hunter)
	}
	engine := pattern.NewEngine(patternCache, lookup, cfg.Hunter.MinConfidence)

	var verifier enrich.Verifier
	if cfg.NeverBounce.Enabled {
		verifier = verify.NewService(neverbounce.NewClient(cfg.NeverBounce), verify.NewMemoryCache(), verify.Options{
			Timeout:     cfg.NeverBounce.Timeout(),
			BaseDelay:   cfg.NeverBounce.BaseDelay(),
			MaxBackoff:  cfg.NeverBounce.MaxBackoff(),
			StrictValid: cfg.NeverBounce.StrictValid,
			Pacer:       ratelimit.NewLocal(cfg.NeverBounce.RatePerMinute),
		})
	}

	var results []checkResult
	if email != "" {
		results = diagnoseAddress(ctx, engine, patternCache, verifier, email)
	} else {
		results = diagnoseContact(ctx, engine, patternCache, verifier, first, last, domFlag, company)
	}

	// Print report
	fmt.Println()
	fmt.Println("=========================================================")
	fmt.Println(" DIAGNOSTIC REPORT")
	fmt.Println("=========================================================")

	allPassed := true
	for i, r := range results {
		status := "PASS ✓"
		if !r.Passed {
			status = "FAIL ✗"
			allPassed = false
		}
		fmt.Printf("  [%d] %-45s %s  (%s)\n", i+1, r.Name, status, r.Elapsed.Round(time.Millisecond))
		if r.Detail != "" {
			for _, line := range strings.Split(r.Detail, "\n") {
				fmt.Printf("      %s\n", line)
			}
		}
	}

	fmt.Println("=========================================================")
	if allPassed {
		fmt.Println("  OVERALL: PASS ✓  — address checks out")
		fmt.Println("=========================================================")
		os.Exit(0)
	} else {
		fmt.Println("  OVERALL: FAIL ✗  — one or more checks failed")
		fmt.Println("=========================================================")
		os.Exit(1)
	}
}

// diagnoseAddress runs the checks for an existing address. Checks that
// depend on an earlier failure are skipped rather than reported as
// cascading failures.
func diagnoseAddress(ctx context.Context, engine *pattern.Engine, cache *pattern.Cache, verifier enrich.Verifier, email string) []checkResult {
	var results []checkResult

	results = append(results, checkSyntax(email))

	domRes, mailDomain := checkMailDomain(email)
	results = append(results, domRes)
	if mailDomain == "" {
		return results
	}

	_, infRes := checkInference(ctx, engine, cache, mailDomain, "")
	results = append(results, infRes)

	if verifier != nil {
		results = append(results, checkDeliverable(ctx, verifier, strings.ToLower(strings.TrimSpace(email))))
	}
	return results
}

// diagnoseContact runs the checks for a contact with no known address:
// clean the name, resolve the domain, infer the convention, render
// candidates, and optionally verify the best one.
func diagnoseContact(ctx context.Context, engine *pattern.Engine, cache *pattern.Cache, verifier enrich.Verifier, first, last, domFlag, company string) []checkResult {
	var results []checkResult

	parts := names.Standardize(first, last)
	results = append(results, checkNameUsable(first, last, parts))

	contact := domain.Contact{FirstName: first, LastName: last, Company: company, Domain: domFlag}
	resolveRes, resolved := checkDomainResolves(contact)
	results = append(results, resolveRes)
	if !parts.Usable() || resolved == "" {
		return results
	}

	rec, infRes := checkInference(ctx, engine, cache, resolved, company)
	results = append(results, infRes)

	candRes, candidates := checkCandidates(enrich.NewGenerator(0), parts, rec)
	results = append(results, candRes)

	if verifier != nil && len(candidates) > 0 {
		results = append(results, checkDeliverable(ctx, verifier, candidates[0].Address()))
	}
	return results
}

func checkSyntax(email string) checkResult {
	start := time.Now()
	name := "Address syntax"

	cleaned := strings.ToLower(strings.TrimSpace(email))
	if !domain.ValidEmail(cleaned) {
		return checkResult{Name: name, Passed: false, Detail: fmt.Sprintf("%q fails the address shape check", email), Elapsed: time.Since(start)}
	}
	return checkResult{Name: name, Passed: true, Detail: cleaned, Elapsed: time.Since(start)}
}

func checkMailDomain(email string) (checkResult, string) {
	start := time.Now()
	name := "Mail domain shape"

	_, raw, found := strings.Cut(strings.ToLower(email), "@")
	if !found {
		return checkResult{Name: name, Passed: false, Detail: "address has no domain part", Elapsed: time.Since(start)}, ""
	}
	cleaned := domain.CleanDomain(raw)
	if cleaned == "" {
		return checkResult{Name: name, Passed: false, Detail: fmt.Sprintf("%q is not a plausible mail domain", raw), Elapsed: time.Since(start)}, ""
	}
	return checkResult{Name: name, Passed: true, Detail: cleaned, Elapsed: time.Since(start)}, cleaned
}

func checkNameUsable(first, last string, parts domain.NameParts) checkResult {
	start := time.Now()
	name := "Name survives cleaning"

	if !parts.Usable() {
		return checkResult{Name: name, Passed: false, Detail: fmt.Sprintf("%q %q cleans to nothing email-safe", first, last), Elapsed: time.Since(start)}
	}
	detail := fmt.Sprintf("first=%s last=%s", parts.First, parts.Last)
	if len(parts.LastVariants) > 1 {
		detail += fmt.Sprintf(" variants=%s", strings.Join(parts.LastVariants, ","))
	}
	return checkResult{Name: name, Passed: true, Detail: detail, Elapsed: time.Since(start)}
}

func checkDomainResolves(c domain.Contact) (checkResult, string) {
	start := time.Now()
	name := "Company domain resolves"

	resolved := c.ResolveDomain()
	if resolved == "" {
		return checkResult{Name: name, Passed: false, Detail: "no source field yields a plausible mail domain", Elapsed: time.Since(start)}, ""
	}
	return checkResult{Name: name, Passed: true, Detail: resolved, Elapsed: time.Since(start)}, resolved
}

// checkInference reports how the engine settles the domain's convention.
// It cannot fail once the domain is clean; its value is the detail line,
// which shows whether the answer came from the cache or was derived on
// the spot, and through which mailbox domain candidates would route.
func checkInference(ctx context.Context, engine *pattern.Engine, cache *pattern.Cache, dom, company string) (domain.DomainPatternRecord, checkResult) {
	start := time.Now()
	name := fmt.Sprintf("Pattern inference for %s", dom)

	source := "derived"
	if _, ok := cache.Get(dom); ok {
		source = "cache"
	}
	rec := engine.Infer(ctx, dom, company, "")
	detail := fmt.Sprintf("pattern=%s confidence=%s mailbox_domain=%s source=%s",
		rec.Pattern, rec.Confidence, rec.MailboxDomain(), source)
	return rec, checkResult{Name: name, Passed: true, Detail: detail, Elapsed: time.Since(start)}
}

func checkCandidates(gen *enrich.Generator, parts domain.NameParts, rec domain.DomainPatternRecord) (checkResult, []domain.EmailCandidate) {
	start := time.Now()
	name := "Candidate generation"

	candidates := gen.Generate(parts, rec)
	if len(candidates) == 0 {
		return checkResult{Name: name, Passed: false, Detail: "no valid candidates rendered", Elapsed: time.Since(start)}, nil
	}

	shown := len(candidates)
	if shown > maxShownCandidates {
		shown = maxShownCandidates
	}
	addrs := make([]string, 0, shown)
	for _, cand := range candidates[:shown] {
		addrs = append(addrs, cand.Address())
	}
	detail := fmt.Sprintf("%d candidate(s), best first:\n%s", len(candidates), strings.Join(addrs, "\n"))
	return checkResult{Name: name, Passed: true, Detail: detail, Elapsed: time.Since(start)}, candidates
}

func checkDeliverable(ctx context.Context, verifier enrich.Verifier, email string) checkResult {
	start := time.Now()
	name := fmt.Sprintf("Mailbox deliverable (%s)", email)

	if verifier.Verify(ctx, email) {
		return checkResult{Name: name, Passed: true, Detail: "provider reports deliverable", Elapsed: time.Since(start)}
	}
	return checkResult{Name: name, Passed: false, Detail: "provider could not confirm delivery", Elapsed: time.Since(start)}
}

func printUsage() {
	fmt.Print(`Email address diagnostic tool

Checks a single address, or a single contact, against the pattern engine
and the verification provider without touching any contact file. The
pattern cache is read but never written.

Usage:
  verify-email --email ADDRESS [--config PATH]
  verify-email --first NAME --last NAME [--domain DOMAIN] [--company NAME] [--config PATH]

Examples:
  verify-email --email jane.doe@acme.com
  verify-email --first Jane --last Doe --domain acme.com
  verify-email --first Jane --last Doe --company "Acme Corp"

Environment:
  NEVERBOUNCE_API_KEY  enables the deliverability check
  HUNTER_API_KEY       enables the pattern lookup fallback
  LOG_LEVEL            debug, info, warn or error
`)
}

func flagValue(args []string, name string) string {
	for i, a := range args {
		if a == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
