package enrich

import (
	"github.com/ignite/email-enrich/internal/domain"
)

// Generator turns cleaned name parts and an inferred pattern record into
// an ordered list of address candidates. Output is deterministic and pure:
// the chosen pattern is tried across every surname variant before the
// fallback patterns, so the search order is (pattern0, variant0),
// (pattern0, variant1), ..., (pattern1, variant0), and so on.
type Generator struct {
	maxCandidates int
}

// NewGenerator creates a generator capped at maxCandidates addresses per
// contact to bound external verification volume. Non-positive caps get
// the default of 15, enough for the chosen pattern across all surname
// variants plus the full fallback list.
func NewGenerator(maxCandidates int) *Generator {
	if maxCandidates <= 0 {
		maxCandidates = 15
	}
	return &Generator{maxCandidates: maxCandidates}
}

// Generate emits candidates on the record's mailbox domain. Duplicate
// addresses (from pattern overlap or sentinel degradation) are dropped,
// as are renders that fail the address syntax check.
func (g *Generator) Generate(parts domain.NameParts, rec domain.DomainPatternRecord) []domain.EmailCandidate {
	if !parts.Usable() {
		return nil
	}

	mailbox := rec.MailboxDomain()
	patterns := make([]domain.Pattern, 0, len(domain.FallbackPatterns)+1)
	patterns = append(patterns, rec.Pattern)
	for _, p := range domain.FallbackPatterns {
		if p != rec.Pattern {
			patterns = append(patterns, p)
		}
	}

	seen := make(map[string]struct{}, g.maxCandidates)
	out := make([]domain.EmailCandidate, 0, g.maxCandidates)
	for _, p := range patterns {
		for _, last := range parts.LastVariants {
			local := renderLocal(p, parts.First, last)
			if local == "" {
				continue
			}
			cand := domain.EmailCandidate{LocalPart: local, Domain: mailbox, Pattern: p}
			addr := cand.Address()
			if !domain.ValidEmail(addr) {
				continue
			}
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, cand)
			if len(out) >= g.maxCandidates {
				return out
			}
		}
	}
	return out
}

// renderLocal applies the sentinel rule: surname-initial patterns fall
// back to a bare first name when the contact has no real surname, while
// full-surname patterns render with the sentinel.
func renderLocal(p domain.Pattern, first, last string) string {
	if last == domain.LastNameSentinel && p.DegradesWithoutLast() {
		return first
	}
	return p.Render(first, last)
}
