package domain

// Pattern identifies a corporate mailbox naming convention. The set is
// closed; rendering an unknown pattern falls back to first.last.
type Pattern string

const (
	PatternFirstDotLast        Pattern = "first.last"
	PatternFDotLast            Pattern = "f.last"
	PatternFirstLast           Pattern = "firstlast"
	PatternFirstUnderscoreLast Pattern = "first_last"
	PatternFirstL              Pattern = "firstl"
	PatternFLast               Pattern = "flast"
	PatternLastF               Pattern = "lastf"
	PatternLast                Pattern = "last"
	PatternFirst               Pattern = "first"
	PatternLastDotFirst        Pattern = "last.first"
	PatternLDotFirst           Pattern = "l.first"
)

// AllPatterns lists every catalog pattern, most common first.
var AllPatterns = []Pattern{
	PatternFirstDotLast,
	PatternFDotLast,
	PatternFirstLast,
	PatternFirstUnderscoreLast,
	PatternFirstL,
	PatternFLast,
	PatternLastF,
	PatternLast,
	PatternFirst,
	PatternLastDotFirst,
	PatternLDotFirst,
}

// FallbackPatterns is the priority order tried when no external evidence
// picks a pattern, ordered by observed frequency across known companies.
var FallbackPatterns = []Pattern{
	PatternFirstDotLast,
	PatternFDotLast,
	PatternFirstLast,
	PatternFirstUnderscoreLast,
	PatternFirstL,
}

// Render produces the local part for the given cleaned name parts.
// Inputs may be single characters; initial-based patterns use index 0.
func (p Pattern) Render(first, last string) string {
	switch p {
	case PatternFirstDotLast:
		return first + "." + last
	case PatternFDotLast:
		return initial(first) + "." + last
	case PatternFirstLast:
		return first + last
	case PatternFirstUnderscoreLast:
		return first + "_" + last
	case PatternFirstL:
		return first + initial(last)
	case PatternFLast:
		return initial(first) + last
	case PatternLastF:
		return last + initial(first)
	case PatternLast:
		return last
	case PatternFirst:
		return first
	case PatternLastDotFirst:
		return last + "." + first
	case PatternLDotFirst:
		return initial(last) + "." + first
	}
	return first + "." + last
}

// UsesLast reports whether rendering this pattern involves the last name.
func (p Pattern) UsesLast() bool {
	return p != PatternFirst
}

// DegradesWithoutLast reports whether the pattern falls back to a bare
// first name when the surname is only the sentinel. Patterns that embed
// the full surname (first.last, firstlast, first_last) still render with
// the sentinel so the address keeps its shape.
func (p Pattern) DegradesWithoutLast() bool {
	if !p.UsesLast() {
		return false
	}
	switch p {
	case PatternFirstDotLast, PatternFirstLast, PatternFirstUnderscoreLast:
		return false
	}
	return true
}

// Valid reports whether p is one of the catalog patterns.
func (p Pattern) Valid() bool {
	for _, known := range AllPatterns {
		if p == known {
			return true
		}
	}
	return false
}

func initial(s string) string {
	if s == "" {
		return ""
	}
	return s[:1]
}

// PatternConfidence grades how a domain's pattern was established.
type PatternConfidence string

const (
	// ConfidenceKnown comes from the curated known-company table or a
	// prior persisted resolution.
	ConfidenceKnown PatternConfidence = "known"
	// ConfidenceVerified comes from an external lookup provider or from
	// detection over verified sample addresses.
	ConfidenceVerified PatternConfidence = "verified"
	// ConfidenceInferred comes from industry heuristics.
	ConfidenceInferred PatternConfidence = "inferred"
	// ConfidenceDefault is the catalog default with no supporting evidence.
	ConfidenceDefault PatternConfidence = "default"
)

// DomainPatternRecord is one learned fact: the mailbox convention for a
// domain, plus any regional subdomains discovered along the way. Records
// are created by the inference engine and owned by the pattern cache.
type DomainPatternRecord struct {
	Domain            string             `json:"domain"`
	Pattern           Pattern            `json:"pattern"`
	Confidence        PatternConfidence  `json:"confidence"`
	RegionalDomains   map[string]Pattern `json:"regional_domains,omitempty"`
	RecommendedDomain string             `json:"recommended_domain,omitempty"`
}

// MailboxDomain returns the domain candidates should be generated on:
// the recommended regional domain when one was discovered, else the
// record's own domain.
func (r DomainPatternRecord) MailboxDomain() string {
	if r.RecommendedDomain != "" {
		return r.RecommendedDomain
	}
	return r.Domain
}
