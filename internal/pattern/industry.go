package pattern

import (
	"strings"

	"github.com/ignite/email-enrich/internal/domain"
)

// industryHints orders the conventions each industry favors,
// most common first. Only the first entry drives pattern selection; the
// rest document observed frequency.
var industryHints = map[string][]domain.Pattern{
	"medical":        {domain.PatternFirstDotLast, domain.PatternFDotLast, domain.PatternFirstLast},
	"technology":     {domain.PatternFirstDotLast, domain.PatternFirstLast, domain.PatternFDotLast},
	"consulting":     {domain.PatternFirstDotLast, domain.PatternFDotLast},
	"manufacturing":  {domain.PatternFirstDotLast, domain.PatternFirstLast},
	"pharmaceutical": {domain.PatternFirstDotLast, domain.PatternFDotLast},
}

// Ordered: a company matching both medical and tech keywords counts as
// medical.
var industryKeywords = []struct {
	industry string
	words    []string
}{
	{"medical", []string{"medical", "health", "pharma", "bio", "surgical", "dental", "device", "diagnostic"}},
	{"technology", []string{"tech", "software", "digital", "systems", "solutions", "data"}},
	{"consulting", []string{"consulting", "advisory", "partners", "group"}},
	{"manufacturing", []string{"manufacturing", "industrial", "corp", "inc", "company"}},
}

// IndustryFromCompany buckets a company name by keyword. Returns ""
// when nothing matches.
func IndustryFromCompany(company string) string {
	lower := strings.ToLower(company)
	for _, group := range industryKeywords {
		for _, w := range group.words {
			if strings.Contains(lower, w) {
				return group.industry
			}
		}
	}
	return ""
}

// industryPattern resolves the heuristic pattern for a contact's
// employer. An explicit industry column wins over keyword matching
// against the company name.
func industryPattern(company, industry string) (domain.Pattern, bool) {
	bucket := strings.ToLower(strings.TrimSpace(industry))
	if _, ok := industryHints[bucket]; !ok {
		bucket = IndustryFromCompany(industry)
	}
	if bucket == "" {
		bucket = IndustryFromCompany(company)
	}
	hints := industryHints[bucket]
	if len(hints) == 0 {
		return "", false
	}
	return hints[0], true
}
