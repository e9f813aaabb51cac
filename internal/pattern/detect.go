package pattern

import (
	"sort"
	"strings"

	"github.com/ignite/email-enrich/internal/domain"
)

// DetectFromContacts mines contacts that already carry a real address
// for per-domain conventions. Every catalog pattern is rendered against
// the contact's name and compared with the address local part; a
// convention needs at least two matching contacts on the same domain
// before it is trusted. Used to seed the cache from previously enriched
// exports.
func DetectFromContacts(contacts []domain.Contact) []domain.DomainPatternRecord {
	counts := make(map[string]map[domain.Pattern]int)
	for _, c := range contacts {
		email := strings.ToLower(strings.TrimSpace(c.Email))
		if !domain.ValidEmail(email) {
			continue
		}
		local, mailDomain, _ := strings.Cut(email, "@")
		first := strings.ToLower(strings.TrimSpace(c.FirstName))
		last := strings.ToLower(strings.TrimSpace(c.LastName))
		for _, p := range domain.AllPatterns {
			if p.Render(first, last) != local {
				continue
			}
			if counts[mailDomain] == nil {
				counts[mailDomain] = make(map[domain.Pattern]int)
			}
			counts[mailDomain][p]++
			break
		}
	}

	domains := make([]string, 0, len(counts))
	for d := range counts {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	var out []domain.DomainPatternRecord
	for _, d := range domains {
		best, hits := bestOf(counts[d])
		if hits < 2 {
			continue
		}
		out = append(out, domain.DomainPatternRecord{
			Domain:     d,
			Pattern:    best,
			Confidence: domain.ConfidenceVerified,
		})
	}
	return out
}

// bestOf walks the catalog in its declared order so ties resolve to the
// more common convention.
func bestOf(tally map[domain.Pattern]int) (domain.Pattern, int) {
	var best domain.Pattern
	most := 0
	for _, p := range domain.AllPatterns {
		if tally[p] > most {
			best, most = p, tally[p]
		}
	}
	return best, most
}
