package pattern

import "github.com/ignite/email-enrich/internal/domain"

// regionalEntry pairs a concrete regional mailbox domain with its
// convention.
type regionalEntry struct {
	Domain  string
	Pattern domain.Pattern
}

// regionalPatterns lists, per base domain, the country subdomains that
// actually receive mail for the big multinationals. Bureau Veritas is
// the canonical case: nearly all US contacts resolve through
// us.bureauveritas.com even though the base domain also delivers.
// UL routes US mail through ul.com itself, so it has no entry here.
// Slice order is the discovery order used when neither us. nor usa.
// exists for a company.
var regionalPatterns = map[string][]regionalEntry{
	"bureauveritas.com": {
		{"us.bureauveritas.com", domain.PatternFirstDotLast},
		{"uk.bureauveritas.com", domain.PatternFirstDotLast},
		{"ca.bureauveritas.com", domain.PatternFirstDotLast},
		{"au.bureauveritas.com", domain.PatternFirstDotLast},
	},
	"dnvgl.com": {
		{"us.dnvgl.com", domain.PatternFirstDotLast},
		{"no.dnvgl.com", domain.PatternFirstDotLast},
		{"uk.dnvgl.com", domain.PatternFirstDotLast},
	},
	"tuvsud.com": {
		{"us.tuvsud.com", domain.PatternFirstDotLast},
		{"de.tuvsud.com", domain.PatternFirstDotLast},
		{"uk.tuvsud.com", domain.PatternFirstDotLast},
	},
	"sgs.com": {
		{"us.sgs.com", domain.PatternFirstDotLast},
		{"uk.sgs.com", domain.PatternFirstDotLast},
		{"ca.sgs.com", domain.PatternFirstDotLast},
		{"de.sgs.com", domain.PatternFirstDotLast},
	},
	"intertek.com": {
		{"us.intertek.com", domain.PatternFirstDotLast},
		{"uk.intertek.com", domain.PatternFirstDotLast},
		{"ca.intertek.com", domain.PatternFirstDotLast},
	},
	"ge.com": {
		{"us.ge.com", domain.PatternFirstDotLast},
		{"uk.ge.com", domain.PatternFirstDotLast},
		{"de.ge.com", domain.PatternFirstDotLast},
	},
	"siemens.com": {
		{"usa.siemens.com", domain.PatternFirstDotLast},
		{"uk.siemens.com", domain.PatternFirstDotLast},
		{"de.siemens.com", domain.PatternFirstDotLast},
	},
	"abb.com": {
		{"us.abb.com", domain.PatternFirstDotLast},
		{"uk.abb.com", domain.PatternFirstDotLast},
		{"de.abb.com", domain.PatternFirstDotLast},
	},
	"emerson.com": {
		{"us.emerson.com", domain.PatternFirstDotLast},
		{"uk.emerson.com", domain.PatternFirstDotLast},
	},
	"honeywell.com": {
		{"us.honeywell.com", domain.PatternFirstDotLast},
		{"uk.honeywell.com", domain.PatternFirstDotLast},
	},
}

// preferredRegional picks the regional mailbox domain the generated
// addresses should use: us. first, then usa., then the first curated
// entry.
func preferredRegional(base string, entries []regionalEntry) regionalEntry {
	for _, want := range []string{"us." + base, "usa." + base} {
		for _, e := range entries {
			if e.Domain == want {
				return e
			}
		}
	}
	return entries[0]
}
