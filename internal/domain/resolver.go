package domain

import (
	"regexp"
	"strings"
)

// Domain resolution prefers explicit evidence over derived guesses:
// the domain column, then an existing email's host, then the website,
// then the company name. Every step validates before accepting, so a
// malformed value falls through to the next source instead of winning.

var (
	domainRe     = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	emailRe      = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	schemeRe     = regexp.MustCompile(`https?://`)
	wwwPrefixRe  = regexp.MustCompile(`^www\.\s*`)
	nonAlnumRe   = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	corpSuffixRe = regexp.MustCompile(`(inc|llc|corp|corporation|company|co|ltd|limited)$`)
)

// ResolveDomain derives the contact's mail domain from whichever source
// field is available, in priority order. It returns an empty string when
// no source yields a plausible domain; callers decide the fallback.
func (c Contact) ResolveDomain() string {
	if d := CleanDomain(c.Domain); d != "" {
		return d
	}
	if parts := strings.SplitN(c.Email, "@", 2); len(parts) == 2 {
		if d := CleanDomain(parts[1]); d != "" {
			return d
		}
	}
	if d := CleanDomain(c.Website); d != "" {
		return d
	}
	return CompanyDomain(c.Company)
}

// CleanDomain sanitizes a raw domain or website value: scheme and www.
// prefix dropped, path dropped, stray dots/spaces trimmed. Values longer
// than 40 characters, with more than 3 dots, or failing the basic
// host-and-TLD shape are rejected as implausible.
func CleanDomain(val string) string {
	val = strings.ToLower(strings.TrimSpace(val))
	if val == "" {
		return ""
	}
	val = schemeRe.ReplaceAllString(val, "")
	val = wwwPrefixRe.ReplaceAllString(val, "")
	val = strings.TrimSpace(strings.SplitN(val, "/", 2)[0])
	val = strings.Trim(val, ". ")
	val = strings.ReplaceAll(val, " ", "")
	if !ValidDomain(val) {
		return ""
	}
	return val
}

// CompanyDomain guesses a domain from a company name. The plain guess
// squashes whitespace and appends .com ("Acme Corp" -> acmecorp.com).
// If that fails validation (punctuation in the name), a repaired guess
// drops punctuation and a trailing corporate suffix ("Acme, Inc." ->
// acme.com) before giving up.
func CompanyDomain(company string) string {
	company = strings.TrimSpace(company)
	if company == "" {
		return ""
	}
	plain := strings.ReplaceAll(strings.ToLower(company), " ", "")
	if d := CleanDomain(plain + ".com"); d != "" {
		return d
	}
	repaired := nonAlnumRe.ReplaceAllString(company, "")
	repaired = strings.ToLower(strings.TrimSpace(repaired))
	repaired = whitespaceRe.ReplaceAllString(repaired, "")
	repaired = corpSuffixRe.ReplaceAllString(repaired, "")
	if repaired == "" {
		return ""
	}
	return CleanDomain(repaired + ".com")
}

// ValidDomain reports whether val looks like a plausible mail domain.
func ValidDomain(val string) bool {
	if len(val) > 40 || strings.Count(val, ".") > 3 {
		return false
	}
	return domainRe.MatchString(val)
}

// ValidEmail reports whether val has credible address syntax. This is a
// shape check, not a deliverability check.
func ValidEmail(val string) bool {
	return emailRe.MatchString(val)
}
