package names

import (
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/ignite/email-enrich/internal/domain"
)

var (
	profileSlugRe = regexp.MustCompile(`/in/([a-zA-Z0-9-]+)`)
	trailingHexRe = regexp.MustCompile(`-[0-9a-f]{2,}$`)
	trailingNumRe = regexp.MustCompile(`-\d+$`)
	slugSuffixRe  = regexp.MustCompile(`-?(jr|sr|ii|iii|iv|phd|md|cpa|mba)$`)
	alphaTokenRe  = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// Tokens that show up in profile URLs but are never names.
var slugSkipWords = map[string]struct{}{
	"linkedin": {}, "profile": {}, "user": {}, "member": {},
	"contact": {}, "connect": {}, "view": {},
}

// SlugNames pulls lowercase first/last name guesses out of a LinkedIn
// profile URL. Trailing uniquifiers (hex codes, numbers) and credential
// suffixes are stripped from the slug first. When knownFirst is given it
// anchors the split: everything after the matching token becomes the last
// name, so "jane-van-der-berg" with knownFirst "jane" yields
// ("jane", "van-der-berg").
func SlugNames(profileURL, knownFirst string) (string, string) {
	m := profileSlugRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(profileURL)))
	if m == nil {
		return "", ""
	}
	slug := m[1]
	slug = trailingHexRe.ReplaceAllString(slug, "")
	slug = trailingNumRe.ReplaceAllString(slug, "")
	slug = slugSuffixRe.ReplaceAllString(slug, "")

	var parts []string
	for _, p := range strings.Split(slug, "-") {
		if len(p) < 2 || !alphaTokenRe.MatchString(p) {
			continue
		}
		if _, skip := slugSkipWords[p]; skip {
			continue
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "", ""
	}

	if kf := strings.ToLower(strings.TrimSpace(knownFirst)); kf != "" {
		prefix := kf
		if len(prefix) > 3 {
			prefix = prefix[:3]
		}
		found := false
		for i, p := range parts {
			if p == kf || strings.HasPrefix(p, prefix) {
				found = true
				if i+1 < len(parts) {
					return kf, strings.Join(parts[i+1:], "-")
				}
				break
			}
		}
		if !found && len(parts) >= 2 && (parts[0] == kf || len(parts[0]) >= 3) {
			return kf, strings.Join(parts[1:], "-")
		}
	}

	if len(parts) >= 2 {
		return parts[0], strings.Join(parts[1:], "-")
	}
	return parts[0], ""
}

// ValidateWithProfile cross-checks cleaned name parts against the
// contact's LinkedIn slug. Missing parts are filled in; an existing part
// is replaced only when the profile's version is plausibly the same name
// and more complete, so a stranger's profile never overwrites the record.
func ValidateWithProfile(parts domain.NameParts, profileURL string) domain.NameParts {
	slugFirst, slugLast := SlugNames(profileURL, parts.First)
	if slugFirst == "" && slugLast == "" {
		return parts
	}

	first := parts.First
	last := parts.Last
	if last == domain.LastNameSentinel {
		// The sentinel is a placeholder, not evidence of a surname.
		last = ""
	}

	if slugFirst != "" {
		if first == "" {
			first = slugFirst
		} else if len(slugFirst) > len(first) && plausiblySame(slugFirst, first) {
			first = slugFirst
		}
	}
	if slugLast != "" {
		ns, nl := squashName(slugLast), squashName(last)
		if last == "" {
			last = slugLast
		} else if ns != nl && plausiblySame(ns, nl) &&
			(len(slugLast) > len(last) || strings.Contains(slugLast, "-")) {
			last = slugLast
		}
	}

	if first == "" {
		return domain.NameParts{}
	}
	return buildParts(first, last)
}

// plausiblySame guards against adopting a profile name that belongs to a
// different person: prefix relationships ("jon"/"jonathan") and small edit
// distances pass, everything else is rejected.
func plausiblySame(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.HasPrefix(a, b) || strings.HasPrefix(b, a) {
		return true
	}
	return levenshtein.ComputeDistance(a, b) <= 2
}

func squashName(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.ReplaceAll(s, "-", "")
}
