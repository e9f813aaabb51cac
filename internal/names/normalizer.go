// Package names turns messy human name fields into email-safe name parts.
//
// Cleaning is an ordered rule pipeline. Each rule operates on the output of
// the previous one and stays independently testable, since every rule exists
// to absorb one specific kind of dirt seen in real contact exports.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ignite/email-enrich/internal/domain"
)

var honorifics = map[string]struct{}{
	"mr": {}, "ms": {}, "mrs": {}, "dr": {}, "prof": {},
	"miss": {}, "sir": {}, "madam": {}, "lady": {}, "lord": {},
}

var credentialSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {},
	"phd": {}, "md": {}, "mba": {}, "cpa": {},
}

var (
	whitespaceRunRe     = regexp.MustCompile(`\s+`)
	parentheticalRe     = regexp.MustCompile(`\([^)]*\)`)
	doubleQuotedRe      = regexp.MustCompile(`"([^"]+)"`)
	singleQuotedRe      = regexp.MustCompile(`'([^']+)'`)
	strayQuoteRe        = regexp.MustCompile(`["']`)
	leadingNonLetterRe  = regexp.MustCompile(`^[^a-zA-Z\s'\-]+`)
	trailingNonLetterRe = regexp.MustCompile(`[^a-zA-Z\s'\-]+$`)
)

type cleanRule struct {
	name  string
	apply func(string) string
}

// cleanPipeline is ordered: separators are cut before asides are stripped,
// honorifics go before initials so "Dr. J. Smith" loses both tokens.
var cleanPipeline = []cleanRule{
	{"collapse_whitespace", collapseWhitespace},
	{"truncate_at_separators", truncateAtSeparators},
	{"strip_asides", stripAsides},
	{"unwrap_quotes", unwrapQuotes},
	{"drop_leading_honorific", dropLeadingHonorific},
	{"drop_initials", dropInitials},
	{"drop_credential_suffixes", dropCredentialSuffixes},
	{"trim_edge_characters", trimEdgeCharacters},
}

// Clean runs one raw name field through the full pipeline and returns the
// email-safe form: apostrophes and hyphens removed, lowercased. Interior
// spaces survive; a multi-word result means the field held several words
// worth keeping.
func Clean(raw string) string {
	name := raw
	for _, rule := range cleanPipeline {
		name = rule.apply(name)
		if name == "" {
			return ""
		}
	}
	name = collapseWhitespace(name)
	if name == "" {
		return ""
	}
	return emailSafe(name)
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRunRe.ReplaceAllString(s, " "))
}

// Credentials and titles typically follow a comma, semicolon, or pipe
// ("Meinen, MS, CISSP"); everything after the first separator goes.
func truncateAtSeparators(s string) string {
	for _, sep := range []string{",", ";", "|"} {
		if i := strings.Index(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// Parenthesized asides are nicknames: "Anthony (Tony)" keeps Anthony.
func stripAsides(s string) string {
	return strings.TrimSpace(parentheticalRe.ReplaceAllString(s, ""))
}

// Quoted substrings are unwrapped rather than removed, then any stray
// quote characters go: `Gennaro "Jerry"` becomes "Gennaro Jerry" and
// "D'Alterio" becomes "DAlterio".
func unwrapQuotes(s string) string {
	s = doubleQuotedRe.ReplaceAllString(s, "$1")
	s = singleQuotedRe.ReplaceAllString(s, "$1")
	s = strayQuoteRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func dropLeadingHonorific(s string) string {
	words := strings.Fields(s)
	if len(words) > 0 && isHonorific(words[0]) {
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// Single alphabetic tokens, with or without a trailing period, are middle
// initials: "J. Prajzner" keeps Prajzner, "Angela C." keeps Angela.
func dropInitials(s string) string {
	var kept []string
	for _, word := range strings.Fields(s) {
		core := []rune(strings.TrimRight(word, "."))
		if len(core) == 1 && unicode.IsLetter(core[0]) {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

func dropCredentialSuffixes(s string) string {
	var kept []string
	for _, word := range strings.Fields(s) {
		core := strings.TrimRight(strings.ToLower(word), ".")
		if _, ok := credentialSuffixes[core]; ok {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}

// Leading and trailing non-letters are stripped conservatively; interior
// characters are never touched to avoid truncating valid names.
func trimEdgeCharacters(s string) string {
	s = leadingNonLetterRe.ReplaceAllString(s, "")
	s = trailingNonLetterRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func emailSafe(s string) string {
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToLower(s)
}

func isHonorific(token string) bool {
	core := strings.TrimRight(strings.ToLower(strings.TrimSpace(token)), ".")
	_, ok := honorifics[core]
	return ok
}

// Standardize cleans both name fields and repairs the common data-entry
// mistakes: a full name crammed into one field gets split at the first
// space, and an honorific sitting in the first-name column means the real
// first name is in the other field. A contact whose first name does not
// survive cleaning yields unusable parts and short-circuits downstream.
func Standardize(firstRaw, lastRaw string) domain.NameParts {
	first := Clean(firstRaw)
	last := Clean(lastRaw)

	switch {
	case len(first) < 2 && strings.Contains(last, " "):
		first, last = splitFullName(last)
	case len(last) < 2 && strings.Contains(first, " "):
		first, last = splitFullName(first)
	case isHonorific(firstRaw) && len(last) > 1:
		first, last = last, ""
	}

	if first == "" {
		return domain.NameParts{}
	}
	return buildParts(first, last)
}

func splitFullName(full string) (string, string) {
	parts := strings.Fields(full)
	return parts[0], strings.Join(parts[1:], " ")
}

func buildParts(first, last string) domain.NameParts {
	if last == "" {
		last = domain.LastNameSentinel
	}
	return domain.NameParts{First: first, Last: last, LastVariants: lastVariants(last)}
}

// lastVariants orders the surname forms the generator should try. For a
// multi-word surname that is hyphenated, then concatenated, then the
// verbatim space-stripped form, deduplicated but order-preserving.
func lastVariants(last string) []string {
	if !strings.Contains(last, " ") {
		return []string{last}
	}
	words := strings.Fields(last)
	candidates := []string{
		strings.Join(words, "-"),
		strings.Join(words, ""),
		strings.ReplaceAll(last, " ", ""),
	}
	var out []string
	seen := make(map[string]struct{}, len(candidates))
	for _, v := range candidates {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
