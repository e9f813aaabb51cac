package domain

// LastNameSentinel is substituted when a contact has no usable last name.
// Rendering still produces a deliverable-looking local part, and patterns
// that hinge on a real surname degrade to first-name-only instead.
const LastNameSentinel = "user"

// Contact is a single input record, already column-normalized by the I/O
// layer. Any of the source fields beyond the name may be blank.
type Contact struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Domain    string `json:"domain"`
	Email     string `json:"email"`
	Website   string `json:"website"`
	LinkedIn  string `json:"linkedin"`
	Industry  string `json:"industry"`
	Phone     string `json:"phone"`
}

// NameParts is the cleaned, email-safe form of a contact's name.
// First is non-empty for every contact that reaches candidate generation;
// LastVariants always holds at least one entry and is ordered by preference
// (hyphenated, concatenated, verbatim for multi-word surnames).
type NameParts struct {
	First        string   `json:"first"`
	Last         string   `json:"last"`
	LastVariants []string `json:"last_variants"`
}

// Usable reports whether the parts can drive candidate generation.
func (n NameParts) Usable() bool {
	return n.First != "" && len(n.LastVariants) > 0
}

// MultiWordLast reports whether the original surname had multiple words,
// which makes the generator try hyphenated and concatenated variants.
func (n NameParts) MultiWordLast() bool {
	return len(n.LastVariants) > 1
}

// EmailCandidate is one generated, not-yet-verified address.
type EmailCandidate struct {
	LocalPart string  `json:"local_part"`
	Domain    string  `json:"domain"`
	Pattern   Pattern `json:"pattern"`
}

// Address returns the full candidate address.
func (c EmailCandidate) Address() string {
	return c.LocalPart + "@" + c.Domain
}

// OutcomeStatus enumerates the terminal states of one contact's enrichment.
type OutcomeStatus string

const (
	// OutcomeVerifiedKnown means the address came from a known-convention
	// pattern, or was provided on the input row, and verified deliverable.
	OutcomeVerifiedKnown OutcomeStatus = "verified_known"
	// OutcomeVerifiedGenerated means a generated or provider-found address
	// verified deliverable.
	OutcomeVerifiedGenerated OutcomeStatus = "verified_generated"
	// OutcomeUnverified means no candidate verified; the best guess is
	// emitted anyway so the record is not dropped.
	OutcomeUnverified OutcomeStatus = "unverified"
	// OutcomeMissingName means nothing survived name cleaning.
	OutcomeMissingName OutcomeStatus = "missing_name"
	// OutcomeFailed means the rendered address failed the syntax check.
	OutcomeFailed OutcomeStatus = "failed"
)

// ContactOutcome is the immutable per-contact result of an enrichment run.
type ContactOutcome struct {
	ContactID   string        `json:"contact_id"`
	Email       string        `json:"email"`
	Status      OutcomeStatus `json:"status"`
	PatternUsed Pattern       `json:"pattern_used,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	NeedsReview bool          `json:"needs_review"`
}

// Delivered reports whether the outcome carries a verified address.
func (o ContactOutcome) Delivered() bool {
	return o.Status == OutcomeVerifiedKnown || o.Status == OutcomeVerifiedGenerated
}

// FinderProfile is what a person-lookup provider knows about a contact:
// a direct address plus whatever side-channel data came with it.
type FinderProfile struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}
