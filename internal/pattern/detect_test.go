package pattern

import (
	"testing"

	"github.com/ignite/email-enrich/internal/domain"
)

func TestDetectFromContacts(t *testing.T) {
	contacts := []domain.Contact{
		{FirstName: "John", LastName: "Smith", Email: "john.smith@acme.com"},
		{FirstName: "Jane", LastName: "Doe", Email: "jane.doe@acme.com"},
		{FirstName: "Sam", LastName: "Hill", Email: "shill@acme.com"},
		{FirstName: "Amy", LastName: "Wong", Email: "amy.wong@solo.com"},
		{FirstName: "Bob", LastName: "Cratchit", Email: "not-an-email"},
		{FirstName: "", LastName: "", Email: "info@acme.com"},
	}

	recs := DetectFromContacts(contacts)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1 (solo.com has a single hit, not enough)", len(recs))
	}
	rec := recs[0]
	if rec.Domain != "acme.com" {
		t.Errorf("Domain = %q, want acme.com", rec.Domain)
	}
	if rec.Pattern != domain.PatternFirstDotLast {
		t.Errorf("Pattern = %q, want first.last (2 hits beat 1 flast hit)", rec.Pattern)
	}
	if rec.Confidence != domain.ConfidenceVerified {
		t.Errorf("Confidence = %q, want verified", rec.Confidence)
	}
}

func TestDetectTieBreaksByCatalogOrder(t *testing.T) {
	contacts := []domain.Contact{
		{FirstName: "Amy", LastName: "Pond", Email: "amy.pond@tie.com"},
		{FirstName: "Rory", LastName: "Williams", Email: "rory.williams@tie.com"},
		{FirstName: "Clara", LastName: "Oswald", Email: "claraoswald@tie.com"},
		{FirstName: "Danny", LastName: "Pink", Email: "dannypink@tie.com"},
	}

	recs := DetectFromContacts(contacts)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].Pattern != domain.PatternFirstDotLast {
		t.Errorf("Pattern = %q, want first.last on a 2-2 tie", recs[0].Pattern)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	if recs := DetectFromContacts(nil); len(recs) != 0 {
		t.Errorf("got %d records for no contacts", len(recs))
	}
}
