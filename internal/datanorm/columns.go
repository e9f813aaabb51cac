// Package datanorm reads and writes contact CSVs, folding the many header
// spellings exporters use into canonical contact fields. The original
// column layout is preserved so the enriched output stays recognizable
// next to its input.
package datanorm

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/pkg/logger"
)

// Canonical field keys.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldCompany   = "company"
	FieldDomain    = "domain"
	FieldEmail     = "email"
	FieldWebsite   = "website"
	FieldLinkedIn  = "linkedin"
	FieldIndustry  = "industry"
	FieldPhone     = "phone"
)

// columnAliases maps lowercased header spellings to canonical fields.
var columnAliases = map[string]string{
	"first":      FieldFirstName,
	"first name": FieldFirstName,
	"first_name": FieldFirstName,
	"fname":      FieldFirstName,

	"last":      FieldLastName,
	"last name": FieldLastName,
	"last_name": FieldLastName,
	"lname":     FieldLastName,
	"surname":   FieldLastName,

	"company":      FieldCompany,
	"company name": FieldCompany,
	"organization": FieldCompany,

	"domain":         FieldDomain,
	"company domain": FieldDomain,

	"email":         FieldEmail,
	"work email":    FieldEmail,
	"email address": FieldEmail,
	"e-mail":        FieldEmail,

	"website":         FieldWebsite,
	"web site":        FieldWebsite,
	"url":             FieldWebsite,
	"company website": FieldWebsite,

	"linkedin":         FieldLinkedIn,
	"linkedin profile": FieldLinkedIn,
	"linkedin url":     FieldLinkedIn,
	"linkedin_url":     FieldLinkedIn,

	"industry": FieldIndustry,

	"telephone":      FieldPhone,
	"phone":          FieldPhone,
	"phone number":   FieldPhone,
	"phone_number":   FieldPhone,
	"mobile":         FieldPhone,
	"cell phone":     FieldPhone,
	"work phone":     FieldPhone,
	"business phone": FieldPhone,
}

// Table is a contact CSV held with its original shape: the header and raw
// rows as read, plus the mapping from canonical fields to column indexes.
type Table struct {
	Header []string
	Rows   [][]string
	cols   map[string]int
}

// Read loads a contact CSV. Header matching is case-insensitive and
// tolerant of a UTF-8 BOM; rows shorter than the header are padded.
// The first column claiming a canonical field wins.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening contact file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading contact file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("contact file %s has no header row", path)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		field, ok := columnAliases[key]
		if !ok {
			continue
		}
		if _, claimed := cols[field]; !claimed {
			cols[field] = i
		}
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}

	logger.Info("contacts_loaded", "path", path, "rows", len(rows), "mapped_columns", len(cols))
	return &Table{Header: header, Rows: rows, cols: cols}, nil
}

// HasColumn reports whether a canonical field mapped to a source column.
func (t *Table) HasColumn(field string) bool {
	_, ok := t.cols[field]
	return ok
}

func (t *Table) field(row []string, field string) string {
	i, ok := t.cols[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Dedupe removes rows sharing a (first, last, company) key with an
// earlier row, case-insensitive, keeping the first occurrence. Returns
// the number of rows dropped.
func (t *Table) Dedupe() int {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := t.Rows[:0]
	dropped := 0
	for _, row := range t.Rows {
		key := strings.ToLower(t.field(row, FieldFirstName)) + "|" +
			strings.ToLower(t.field(row, FieldLastName)) + "|" +
			strings.ToLower(t.field(row, FieldCompany))
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.Rows = kept
	if dropped > 0 {
		logger.Info("contacts_deduplicated", "dropped", dropped, "remaining", len(t.Rows))
	}
	return dropped
}

// Contacts converts the rows into contact records, each stamped with a
// fresh ID. Row order is preserved so outcomes can be written back by
// index.
func (t *Table) Contacts() []domain.Contact {
	out := make([]domain.Contact, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, domain.Contact{
			ID:        uuid.NewString(),
			FirstName: t.field(row, FieldFirstName),
			LastName:  t.field(row, FieldLastName),
			Company:   t.field(row, FieldCompany),
			Domain:    t.field(row, FieldDomain),
			Email:     t.field(row, FieldEmail),
			Website:   t.field(row, FieldWebsite),
			LinkedIn:  t.field(row, FieldLinkedIn),
			Industry:  t.field(row, FieldIndustry),
			Phone:     t.field(row, FieldPhone),
		})
	}
	return out
}
