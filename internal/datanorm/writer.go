package datanorm

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/pkg/logger"
)

// Appended output columns. The canonical email and phone columns are
// rewritten in place when the input carried them, appended otherwise.
const (
	colEmailStatus = "email_status"
	colPatternUsed = "pattern_used"
	colNeedsReview = "needs_review"
)

// EnrichedName derives the output stem from the input stem: " - ENRICHED"
// is appended unless the name already carries it (re-running on an
// enriched file only version-bumps).
func EnrichedName(stem string) string {
	if strings.Contains(strings.ToUpper(stem), "ENRICHED") {
		return stem
	}
	return stem + " - ENRICHED"
}

func versionedName(base, ext string, attempt int) string {
	if attempt == 0 {
		return base + ext
	}
	return base + " v" + strconv.Itoa(attempt+1) + ext
}

// WriteEnriched writes the table plus one outcome per row next to the
// input file. When the target cannot be opened (typically locked by a
// spreadsheet), it bumps to " v2", " v3" and so on. Returns the path
// actually written.
func WriteEnriched(t *Table, outcomes []domain.ContactOutcome, inputPath string) (string, error) {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), ext)
	base := filepath.Join(filepath.Dir(inputPath), EnrichedName(stem))

	var lastErr error
	for attempt := 0; attempt < 20; attempt++ {
		path := versionedName(base, ext, attempt)
		f, err := os.Create(path)
		if err != nil {
			lastErr = err
			logger.Warn("enriched_output_locked", "path", path, "error", err.Error())
			continue
		}
		err = writeTable(f, t, outcomes)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return "", fmt.Errorf("writing enriched output: %w", err)
		}
		logger.Info("enriched_output_written", "path", path, "rows", len(t.Rows))
		return path, nil
	}
	return "", fmt.Errorf("creating enriched output: %w", lastErr)
}

func writeTable(f *os.File, t *Table, outcomes []domain.ContactOutcome) error {
	w := csv.NewWriter(f)

	emailIdx, hasEmail := t.cols[FieldEmail]
	phoneIdx, hasPhone := t.cols[FieldPhone]

	header := append([]string(nil), t.Header...)
	if !hasEmail {
		header = append(header, FieldEmail)
	}
	if !hasPhone {
		header = append(header, FieldPhone)
	}
	header = append(header, colEmailStatus, colPatternUsed, colNeedsReview)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		out := append([]string(nil), row...)
		if i >= len(outcomes) {
			// Interrupted run: pass the row through untouched.
			if !hasEmail {
				out = append(out, "")
			}
			if !hasPhone {
				out = append(out, "")
			}
			out = append(out, "", "", "")
			if err := w.Write(out); err != nil {
				return err
			}
			continue
		}
		o := outcomes[i]

		if hasEmail {
			if emailIdx < len(out) {
				out[emailIdx] = o.Email
			}
		} else {
			out = append(out, o.Email)
		}
		if hasPhone {
			if phoneIdx < len(out) {
				out[phoneIdx] = o.Phone
			}
		} else {
			out = append(out, o.Phone)
		}
		out = append(out, string(o.Status), string(o.PatternUsed), strconv.FormatBool(o.NeedsReview))

		if err := w.Write(out); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
