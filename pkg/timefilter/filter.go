// Package timefilter narrows normalized rows to the reconciliation window
// and to successful transactions, and resolves the client's display name.
package timefilter

import (
	"fmt"
	"strings"
	"time"

	"github.com/MVCVLLVN/reconciler/pkg/models"
	"github.com/MVCVLLVN/reconciler/pkg/timewindow"
)

// DefaultClientName is the sentinel used when the filtered rows disagree on
// the client's display name.
const DefaultClientName = "DEFAULT"

const timestampLayout = "2006-01-02 15:04:05"

// Apply parses and offset-shifts both timestamps, keeps rows whose window
// column falls inside the half-open window, resolves the display name and
// finally drops everything that did not succeed. Unparseable timestamps
// become nil rather than errors; only an unknown window column fails.
func Apply(records []models.Transaction, windowColumn string, win timewindow.Window, offsetHours int) ([]models.Transaction, string, error) {
	if windowColumn != models.ColumnCreatedAt && windowColumn != models.ColumnAcceptedAt {
		return nil, "", fmt.Errorf("unknown window column %q", windowColumn)
	}

	offset := time.Duration(offsetHours) * time.Hour

	windowed := make([]models.Transaction, 0, len(records))
	for _, rec := range records {
		rec.CreatedTime = shift(parseTimestamp(rec.CreatedAt), offset)
		rec.AcceptedTime = shift(parseTimestamp(rec.AcceptedAt), offset)

		ts, _ := rec.EventTime(windowColumn)
		if ts == nil || !win.Contains(*ts) {
			continue
		}
		windowed = append(windowed, rec)
	}

	name := resolveClientName(windowed)

	kept := windowed[:0]
	for _, rec := range windowed {
		if rec.StatusName == models.StatusSucceeded {
			kept = append(kept, rec)
		}
	}
	return kept, name, nil
}

// parseTimestamp truncates the sub-second fraction textually, the way the
// store stringified it, then parses what is left. Anything malformed maps
// to nil.
func parseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		raw = raw[:dot]
	}
	ts, err := time.Parse(timestampLayout, raw)
	if err != nil {
		return nil
	}
	return &ts
}

func shift(ts *time.Time, offset time.Duration) *time.Time {
	if ts == nil {
		return nil
	}
	shifted := ts.Add(offset)
	return &shifted
}

// resolveClientName returns the single distinct display name among the
// rows, or the sentinel when the data is ambiguous or empty.
func resolveClientName(records []models.Transaction) string {
	name := ""
	for _, rec := range records {
		switch {
		case name == "":
			name = rec.ClientName
		case rec.ClientName != name:
			return DefaultClientName
		}
	}
	if name == "" {
		return DefaultClientName
	}
	return name
}
