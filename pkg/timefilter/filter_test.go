package timefilter

import (
	"testing"
	"time"

	"github.com/MVCVLLVN/reconciler/pkg/models"
	"github.com/MVCVLLVN/reconciler/pkg/timewindow"
)

func window(start, end string) timewindow.Window {
	const layout = "2006-01-02 15:04:05"
	s, _ := time.Parse(layout, start)
	e, _ := time.Parse(layout, end)
	return timewindow.Window{Start: s, End: e}
}

func succeeded(id, client, acceptedAt string) models.Transaction {
	return models.Transaction{
		ExternalID: id,
		ClientName: client,
		CreatedAt:  acceptedAt,
		AcceptedAt: acceptedAt,
		StatusName: models.StatusSucceeded,
	}
}

func TestApplyKeepsWindowHalfOpen(t *testing.T) {
	win := window("2024-11-18 00:00:00", "2024-11-19 00:00:00")
	records := []models.Transaction{
		succeeded("at-start", "acme", "2024-11-18 00:00:00"),
		succeeded("inside", "acme", "2024-11-18 13:45:10"),
		succeeded("at-end", "acme", "2024-11-19 00:00:00"),
		succeeded("before", "acme", "2024-11-17 23:59:59"),
	}

	kept, _, err := Apply(records, models.ColumnAcceptedAt, win, 0)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	ids := map[string]bool{}
	for _, r := range kept {
		ids[r.ExternalID] = true
	}
	if !ids["at-start"] || !ids["inside"] {
		t.Errorf("rows inside [start, end) must be kept, got %v", ids)
	}
	if ids["at-end"] || ids["before"] {
		t.Errorf("rows outside [start, end) must be dropped, got %v", ids)
	}
}

func TestApplyClockOffsetExcludes(t *testing.T) {
	// Offset 3 client: a record accepted 23:30 raw becomes 02:30 local,
	// which is before the 03:00 window start and must be excluded.
	win := window("2024-11-19 03:00:00", "2024-11-20 03:00:00")
	records := []models.Transaction{succeeded("late", "acme", "2024-11-18 23:30:00")}

	kept, _, err := Apply(records, models.ColumnAcceptedAt, win, 3)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(kept) != 0 {
		t.Fatalf("expected the shifted record to fall before the window, kept %d rows", len(kept))
	}
}

func TestApplyStripsSubsecondFraction(t *testing.T) {
	win := window("2024-11-18 00:00:00", "2024-11-19 00:00:00")
	records := []models.Transaction{succeeded("frac", "acme", "2024-11-18 10:00:00.987654")}

	kept, _, err := Apply(records, models.ColumnAcceptedAt, win, 0)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("expected 1 row, got %d", len(kept))
	}
	want := time.Date(2024, 11, 18, 10, 0, 0, 0, time.UTC)
	if kept[0].AcceptedTime == nil || !kept[0].AcceptedTime.Equal(want) {
		t.Errorf("expected truncated timestamp %v, got %v", want, kept[0].AcceptedTime)
	}
}

func TestApplyUnparseableTimestampDropsRow(t *testing.T) {
	win := window("2024-11-18 00:00:00", "2024-11-19 00:00:00")
	records := []models.Transaction{
		succeeded("bad", "acme", "not-a-date"),
		succeeded("empty", "acme", ""),
		succeeded("ok", "acme", "2024-11-18 12:00:00"),
	}

	kept, _, err := Apply(records, models.ColumnAcceptedAt, win, 0)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(kept) != 1 || kept[0].ExternalID != "ok" {
		t.Fatalf("expected only the parseable row, got %+v", kept)
	}
}

func TestApplySucceededOnly(t *testing.T) {
	win := window("2024-11-18 00:00:00", "2024-11-19 00:00:00")
	failed := succeeded("failed", "acme", "2024-11-18 09:00:00")
	failed.StatusName = "failed"
	untranslated := succeeded("raw", "acme", "2024-11-18 09:30:00")
	untranslated.StatusName = ""
	records := []models.Transaction{
		succeeded("good", "acme", "2024-11-18 08:00:00"),
		failed,
		untranslated,
	}

	kept, _, err := Apply(records, models.ColumnAcceptedAt, win, 0)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(kept) != 1 || kept[0].ExternalID != "good" {
		t.Fatalf("expected only succeeded rows, got %+v", kept)
	}
	for _, r := range kept {
		if r.StatusName != models.StatusSucceeded {
			t.Errorf("row %s leaked with status %q", r.ExternalID, r.StatusName)
		}
	}
}

func TestApplyResolvesSingleClientName(t *testing.T) {
	win := window("2024-11-18 00:00:00", "2024-11-19 00:00:00")
	records := []models.Transaction{
		succeeded("a", "acme", "2024-11-18 08:00:00"),
		succeeded("b", "acme", "2024-11-18 09:00:00"),
	}

	_, name, err := Apply(records, models.ColumnAcceptedAt, win, 0)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if name != "acme" {
		t.Errorf("expected resolved name %q, got %q", "acme", name)
	}
}

func TestApplyAmbiguousClientNameFallsBack(t *testing.T) {
	win := window("2024-11-18 00:00:00", "2024-11-19 00:00:00")
	records := []models.Transaction{
		succeeded("a", "acme", "2024-11-18 08:00:00"),
		succeeded("b", "globex", "2024-11-18 09:00:00"),
	}

	_, name, err := Apply(records, models.ColumnAcceptedAt, win, 0)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if name != DefaultClientName {
		t.Errorf("expected sentinel %q for mixed names, got %q", DefaultClientName, name)
	}
}

func TestApplyUnknownColumn(t *testing.T) {
	win := window("2024-11-18 00:00:00", "2024-11-19 00:00:00")
	_, _, err := Apply(nil, "settled_at", win, 0)
	if err == nil {
		t.Fatal("expected an error for an unknown window column")
	}
}
