// Package report renders the per-client export file. Which encoding a
// client gets is a declared lookup, not string sniffing scattered through
// the write path: clients with a configured file prefix receive the
// epoch-timestamp CSV, everyone else a labeled spreadsheet.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xuri/excelize/v2"

	"github.com/MVCVLLVN/reconciler/pkg/models"
	"github.com/MVCVLLVN/reconciler/pkg/timewindow"
)

// Format selects the output encoding for a client.
type Format int

const (
	FormatSpreadsheet Format = iota
	FormatEpochCSV
)

// SheetName is the single sheet written into spreadsheet exports.
const SheetName = "Data"

const outputLayout = "2006-01-02 15:04:05"

// Header is the projected column set, in the order consumers expect it.
var Header = []string{
	"external_id", "client_order_id", "client_name", "currency_name",
	"created_at", "accepted_at", "amount", "overall_commission",
	"status_name", "transaction_type", "comment", "accepted_amount",
}

// FormatFor resolves a client's encoding from the prefix table.
func FormatFor(clientName string, prefixes map[string]string) Format {
	if _, ok := prefixes[clientName]; ok {
		return FormatEpochCSV
	}
	return FormatSpreadsheet
}

// Writer persists windowed records into the output directory.
type Writer struct {
	dir      string
	prefixes map[string]string
	logger   *log.Logger
}

// NewWriter builds a writer rooted at dir. prefixes maps the display names
// of the epoch/CSV client group to their report file prefixes.
func NewWriter(dir string, prefixes map[string]string, logger *log.Logger) *Writer {
	return &Writer{dir: dir, prefixes: prefixes, logger: logger}
}

// Write produces one export file for the client and returns its path. An
// empty path with a nil error means the write was skipped: nothing to
// export, an unresolvable client id, or rows missing their parsed
// timestamps. I/O failures are returned and end the client's run.
// Re-running for the same window overwrites the previous file.
func (w *Writer) Write(records []models.Transaction, clientName string, win timewindow.Window) (string, error) {
	if len(records) == 0 {
		w.logger.Warn("nothing to write", "client_name", clientName)
		return "", nil
	}
	if records[0].ClientID == 0 {
		w.logger.Error("cannot determine client id from records", "client_name", clientName)
		return "", nil
	}
	for _, rec := range records {
		if rec.CreatedTime == nil || rec.AcceptedTime == nil {
			w.logger.Error("record is missing parsed timestamps", "client_name", clientName, "external_id", rec.ExternalID)
			return "", nil
		}
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	format := FormatFor(clientName, w.prefixes)

	var path string
	var err error
	switch format {
	case FormatEpochCSV:
		path = filepath.Join(w.dir, fmt.Sprintf("%s %s.csv", w.prefixes[clientName], win.DateRange()))
		err = w.writeCSV(path, records)
	default:
		path = filepath.Join(w.dir, fmt.Sprintf("%s_%s_2024.xlsx", clientName, win.DateRange()))
		err = w.writeXLSX(path, records)
	}
	if err != nil {
		return "", err
	}

	w.logger.Info("report written", "client_name", clientName, "path", path, "rows", len(records))
	return path, nil
}

func (w *Writer) writeCSV(path string, records []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range records {
		created, accepted := nudged(rec)
		row := []string{
			rec.ExternalID,
			rec.ClientOrderID,
			rec.ClientName,
			rec.CurrencyName,
			strconv.FormatInt(created.Unix(), 10),
			strconv.FormatInt(accepted.Unix(), 10),
			formatAmount(rec.Amount),
			rec.OverallCommission.String(),
			rec.StatusName,
			rec.TransactionType,
			rec.Comment,
			formatAmount(rec.AcceptedAmount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func (w *Writer) writeXLSX(path string, records []models.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range records {
		created, accepted := nudged(rec)
		row := []interface{}{
			rec.ExternalID,
			rec.ClientOrderID,
			rec.ClientName,
			rec.CurrencyName,
			created.Format(outputLayout),
			accepted.Format(outputLayout),
			rec.Amount,
			rec.OverallCommission.InexactFloat64(),
			rec.StatusName,
			rec.TransactionType,
			rec.Comment,
			rec.AcceptedAmount,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}
	return nil
}

// nudged shifts both timestamps forward by one second. The downstream
// settlement tool treats the export boundary as exclusive, so rows written
// exactly on a day boundary would otherwise land in the wrong day.
func nudged(rec models.Transaction) (time.Time, time.Time) {
	return rec.CreatedTime.Add(time.Second), rec.AcceptedTime.Add(time.Second)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
