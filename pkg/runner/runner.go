// Package runner drives the daily reconciliation: one pass over the
// configured clients, each isolated from the others. All collaborators
// arrive through an explicit RunContext; there is no package state.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/MVCVLLVN/reconciler/pkg/config"
	"github.com/MVCVLLVN/reconciler/pkg/models"
	"github.com/MVCVLLVN/reconciler/pkg/normalize"
	"github.com/MVCVLLVN/reconciler/pkg/report"
	"github.com/MVCVLLVN/reconciler/pkg/timefilter"
	"github.com/MVCVLLVN/reconciler/pkg/timewindow"
)

// Fetcher extracts raw order rows for one client and window. store.Client
// implements it; tests substitute fakes.
type Fetcher interface {
	FetchOrders(ctx context.Context, clientID int64, start, end time.Time) ([]models.Transaction, error)
}

// RunContext carries everything a run needs: the store handle, the client
// table and the wall clock frozen at run start.
type RunContext struct {
	Fetcher Fetcher
	Config  *config.Config
	Now     time.Time
	Logger  *log.Logger
}

// Status classifies a client's outcome.
type Status int

const (
	StatusWritten Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome is the per-client result: a written report, nothing to export,
// or a failure with its cause. Failures never propagate across clients.
type Outcome struct {
	ClientID int64
	Status   Status
	Rows     int
	Path     string
	Err      error
}

// Runner executes the reconciliation batch.
type Runner struct {
	rc RunContext
}

// New builds a Runner from the given context.
func New(rc RunContext) *Runner {
	return &Runner{rc: rc}
}

// Run wipes the output directory, then processes every configured client
// sequentially. The returned error covers only output-directory setup; all
// pipeline failures live inside the outcomes.
func (r *Runner) Run(ctx context.Context) ([]Outcome, error) {
	cfg := r.rc.Config

	if err := os.RemoveAll(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	writer := report.NewWriter(cfg.OutputDir, cfg.FilePrefixes, r.rc.Logger)

	outcomes := make([]Outcome, 0, len(cfg.Clients))
	for _, client := range cfg.Clients {
		r.rc.Logger.Info("starting reconciliation", "client", client.ID)
		outcome := r.runClient(ctx, writer, client)
		if outcome.Err != nil {
			r.rc.Logger.Error("reconciliation failed", "client", client.ID, "error", outcome.Err)
		} else {
			r.rc.Logger.Info("reconciliation finished", "client", client.ID, "status", outcome.Status.String(), "rows", outcome.Rows)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (r *Runner) runClient(ctx context.Context, writer *report.Writer, client config.ClientConfig) Outcome {
	win := timewindow.Compute(r.rc.Now, client.ClockOffsetHours)
	r.rc.Logger.Info("reconciliation window", "client", client.ID, "start", win.Start, "end", win.End)

	records, err := r.rc.Fetcher.FetchOrders(ctx, client.ID, win.Start, win.End)
	if err != nil {
		return Outcome{ClientID: client.ID, Status: StatusFailed, Err: fmt.Errorf("fetch: %w", err)}
	}
	if len(records) == 0 {
		r.rc.Logger.Warn("no data for client", "client", client.ID)
		return Outcome{ClientID: client.ID, Status: StatusEmpty}
	}

	normalized, err := normalize.Normalize(records, models.DailyStatuses, client.WindowColumn)
	if err != nil {
		return Outcome{ClientID: client.ID, Status: StatusFailed, Err: fmt.Errorf("normalize: %w", err)}
	}

	kept, clientName, err := timefilter.Apply(normalized, client.WindowColumn, win, client.ClockOffsetHours)
	if err != nil {
		return Outcome{ClientID: client.ID, Status: StatusFailed, Err: fmt.Errorf("filter: %w", err)}
	}

	path, err := writer.Write(kept, clientName, win)
	if err != nil {
		return Outcome{ClientID: client.ID, Status: StatusFailed, Err: fmt.Errorf("write: %w", err)}
	}
	if path == "" {
		return Outcome{ClientID: client.ID, Status: StatusEmpty, Rows: len(kept)}
	}
	return Outcome{ClientID: client.ID, Status: StatusWritten, Rows: len(kept), Path: path}
}
