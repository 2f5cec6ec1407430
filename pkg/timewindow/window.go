// Package timewindow computes the day boundaries a reconciliation run
// covers. The window is half-open: rows at Start belong to the run, rows at
// End go to the next one.
package timewindow

import "time"

// Window is the [Start, End) interval a client is reconciled over.
type Window struct {
	Start time.Time
	End   time.Time
}

// Compute derives the window from the wall clock and the client's hour
// offset. The lookback is one day, widened to three on Mondays so the run
// covers the weekend gap. Both boundaries land exactly on the offset hour.
func Compute(now time.Time, offsetHours int) Window {
	lookback := 1
	if now.Weekday() == time.Monday {
		lookback = 3
	}
	from := now.AddDate(0, 0, -lookback)

	return Window{
		Start: atHour(from, offsetHours),
		End:   atHour(now, offsetHours),
	}
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

// Contains reports whether ts falls inside the half-open interval.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}

// DateRange renders the window as "dd.mm.yyyy-dd.mm.yyyy" for file names.
func (w Window) DateRange() string {
	const layout = "02.01.2006"
	return w.Start.Format(layout) + "-" + w.End.Format(layout)
}
