// Package normalize repairs and enriches raw order rows before windowing.
// The step order is significant: amounts are backfilled before anything
// reads them, statuses are translated before the success filter ever sees a
// label, and deduplication keeps the first occurrence in fetch order.
package normalize

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/MVCVLLVN/reconciler/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// Normalize returns a copy of records with amounts repaired, statuses
// translated, the combined commission computed, duplicates dropped by
// external id, rows sorted by the client's window column and the index
// recomputed as a dense 0..n-1 sequence. An unknown window column is fatal
// for the client's run.
func Normalize(records []models.Transaction, statuses map[int32]string, windowColumn string) ([]models.Transaction, error) {
	if windowColumn != models.ColumnCreatedAt && windowColumn != models.ColumnAcceptedAt {
		return nil, fmt.Errorf("unknown window column %q", windowColumn)
	}

	out := make([]models.Transaction, 0, len(records))
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		if rec.TransactionType == models.TypeWithdraw || rec.Amount == 0 {
			rec.Amount = rec.AcceptedAmount
		}

		rec.StatusName = models.TranslateStatus(rec.StatusID, statuses)
		rec.OverallCommission = OverallCommission(rec.MidCommission, rec.ServiceCommission, rec.AcceptedAmount)

		if _, dup := seen[rec.ExternalID]; dup {
			continue
		}
		seen[rec.ExternalID] = struct{}{}
		out = append(out, rec)
	}

	// The raw timestamps are "YYYY-MM-DD hh:mm:ss[.frac]" strings, so the
	// lexicographic order is the chronological one.
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].RawTimestamp(windowColumn)
		b, _ := out[j].RawTimestamp(windowColumn)
		return a < b
	})

	for i := range out {
		out[i].Index = i
	}
	return out, nil
}

// OverallCommission is (mid + service) percent of the accepted amount,
// rounded to 3 decimal places. Decimal arithmetic keeps the rounding exact
// for values float64 cannot represent.
func OverallCommission(mid, service, acceptedAmount float64) decimal.Decimal {
	rate := decimal.NewFromFloat(mid).Add(decimal.NewFromFloat(service))
	return rate.Mul(decimal.NewFromFloat(acceptedAmount)).Div(hundred).Round(3)
}
