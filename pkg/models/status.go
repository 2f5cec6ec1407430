package models

// StatusSucceeded is the only label the time filter lets through.
const StatusSucceeded = "succeeded"

// DailyStatuses maps the store's integer status codes to the labels used by
// the daily reconciliation exports.
var DailyStatuses = map[int32]string{
	2:  "in processing",
	3:  "failed",
	4:  StatusSucceeded,
	8:  "failed - our fault",
	10: "cancelled",
	11: "expired",
	12: "zeroed out",
	13: "cancelled before bank details",
}

// AdHocStatuses is the variant used by the one-off SLA report. It disagrees
// with DailyStatuses only on code 12; both are kept until the owning team
// settles which one is authoritative.
var AdHocStatuses = map[int32]string{
	2:  "in processing",
	3:  "failed",
	4:  StatusSucceeded,
	8:  "failed - our fault",
	10: "cancelled",
	11: "expired",
	12: "reversed",
	13: "cancelled before bank details",
}

// TranslateStatus resolves a status code against the given table. Unknown
// codes yield the empty string, never an error.
func TranslateStatus(code int32, table map[int32]string) string {
	return table[code]
}
