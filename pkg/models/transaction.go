package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type tags, set by the extraction query depending on which
// source table contributed the row.
const (
	TypeInvoice  = "invoice"
	TypeWithdraw = "withdraw"
)

// Window column names a client may be configured to reconcile on.
const (
	ColumnCreatedAt  = "created_at"
	ColumnAcceptedAt = "accepted_at"
)

// Transaction is one row of the invoice/withdraw union. The raw timestamps
// stay strings as delivered by the store (toString in the query) until the
// time filter parses them; CreatedTime/AcceptedTime hold the parsed,
// offset-adjusted values from that point on.
type Transaction struct {
	ExternalID        string  `ch:"external_id"`
	ClientOrderID     string  `ch:"client_order_id"`
	ClientID          int64   `ch:"client_id"`
	CurrencyID        int64   `ch:"currency_id"`
	CreatedAt         string  `ch:"created_at"`
	AcceptedAt        string  `ch:"accepted_at"`
	Amount            float64 `ch:"amount"`
	AcceptedAmount    float64 `ch:"accepted_amount"`
	ServiceCommission float64 `ch:"service_commission"`
	MidCommission     float64 `ch:"mid_commission"`
	StatusID          int32   `ch:"status_id"`
	Comment           string  `ch:"comment"`
	Kind              string  `ch:"type"`
	LedgerNote        string  `ch:"provodka"`
	MidID             int64   `ch:"mid_id"`
	ClientName        string  `ch:"client_name"`
	CurrencyName      string  `ch:"currency_name"`
	TransactionType   string  `ch:"transaction_type"`

	// Derived by the pipeline, never read from the store.
	StatusName        string          `ch:"-"`
	OverallCommission decimal.Decimal `ch:"-"`
	CreatedTime       *time.Time      `ch:"-"`
	AcceptedTime      *time.Time      `ch:"-"`
	Index             int             `ch:"-"`
}

// RawTimestamp returns the unparsed value of the given window column.
func (t *Transaction) RawTimestamp(column string) (string, bool) {
	switch column {
	case ColumnCreatedAt:
		return t.CreatedAt, true
	case ColumnAcceptedAt:
		return t.AcceptedAt, true
	}
	return "", false
}

// EventTime returns the parsed value of the given window column, nil when
// the raw value could not be parsed.
func (t *Transaction) EventTime(column string) (*time.Time, bool) {
	switch column {
	case ColumnCreatedAt:
		return t.CreatedTime, true
	case ColumnAcceptedAt:
		return t.AcceptedTime, true
	}
	return nil, false
}
