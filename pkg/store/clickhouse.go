// Package store is the extraction boundary: it owns the ClickHouse
// connection and the union query that turns the two order tables into the
// typed record shape the rest of the pipeline works on.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/charmbracelet/log"

	"github.com/MVCVLLVN/reconciler/pkg/models"
)

// Open parses the DSN, opens the native connection and verifies it with a
// ping. The returned connection is shared read-only across all client
// queries for the lifetime of the run.
func Open(ctx context.Context, dsn string) (driver.Conn, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse clickhouse dsn: %w", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open clickhouse connection: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse ping failed: %w", err)
	}
	return conn, nil
}

// Client fetches order rows for the reconciliation pipeline.
type Client struct {
	conn   driver.Conn
	logger *log.Logger
}

// NewClient wraps an open connection.
func NewClient(conn driver.Conn, logger *log.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

// Both halves select the same aliased column set so the union is valid:
// client and currency display names are denormalized via left joins, the
// timestamps are stringified so sub-second precision survives as text, and
// every monetary column is cast to Float64. The invoice half reports the
// requested amount (initial_amount); withdraw orders only carry the settled
// one, so it stands in for both. The accepted_at bound is BETWEEN, i.e.
// closed on both ends; the in-memory filter later applies the tighter
// half-open window.
const fetchOrdersQuery = `
	SELECT io.external_id AS external_id,
	       io.client_order_id AS client_order_id,
	       io.client_id AS client_id,
	       io.currency_id AS currency_id,
	       toString(io.created_at) AS created_at,
	       toString(io.accepted_at) AS accepted_at,
	       CAST(io.initial_amount AS Float64) AS amount,
	       CAST(io.amount AS Float64) AS accepted_amount,
	       CAST(io.service_commission AS Float64) AS service_commission,
	       CAST(io.mid_commission AS Float64) AS mid_commission,
	       io.status_id AS status_id,
	       io.comment AS comment,
	       io.type AS type,
	       io.provodka AS provodka,
	       io.mid_id AS mid_id,
	       c.name AS client_name,
	       cl.display_name AS currency_name,
	       'invoice' AS transaction_type
	FROM merch.invoice_order io
	LEFT JOIN merch.client c ON CAST(io.client_id AS Int64) = CAST(c.id AS Int64)
	LEFT JOIN merch.currency_list cl ON CAST(io.currency_id AS Int64) = CAST(cl.id AS Int64)
	WHERE io.client_id = ?
	AND io.accepted_at BETWEEN ? AND ?

	UNION ALL

	SELECT wo.external_id AS external_id,
	       wo.client_order_id AS client_order_id,
	       wo.client_id AS client_id,
	       wo.currency_id AS currency_id,
	       toString(wo.created_at) AS created_at,
	       toString(wo.accepted_at) AS accepted_at,
	       CAST(wo.amount AS Float64) AS amount,
	       CAST(wo.amount AS Float64) AS accepted_amount,
	       CAST(wo.service_commission AS Float64) AS service_commission,
	       CAST(wo.mid_commission AS Float64) AS mid_commission,
	       wo.status_id AS status_id,
	       wo.comment AS comment,
	       wo.type AS type,
	       wo.provodka AS provodka,
	       wo.mid_id AS mid_id,
	       c.name AS client_name,
	       cl.display_name AS currency_name,
	       'withdraw' AS transaction_type
	FROM merch.withdraw_order wo
	LEFT JOIN merch.client c ON CAST(wo.client_id AS Int64) = CAST(c.id AS Int64)
	LEFT JOIN merch.currency_list cl ON CAST(wo.currency_id AS Int64) = CAST(cl.id AS Int64)
	WHERE wo.client_id = ?
	AND wo.accepted_at BETWEEN ? AND ?
`

// FetchOrders returns the union of invoice and withdraw orders for one
// client whose acceptance time falls inside [start, end]. The read has no
// side effects; a query failure is the caller's signal to skip the client.
func (c *Client) FetchOrders(ctx context.Context, clientID int64, start, end time.Time) ([]models.Transaction, error) {
	c.logger.Info("fetching orders", "client", clientID, "start", start, "end", end)

	var records []models.Transaction
	err := c.conn.Select(ctx, &records, fetchOrdersQuery,
		clientID, start, end,
		clientID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders for client %d: %w", clientID, err)
	}

	c.logger.Info("orders fetched", "client", clientID, "rows", len(records))
	return records, nil
}
