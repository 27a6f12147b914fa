package repository

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/domain/repository"
)

// ClickHouseSink appends accepted signals to a log table. Unlike the
// file/redis backends there is no row cap here; retention is handled by
// the table TTL declared in the schema.
type ClickHouseSink struct {
	db     *sql.DB
	table  string
	closer io.Closer // owning client, closed with the sink
}

func NewClickHouseSink(db *sql.DB, table string, closer io.Closer) *ClickHouseSink {
	return &ClickHouseSink{db: db, table: table, closer: closer}
}

func (c *ClickHouseSink) Append(ctx context.Context, s *models.Signal) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (id, ts, asset, direction, entry_price, stop_loss, take_profit, rr_ratio, confidence_score, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		c.table,
	)
	_, err := c.db.ExecContext(ctx, q,
		s.ID,
		s.Timestamp,
		s.Asset,
		string(s.Direction),
		s.EntryPrice,
		s.StopLoss,
		s.TakeProfit,
		s.RRRatio,
		uint8(s.ConfidenceScore),
		string(s.Status),
	)
	if err != nil {
		return fmt.Errorf("clickhouse append: %w", err)
	}
	return nil
}

func (c *ClickHouseSink) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *ClickHouseSink) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

var _ repository.LogSink = (*ClickHouseSink)(nil)
