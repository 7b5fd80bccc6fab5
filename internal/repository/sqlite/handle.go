package sqlite

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

// Handle is the persistence handle shared by the entity stores. Every
// statement is parameterised and runs in autocommit mode, so each write is
// its own atomic unit. Callers must fully drain and close rows before
// issuing the next statement because the pool holds a single connection.
type Handle struct {
	db      *sql.DB
	logger  *slog.Logger
	metrics *Metrics
}

// NewHandle wraps db. metrics may be nil.
func NewHandle(db *sql.DB, logger *slog.Logger, metrics *Metrics) *Handle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handle{db: db, logger: logger, metrics: metrics}
}

// Exec runs a statement that returns no rows.
func (h *Handle) Exec(ctx context.Context, table, op, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := h.db.ExecContext(ctx, query, args...)
	h.observe(ctx, table, op, start, err)
	return result, err
}

// Query runs a statement that returns rows.
func (h *Handle) Query(ctx context.Context, table, op, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := h.db.QueryContext(ctx, query, args...)
	h.observe(ctx, table, op, start, err)
	return rows, err
}

// QueryRow runs a statement expected to return at most one row.
func (h *Handle) QueryRow(ctx context.Context, table, op, query string, args ...any) *sql.Row {
	start := time.Now()
	row := h.db.QueryRowContext(ctx, query, args...)
	h.observe(ctx, table, op, start, row.Err())
	return row
}

func (h *Handle) observe(ctx context.Context, table, op string, start time.Time, err error) {
	elapsed := time.Since(start)
	if err != nil {
		h.logger.DebugContext(ctx, "statement failed", "table", table, "op", op, "duration", elapsed, "error", err)
	} else {
		h.logger.DebugContext(ctx, "statement executed", "table", table, "op", op, "duration", elapsed)
	}
	if h.metrics != nil {
		h.metrics.observe(table, op, elapsed, err)
	}
}
