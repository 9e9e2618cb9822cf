// Package observability implements the optional trace-event sink: a
// best-effort write of each pipeline stage's models.TraceEvent to a
// libsql/Turso-compatible table, used only for offline inspection and
// never consulted on the answer path.
package observability

import (
	"context"
	"encoding/json"

	"github.com/pranshu-dhingra/bfsi-research-agent/internal/models"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/db"
	"github.com/pranshu-dhingra/bfsi-research-agent/pkg/util"
	"github.com/rs/zerolog"
)

const createTraceTable = `
CREATE TABLE IF NOT EXISTS trace_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	agent TEXT NOT NULL,
	status TEXT NOT NULL,
	latency_ms INTEGER NOT NULL,
	occurred_at INTEGER NOT NULL,
	extra TEXT
)`

const insertTraceEvent = `
INSERT INTO trace_events (agent, status, latency_ms, occurred_at, extra)
VALUES (?, ?, ?, ?, ?)`

// TraceStore persists trace events to a Turso/libsql database. A nil
// *TraceStore is valid and Record on it is a no-op, so callers can embed
// one unconditionally and only pay the connection cost when
// TURSO_DATABASE_URL/TURSO_AUTH_TOKEN are actually configured.
type TraceStore struct {
	conn   *db.DB
	logger zerolog.Logger
}

// NewTraceStore opens a connection and ensures the trace_events table
// exists. It returns an error if the connection cannot be established;
// callers should treat that as "tracing disabled", not as a reason to
// fail the pipeline (per orchestrator.Tracer's best-effort contract).
func NewTraceStore() (*TraceStore, error) {
	logger := util.NewLogger(zerolog.ErrorLevel)

	conn, err := db.NewConnection()
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(createTraceTable); err != nil {
		conn.Close()
		return nil, err
	}

	return &TraceStore{conn: conn, logger: logger}, nil
}

// Record writes one trace event. Failures are logged, never returned or
// propagated, satisfying orchestrator.Tracer's best-effort contract.
func (t *TraceStore) Record(ctx context.Context, event models.TraceEvent) {
	if t == nil || t.conn == nil {
		return
	}

	var extra []byte
	if event.Extra != nil {
		var err error
		extra, err = json.Marshal(event.Extra)
		if err != nil {
			t.logger.Warn().Err(err).Msg("tracestore: failed to marshal extra fields")
		}
	}

	if _, err := t.conn.ExecContext(
		ctx,
		insertTraceEvent,
		event.Agent,
		string(event.Status),
		event.LatencyMS,
		event.Timestamp,
		string(extra),
	); err != nil {
		t.logger.Warn().Err(err).Str("agent", event.Agent).Msg("tracestore: failed to record trace event")
	}
}

// Close releases the underlying connection. Safe to call on a nil
// *TraceStore.
func (t *TraceStore) Close() error {
	if t == nil || t.conn == nil {
		return nil
	}
	return t.conn.Close()
}
