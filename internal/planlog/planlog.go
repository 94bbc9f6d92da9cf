// Package planlog is the structured logging layer SPEC_FULL's ambient
// stack section calls for: one Info event per completed query (plan
// summary, row count, elapsed), Debug-level detail per operator pull,
// grounded on go.uber.org/zap as used across AKJUS-bsc-erigon's services
// and the *zap.Logger-dependency-injection idiom retrieved in
// other_examples' flux executor (a *zap.Logger field defaulting to
// zap.NewNop() when the caller passes nil).
package planlog

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Logger wraps a *zap.Logger with the structured fields every query-level
// event carries.
type Logger struct {
	z *zap.Logger
}

// New wraps z. A nil z becomes a no-op logger, matching the flux executor's
// "logger == nil -> zap.NewNop()" idiom.
func New(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{z: z}
}

// QueryStart logs a query's acceptance at Debug, tagged by the uuid that
// follows it through the rest of its lifecycle (SPEC_FULL's
// uuid-per-ExecutionPlan wiring).
func (l *Logger) QueryStart(id uuid.UUID, query string) {
	l.z.Debug("query start", zap.String("query_id", id.String()), zap.String("query", query))
}

// QueryComplete logs the one structured Info event per successfully
// completed query the ambient stack section requires.
func (l *Logger) QueryComplete(id uuid.UUID, planSummary string, rows int, elapsed time.Duration) {
	l.z.Info("query complete",
		zap.String("query_id", id.String()),
		zap.String("plan", planSummary),
		zap.Int("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
}

// QueryFailed logs a query that ended in error. Info, not Error: most
// failures here are client mistakes (ParseError, ValidationError) rather
// than engine faults, and Internal errors already carry their own captured
// stack via github.com/pkg/errors for post-mortem.
func (l *Logger) QueryFailed(id uuid.UUID, err error, elapsed time.Duration) {
	l.z.Info("query failed",
		zap.String("query_id", id.String()),
		zap.Error(err),
		zap.Duration("elapsed", elapsed),
	)
}

// OperatorPull logs one pull at Debug — the operator-level detail the
// ambient stack section describes, off by default under any Info-or-above
// level configuration.
func (l *Logger) OperatorPull(id uuid.UUID, operator string, producedRow bool) {
	l.z.Debug("operator pull",
		zap.String("query_id", id.String()),
		zap.String("operator", operator),
		zap.Bool("produced_row", producedRow),
	)
}

// Sugar exposes a SugaredLogger for the CLI/server glue (cmd/), which
// prefers printf-style calls over zap's structured field builders.
func (l *Logger) Sugar() *zap.SugaredLogger { return l.z.Sugar() }
