package planlog

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return New(zap.New(core)), logs
}

func TestNewWithNilZapLoggerIsNoOp(t *testing.T) {
	l := New(nil)
	assert.NotPanics(t, func() {
		l.QueryStart(uuid.New(), "MATCH (n) RETURN n")
	})
}

func TestQueryCompleteLogsAtInfoWithFields(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	id := uuid.New()
	l.QueryComplete(id, "AllNodeScan -> ProduceResults", 3, 5*time.Millisecond)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "query complete", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, id.String(), fields["query_id"])
	assert.Equal(t, int64(3), fields["rows"])
}

func TestQueryFailedLogsErrorField(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	l.QueryFailed(uuid.New(), errors.New("boom"), time.Millisecond)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}

func TestOperatorPullLogsAtDebug(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	l.OperatorPull(uuid.New(), "Filter", true)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestOperatorPullSuppressedAboveDebugLevel(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)
	l.OperatorPull(uuid.New(), "Filter", true)
	assert.Empty(t, logs.All())
}
