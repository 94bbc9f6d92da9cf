package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestDistinctSuppressesDuplicateRows(t *testing.T) {
	child := &sliceOp{rows: []record.Record{intRow(1), intRow(2), intRow(1)}}
	op := &Distinct{Child: child}
	out := drain(t, op)
	require.Len(t, out, 2)
}

func TestDistinctCollapsesTwoNulls(t *testing.T) {
	nullRow1 := record.New(1)
	nullRow1.Set(0, value.NewNull())
	nullRow2 := record.New(1)
	nullRow2.Set(0, value.NewNull())
	child := &sliceOp{rows: []record.Record{nullRow1, nullRow2}}
	op := &Distinct{Child: child}
	out := drain(t, op)
	assert.Len(t, out, 1)
}

func TestDistinctRejectsResetMidStream(t *testing.T) {
	child := &sliceOp{rows: []record.Record{intRow(1)}}
	op := &Distinct{Child: child}
	ctx := bgCtx()
	require.NoError(t, op.Open(ctx))
	_, err := op.Next(ctx)
	require.NoError(t, err)
	assert.Error(t, op.Reset(ctx))
}
