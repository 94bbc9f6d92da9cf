package procedure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

func TestLookupFindsBuiltins(t *testing.T) {
	r := New()
	p, ok := r.Lookup("db.labels")
	require.True(t, ok)
	assert.Equal(t, []Output{{Name: "label", Kind: value.String}}, p.Outputs)
}

func TestLookupIsCaseSensitive(t *testing.T) {
	r := New()
	_, ok := r.Lookup("DB.LABELS")
	assert.False(t, ok)
}

func TestDBLabelsStepsEveryInternedLabel(t *testing.T) {
	sc := schema.New()
	sc.InternLabel("Person")
	sc.InternLabel("Company")

	r := New()
	p, _ := r.Lookup("db.labels")
	inst, err := p.Call(sc, nil)
	require.NoError(t, err)

	row, ok, err := inst.Step()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Person", row[0].Str())

	row, ok, err = inst.Step()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Company", row[0].Str())

	_, ok, err = inst.Step()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDBLabelsRejectsArguments(t *testing.T) {
	sc := schema.New()
	r := New()
	p, _ := r.Lookup("db.labels")
	_, err := p.Call(sc, []value.Value{value.NewInt(1)})
	assert.Error(t, err)
}

func TestResetRewindsStream(t *testing.T) {
	sc := schema.New()
	sc.InternType("KNOWS")
	r := New()
	p, _ := r.Lookup("db.relationshipTypes")
	inst, err := p.Call(sc, nil)
	require.NoError(t, err)

	_, ok, _ := inst.Step()
	require.True(t, ok)
	_, ok, _ = inst.Step()
	require.False(t, ok)

	require.NoError(t, inst.Reset())
	row, ok, _ := inst.Step()
	require.True(t, ok)
	assert.Equal(t, "KNOWS", row[0].Str())
}

func TestDBIndexesListsLabelAndProperty(t *testing.T) {
	sc := schema.New()
	label := sc.InternLabel("Person")
	prop := sc.InternProp("name")
	_, err := sc.CreateIndex(label, prop)
	require.NoError(t, err)

	r := New()
	p, _ := r.Lookup("db.indexes")
	inst, err := p.Call(sc, nil)
	require.NoError(t, err)

	row, ok, err := inst.Step()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Person", row[0].Str())
	assert.Equal(t, "name", row[1].Str())
}
