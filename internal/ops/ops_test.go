package ops

import (
	"context"
	"io"
	"testing"

	"github.com/ritamzico/graphcypher/internal/graphstore"
	"github.com/ritamzico/graphcypher/internal/record"
	"github.com/ritamzico/graphcypher/internal/schema"
	"github.com/ritamzico/graphcypher/internal/value"
)

// testGraph builds a tiny fixture shared by this package's tests: three
// Person nodes (Alice, Bob, Carol) and two KNOWS edges (Alice->Bob,
// Bob->Carol), Alice also carrying an Admin label.
type testGraph struct {
	store        *graphstore.Store
	sc           *schema.Schema
	person       schema.LabelID
	admin        schema.LabelID
	knows        schema.TypeID
	name         schema.PropKeyID
	alice, bob   uint64
	carol        uint64
	ab, bc       uint64
}

func newTestGraph() *testGraph {
	sc := schema.New()
	store := graphstore.New(sc)

	person := sc.InternLabel("Person")
	admin := sc.InternLabel("Admin")
	knows := sc.InternType("KNOWS")
	name := sc.InternProp("name")

	alice := store.CreateNode([]schema.LabelID{person, admin}, map[schema.PropKeyID]value.Value{
		name: value.NewString("Alice"),
	})
	bob := store.CreateNode([]schema.LabelID{person}, map[schema.PropKeyID]value.Value{
		name: value.NewString("Bob"),
	})
	carol := store.CreateNode([]schema.LabelID{person}, map[schema.PropKeyID]value.Value{
		name: value.NewString("Carol"),
	})

	ab, _ := store.CreateEdge(knows, alice, bob, nil)
	bc, _ := store.CreateEdge(knows, bob, carol, nil)
	store.FlushPending()

	return &testGraph{
		store: store, sc: sc,
		person: person, admin: admin, knows: knows, name: name,
		alice: alice, bob: bob, carol: carol, ab: ab, bc: bc,
	}
}

// sliceOp wraps a fixed slice of records as a source Operator, for tests
// that don't need a real scan.
type sliceOp struct {
	rows []record.Record
	pos  int
}

func (o *sliceOp) Open(ctx context.Context) error { o.pos = 0; return nil }
func (o *sliceOp) Next(ctx context.Context) (record.Record, error) {
	if o.pos >= len(o.rows) {
		return record.Record{}, io.EOF
	}
	r := o.rows[o.pos]
	o.pos++
	return r, nil
}
func (o *sliceOp) Reset(ctx context.Context) error { o.pos = 0; return nil }
func (o *sliceOp) Close() error                    { return nil }

func oneNodeRecord(id uint64) record.Record {
	r := record.New(1)
	r.Set(0, value.NewNodeRef(id))
	return r
}

func bgCtx() context.Context { return context.Background() }

func drain(t *testing.T, op Operator) []record.Record {
	t.Helper()
	ctx := context.Background()
	if err := op.Open(ctx); err != nil {
		t.Fatalf("Open: %v", err)
	}
	var out []record.Record
	for {
		rec, err := op.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, rec)
	}
	return out
}
